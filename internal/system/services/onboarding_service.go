/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package services

import (
	"fmt"
	"net/http"

	"github.com/wso2/identity-onboarding-flow-service/internal/onboarding/handler"
	"github.com/wso2/identity-onboarding-flow-service/internal/system/constants"
)

type OnboardingService struct {
	onboardingHandler *handler.OnboardingHandler
}

func NewOnboardingService(mux *http.ServeMux, apiBasePath string) *OnboardingService {

	instance := &OnboardingService{
		onboardingHandler: handler.NewOnboardingHandler(),
	}
	instance.RegisterRoutes(mux, apiBasePath)

	return instance
}

func (s *OnboardingService) RegisterRoutes(mux *http.ServeMux, apiBasePath string) {

	mux.HandleFunc(fmt.Sprintf("POST %s/%s/start", apiBasePath, constants.OnboardingApiPath), s.onboardingHandler.StartOnboarding)
	mux.HandleFunc(fmt.Sprintf("PUT %s/%s/answers", apiBasePath, constants.OnboardingApiPath), s.onboardingHandler.SubmitAnswer)
	mux.HandleFunc(fmt.Sprintf("GET %s/%s/status", apiBasePath, constants.OnboardingApiPath), s.onboardingHandler.GetStatus)
}

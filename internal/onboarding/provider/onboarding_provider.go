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

package provider

import (
	"github.com/wso2/identity-onboarding-flow-service/internal/onboarding/service"
)

// OnboardingProviderInterface defines the interface for the onboarding flow provider.
type OnboardingProviderInterface interface {
	GetOnboardingFlowService() service.OnboardingFlowServiceInterface
}

// OnboardingProvider is the default implementation of the OnboardingProviderInterface.
type OnboardingProvider struct{}

// NewOnboardingProvider creates a new instance of OnboardingProvider.
func NewOnboardingProvider() OnboardingProviderInterface {

	return &OnboardingProvider{}
}

// GetOnboardingFlowService returns the onboarding flow service instance.
func (op *OnboardingProvider) GetOnboardingFlowService() service.OnboardingFlowServiceInterface {

	return service.GetOnboardingFlowService()
}

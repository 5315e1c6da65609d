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

package managers

import (
	"net/http"
	"strings"

	"github.com/wso2/identity-onboarding-flow-service/internal/system/authn"
	"github.com/wso2/identity-onboarding-flow-service/internal/system/config"
	"github.com/wso2/identity-onboarding-flow-service/internal/system/services"
)

type ServiceManagerInterface interface {
	RegisterServices(apiBasePath string) error
}

type ServiceManager struct {
	mux *http.ServeMux
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux) ServiceManagerInterface {

	return &ServiceManager{
		mux: mux,
	}
}

func (sm *ServiceManager) RegisterServices(apiBasePath string) error {

	// Health probes stay outside the API base path and the auth gate.
	services.NewHealthService(sm.mux)

	apiMux := http.NewServeMux()
	services.NewOnboardingService(apiMux, apiBasePath)
	services.NewFieldCatalogService(apiMux, apiBasePath)

	var apiHandler http.Handler = apiMux
	if config.GetOFSRuntime().Config.Auth.Enabled {
		apiHandler = authn.RequireAuthentication(apiHandler)
	}

	sm.mux.Handle(apiBasePath+"/", normalizeTrailingSlash(apiHandler))

	return nil
}

// normalizeTrailingSlash trims trailing slashes so route patterns match
// consistently across clients.
func normalizeTrailingSlash(next http.Handler) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if trimmed := strings.TrimSuffix(r.URL.Path, "/"); trimmed != "" {
			r.URL.Path = trimmed
		}
		next.ServeHTTP(w, r)
	})
}

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

package handler

import (
	"net/http"

	"github.com/wso2/identity-onboarding-flow-service/internal/fields/provider"
	errors2 "github.com/wso2/identity-onboarding-flow-service/internal/system/errors"
	"github.com/wso2/identity-onboarding-flow-service/internal/system/utils"
)

// FieldCatalogHandler serves read access to a campaign's field definitions so
// a surface can render a step without driving the flow.
type FieldCatalogHandler struct{}

// NewFieldCatalogHandler creates a new instance of FieldCatalogHandler.
func NewFieldCatalogHandler() *FieldCatalogHandler {

	return &FieldCatalogHandler{}
}

// GetCampaignFields handles GET /campaigns/{campaignId}/fields.
func (fch *FieldCatalogHandler) GetCampaignFields(w http.ResponseWriter, r *http.Request) {

	campaignId := r.PathValue("campaignId")
	if campaignId == "" {
		utils.HandleError(w, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.MISSING_REQUEST_PARAMETER.Code,
			Message:     errors2.MISSING_REQUEST_PARAMETER.Message,
			Description: "campaignId path parameter is required.",
		}, http.StatusBadRequest))
		return
	}

	catalogProvider := provider.NewFieldCatalogProvider()
	catalogService := catalogProvider.GetFieldCatalogService()
	fields, err := catalogService.ListEnabledFields(campaignId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, fields)
}

// InvalidateCampaignFields handles DELETE /campaigns/{campaignId}/fields/cache.
// Authoring systems call it after writing field definitions so the rendering
// listing stops serving the previous snapshot.
func (fch *FieldCatalogHandler) InvalidateCampaignFields(w http.ResponseWriter, r *http.Request) {

	campaignId := r.PathValue("campaignId")
	if campaignId == "" {
		utils.HandleError(w, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.MISSING_REQUEST_PARAMETER.Code,
			Message:     errors2.MISSING_REQUEST_PARAMETER.Message,
			Description: "campaignId path parameter is required.",
		}, http.StatusBadRequest))
		return
	}

	catalogProvider := provider.NewFieldCatalogProvider()
	catalogProvider.GetFieldCatalogService().Invalidate(campaignId)

	w.WriteHeader(http.StatusNoContent)
}

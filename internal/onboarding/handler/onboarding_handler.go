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
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/wso2/identity-onboarding-flow-service/internal/onboarding/model"
	"github.com/wso2/identity-onboarding-flow-service/internal/onboarding/provider"
	"github.com/wso2/identity-onboarding-flow-service/internal/system/constants"
	errors2 "github.com/wso2/identity-onboarding-flow-service/internal/system/errors"
	"github.com/wso2/identity-onboarding-flow-service/internal/system/log"
	"github.com/wso2/identity-onboarding-flow-service/internal/system/utils"
)

// OnboardingHandler serves the turn-based conversational surface.
type OnboardingHandler struct{}

// NewOnboardingHandler creates a new instance of OnboardingHandler.
func NewOnboardingHandler() *OnboardingHandler {

	return &OnboardingHandler{}
}

// StartOnboarding handles POST /onboarding/start.
func (oh *OnboardingHandler) StartOnboarding(w http.ResponseWriter, r *http.Request) {

	var request model.StartFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.HandleError(w, invalidPayloadError(err, "start"))
		return
	}
	if request.CampaignId == "" || request.UserId == "" {
		utils.HandleError(w, missingParameterError("campaignId and userId are required."))
		return
	}

	flowProvider := provider.NewOnboardingProvider()
	flowService := flowProvider.GetOnboardingFlowService()
	result, err := flowService.StartOrResume(request.CampaignId, request.UserId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	logger := log.GetLogger()
	logger.Info(fmt.Sprintf("Onboarding started for campaign: %s, user: %s", request.CampaignId, request.UserId))
	utils.WriteJSONResponse(w, http.StatusOK, result)
}

// SubmitAnswer handles PUT /onboarding/answers.
func (oh *OnboardingHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {

	var request model.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.HandleError(w, invalidPayloadError(err, "answer"))
		return
	}
	if request.CampaignId == "" || request.UserId == "" || request.FieldKey == "" {
		utils.HandleError(w, missingParameterError("campaignId, userId and fieldKey are required."))
		return
	}

	flowProvider := provider.NewOnboardingProvider()
	flowService := flowProvider.GetOnboardingFlowService()
	result, err := flowService.SubmitAnswer(request.CampaignId, request.UserId, request.Username,
		request.FieldKey, request.FieldValue)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	logger := log.GetLogger()
	logger.Info(fmt.Sprintf("Answer stored for campaign: %s, user: %s, field: %s",
		request.CampaignId, request.UserId, request.FieldKey))
	utils.WriteJSONResponse(w, http.StatusOK, result)
}

// GetStatus handles GET /onboarding/status.
func (oh *OnboardingHandler) GetStatus(w http.ResponseWriter, r *http.Request) {

	campaignId := r.URL.Query().Get(constants.CampaignIdQueryParam)
	userId := r.URL.Query().Get(constants.UserIdQueryParam)
	if campaignId == "" || userId == "" {
		utils.HandleError(w, missingParameterError("campaignId and userId query parameters are required."))
		return
	}

	flowProvider := provider.NewOnboardingProvider()
	flowService := flowProvider.GetOnboardingFlowService()
	result, err := flowService.Status(campaignId, userId)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, result)
}

func invalidPayloadError(err error, resourceName string) *errors2.ClientError {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.INVALID_REQUEST_PAYLOAD.Code,
		Message:     errors2.INVALID_REQUEST_PAYLOAD.Message,
		Description: utils.HandleDecodeError(err, resourceName),
	}, http.StatusBadRequest)
}

func missingParameterError(description string) *errors2.ClientError {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.MISSING_REQUEST_PARAMETER.Code,
		Message:     errors2.MISSING_REQUEST_PARAMETER.Message,
		Description: description,
	}, http.StatusBadRequest)
}

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

package service

import (
	"net/http"
	"strings"

	fieldmodel "github.com/wso2/identity-onboarding-flow-service/internal/fields/model"
	fieldprovider "github.com/wso2/identity-onboarding-flow-service/internal/fields/provider"
	"github.com/wso2/identity-onboarding-flow-service/internal/onboarding/model"
	respmodel "github.com/wso2/identity-onboarding-flow-service/internal/responses/model"
	respstore "github.com/wso2/identity-onboarding-flow-service/internal/responses/store"
	errors2 "github.com/wso2/identity-onboarding-flow-service/internal/system/errors"
)

// FieldCatalogInterface is the read-only field definition source the tracker
// depends on.
type FieldCatalogInterface interface {
	GetEnabledFields(campaignId string) ([]fieldmodel.FieldDefinition, error)
}

// ResponseStoreInterface is the answer persistence collaborator.
type ResponseStoreInterface interface {
	GetResponses(campaignId, userId string) ([]respmodel.AnswerRecord, error)
	UpsertResponse(record respmodel.AnswerRecord) (*respmodel.AnswerRecord, error)
	MarkAllComplete(campaignId, userId string) error
}

// OnboardingFlowServiceInterface drives per-(campaign, user) flow
// progression.
type OnboardingFlowServiceInterface interface {
	StartOrResume(campaignId, userId string) (*model.StartFlowResult, error)
	SubmitAnswer(campaignId, userId, username, fieldKey, rawValue string) (*model.SubmitAnswerResult, error)
	Status(campaignId, userId string) (*model.FlowStatusResult, error)
}

// OnboardingFlowService is the default implementation of the
// OnboardingFlowServiceInterface.
type OnboardingFlowService struct {
	catalog FieldCatalogInterface
	store   ResponseStoreInterface
}

// GetOnboardingFlowService creates a flow service wired to the field catalog
// and the answer store.
func GetOnboardingFlowService() OnboardingFlowServiceInterface {

	return &OnboardingFlowService{
		catalog: fieldprovider.NewFieldCatalogProvider().GetFieldCatalogService(),
		store:   respstore.NewAnswerStore(),
	}
}

// NewOnboardingFlowService creates a flow service with explicit
// collaborators. Intended for tests.
func NewOnboardingFlowService(catalog FieldCatalogInterface, store ResponseStoreInterface) *OnboardingFlowService {

	return &OnboardingFlowService{catalog: catalog, store: store}
}

// StartOrResume loads the campaign's enabled fields and the user's existing
// answers, and returns the first unanswered field in (step_number,
// sort_order) order. A campaign with no enabled fields short-circuits as
// completed.
func (ofs *OnboardingFlowService) StartOrResume(campaignId, userId string) (*model.StartFlowResult, error) {

	fields, err := ofs.catalog.GetEnabledFields(campaignId)
	if err != nil {
		return nil, err
	}

	responses, err := ofs.store.GetResponses(campaignId, userId)
	if err != nil {
		return nil, err
	}

	answered := answeredKeys(responses)
	result := &model.StartFlowResult{
		Fields:            fields,
		CompletedFields:   answeredInOrder(fields, answered),
		ExistingResponses: responses,
	}

	if len(fields) == 0 {
		result.IsCompleted = true
		return result, nil
	}

	result.NextField = firstUnanswered(fields, answered)
	result.IsCompleted = requiredComplete(fields, answered)
	return result, nil
}

// SubmitAnswer validates a single answer, upserts it and recomputes the flow
// state against a fresh answer snapshot. When every required enabled field
// has a non-blank answer, every answer row of the user is flagged complete in
// one batch. The flag is a one-way latch: later edits never clear it, and
// edits to rows that already carry it do not rerun the batch.
func (ofs *OnboardingFlowService) SubmitAnswer(campaignId, userId, username, fieldKey,
	rawValue string) (*model.SubmitAnswerResult, error) {

	fields, err := ofs.catalog.GetEnabledFields(campaignId)
	if err != nil {
		return nil, err
	}

	field := findField(fields, fieldKey)
	if field == nil {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.UNKNOWN_FIELD.Code,
			Message:     errors2.UNKNOWN_FIELD.Message,
			Description: errors2.UNKNOWN_FIELD.Description,
		}, http.StatusBadRequest)
	}

	validation := ValidateAnswer(rawValue, *field, ValidationOptions{TreatEmptyAsRequired: true})
	if !validation.Valid {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.ANSWER_VALIDATION.Code,
			Message:     errors2.ANSWER_VALIDATION.Message,
			Description: strings.Join(validation.Errors, " "),
		}, http.StatusBadRequest)
	}

	stored, err := ofs.store.UpsertResponse(respmodel.AnswerRecord{
		CampaignId:      campaignId,
		UserId:          userId,
		Username:        username,
		FieldKey:        fieldKey,
		RawValue:        rawValue,
		NormalizedValue: validation.Normalized,
	})
	if err != nil {
		return nil, err
	}

	// Recompute against a fresh, fully materialized snapshot.
	responses, err := ofs.store.GetResponses(campaignId, userId)
	if err != nil {
		return nil, err
	}
	answered := answeredKeys(responses)
	completed := requiredComplete(fields, answered)

	// The upsert preserves an already-set flag, so a stored row without it
	// means this answer either completed the flow just now or landed after
	// completion on a row the earlier batch could not have covered. Edits to
	// already-flagged rows skip the batch entirely.
	if completed && !stored.IsComplete {
		if err := ofs.store.MarkAllComplete(campaignId, userId); err != nil {
			return nil, err
		}
		stored.IsComplete = true
	}

	return &model.SubmitAnswerResult{
		Stored:          stored,
		IsCompleted:     completed,
		NextField:       firstUnanswered(fields, answered),
		CompletedFields: answeredInOrder(fields, answered),
		TotalFields:     len(fields),
	}, nil
}

// Status reports the current flow state without mutating anything.
func (ofs *OnboardingFlowService) Status(campaignId, userId string) (*model.FlowStatusResult, error) {

	fields, err := ofs.catalog.GetEnabledFields(campaignId)
	if err != nil {
		return nil, err
	}
	responses, err := ofs.store.GetResponses(campaignId, userId)
	if err != nil {
		return nil, err
	}

	answered := answeredKeys(responses)
	completedFields := answeredInOrder(fields, answered)

	return &model.FlowStatusResult{
		Responses:       responses,
		Fields:          fields,
		CompletedFields: completedFields,
		IsCompleted:     len(fields) == 0 || requiredComplete(fields, answered),
		NextField:       firstUnanswered(fields, answered),
		Progress: model.FlowProgress{
			Completed: len(completedFields),
			Total:     len(fields),
		},
	}, nil
}

// ComputeFlowState materializes the full FlowState snapshot for a user,
// including branching visibility. Used by the wizard surface.
func (ofs *OnboardingFlowService) ComputeFlowState(campaignId, userId string) (*model.FlowState, error) {

	fields, err := ofs.catalog.GetEnabledFields(campaignId)
	if err != nil {
		return nil, err
	}
	responses, err := ofs.store.GetResponses(campaignId, userId)
	if err != nil {
		return nil, err
	}

	answered := answeredKeys(responses)
	answers := answerValues(responses)
	outcome := EvaluateBranching(answers, fields)
	next := firstUnanswered(fields, answered)

	state := &model.FlowState{
		CampaignId:   campaignId,
		UserId:       userId,
		AnsweredKeys: answered,
		VisibleKeys:  outcome.Visible,
		Completed:    requiredComplete(fields, answered),
		NextField:    next,
	}
	if next != nil {
		state.CurrentStep = next.StepNumber
	}
	if outcome.ForcedNextStep != nil {
		state.NextStep = outcome.ForcedNextStep
	}
	return state, nil
}

// answeredKeys computes the set of answered field keys. Answered means a
// stored, non-blank value; the stored value is not re-validated here.
func answeredKeys(responses []respmodel.AnswerRecord) map[string]bool {

	answered := make(map[string]bool, len(responses))
	for _, response := range responses {
		if strings.TrimSpace(response.NormalizedValue) != "" {
			answered[response.FieldKey] = true
		}
	}
	return answered
}

// answerValues builds the fieldKey -> normalized value snapshot branching
// conditions evaluate against.
func answerValues(responses []respmodel.AnswerRecord) map[string]string {

	answers := make(map[string]string, len(responses))
	for _, response := range responses {
		answers[response.FieldKey] = response.NormalizedValue
	}
	return answers
}

// requiredComplete reports whether every required enabled field has a
// non-blank answer. Visibility is deliberately ignored: branching only
// reorders and reveals, it never removes a field from the required set.
func requiredComplete(fields []fieldmodel.FieldDefinition, answered map[string]bool) bool {

	for _, field := range fields {
		if field.IsRequired && !answered[field.FieldKey] {
			return false
		}
	}
	return true
}

// firstUnanswered returns the first enabled field without an answer, in
// (step_number, sort_order) order, or nil when all are answered.
func firstUnanswered(fields []fieldmodel.FieldDefinition, answered map[string]bool) *fieldmodel.FieldDefinition {

	for i := range fields {
		if !answered[fields[i].FieldKey] {
			return &fields[i]
		}
	}
	return nil
}

// answeredInOrder lists the answered keys in field presentation order.
func answeredInOrder(fields []fieldmodel.FieldDefinition, answered map[string]bool) []string {

	keys := []string{}
	for _, field := range fields {
		if answered[field.FieldKey] {
			keys = append(keys, field.FieldKey)
		}
	}
	return keys
}

func findField(fields []fieldmodel.FieldDefinition, fieldKey string) *fieldmodel.FieldDefinition {

	for i := range fields {
		if fields[i].FieldKey == fieldKey {
			return &fields[i]
		}
	}
	return nil
}

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

package model

import (
	fieldmodel "github.com/wso2/identity-onboarding-flow-service/internal/fields/model"
	respmodel "github.com/wso2/identity-onboarding-flow-service/internal/responses/model"
)

// FlowState is the computed per-(campaign, user) progression snapshot. It is
// recomputed from a fully materialized answer snapshot on every read or write
// and is never persisted on its own.
type FlowState struct {
	CampaignId   string                      `json:"campaignId"`
	UserId       string                      `json:"userId"`
	CurrentStep  int                         `json:"currentStep"`
	AnsweredKeys map[string]bool             `json:"answeredKeys"`
	VisibleKeys  map[string]bool             `json:"visibleKeys"`
	Completed    bool                        `json:"completed"`
	NextField    *fieldmodel.FieldDefinition `json:"nextField,omitempty"`
	NextStep     *int                        `json:"nextStep,omitempty"`
}

// StartFlowRequest is the input of the turn-based start operation.
type StartFlowRequest struct {
	CampaignId string `json:"campaignId"`
	UserId     string `json:"userId"`
	Username   string `json:"username,omitempty"`
}

// StartFlowResult is the output of the turn-based start operation. An empty
// Fields slice short-circuits with IsCompleted true and no next field.
type StartFlowResult struct {
	Fields            []fieldmodel.FieldDefinition `json:"fields"`
	CompletedFields   []string                     `json:"completedFields"`
	NextField         *fieldmodel.FieldDefinition  `json:"nextField"`
	IsCompleted       bool                         `json:"isCompleted"`
	ExistingResponses []respmodel.AnswerRecord     `json:"existingResponses"`
}

// SubmitAnswerRequest is the input of the turn-based answer operation.
type SubmitAnswerRequest struct {
	CampaignId string `json:"campaignId"`
	UserId     string `json:"userId"`
	Username   string `json:"username,omitempty"`
	FieldKey   string `json:"fieldKey"`
	FieldValue string `json:"fieldValue"`
}

// SubmitAnswerResult is the output of the turn-based answer operation.
type SubmitAnswerResult struct {
	Stored          *respmodel.AnswerRecord     `json:"stored"`
	IsCompleted     bool                        `json:"isCompleted"`
	NextField       *fieldmodel.FieldDefinition `json:"nextField"`
	CompletedFields []string                    `json:"completedFields"`
	TotalFields     int                         `json:"totalFields"`
}

// FlowProgress is the completed/total counter of the status operation.
type FlowProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// FlowStatusResult is the output of the status operation.
type FlowStatusResult struct {
	Responses       []respmodel.AnswerRecord     `json:"responses"`
	Fields          []fieldmodel.FieldDefinition `json:"fields"`
	CompletedFields []string                     `json:"completedFields"`
	IsCompleted     bool                         `json:"isCompleted"`
	NextField       *fieldmodel.FieldDefinition  `json:"nextField"`
	Progress        FlowProgress                 `json:"progress"`
}

// StepValidationResult aggregates per-field validation errors for one wizard
// step.
type StepValidationResult struct {
	Valid  bool                `json:"valid"`
	Errors map[string][]string `json:"errors,omitempty"`
}

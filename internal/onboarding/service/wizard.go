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
	fieldmodel "github.com/wso2/identity-onboarding-flow-service/internal/fields/model"
	"github.com/wso2/identity-onboarding-flow-service/internal/onboarding/model"
)

// The wizard surface consumes field definitions in-process: it renders one
// step's worth of fields, validates the whole step at once with an error
// summary, and computes the next step.

// StepFields returns the fields of one step that are currently visible given
// the accumulated answers.
func StepFields(stepNumber int, answers map[string]string,
	fields []fieldmodel.FieldDefinition) []fieldmodel.FieldDefinition {

	outcome := EvaluateBranching(answers, fields)

	stepFields := []fieldmodel.FieldDefinition{}
	for _, field := range fields {
		if field.StepNumber == stepNumber && outcome.Visible[field.FieldKey] {
			stepFields = append(stepFields, field)
		}
	}
	return stepFields
}

// ValidateStep validates a whole step's worth of answers at once,
// accumulating every failure per field for an end-of-step summary. Hidden
// fields are skipped; empty answers on required fields fail, empty answers on
// optional fields pass.
func ValidateStep(stepNumber int, stepAnswers map[string]string, priorAnswers map[string]string,
	fields []fieldmodel.FieldDefinition) model.StepValidationResult {

	merged := make(map[string]string, len(priorAnswers)+len(stepAnswers))
	for key, value := range priorAnswers {
		merged[key] = value
	}
	for key, value := range stepAnswers {
		merged[key] = value
	}
	outcome := EvaluateBranching(merged, fields)

	result := model.StepValidationResult{Valid: true, Errors: map[string][]string{}}
	for _, field := range fields {
		if field.StepNumber != stepNumber || !outcome.Visible[field.FieldKey] {
			continue
		}
		validation := ValidateAnswer(stepAnswers[field.FieldKey], field, ValidationOptions{
			TreatEmptyAsRequired: field.IsRequired,
			CollectAll:           true,
		})
		if !validation.Valid {
			result.Valid = false
			result.Errors[field.FieldKey] = validation.Errors
		}
	}
	return result
}

// ComputeNextStep determines the step that follows currentStep. A matching
// skip_to_step rule on any field of the current step takes precedence; when
// several match, the last one evaluated wins. Otherwise the flow advances to
// currentStep+1 if a field with that step number exists, or finishes (nil).
func ComputeNextStep(currentStep int, answers map[string]string,
	fields []fieldmodel.FieldDefinition) *int {

	outcome := BranchingOutcome{Visible: make(map[string]bool)}
	for _, field := range fields {
		if field.StepNumber != currentStep {
			continue
		}
		EvaluateBranchingRules(answers, field.BranchingRules, &outcome)
	}
	if outcome.ForcedNextStep != nil {
		return outcome.ForcedNextStep
	}

	next := currentStep + 1
	for _, field := range fields {
		if field.StepNumber == next {
			return &next
		}
	}
	return nil
}

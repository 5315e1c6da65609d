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

package store

import (
	"encoding/json"
	"fmt"

	"github.com/wso2/identity-onboarding-flow-service/internal/fields/model"
	"github.com/wso2/identity-onboarding-flow-service/internal/system/database/client"
	"github.com/wso2/identity-onboarding-flow-service/internal/system/database/provider"
	errors2 "github.com/wso2/identity-onboarding-flow-service/internal/system/errors"
	"github.com/wso2/identity-onboarding-flow-service/internal/system/log"
)

// GetEnabledFields fetches the enabled field definitions of a campaign,
// ordered by (step_number, sort_order), with their validation and branching
// rules attached in rule order.
func GetEnabledFields(campaignId string) ([]model.FieldDefinition, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for fetching field definitions for campaign: %s",
			campaignId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_FIELD_DEFINITIONS.Code,
			Message:     errors2.FETCH_FIELD_DEFINITIONS.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `SELECT field_id, campaign_id, field_key, label, field_type, placeholder, description, options,
		is_required, is_enabled, sort_order, step_number, created_at, updated_at
		FROM onboarding_fields WHERE campaign_id = $1 AND is_enabled = TRUE
		ORDER BY step_number, sort_order`

	results, err := dbClient.ExecuteQuery(query, campaignId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch field definitions for campaign: %s", campaignId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_FIELD_DEFINITIONS.Code,
			Message:     errors2.FETCH_FIELD_DEFINITIONS.Message,
			Description: errorMsg,
		}, err)
	}

	fields := []model.FieldDefinition{}
	for _, row := range results {
		field := scanFieldRow(row)

		validationRules, err := fetchValidationRules(dbClient, field.FieldId)
		if err != nil {
			errorMsg := fmt.Sprintf("Failed to fetch validation rules for field: %s", field.FieldKey)
			logger.Debug(errorMsg, log.Error(err))
			return nil, errors2.NewServerError(errors2.ErrorMessage{
				Code:        errors2.FETCH_FIELD_DEFINITIONS.Code,
				Message:     errors2.FETCH_FIELD_DEFINITIONS.Message,
				Description: errorMsg,
			}, err)
		}
		field.ValidationRules = validationRules

		branchingRules, err := fetchBranchingRules(dbClient, field.FieldId)
		if err != nil {
			errorMsg := fmt.Sprintf("Failed to fetch branching rules for field: %s", field.FieldKey)
			logger.Debug(errorMsg, log.Error(err))
			return nil, errors2.NewServerError(errors2.ErrorMessage{
				Code:        errors2.FETCH_FIELD_DEFINITIONS.Code,
				Message:     errors2.FETCH_FIELD_DEFINITIONS.Message,
				Description: errorMsg,
			}, err)
		}
		field.BranchingRules = branchingRules

		fields = append(fields, field)
	}

	logger.Debug(fmt.Sprintf("Fetched %d enabled field definitions for campaign: %s", len(fields), campaignId))
	return fields, nil
}

func scanFieldRow(row map[string]interface{}) model.FieldDefinition {

	var field model.FieldDefinition
	field.FieldId = row["field_id"].(string)
	field.CampaignId = row["campaign_id"].(string)
	field.FieldKey = row["field_key"].(string)
	field.Label = row["label"].(string)
	field.Type = model.FieldType(row["field_type"].(string))
	field.Placeholder = stringOrEmpty(row["placeholder"])
	field.Description = stringOrEmpty(row["description"])
	field.IsRequired = row["is_required"].(bool)
	field.IsEnabled = row["is_enabled"].(bool)
	field.SortOrder = int(row["sort_order"].(int64))
	field.StepNumber = int(row["step_number"].(int64))
	if createdAt, ok := row["created_at"].(int64); ok {
		field.CreatedAt = createdAt
	}
	if updatedAt, ok := row["updated_at"].(int64); ok {
		field.UpdatedAt = updatedAt
	}

	// Options are stored as a JSON array column.
	if optionsJSON := stringOrEmpty(row["options"]); optionsJSON != "" {
		var options []string
		if err := json.Unmarshal([]byte(optionsJSON), &options); err == nil {
			field.Options = options
		} else {
			log.GetLogger().Warn(fmt.Sprintf("Malformed options for field: %s, ignoring.", field.FieldKey),
				log.Error(err))
		}
	}
	return field
}

func fetchValidationRules(dbClient client.DBClientInterface, fieldId string) ([]model.ValidationRule, error) {

	results, err := dbClient.ExecuteQuery(
		`SELECT kind, rule_value, message, case_sensitive FROM field_validation_rules
		 WHERE field_id = $1 ORDER BY rule_order`, fieldId)
	if err != nil {
		return nil, err
	}

	var rules []model.ValidationRule
	for _, row := range results {
		rules = append(rules, model.ValidationRule{
			Kind:          model.ValidationRuleKind(row["kind"].(string)),
			Value:         stringOrEmpty(row["rule_value"]),
			Message:       stringOrEmpty(row["message"]),
			CaseSensitive: row["case_sensitive"].(bool),
		})
	}
	return rules, nil
}

func fetchBranchingRules(dbClient client.DBClientInterface, fieldId string) ([]model.BranchingRule, error) {

	results, err := dbClient.ExecuteQuery(
		`SELECT condition_field_key, condition_operator, condition_value, case_sensitive, action,
		 target_fields, target_step FROM field_branching_rules
		 WHERE field_id = $1 ORDER BY rule_order`, fieldId)
	if err != nil {
		return nil, err
	}

	var rules []model.BranchingRule
	for _, row := range results {
		rule := model.BranchingRule{
			Condition: model.BranchingCondition{
				FieldKey:      row["condition_field_key"].(string),
				Operator:      model.BranchingOperator(row["condition_operator"].(string)),
				Value:         stringOrEmpty(row["condition_value"]),
				CaseSensitive: row["case_sensitive"].(bool),
			},
			Action: model.BranchingAction(row["action"].(string)),
		}
		if targetsJSON := stringOrEmpty(row["target_fields"]); targetsJSON != "" {
			var targets []string
			if err := json.Unmarshal([]byte(targetsJSON), &targets); err == nil {
				rule.TargetFields = targets
			}
		}
		if targetStep, ok := row["target_step"].(int64); ok {
			rule.TargetStep = int(targetStep)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func stringOrEmpty(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

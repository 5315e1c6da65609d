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
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wso2/identity-onboarding-flow-service/internal/responses/model"
	"github.com/wso2/identity-onboarding-flow-service/internal/system/database/provider"
	errors2 "github.com/wso2/identity-onboarding-flow-service/internal/system/errors"
	"github.com/wso2/identity-onboarding-flow-service/internal/system/log"
)

// AnswerStore persists onboarding answer rows.
type AnswerStore struct{}

// NewAnswerStore creates a new instance of AnswerStore.
func NewAnswerStore() *AnswerStore {

	return &AnswerStore{}
}

// GetResponses fetches all answer rows of a user for a campaign.
func (as *AnswerStore) GetResponses(campaignId, userId string) ([]model.AnswerRecord, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for fetching responses for campaign: %s, user: %s",
			campaignId, userId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_RESPONSES.Code,
			Message:     errors2.FETCH_RESPONSES.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `SELECT response_id, campaign_id, user_id, username, field_key, raw_value, normalized_value,
		is_complete, created_at, updated_at FROM onboarding_responses
		WHERE campaign_id = $1 AND user_id = $2 ORDER BY updated_at`

	results, err := dbClient.ExecuteQuery(query, campaignId, userId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch responses for campaign: %s, user: %s", campaignId, userId)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_RESPONSES.Code,
			Message:     errors2.FETCH_RESPONSES.Message,
			Description: errorMsg,
		}, err)
	}

	records := []model.AnswerRecord{}
	for _, row := range results {
		records = append(records, scanAnswerRow(row))
	}
	return records, nil
}

// UpsertResponse writes one answer row keyed by (campaign_id, user_id,
// field_key). The write is atomic at the database through the unique
// constraint: a concurrent double-submit for the same field can never produce
// two rows, the last write wins and updated_at advances.
func (as *AnswerStore) UpsertResponse(record model.AnswerRecord) (*model.AnswerRecord, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for storing response for field: %s", record.FieldKey)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPSERT_RESPONSE.Code,
			Message:     errors2.UPSERT_RESPONSE.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	now := time.Now().UTC().Unix()
	record.ResponseId = uuid.New().String()
	record.CreatedAt = now
	record.UpdatedAt = now

	query := `INSERT INTO onboarding_responses
		(response_id, campaign_id, user_id, username, field_key, raw_value, normalized_value, is_complete,
		 created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (campaign_id, user_id, field_key) DO UPDATE SET
			username = EXCLUDED.username,
			raw_value = EXCLUDED.raw_value,
			normalized_value = EXCLUDED.normalized_value,
			updated_at = EXCLUDED.updated_at
		RETURNING response_id, campaign_id, user_id, username, field_key, raw_value, normalized_value,
			is_complete, created_at, updated_at`

	results, err := dbClient.ExecuteQuery(query,
		record.ResponseId, record.CampaignId, record.UserId, record.Username, record.FieldKey,
		record.RawValue, record.NormalizedValue, record.IsComplete, record.CreatedAt, record.UpdatedAt)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to store response for campaign: %s, user: %s, field: %s",
			record.CampaignId, record.UserId, record.FieldKey)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPSERT_RESPONSE.Code,
			Message:     errors2.UPSERT_RESPONSE.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		errorMsg := fmt.Sprintf("Upsert returned no row for field: %s", record.FieldKey)
		logger.Debug(errorMsg)
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPSERT_RESPONSE.Code,
			Message:     errors2.UPSERT_RESPONSE.Message,
			Description: errorMsg,
		}, nil)
	}

	stored := scanAnswerRow(results[0])
	logger.Debug(fmt.Sprintf("Response stored for campaign: %s, user: %s, field: %s",
		stored.CampaignId, stored.UserId, stored.FieldKey))
	return &stored, nil
}

// MarkAllComplete flags every answer row of a user for a campaign as complete
// in one statement, so a reader never observes a mixed complete/incomplete
// set mid-transition.
func (as *AnswerStore) MarkAllComplete(campaignId, userId string) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get database client for marking responses complete for campaign: %s, "+
			"user: %s", campaignId, userId)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.MARK_RESPONSES_COMPLETE.Code,
			Message:     errors2.MARK_RESPONSES_COMPLETE.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	_, err = dbClient.ExecuteStatement(
		`UPDATE onboarding_responses SET is_complete = TRUE, updated_at = $3
		 WHERE campaign_id = $1 AND user_id = $2`,
		campaignId, userId, time.Now().UTC().Unix())
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to mark responses complete for campaign: %s, user: %s", campaignId, userId)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.MARK_RESPONSES_COMPLETE.Code,
			Message:     errors2.MARK_RESPONSES_COMPLETE.Message,
			Description: errorMsg,
		}, err)
	}

	logger.Info(fmt.Sprintf("All responses marked complete for campaign: %s, user: %s", campaignId, userId))
	return nil
}

func scanAnswerRow(row map[string]interface{}) model.AnswerRecord {

	var record model.AnswerRecord
	record.ResponseId = row["response_id"].(string)
	record.CampaignId = row["campaign_id"].(string)
	record.UserId = row["user_id"].(string)
	if username, ok := row["username"].(string); ok {
		record.Username = username
	}
	record.FieldKey = row["field_key"].(string)
	if rawValue, ok := row["raw_value"].(string); ok {
		record.RawValue = rawValue
	}
	if normalizedValue, ok := row["normalized_value"].(string); ok {
		record.NormalizedValue = normalizedValue
	}
	record.IsComplete = row["is_complete"].(bool)
	record.CreatedAt = row["created_at"].(int64)
	record.UpdatedAt = row["updated_at"].(int64)
	return record
}

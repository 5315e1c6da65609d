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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	fieldmodel "github.com/wso2/identity-onboarding-flow-service/internal/fields/model"
	respmodel "github.com/wso2/identity-onboarding-flow-service/internal/responses/model"
	errors2 "github.com/wso2/identity-onboarding-flow-service/internal/system/errors"
)

type fakeCatalog struct {
	fields []fieldmodel.FieldDefinition
}

func (fc *fakeCatalog) GetEnabledFields(campaignId string) ([]fieldmodel.FieldDefinition, error) {
	return fc.fields, nil
}

// fakeResponseStore keeps one row per (campaign, user, field) key in memory,
// mirroring the unique constraint of the real table.
type fakeResponseStore struct {
	records       []respmodel.AnswerRecord
	markCallCount int
}

func (fs *fakeResponseStore) GetResponses(campaignId, userId string) ([]respmodel.AnswerRecord, error) {
	var matched []respmodel.AnswerRecord
	for _, record := range fs.records {
		if record.CampaignId == campaignId && record.UserId == userId {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

func (fs *fakeResponseStore) UpsertResponse(record respmodel.AnswerRecord) (*respmodel.AnswerRecord, error) {
	for i := range fs.records {
		existing := &fs.records[i]
		if existing.CampaignId == record.CampaignId && existing.UserId == record.UserId &&
			existing.FieldKey == record.FieldKey {
			existing.Username = record.Username
			existing.RawValue = record.RawValue
			existing.NormalizedValue = record.NormalizedValue
			stored := *existing
			return &stored, nil
		}
	}
	fs.records = append(fs.records, record)
	stored := record
	return &stored, nil
}

func (fs *fakeResponseStore) MarkAllComplete(campaignId, userId string) error {
	fs.markCallCount++
	for i := range fs.records {
		if fs.records[i].CampaignId == campaignId && fs.records[i].UserId == userId {
			fs.records[i].IsComplete = true
		}
	}
	return nil
}

func onboardingFields() []fieldmodel.FieldDefinition {
	return []fieldmodel.FieldDefinition{
		{FieldKey: "full_name", Type: fieldmodel.FieldTypeText, IsRequired: true, IsEnabled: true, StepNumber: 1, SortOrder: 1},
		{FieldKey: "email", Type: fieldmodel.FieldTypeEmail, IsRequired: true, IsEnabled: true, StepNumber: 1, SortOrder: 2},
		{FieldKey: "nickname", Type: fieldmodel.FieldTypeText, IsRequired: false, IsEnabled: true, StepNumber: 2, SortOrder: 1},
	}
}

func newTestFlowService(fields []fieldmodel.FieldDefinition) (*OnboardingFlowService, *fakeResponseStore) {
	store := &fakeResponseStore{}
	return NewOnboardingFlowService(&fakeCatalog{fields: fields}, store), store
}

func Test_StartOrResume(t *testing.T) {
	t.Run("Fresh user gets the first field", func(t *testing.T) {
		svc, _ := newTestFlowService(onboardingFields())

		result, err := svc.StartOrResume("camp-1", "user-1")
		require.NoError(t, err)
		require.NotNil(t, result.NextField)
		assert.Equal(t, "full_name", result.NextField.FieldKey)
		assert.False(t, result.IsCompleted)
		assert.Empty(t, result.CompletedFields)
	})

	t.Run("Returning user resumes at the first unanswered field", func(t *testing.T) {
		svc, store := newTestFlowService(onboardingFields())
		store.records = []respmodel.AnswerRecord{
			{CampaignId: "camp-1", UserId: "user-1", FieldKey: "full_name", NormalizedValue: "Ada"},
		}

		result, err := svc.StartOrResume("camp-1", "user-1")
		require.NoError(t, err)
		require.NotNil(t, result.NextField)
		assert.Equal(t, "email", result.NextField.FieldKey)
		assert.Equal(t, []string{"full_name"}, result.CompletedFields)
	})

	t.Run("Campaign with no fields is trivially complete", func(t *testing.T) {
		svc, _ := newTestFlowService(nil)

		result, err := svc.StartOrResume("camp-1", "user-1")
		require.NoError(t, err)
		assert.True(t, result.IsCompleted)
		assert.Nil(t, result.NextField)
	})

	t.Run("Blank stored values do not count as answered", func(t *testing.T) {
		svc, store := newTestFlowService(onboardingFields())
		store.records = []respmodel.AnswerRecord{
			{CampaignId: "camp-1", UserId: "user-1", FieldKey: "full_name", NormalizedValue: "   "},
		}

		result, err := svc.StartOrResume("camp-1", "user-1")
		require.NoError(t, err)
		require.NotNil(t, result.NextField)
		assert.Equal(t, "full_name", result.NextField.FieldKey)
	})
}

func Test_SubmitAnswer(t *testing.T) {
	t.Run("Valid answer is stored normalized and advances the flow", func(t *testing.T) {
		svc, store := newTestFlowService(onboardingFields())

		result, err := svc.SubmitAnswer("camp-1", "user-1", "ada", "full_name", "  Ada Lovelace ")
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", result.Stored.NormalizedValue)
		assert.Equal(t, "  Ada Lovelace ", result.Stored.RawValue)
		assert.False(t, result.IsCompleted)
		require.NotNil(t, result.NextField)
		assert.Equal(t, "email", result.NextField.FieldKey)
		assert.Len(t, store.records, 1)
	})

	t.Run("Unknown field key is a client error", func(t *testing.T) {
		svc, _ := newTestFlowService(onboardingFields())

		_, err := svc.SubmitAnswer("camp-1", "user-1", "ada", "shoe_size", "42")
		require.Error(t, err)
		var clientErr *errors2.ClientError
		require.ErrorAs(t, err, &clientErr)
		assert.Equal(t, http.StatusBadRequest, clientErr.StatusCode)
		assert.Equal(t, errors2.UNKNOWN_FIELD.Code, clientErr.Code)
	})

	t.Run("Invalid answer is a client error and nothing is stored", func(t *testing.T) {
		svc, store := newTestFlowService(onboardingFields())

		_, err := svc.SubmitAnswer("camp-1", "user-1", "ada", "email", "not-an-email")
		require.Error(t, err)
		var clientErr *errors2.ClientError
		require.ErrorAs(t, err, &clientErr)
		assert.Equal(t, errors2.ANSWER_VALIDATION.Code, clientErr.Code)
		assert.Empty(t, store.records)
	})

	t.Run("Resubmitting a field updates in place", func(t *testing.T) {
		svc, store := newTestFlowService(onboardingFields())

		_, err := svc.SubmitAnswer("camp-1", "user-1", "ada", "full_name", "Ada")
		require.NoError(t, err)
		_, err = svc.SubmitAnswer("camp-1", "user-1", "ada", "full_name", "Ada Lovelace")
		require.NoError(t, err)

		require.Len(t, store.records, 1)
		assert.Equal(t, "Ada Lovelace", store.records[0].NormalizedValue)
	})

	t.Run("Answering the last required field completes the flow", func(t *testing.T) {
		svc, store := newTestFlowService(onboardingFields())

		_, err := svc.SubmitAnswer("camp-1", "user-1", "ada", "full_name", "Ada")
		require.NoError(t, err)
		result, err := svc.SubmitAnswer("camp-1", "user-1", "ada", "email", "ada@example.com")
		require.NoError(t, err)

		// The optional nickname field does not gate completion.
		assert.True(t, result.IsCompleted)
		assert.True(t, result.Stored.IsComplete)
		assert.Equal(t, 1, store.markCallCount)
		for _, record := range store.records {
			assert.True(t, record.IsComplete)
		}
	})

	t.Run("Completion never reverts once latched", func(t *testing.T) {
		svc, store := newTestFlowService(onboardingFields())

		_, err := svc.SubmitAnswer("camp-1", "user-1", "ada", "full_name", "Ada")
		require.NoError(t, err)
		_, err = svc.SubmitAnswer("camp-1", "user-1", "ada", "email", "ada@example.com")
		require.NoError(t, err)

		// Edit an already answered field after completion.
		result, err := svc.SubmitAnswer("camp-1", "user-1", "ada", "full_name", "Countess Lovelace")
		require.NoError(t, err)
		assert.True(t, result.IsCompleted)
		assert.True(t, result.Stored.IsComplete)
		for _, record := range store.records {
			assert.True(t, record.IsComplete)
		}
	})

	t.Run("Editing a flagged answer does not rerun the completion batch", func(t *testing.T) {
		svc, store := newTestFlowService(onboardingFields())

		_, err := svc.SubmitAnswer("camp-1", "user-1", "ada", "full_name", "Ada")
		require.NoError(t, err)
		_, err = svc.SubmitAnswer("camp-1", "user-1", "ada", "email", "ada@example.com")
		require.NoError(t, err)
		require.Equal(t, 1, store.markCallCount)

		_, err = svc.SubmitAnswer("camp-1", "user-1", "ada", "full_name", "Countess Lovelace")
		require.NoError(t, err)
		_, err = svc.SubmitAnswer("camp-1", "user-1", "ada", "email", "countess@example.com")
		require.NoError(t, err)

		assert.Equal(t, 1, store.markCallCount)
	})

	t.Run("Optional answer added after completion still gets flagged", func(t *testing.T) {
		svc, store := newTestFlowService(onboardingFields())

		_, err := svc.SubmitAnswer("camp-1", "user-1", "ada", "full_name", "Ada")
		require.NoError(t, err)
		_, err = svc.SubmitAnswer("camp-1", "user-1", "ada", "email", "ada@example.com")
		require.NoError(t, err)

		// The nickname row did not exist when the batch ran, so it needs one
		// more pass to carry the flag.
		result, err := svc.SubmitAnswer("camp-1", "user-1", "ada", "nickname", "Countess")
		require.NoError(t, err)
		assert.True(t, result.Stored.IsComplete)
		assert.Equal(t, 2, store.markCallCount)
		for _, record := range store.records {
			assert.True(t, record.IsComplete)
		}
	})

	t.Run("Required hidden fields still gate completion", func(t *testing.T) {
		fields := []fieldmodel.FieldDefinition{
			{FieldKey: "has_company", Type: fieldmodel.FieldTypeCheckbox, IsRequired: true, IsEnabled: true, StepNumber: 1, SortOrder: 1,
				BranchingRules: []fieldmodel.BranchingRule{{
					Condition: fieldmodel.BranchingCondition{
						FieldKey: "has_company",
						Operator: fieldmodel.OperatorEquals,
						Value:    "no",
					},
					Action:       fieldmodel.ActionHide,
					TargetFields: []string{"company_name"},
				}}},
			{FieldKey: "company_name", Type: fieldmodel.FieldTypeText, IsRequired: true, IsEnabled: true, StepNumber: 1, SortOrder: 2},
		}
		svc, _ := newTestFlowService(fields)

		result, err := svc.SubmitAnswer("camp-1", "user-1", "ada", "has_company", "no")
		require.NoError(t, err)

		// company_name is hidden but still required, so the flow stays open.
		assert.False(t, result.IsCompleted)
	})
}

func Test_Status(t *testing.T) {
	svc, store := newTestFlowService(onboardingFields())
	store.records = []respmodel.AnswerRecord{
		{CampaignId: "camp-1", UserId: "user-1", FieldKey: "full_name", NormalizedValue: "Ada"},
		{CampaignId: "camp-1", UserId: "user-1", FieldKey: "nickname", NormalizedValue: "Countess"},
	}

	result, err := svc.Status("camp-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"full_name", "nickname"}, result.CompletedFields)
	assert.False(t, result.IsCompleted)
	require.NotNil(t, result.NextField)
	assert.Equal(t, "email", result.NextField.FieldKey)
	assert.Equal(t, 2, result.Progress.Completed)
	assert.Equal(t, 3, result.Progress.Total)
}

func Test_ComputeFlowState(t *testing.T) {
	fields := []fieldmodel.FieldDefinition{
		{FieldKey: "plan", Type: fieldmodel.FieldTypeSelect, IsRequired: true, IsEnabled: true, StepNumber: 1, SortOrder: 1,
			Options: []string{"free", "pro"},
			BranchingRules: []fieldmodel.BranchingRule{{
				Condition: fieldmodel.BranchingCondition{
					FieldKey: "plan",
					Operator: fieldmodel.OperatorEquals,
					Value:    "free",
				},
				Action:       fieldmodel.ActionHide,
				TargetFields: []string{"billing_email"},
			}}},
		{FieldKey: "billing_email", Type: fieldmodel.FieldTypeEmail, IsRequired: false, IsEnabled: true, StepNumber: 2, SortOrder: 1},
	}
	svc, store := newTestFlowService(fields)
	store.records = []respmodel.AnswerRecord{
		{CampaignId: "camp-1", UserId: "user-1", FieldKey: "plan", NormalizedValue: "free"},
	}

	state, err := svc.ComputeFlowState("camp-1", "user-1")
	require.NoError(t, err)
	assert.True(t, state.AnsweredKeys["plan"])
	assert.False(t, state.VisibleKeys["billing_email"])
	assert.True(t, state.Completed)
	require.NotNil(t, state.NextField)
	assert.Equal(t, "billing_email", state.NextField.FieldKey)
}

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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-onboarding-flow-service/internal/fields/model"
)

func branchingField(key string, step int, rules ...model.BranchingRule) model.FieldDefinition {
	return model.FieldDefinition{
		FieldKey:       key,
		Type:           model.FieldTypeText,
		IsEnabled:      true,
		StepNumber:     step,
		BranchingRules: rules,
	}
}

func Test_EvaluateBranching_AllFieldsStartVisible(t *testing.T) {
	fields := []model.FieldDefinition{
		branchingField("a", 1),
		branchingField("b", 1),
	}

	outcome := EvaluateBranching(map[string]string{}, fields)

	assert.True(t, outcome.Visible["a"])
	assert.True(t, outcome.Visible["b"])
	assert.Nil(t, outcome.ForcedNextStep)
}

func Test_EvaluateBranching_ShowAndHide(t *testing.T) {
	fields := []model.FieldDefinition{
		branchingField("has_company", 1, model.BranchingRule{
			Condition: model.BranchingCondition{
				FieldKey: "has_company",
				Operator: model.OperatorEquals,
				Value:    "yes",
			},
			Action:       model.ActionShow,
			TargetFields: []string{"company_name"},
		}, model.BranchingRule{
			Condition: model.BranchingCondition{
				FieldKey: "has_company",
				Operator: model.OperatorEquals,
				Value:    "no",
			},
			Action:       model.ActionHide,
			TargetFields: []string{"company_name"},
		}),
		branchingField("company_name", 1),
	}

	t.Run("Matching hide removes the target", func(t *testing.T) {
		outcome := EvaluateBranching(map[string]string{"has_company": "no"}, fields)
		assert.False(t, outcome.Visible["company_name"])
	})

	t.Run("Matching show keeps the target visible", func(t *testing.T) {
		outcome := EvaluateBranching(map[string]string{"has_company": "yes"}, fields)
		assert.True(t, outcome.Visible["company_name"])
	})

	t.Run("No matching condition leaves the default visibility", func(t *testing.T) {
		outcome := EvaluateBranching(map[string]string{}, fields)
		assert.True(t, outcome.Visible["company_name"])
	})
}

func Test_EvaluateBranching_LastRuleWinsOnVisibilityConflict(t *testing.T) {
	condition := model.BranchingCondition{
		FieldKey: "tier",
		Operator: model.OperatorEquals,
		Value:    "pro",
	}
	fields := []model.FieldDefinition{
		branchingField("tier", 1,
			model.BranchingRule{Condition: condition, Action: model.ActionHide, TargetFields: []string{"billing"}},
			model.BranchingRule{Condition: condition, Action: model.ActionShow, TargetFields: []string{"billing"}},
		),
		branchingField("billing", 2),
	}

	outcome := EvaluateBranching(map[string]string{"tier": "pro"}, fields)
	assert.True(t, outcome.Visible["billing"])
}

func Test_EvaluateBranching_LastSkipWins(t *testing.T) {
	condition := model.BranchingCondition{
		FieldKey: "score",
		Operator: model.OperatorGreaterThan,
		Value:    "5",
	}
	fields := []model.FieldDefinition{
		branchingField("score", 1,
			model.BranchingRule{Condition: condition, Action: model.ActionSkipToStep, TargetStep: 3},
			model.BranchingRule{Condition: condition, Action: model.ActionSkipToStep, TargetStep: 5},
		),
	}

	outcome := EvaluateBranching(map[string]string{"score": "9"}, fields)
	require.NotNil(t, outcome.ForcedNextStep)
	assert.Equal(t, 5, *outcome.ForcedNextStep)
}

func Test_ConditionHolds_Operators(t *testing.T) {
	answers := map[string]string{
		"name":  "Ada Lovelace",
		"count": "42",
		"blank": "   ",
	}

	cases := []struct {
		name      string
		condition model.BranchingCondition
		expected  bool
	}{
		{"equals folds case by default",
			model.BranchingCondition{FieldKey: "name", Operator: model.OperatorEquals, Value: "ada lovelace"}, true},
		{"equals respects case sensitivity",
			model.BranchingCondition{FieldKey: "name", Operator: model.OperatorEquals, Value: "ada lovelace", CaseSensitive: true}, false},
		{"not_equals",
			model.BranchingCondition{FieldKey: "name", Operator: model.OperatorNotEquals, Value: "Grace"}, true},
		{"contains",
			model.BranchingCondition{FieldKey: "name", Operator: model.OperatorContains, Value: "love"}, true},
		{"not_contains",
			model.BranchingCondition{FieldKey: "name", Operator: model.OperatorNotContains, Value: "love"}, false},
		{"greater_than",
			model.BranchingCondition{FieldKey: "count", Operator: model.OperatorGreaterThan, Value: "41"}, true},
		{"less_than",
			model.BranchingCondition{FieldKey: "count", Operator: model.OperatorLessThan, Value: "41"}, false},
		{"greater_than_or_equal at the boundary",
			model.BranchingCondition{FieldKey: "count", Operator: model.OperatorGreaterThanOrEqual, Value: "42"}, true},
		{"less_than_or_equal at the boundary",
			model.BranchingCondition{FieldKey: "count", Operator: model.OperatorLessThanOrEqual, Value: "42"}, true},
		{"numeric operator on a non numeric answer is false",
			model.BranchingCondition{FieldKey: "name", Operator: model.OperatorGreaterThan, Value: "1"}, false},
		{"empty on whitespace only answer",
			model.BranchingCondition{FieldKey: "blank", Operator: model.OperatorEmpty}, true},
		{"empty on a missing answer",
			model.BranchingCondition{FieldKey: "missing", Operator: model.OperatorEmpty}, true},
		{"not_empty",
			model.BranchingCondition{FieldKey: "name", Operator: model.OperatorNotEmpty}, true},
		{"unknown operator is false",
			model.BranchingCondition{FieldKey: "name", Operator: "sounds_like", Value: "Ada"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, conditionHolds(tc.condition, answers))
		})
	}
}

func Test_EvaluateBranching_UnknownActionIsNoOp(t *testing.T) {
	fields := []model.FieldDefinition{
		branchingField("a", 1, model.BranchingRule{
			Condition:    model.BranchingCondition{FieldKey: "a", Operator: model.OperatorNotEmpty},
			Action:       "teleport",
			TargetFields: []string{"b"},
		}),
		branchingField("b", 1),
	}

	outcome := EvaluateBranching(map[string]string{"a": "x"}, fields)
	assert.True(t, outcome.Visible["b"])
	assert.Nil(t, outcome.ForcedNextStep)
}

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
	"fmt"
	"strconv"
	"strings"

	"github.com/wso2/identity-onboarding-flow-service/internal/fields/model"
	"github.com/wso2/identity-onboarding-flow-service/internal/system/log"
)

// BranchingOutcome is the result of evaluating branching rules over an answer
// snapshot.
type BranchingOutcome struct {
	Visible        map[string]bool
	ForcedNextStep *int
}

// EvaluateBranching evaluates every field's branching rules against the
// accumulated answers. All enabled fields start visible; rules are applied in
// field order then rule list order, so for the same target key the
// last-applied action wins. Likewise, when several skip_to_step rules match,
// the last one evaluated wins. Pure function; no side effects.
func EvaluateBranching(answers map[string]string, fields []model.FieldDefinition) BranchingOutcome {

	outcome := BranchingOutcome{Visible: make(map[string]bool, len(fields))}
	for _, field := range fields {
		outcome.Visible[field.FieldKey] = true
	}

	for _, field := range fields {
		applyBranchingRules(answers, field.BranchingRules, &outcome)
	}
	return outcome
}

// EvaluateBranchingRules applies one rule list to an outcome in list order.
func EvaluateBranchingRules(answers map[string]string, rules []model.BranchingRule, outcome *BranchingOutcome) {

	applyBranchingRules(answers, rules, outcome)
}

func applyBranchingRules(answers map[string]string, rules []model.BranchingRule, outcome *BranchingOutcome) {

	for _, rule := range rules {
		if !conditionHolds(rule.Condition, answers) {
			continue
		}
		switch rule.Action {
		case model.ActionShow:
			for _, target := range rule.TargetFields {
				outcome.Visible[target] = true
			}
		case model.ActionHide:
			for _, target := range rule.TargetFields {
				outcome.Visible[target] = false
			}
		case model.ActionSkipToStep:
			step := rule.TargetStep
			outcome.ForcedNextStep = &step
		default:
			// Unknown actions are tolerated as no-ops.
			log.GetLogger().Debug(fmt.Sprintf("Unknown branching action: %s, skipping.", rule.Action))
		}
	}
}

// conditionHolds evaluates one branching condition against the answer
// snapshot. Numeric operators coerce both sides and are false when either
// side fails to parse; string comparisons fold case unless the rule says
// otherwise; unknown operators are false.
func conditionHolds(condition model.BranchingCondition, answers map[string]string) bool {

	answer := strings.TrimSpace(answers[condition.FieldKey])

	switch condition.Operator {
	case model.OperatorEquals:
		return equalsFold(answer, condition.Value, condition.CaseSensitive)
	case model.OperatorNotEquals:
		return !equalsFold(answer, condition.Value, condition.CaseSensitive)
	case model.OperatorContains:
		return containsFold(answer, condition.Value, condition.CaseSensitive)
	case model.OperatorNotContains:
		return !containsFold(answer, condition.Value, condition.CaseSensitive)
	case model.OperatorGreaterThan:
		left, right, ok := numericSides(answer, condition.Value)
		return ok && left > right
	case model.OperatorLessThan:
		left, right, ok := numericSides(answer, condition.Value)
		return ok && left < right
	case model.OperatorGreaterThanOrEqual:
		left, right, ok := numericSides(answer, condition.Value)
		return ok && left >= right
	case model.OperatorLessThanOrEqual:
		left, right, ok := numericSides(answer, condition.Value)
		return ok && left <= right
	case model.OperatorEmpty:
		return answer == ""
	case model.OperatorNotEmpty:
		return answer != ""
	default:
		log.GetLogger().Debug(fmt.Sprintf("Unknown branching operator: %s, treating as false.",
			condition.Operator))
		return false
	}
}

func numericSides(left, right string) (float64, float64, bool) {

	leftValue, leftErr := strconv.ParseFloat(left, 64)
	rightValue, rightErr := strconv.ParseFloat(right, 64)
	if leftErr != nil || rightErr != nil {
		return 0, 0, false
	}
	return leftValue, rightValue, true
}

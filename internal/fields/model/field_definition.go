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

// FieldType identifies how a field's raw answer is normalized.
type FieldType string

const (
	FieldTypeText        FieldType = "text"
	FieldTypeEmail       FieldType = "email"
	FieldTypeNumber      FieldType = "number"
	FieldTypeCheckbox    FieldType = "checkbox"
	FieldTypeURL         FieldType = "url"
	FieldTypeSelect      FieldType = "select"
	FieldTypeMultiSelect FieldType = "multiselect"
	FieldTypeTextArea    FieldType = "textarea"
	FieldTypeDate        FieldType = "date"
)

// ValidationRuleKind identifies a custom validation rule.
type ValidationRuleKind string

const (
	RuleRequired    ValidationRuleKind = "required"
	RuleMin         ValidationRuleKind = "min"
	RuleMax         ValidationRuleKind = "max"
	RuleContains    ValidationRuleKind = "contains"
	RuleNotContains ValidationRuleKind = "not_contains"
	RuleRegex       ValidationRuleKind = "regex"
	RuleEmail       ValidationRuleKind = "email"
	RuleURL         ValidationRuleKind = "url"
	RuleNumeric     ValidationRuleKind = "numeric"
	RuleGreaterThan ValidationRuleKind = "greater_than"
	RuleLessThan    ValidationRuleKind = "less_than"
	RuleEquals      ValidationRuleKind = "equals"
	RuleNotEquals   ValidationRuleKind = "not_equals"
	RuleEmpty       ValidationRuleKind = "empty"
	RuleNotEmpty    ValidationRuleKind = "not_empty"
)

// BranchingOperator identifies a branching condition comparison.
type BranchingOperator string

const (
	OperatorEquals             BranchingOperator = "equals"
	OperatorNotEquals          BranchingOperator = "not_equals"
	OperatorContains           BranchingOperator = "contains"
	OperatorNotContains        BranchingOperator = "not_contains"
	OperatorGreaterThan        BranchingOperator = "greater_than"
	OperatorLessThan           BranchingOperator = "less_than"
	OperatorGreaterThanOrEqual BranchingOperator = "greater_than_or_equal"
	OperatorLessThanOrEqual    BranchingOperator = "less_than_or_equal"
	OperatorEmpty              BranchingOperator = "empty"
	OperatorNotEmpty           BranchingOperator = "not_empty"
)

// BranchingAction identifies what a matched branching rule does.
type BranchingAction string

const (
	ActionShow       BranchingAction = "show"
	ActionHide       BranchingAction = "hide"
	ActionSkipToStep BranchingAction = "skip_to_step"
)

// ValidationRule is one custom validation constraint on a field. Rules are
// evaluated in list order.
type ValidationRule struct {
	Kind          ValidationRuleKind `json:"kind"`
	Value         string             `json:"value,omitempty"`
	Message       string             `json:"message,omitempty"`
	CaseSensitive bool               `json:"caseSensitive,omitempty"`
}

// BranchingCondition is the predicate of a branching rule, evaluated against
// the accumulated answer set.
type BranchingCondition struct {
	FieldKey      string            `json:"fieldKey"`
	Operator      BranchingOperator `json:"operator"`
	Value         string            `json:"value,omitempty"`
	CaseSensitive bool              `json:"caseSensitive,omitempty"`
}

// BranchingRule shows or hides target fields, or forces a step jump, when its
// condition holds.
type BranchingRule struct {
	Condition    BranchingCondition `json:"condition"`
	Action       BranchingAction    `json:"action"`
	TargetFields []string           `json:"targetFields,omitempty"`
	TargetStep   int                `json:"targetStep,omitempty"`
}

// FieldDefinition is one admin-authored onboarding question. field_key is
// unique within a campaign; only enabled fields participate in flow
// computation. Presentation order is (step_number, sort_order).
type FieldDefinition struct {
	FieldId         string           `json:"fieldId,omitempty"`
	CampaignId      string           `json:"campaignId"`
	FieldKey        string           `json:"fieldKey"`
	Label           string           `json:"label"`
	Type            FieldType        `json:"type"`
	Placeholder     string           `json:"placeholder,omitempty"`
	Description     string           `json:"description,omitempty"`
	Options         []string         `json:"options,omitempty"`
	IsRequired      bool             `json:"isRequired"`
	IsEnabled       bool             `json:"isEnabled"`
	SortOrder       int              `json:"sortOrder"`
	StepNumber      int              `json:"stepNumber"`
	ValidationRules []ValidationRule `json:"validationRules,omitempty"`
	BranchingRules  []BranchingRule  `json:"branchingRules,omitempty"`
	CreatedAt       int64            `json:"createdAt,omitempty"`
	UpdatedAt       int64            `json:"updatedAt,omitempty"`
}

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
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/wso2/identity-onboarding-flow-service/internal/fields/model"
	"github.com/wso2/identity-onboarding-flow-service/internal/system/log"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// dateLayouts are tried in order when parsing date answers.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
	"Jan 2, 2006",
}

var checkboxValues = map[string]bool{
	"yes": true, "no": true, "true": true, "false": true, "1": true, "0": true,
}

// ValidationOptions selects the calling surface's behavior. The turn-based
// surface treats every field as implicitly required and stops at the first
// failing rule; the batch surface relaxes emptiness when re-deriving
// visibility and accumulates every failure for an end-of-step summary.
type ValidationOptions struct {
	TreatEmptyAsRequired bool
	CollectAll           bool
}

// ValidationResult is the outcome of validating one raw answer.
type ValidationResult struct {
	Valid      bool
	Normalized string
	Errors     []string
}

// ValidateAnswer validates one raw answer against a field's type constraints
// and its custom validation rules, producing a normalized value or a list of
// error messages. Pure function; no side effects.
func ValidateAnswer(rawValue string, field model.FieldDefinition, opts ValidationOptions) ValidationResult {

	trimmed := strings.TrimSpace(rawValue)

	if trimmed == "" {
		if opts.TreatEmptyAsRequired {
			return invalid("This field is required")
		}
		// Empty explicitly allowed by the caller; custom rules are skipped.
		return ValidationResult{Valid: true, Normalized: ""}
	}

	normalized, typeErr := normalizeByType(trimmed, field)
	if typeErr != "" {
		if !opts.CollectAll {
			return invalid(typeErr)
		}
		// The custom rules still run against the trimmed input so the step
		// summary lists every problem at once.
		result := evaluateRules(normalized, field, opts)
		result.Errors = append([]string{typeErr}, result.Errors...)
		result.Valid = false
		return result
	}

	return evaluateRules(normalized, field, opts)
}

// normalizeByType applies per-type canonicalization before any custom rule
// runs. It returns the normalized value and an empty string, or the original
// value and an error message.
func normalizeByType(value string, field model.FieldDefinition) (string, string) {

	switch field.Type {
	case model.FieldTypeText, model.FieldTypeTextArea:
		return value, ""
	case model.FieldTypeEmail:
		if !emailPattern.MatchString(value) {
			return value, "Please enter a valid email address"
		}
		return value, ""
	case model.FieldTypeNumber:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return value, "Please enter a valid number"
		}
		// The canonical re-stringified number is stored, not the raw text,
		// so branching comparisons downstream stay numeric-safe.
		return strconv.FormatFloat(parsed, 'f', -1, 64), ""
	case model.FieldTypeCheckbox:
		lowered := strings.ToLower(value)
		if !checkboxValues[lowered] {
			return value, "Please answer with yes or no"
		}
		return lowered, ""
	case model.FieldTypeURL:
		parsed, err := url.Parse(value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return value, "Please enter a valid URL"
		}
		return value, ""
	case model.FieldTypeSelect:
		return canonicalOption(value, field.Options), ""
	case model.FieldTypeMultiSelect:
		parts := strings.Split(value, ",")
		for i, part := range parts {
			parts[i] = canonicalOption(strings.TrimSpace(part), field.Options)
		}
		return strings.Join(parts, ", "), ""
	case model.FieldTypeDate:
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, value); err == nil {
				return parsed.Format("2006-01-02"), ""
			}
		}
		return value, "Please enter a valid date"
	default:
		// Unknown field type is tolerated; the value passes through untouched.
		log.GetLogger().Debug(fmt.Sprintf("Unknown field type: %s, skipping type normalization.",
			field.Type))
		return value, ""
	}
}

// canonicalOption matches the value against the option list
// case-insensitively and returns the canonically-cased option string. A value
// with no match is accepted unchanged: the option list is a hint, not an
// enforced enum.
func canonicalOption(value string, options []string) string {

	for _, option := range options {
		if strings.EqualFold(option, value) {
			return option
		}
	}
	return value
}

func evaluateRules(value string, field model.FieldDefinition, opts ValidationOptions) ValidationResult {

	var failures []string
	for _, rule := range field.ValidationRules {
		if message := evaluateRule(value, field.Type, rule); message != "" {
			failures = append(failures, message)
			if !opts.CollectAll {
				break
			}
		}
	}

	if len(failures) > 0 {
		return ValidationResult{Valid: false, Errors: failures}
	}
	return ValidationResult{Valid: true, Normalized: value}
}

// evaluateRule returns an empty string when the rule passes, or the failure
// message otherwise. A malformed rule (bad regex, unparsable bound) degrades
// to a validation failure, never a panic.
func evaluateRule(value string, fieldType model.FieldType, rule model.ValidationRule) string {

	switch rule.Kind {
	case model.RuleRequired:
		if strings.TrimSpace(value) == "" {
			return ruleMessage(rule, "This field is required")
		}
	case model.RuleMin:
		return evaluateBound(value, fieldType, rule, false)
	case model.RuleMax:
		return evaluateBound(value, fieldType, rule, true)
	case model.RuleContains:
		if !containsFold(value, rule.Value, rule.CaseSensitive) {
			return ruleMessage(rule, fmt.Sprintf("Must contain %q", rule.Value))
		}
	case model.RuleNotContains:
		if containsFold(value, rule.Value, rule.CaseSensitive) {
			return ruleMessage(rule, fmt.Sprintf("Must not contain %q", rule.Value))
		}
	case model.RuleRegex:
		pattern, err := regexp.Compile(rule.Value)
		if err != nil {
			return "Invalid regex pattern in validation rule"
		}
		if !pattern.MatchString(value) {
			return ruleMessage(rule, "Value does not match the expected format")
		}
	case model.RuleEmail:
		if !emailPattern.MatchString(value) {
			return ruleMessage(rule, "Please enter a valid email address")
		}
	case model.RuleURL:
		parsed, err := url.Parse(value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return ruleMessage(rule, "Please enter a valid URL")
		}
	case model.RuleNumeric:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return ruleMessage(rule, "Please enter a valid number")
		}
	case model.RuleGreaterThan:
		left, lErr := strconv.ParseFloat(value, 64)
		right, rErr := strconv.ParseFloat(rule.Value, 64)
		if lErr != nil || rErr != nil || left <= right {
			return ruleMessage(rule, fmt.Sprintf("Must be greater than %s", rule.Value))
		}
	case model.RuleLessThan:
		left, lErr := strconv.ParseFloat(value, 64)
		right, rErr := strconv.ParseFloat(rule.Value, 64)
		if lErr != nil || rErr != nil || left >= right {
			return ruleMessage(rule, fmt.Sprintf("Must be less than %s", rule.Value))
		}
	case model.RuleEquals:
		if !equalsFold(value, rule.Value, rule.CaseSensitive) {
			return ruleMessage(rule, fmt.Sprintf("Must be %q", rule.Value))
		}
	case model.RuleNotEquals:
		if equalsFold(value, rule.Value, rule.CaseSensitive) {
			return ruleMessage(rule, fmt.Sprintf("Must not be %q", rule.Value))
		}
	case model.RuleEmpty:
		if strings.TrimSpace(value) != "" {
			return ruleMessage(rule, "Must be empty")
		}
	case model.RuleNotEmpty:
		if strings.TrimSpace(value) == "" {
			return ruleMessage(rule, "Must not be empty")
		}
	default:
		// Unknown rule kinds are tolerated as no-ops.
		log.GetLogger().Debug(fmt.Sprintf("Unknown validation rule kind: %s, skipping.", rule.Kind))
	}
	return ""
}

// evaluateBound handles min/max. Number fields compare the numeric value;
// everything else compares character length.
func evaluateBound(value string, fieldType model.FieldType, rule model.ValidationRule, isMax bool) string {

	bound, err := strconv.ParseFloat(rule.Value, 64)
	if err != nil {
		return "Invalid validation rule value"
	}

	if fieldType == model.FieldTypeNumber {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return ruleMessage(rule, "Please enter a valid number")
		}
		if isMax && parsed > bound {
			return ruleMessage(rule, fmt.Sprintf("Must be at most %s", rule.Value))
		}
		if !isMax && parsed < bound {
			return ruleMessage(rule, fmt.Sprintf("Must be at least %s", rule.Value))
		}
		return ""
	}

	length := float64(len([]rune(value)))
	if isMax && length > bound {
		return ruleMessage(rule, fmt.Sprintf("Must be at most %s characters", rule.Value))
	}
	if !isMax && length < bound {
		return ruleMessage(rule, fmt.Sprintf("Must be at least %s characters", rule.Value))
	}
	return ""
}

func ruleMessage(rule model.ValidationRule, fallback string) string {
	if rule.Message != "" {
		return rule.Message
	}
	return fallback
}

func containsFold(value, substring string, caseSensitive bool) bool {
	if caseSensitive {
		return strings.Contains(value, substring)
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(substring))
}

func equalsFold(left, right string, caseSensitive bool) bool {
	if caseSensitive {
		return left == right
	}
	return strings.EqualFold(left, right)
}

func invalid(messages ...string) ValidationResult {
	return ValidationResult{Valid: false, Errors: messages}
}

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

// AnswerRecord is one user's answer to one field. Identity is
// (campaign_id, user_id, field_key); a later write for the same key replaces
// the value, it never creates a duplicate row.
//
// IsComplete is a campaign-wide derived flag copied onto every answer row of a
// user once the whole flow completes. It is never true while any required
// enabled field is unanswered.
type AnswerRecord struct {
	ResponseId      string `json:"responseId,omitempty"`
	CampaignId      string `json:"campaignId"`
	UserId          string `json:"userId"`
	Username        string `json:"username,omitempty"`
	FieldKey        string `json:"fieldKey"`
	RawValue        string `json:"rawValue"`
	NormalizedValue string `json:"normalizedValue"`
	IsComplete      bool   `json:"isCompleteFlag"`
	CreatedAt       int64  `json:"createdAt,omitempty"`
	UpdatedAt       int64  `json:"updatedAt,omitempty"`
}

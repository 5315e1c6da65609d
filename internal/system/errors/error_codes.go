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

package errors

const errorPrefix = "OFS-"

var (
	// Server error codes

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Unable to initialize database client.",
	}

	FETCH_FIELD_DEFINITIONS = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while fetching onboarding field definitions.",
	}

	FETCH_RESPONSES = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while fetching onboarding responses.",
	}

	UPSERT_RESPONSE = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while storing onboarding response.",
	}

	MARK_RESPONSES_COMPLETE = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while marking onboarding responses complete.",
	}

	// Client error codes

	UNKNOWN_FIELD = ErrorMessage{
		Code:        errorPrefix + "11001",
		Message:     "Invalid field.",
		Description: "The requested field is not enabled for this campaign.",
	}

	ANSWER_VALIDATION = ErrorMessage{
		Code:    errorPrefix + "11002",
		Message: "Answer validation failed.",
	}

	MISSING_REQUEST_PARAMETER = ErrorMessage{
		Code:    errorPrefix + "11003",
		Message: "Missing required request parameter.",
	}

	INVALID_REQUEST_PAYLOAD = ErrorMessage{
		Code:    errorPrefix + "11004",
		Message: "Invalid request payload.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:        errorPrefix + "11005",
		Message:     "Unauthorized.",
		Description: "A valid bearer token is required to access this resource.",
	}
)

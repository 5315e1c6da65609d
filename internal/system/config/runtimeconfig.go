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

package config

import "sync"

// OFSRuntime holds the runtime configuration for the onboarding flow service.
type OFSRuntime struct {
	OFSHome string `yaml:"ofs_home"`
	Config  Config `yaml:"config"`
}

var (
	runtimeConfig *OFSRuntime
	once          sync.Once
)

// InitializeOFSRuntime initializes the OFSRuntime configuration.
func InitializeOFSRuntime(ofsHome string, config *Config) error {

	once.Do(func() {
		runtimeConfig = &OFSRuntime{
			OFSHome: ofsHome,
			Config:  *config,
		}
	})

	return nil
}

// GetOFSRuntime returns the OFSRuntime configuration.
func GetOFSRuntime() *OFSRuntime {

	if runtimeConfig == nil {
		panic("OFSRuntime is not initialized")
	}
	return runtimeConfig
}

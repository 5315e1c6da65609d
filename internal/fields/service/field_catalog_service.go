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
	"sync"
	"time"

	"github.com/wso2/identity-onboarding-flow-service/internal/fields/model"
	"github.com/wso2/identity-onboarding-flow-service/internal/fields/store"
	"github.com/wso2/identity-onboarding-flow-service/internal/system/cache"
	"github.com/wso2/identity-onboarding-flow-service/internal/system/config"
	"github.com/wso2/identity-onboarding-flow-service/internal/system/constants"
)

// FieldCatalogServiceInterface exposes read access to a campaign's enabled
// field definitions. GetEnabledFields always reads the store so a toggled
// is_enabled flag takes effect on the very next flow computation;
// ListEnabledFields may serve a cached snapshot and is only suitable for
// rendering surfaces.
type FieldCatalogServiceInterface interface {
	GetEnabledFields(campaignId string) ([]model.FieldDefinition, error)
	ListEnabledFields(campaignId string) ([]model.FieldDefinition, error)
	GetField(campaignId, fieldKey string) (*model.FieldDefinition, error)
	Invalidate(campaignId string)
}

// FieldCatalogService is the default implementation of the
// FieldCatalogServiceInterface.
type FieldCatalogService struct{}

var (
	fieldCacheOnce sync.Once
	fieldCache     *cache.Cache
)

// catalogCache builds the cache on first use so the configured TTL is
// honored; a missing or zero configuration falls back to the default.
func catalogCache() *cache.Cache {

	fieldCacheOnce.Do(func() {
		ttlSeconds := config.GetOFSRuntime().Config.FieldCache.TTLSeconds
		if ttlSeconds <= 0 {
			ttlSeconds = constants.DefaultFieldCacheTTLSeconds
		}
		fieldCache = cache.NewCache(time.Duration(ttlSeconds) * time.Second)
	})
	return fieldCache
}

// GetFieldCatalogService creates a new instance of FieldCatalogService.
func GetFieldCatalogService() FieldCatalogServiceInterface {

	return &FieldCatalogService{}
}

// GetEnabledFields returns the enabled fields of a campaign in
// (step_number, sort_order) order. It always reads the store: completion is
// computed from the current catalog, so a field disabled by an authoring
// write stops counting as required on the next call.
func (fcs *FieldCatalogService) GetEnabledFields(campaignId string) ([]model.FieldDefinition, error) {

	return store.GetEnabledFields(campaignId)
}

// ListEnabledFields returns the same catalog as GetEnabledFields but may
// serve a per-campaign cached snapshot up to the configured TTL old. Only the
// rendering endpoint uses it; authoring systems call Invalidate after writes
// to drop the snapshot early.
func (fcs *FieldCatalogService) ListEnabledFields(campaignId string) ([]model.FieldDefinition, error) {

	if cached, found := catalogCache().Get(cacheKey(campaignId)); found {
		if fields, ok := cached.([]model.FieldDefinition); ok {
			return fields, nil
		}
	}

	fields, err := store.GetEnabledFields(campaignId)
	if err != nil {
		return nil, err
	}
	catalogCache().Set(cacheKey(campaignId), fields)
	return fields, nil
}

// GetField returns a single enabled field of a campaign, or nil if the key is
// not enabled for the campaign.
func (fcs *FieldCatalogService) GetField(campaignId, fieldKey string) (*model.FieldDefinition, error) {

	fields, err := fcs.GetEnabledFields(campaignId)
	if err != nil {
		return nil, err
	}
	for i := range fields {
		if fields[i].FieldKey == fieldKey {
			return &fields[i], nil
		}
	}
	return nil, nil
}

// Invalidate drops the cached catalog for a campaign.
func (fcs *FieldCatalogService) Invalidate(campaignId string) {

	catalogCache().Delete(cacheKey(campaignId))
}

func cacheKey(campaignId string) string {
	return "fields:" + campaignId
}

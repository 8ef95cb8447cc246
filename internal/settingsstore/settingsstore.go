package settingsstore

import (
	"context"
	"errors"

	"github.com/mrlokans/quotes/internal/config"
	"github.com/mrlokans/quotes/internal/entities"
	"github.com/mrlokans/quotes/internal/kv"
)

const (
	SourceDatabase = "database"
	SourceConfig   = "config"
	SourceDefault  = "default"
)

// Priority: database > config (environment) > default
type SettingsStore struct {
	kv   kv.Store
	sync config.Sync
}

func New(store kv.Store, syncCfg config.Sync) *SettingsStore {
	return &SettingsStore{kv: store, sync: syncCfg}
}

// lookup returns the stored value and whether a non-empty override exists.
func (s *SettingsStore) lookup(ctx context.Context, key string) (string, bool) {
	value, err := s.kv.Get(ctx, key)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

func (s *SettingsStore) clear(ctx context.Context, key string) error {
	err := s.kv.Delete(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	return err
}

// GetLastFilter returns the last selected category filter, "all" when none was saved.
func (s *SettingsStore) GetLastFilter(ctx context.Context) string {
	if value, ok := s.lookup(ctx, entities.SettingKeyLastFilter); ok {
		return value
	}
	return entities.CategoryAll
}

func (s *SettingsStore) SetLastFilter(ctx context.Context, filter string) error {
	return s.kv.Set(ctx, entities.SettingKeyLastFilter, filter)
}

type FilterInfo struct {
	Filter string `json:"filter"`
	Source string `json:"source"` // "database" or "default"
}

func (s *SettingsStore) GetLastFilterInfo(ctx context.Context) FilterInfo {
	if value, ok := s.lookup(ctx, entities.SettingKeyLastFilter); ok {
		return FilterInfo{Filter: value, Source: SourceDatabase}
	}
	return FilterInfo{Filter: entities.CategoryAll, Source: SourceDefault}
}

func (s *SettingsStore) ClearLastFilter(ctx context.Context) error {
	return s.clear(ctx, entities.SettingKeyLastFilter)
}

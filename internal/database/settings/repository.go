// Package settings provides database operations for durable key/value state.
//
// # Usage
//
//	repo := settings.NewRepository(db)
//	value, err := repo.Get(ctx, "lastFilter")
package settings

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/quotes/internal/entities"
	"github.com/mrlokans/quotes/internal/kv"
)

// Repository handles all settings database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetSetting retrieves the full setting row by key.
func (r *Repository) GetSetting(ctx context.Context, key string) (*entities.Setting, error) {
	var setting entities.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// Get returns the value stored under key, or kv.ErrNotFound.
func (r *Repository) Get(ctx context.Context, key string) (string, error) {
	setting, err := r.GetSetting(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", kv.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

// Set creates or updates a setting in a single upsert statement.
func (r *Repository) Set(ctx context.Context, key, value string) error {
	setting := entities.Setting{Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

// Delete removes a setting by key. Missing keys are not an error.
func (r *Repository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&entities.Setting{}).Error
}

var _ kv.Store = (*Repository)(nil)

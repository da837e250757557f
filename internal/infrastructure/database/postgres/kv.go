// internal/infrastructure/database/postgres/kv.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bv-cosmetics/storefront/internal/infrastructure/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StateRecord is one persisted shopper document (cart or wishlist)
type StateRecord struct {
	Key       string    `gorm:"primaryKey;size:255" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName overrides the table name
func (StateRecord) TableName() string {
	return "storefront_states"
}

// KV stores shopper state rows in Postgres
type KV struct {
	db *gorm.DB
}

var _ storage.KV = (*KV)(nil)

// NewKV creates a Postgres-backed storage.KV
func NewKV(db *gorm.DB) *KV {
	return &KV{db: db}
}

// Get returns the value stored under key
func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var record StateRecord
	err := k.db.WithContext(ctx).Where("key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state %s: %w", key, err)
	}
	return []byte(record.Value), nil
}

// Set upserts value under key
func (k *KV) Set(ctx context.Context, key string, value []byte) error {
	record := StateRecord{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC(),
	}

	err := k.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to save state %s: %w", key, err)
	}
	return nil
}

// Delete removes key
func (k *KV) Delete(ctx context.Context, key string) error {
	if err := k.db.WithContext(ctx).Where("key = ?", key).Delete(&StateRecord{}).Error; err != nil {
		return fmt.Errorf("failed to delete state %s: %w", key, err)
	}
	return nil
}

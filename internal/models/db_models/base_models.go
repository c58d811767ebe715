package db_models

import (
	"time"

	"gorm.io/gorm"
)

// Timestamps stores unix-second create/update times.
type Timestamps struct {
	CreatedAt int64 `gorm:"autoCreateTime"`
	UpdatedAt int64 `gorm:"autoUpdateTime"`
}

// Hooks to manage int64 timestamps
func (t *Timestamps) BeforeCreate(tx *gorm.DB) error {
	now := time.Now().Unix()
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

func (t *Timestamps) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now().Unix()
	return nil
}

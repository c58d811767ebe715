package repositories

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bizplan/internal/models/db_models"
	"bizplan/internal/storage"
)

// StoredValueRepository is the postgres-backed storage.KeyValueStore.
type StoredValueRepository struct {
	db *gorm.DB
}

func NewStoredValueRepository(db *gorm.DB) *StoredValueRepository {
	return &StoredValueRepository{db: db}
}

var _ storage.KeyValueStore = (*StoredValueRepository)(nil)

func (r *StoredValueRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&db_models.StoredValue{})
}

func (r *StoredValueRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var row db_models.StoredValue
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return row.Value, true, nil
}

func (r *StoredValueRepository) Set(ctx context.Context, key, value string) error {
	return r.SetMany(ctx, map[string]string{key: value})
}

func (r *StoredValueRepository) SetMany(ctx context.Context, values map[string]string) error {
	if err := storage.CheckKeys(values); err != nil {
		return err
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	// stable lock order across concurrent writers
	sort.Strings(keys)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, k := range keys {
			row := db_models.StoredValue{Key: k, Value: values[k]}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

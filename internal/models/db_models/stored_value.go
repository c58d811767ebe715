package db_models

// StoredValue is one entry of the durable key-value store.
type StoredValue struct {
	Key   string `gorm:"column:key;primaryKey;size:255"`
	Value string `gorm:"type:text;not null"`
	Timestamps
}

func (StoredValue) TableName() string {
	return "stored_values"
}

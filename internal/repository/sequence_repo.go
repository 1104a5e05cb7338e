package repository

import (
	"context"

	"gorm.io/gorm"
)

// SequenceRepository hands out document numbers. Next is a single
// upsert + RETURNING statement, so the database serializes concurrent
// increments and no two callers ever receive the same value.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}

type sequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

// Sequences start at 1001 so formatted numbers read like "INV-01001".
func (r *sequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	err := GetDB(ctx, r.db).Raw(`
		INSERT INTO document_sequences (name, value) VALUES (?, 1001)
		ON CONFLICT (name) DO UPDATE SET value = document_sequences.value + 1
		RETURNING value
	`, name).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}

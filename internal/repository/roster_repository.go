package repository

import (
	"context"
	"errors"

	"github.com/lanexam/backend/internal/kvstore"
	"github.com/lanexam/backend/internal/model"
)

// RosterRepository stores one ordered student list per class.
type RosterRepository struct {
	store kvstore.Store
}

// NewRosterRepository creates a new RosterRepository.
func NewRosterRepository(store kvstore.Store) *RosterRepository {
	return &RosterRepository{store: store}
}

// Get loads a class roster; a missing document yields an empty roster.
func (r *RosterRepository) Get(ctx context.Context, classID string) ([]model.StudentRecord, error) {
	var students []model.StudentRecord
	err := r.store.Get(ctx, prefixRosters+classID, &students)
	if err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return nil, err
	}
	return students, nil
}

// Save replaces a class roster.
func (r *RosterRepository) Save(ctx context.Context, classID string, students []model.StudentRecord) error {
	return r.store.Put(ctx, prefixRosters+classID, students)
}

// Delete removes a class roster.
func (r *RosterRepository) Delete(ctx context.Context, classID string) error {
	return r.store.Delete(ctx, prefixRosters+classID)
}

package repository

import (
	"context"
	"errors"

	"github.com/lanexam/backend/internal/kvstore"
	"github.com/lanexam/backend/internal/model"
)

// ClassRepository stores the class index as a single id-keyed document.
type ClassRepository struct {
	store kvstore.Store
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(store kvstore.Store) *ClassRepository {
	return &ClassRepository{store: store}
}

// GetAll loads the class index; a missing document yields an empty map.
func (r *ClassRepository) GetAll(ctx context.Context) (map[string]model.Class, error) {
	classes := make(map[string]model.Class)
	err := r.store.Get(ctx, keyClasses, &classes)
	if err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return nil, err
	}
	return classes, nil
}

// SaveAll replaces the class index.
func (r *ClassRepository) SaveAll(ctx context.Context, classes map[string]model.Class) error {
	return r.store.Put(ctx, keyClasses, classes)
}

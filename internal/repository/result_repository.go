package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/lanexam/backend/internal/kvstore"
	"github.com/lanexam/backend/internal/model"
)

// ResultRepository stores the result ledger, one document per session.
type ResultRepository struct {
	store kvstore.Store
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(store kvstore.Store) *ResultRepository {
	return &ResultRepository{store: store}
}

// Get loads the ledger for a session key; missing yields an empty ledger.
func (r *ResultRepository) Get(ctx context.Context, sessionKey string) ([]model.ResultRecord, error) {
	var results []model.ResultRecord
	err := r.store.Get(ctx, prefixResults+sessionKey, &results)
	if err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return nil, err
	}
	return results, nil
}

// Save replaces the ledger for a session key.
func (r *ResultRepository) Save(ctx context.Context, sessionKey string, results []model.ResultRecord) error {
	return r.store.Put(ctx, prefixResults+sessionKey, results)
}

// ListSessionKeys returns the session keys of every stored ledger.
func (r *ResultRepository) ListSessionKeys(ctx context.Context) ([]string, error) {
	keys, err := r.store.List(ctx, prefixResults)
	if err != nil {
		return nil, err
	}
	sessionKeys := make([]string, 0, len(keys))
	for _, k := range keys {
		sessionKeys = append(sessionKeys, strings.TrimPrefix(k, prefixResults))
	}
	return sessionKeys, nil
}

package repository

import (
	"context"
	"errors"

	"github.com/lanexam/backend/internal/kvstore"
	"github.com/lanexam/backend/internal/model"
)

// ClaimRepository stores the stt-keyed claim map, one document per session.
type ClaimRepository struct {
	store kvstore.Store
}

// NewClaimRepository creates a new ClaimRepository.
func NewClaimRepository(store kvstore.Store) *ClaimRepository {
	return &ClaimRepository{store: store}
}

// Get loads the claim map for a session key; missing yields an empty map.
func (r *ClaimRepository) Get(ctx context.Context, sessionKey string) (map[string]*model.ClaimState, error) {
	claims := make(map[string]*model.ClaimState)
	err := r.store.Get(ctx, prefixStatus+sessionKey, &claims)
	if err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return nil, err
	}
	return claims, nil
}

// Save replaces the claim map for a session key.
func (r *ClaimRepository) Save(ctx context.Context, sessionKey string, claims map[string]*model.ClaimState) error {
	return r.store.Put(ctx, prefixStatus+sessionKey, claims)
}

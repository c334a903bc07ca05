package repository

import (
	"context"
	"errors"

	"github.com/lanexam/backend/internal/kvstore"
	"github.com/lanexam/backend/internal/model"
)

// SessionRepository stores the singleton session pointer plus the live
// exam settings as one document.
type SessionRepository struct {
	store kvstore.Store
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(store kvstore.Store) *SessionRepository {
	return &SessionRepository{store: store}
}

// Get loads the session document; a missing document yields defaults.
func (r *SessionRepository) Get(ctx context.Context) (*model.SessionDoc, error) {
	var doc model.SessionDoc
	err := r.store.Get(ctx, keySession, &doc)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			doc.ExamSettings = model.DefaultExamSettings("Bài kiểm tra trắc nghiệm")
			return &doc, nil
		}
		return nil, err
	}
	return &doc, nil
}

// Save replaces the session document.
func (r *SessionRepository) Save(ctx context.Context, doc *model.SessionDoc) error {
	return r.store.Put(ctx, keySession, doc)
}

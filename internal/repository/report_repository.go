package repository

import (
	"context"
	"errors"

	"github.com/lanexam/backend/internal/kvstore"
	"github.com/lanexam/backend/internal/model"
)

// ReportRepository stores all correction reports as a single document,
// across sessions (reports reference stt values that only resolve within
// the session they were filed in, but the history is kept whole).
type ReportRepository struct {
	store kvstore.Store
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(store kvstore.Store) *ReportRepository {
	return &ReportRepository{store: store}
}

// GetAll loads every report; missing yields an empty list.
func (r *ReportRepository) GetAll(ctx context.Context) ([]model.Report, error) {
	var reports []model.Report
	err := r.store.Get(ctx, keyReports, &reports)
	if err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return nil, err
	}
	return reports, nil
}

// SaveAll replaces the report list.
func (r *ReportRepository) SaveAll(ctx context.Context, reports []model.Report) error {
	return r.store.Put(ctx, keyReports, reports)
}

package repository

import (
	"context"
	"strings"

	"github.com/lanexam/backend/internal/kvstore"
	"github.com/lanexam/backend/internal/model"
)

// ExamRepository stores one catalog document per exam.
type ExamRepository struct {
	store kvstore.Store
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(store kvstore.Store) *ExamRepository {
	return &ExamRepository{store: store}
}

// Get loads an exam document. Returns kvstore.ErrNotFound when absent.
func (r *ExamRepository) Get(ctx context.Context, examID string) (*model.Exam, error) {
	var exam model.Exam
	if err := r.store.Get(ctx, prefixExams+examID, &exam); err != nil {
		return nil, err
	}
	if exam.ID == "" {
		exam.ID = examID
	}
	return &exam, nil
}

// Save stores an exam document under its ID.
func (r *ExamRepository) Save(ctx context.Context, exam *model.Exam) error {
	return r.store.Put(ctx, prefixExams+exam.ID, exam)
}

// Delete removes an exam document.
func (r *ExamRepository) Delete(ctx context.Context, examID string) error {
	return r.store.Delete(ctx, prefixExams+examID)
}

// List loads catalog entries for every stored exam.
func (r *ExamRepository) List(ctx context.Context) ([]model.ExamInfo, error) {
	keys, err := r.store.List(ctx, prefixExams)
	if err != nil {
		return nil, err
	}

	infos := make([]model.ExamInfo, 0, len(keys))
	for _, key := range keys {
		id := strings.TrimPrefix(key, prefixExams)
		exam, err := r.Get(ctx, id)
		if err != nil {
			continue // Skip unreadable documents, same as a broken file on disk
		}
		infos = append(infos, model.ExamInfo{
			ID:            id,
			Name:          exam.Name,
			QuestionCount: len(exam.Questions),
			CreatedAt:     exam.CreatedAt,
		})
	}
	return infos, nil
}

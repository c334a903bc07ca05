package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/lanexam/backend/internal/kvstore"
	"github.com/lanexam/backend/internal/model"
	"github.com/lanexam/backend/internal/ws"
)

// ExamService manages the exam catalog and the active exam's questions.
// Question edits always target the active exam, matching the teacher UI
// where the question editor is bound to the running session.
type ExamService struct {
	sessions *SessionService
}

func NewExamService(sessions *SessionService) *ExamService {
	return &ExamService{sessions: sessions}
}

// List returns catalog entries for every stored exam, newest first.
func (s *ExamService) List(ctx context.Context) ([]model.ExamInfo, error) {
	infos, err := s.sessions.examRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].CreatedAt.After(infos[j].CreatedAt) })
	return infos, nil
}

// Create adds a new empty exam with default settings.
func (s *ExamService) Create(ctx context.Context, req model.CreateExamRequest) (*model.Exam, error) {
	name := strings.TrimSpace(req.Name)
	exam := model.Exam{
		ID:        uuid.NewString(),
		Name:      name,
		Questions: []model.Question{},
		Settings:  model.DefaultExamSettings(name),
		CreatedAt: time.Now(),
	}
	if err := s.sessions.examRepo.Save(ctx, &exam); err != nil {
		return nil, fmt.Errorf("save exam: %w", err)
	}

	log.Info().Str("exam_id", exam.ID).Str("name", exam.Name).Msg("exam created")
	return &exam, nil
}

// Get returns a stored exam with its full question list.
func (s *ExamService) Get(ctx context.Context, examID string) (*model.Exam, error) {
	exam, err := s.sessions.examRepo.Get(ctx, examID)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}
	return exam, nil
}

// Delete removes an exam from the catalog. The exam backing the active
// session cannot be removed.
func (s *ExamService) Delete(ctx context.Context, examID string) error {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.doc.CurrentSession.ExamID == examID {
		return ErrExamInUse
	}
	if _, err := ss.examRepo.Get(ctx, examID); err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return ErrExamNotFound
		}
		return err
	}
	if err := ss.examRepo.Delete(ctx, examID); err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}

	log.Info().Str("exam_id", examID).Msg("exam deleted")
	return nil
}

// Questions returns the active exam's questions, correct answers included.
func (s *ExamService) Questions() ([]model.Question, error) {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.exam == nil {
		return nil, ErrNoActiveSession
	}
	return append([]model.Question(nil), ss.exam.Questions...), nil
}

// ReplaceQuestions swaps the active exam's full question list.
func (s *ExamService) ReplaceQuestions(ctx context.Context, req model.ReplaceQuestionsRequest) (int, error) {
	questions := make([]model.Question, len(req.Questions))
	for i, q := range req.Questions {
		question, err := questionFromRequest(q)
		if err != nil {
			return 0, err
		}
		questions[i] = question
	}

	err := s.mutateQuestions(ctx, func(_ []model.Question) ([]model.Question, error) {
		return questions, nil
	})
	return len(questions), err
}

// AddQuestion appends one question to the active exam.
func (s *ExamService) AddQuestion(ctx context.Context, req model.QuestionRequest) error {
	question, err := questionFromRequest(req)
	if err != nil {
		return err
	}
	return s.mutateQuestions(ctx, func(qs []model.Question) ([]model.Question, error) {
		return append(qs, question), nil
	})
}

// UpdateQuestion replaces the question at index.
func (s *ExamService) UpdateQuestion(ctx context.Context, index int, req model.QuestionRequest) error {
	question, err := questionFromRequest(req)
	if err != nil {
		return err
	}
	return s.mutateQuestions(ctx, func(qs []model.Question) ([]model.Question, error) {
		if index < 0 || index >= len(qs) {
			return nil, ErrNoQuestions
		}
		qs[index] = question
		return qs, nil
	})
}

// DeleteQuestion removes the question at index.
func (s *ExamService) DeleteQuestion(ctx context.Context, index int) error {
	return s.mutateQuestions(ctx, func(qs []model.Question) ([]model.Question, error) {
		if index < 0 || index >= len(qs) {
			return nil, ErrNoQuestions
		}
		return append(qs[:index], qs[index+1:]...), nil
	})
}

// mutateQuestions applies fn to the active exam's questions and persists
// the exam, broadcasting the updated count.
func (s *ExamService) mutateQuestions(ctx context.Context, fn func([]model.Question) ([]model.Question, error)) error {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.exam == nil {
		return ErrNoActiveSession
	}

	prev := append([]model.Question(nil), ss.exam.Questions...)
	next, err := fn(append([]model.Question(nil), prev...))
	if err != nil {
		return err
	}

	ss.exam.Questions = next
	ss.exam.UpdatedAt = time.Now()
	if err := ss.examRepo.Save(ctx, ss.exam); err != nil {
		ss.exam.Questions = prev
		return fmt.Errorf("save exam: %w", err)
	}

	ss.hub.Broadcast(ws.EventQuestionsUpdated, map[string]any{
		"examId": ss.exam.ID,
		"count":  len(next),
	})
	return nil
}

// SaveCurrentAs snapshots the active exam's questions and settings into a
// new catalog entry whose id is a slug of the given name.
func (s *ExamService) SaveCurrentAs(ctx context.Context, name string) (*model.Exam, error) {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.exam == nil {
		return nil, ErrNoActiveSession
	}

	name = strings.TrimSpace(name)
	id := slugify(name)
	if id == "" {
		id = uuid.NewString()
	}
	// Suffix on collision so saving twice never clobbers an exam.
	base := id
	for n := 2; ; n++ {
		if _, err := ss.examRepo.Get(ctx, id); errors.Is(err, kvstore.ErrNotFound) {
			break
		} else if err != nil {
			return nil, err
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}

	exam := model.Exam{
		ID:        id,
		Name:      name,
		Questions: append([]model.Question(nil), ss.exam.Questions...),
		Settings:  ss.doc.ExamSettings,
		CreatedAt: time.Now(),
	}
	exam.Settings.IsOpen = false
	if err := ss.examRepo.Save(ctx, &exam); err != nil {
		return nil, fmt.Errorf("save exam: %w", err)
	}

	log.Info().Str("exam_id", exam.ID).Str("name", name).Msg("active exam saved as new catalog entry")
	return &exam, nil
}

// questionFromRequest builds a question, rejecting a correct index that
// points past the option list. Binding tags cannot express the cross-field
// bound, and an out-of-range index would make the question unanswerable.
func questionFromRequest(req model.QuestionRequest) (model.Question, error) {
	if req.Correct >= len(req.Options) {
		return model.Question{}, ErrInvalidQuestion
	}
	return model.Question{
		Text:    strings.TrimSpace(req.Text),
		Options: req.Options,
		Correct: req.Correct,
		Image:   req.Image,
	}, nil
}

// slugify turns a display name into a lowercase ascii identifier.
// Vietnamese diacritics are stripped, đ maps to d.
func slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, strings.ToLower(name))
	if err != nil {
		ascii = strings.ToLower(name)
	}
	ascii = strings.NewReplacer("đ", "d").Replace(ascii)

	var b strings.Builder
	lastDash := true
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

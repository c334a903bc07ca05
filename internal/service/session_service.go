package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/lanexam/backend/internal/config"
	"github.com/lanexam/backend/internal/kvstore"
	"github.com/lanexam/backend/internal/model"
	"github.com/lanexam/backend/internal/repository"
	"github.com/lanexam/backend/internal/ws"
)

// SessionService owns the active (class, exam) partition. It keeps the
// partition's working state in memory and guards every mutation with a
// single mutex, so claim arbitration and result recording are race-free
// without per-entity locking. Sibling services in this package share the
// same lock through their SessionService reference.
//
// Mutations follow one discipline: lock, decide, mutate memory, persist,
// broadcast. If persistence fails the in-memory change is rolled back and
// nothing is broadcast.
type SessionService struct {
	mu sync.Mutex

	cfg *config.Config
	hub *ws.Hub

	classRepo   *repository.ClassRepository
	rosterRepo  *repository.RosterRepository
	examRepo    *repository.ExamRepository
	sessionRepo *repository.SessionRepository
	claimRepo   *repository.ClaimRepository
	resultRepo  *repository.ResultRepository

	// Working state for the active partition. Only valid under mu.
	doc    model.SessionDoc
	exam   *model.Exam
	roster []model.StudentRecord
	status map[string]*model.ClaimState
	ledger []model.ResultRecord
}

func NewSessionService(
	cfg *config.Config,
	hub *ws.Hub,
	store kvstore.Store,
) *SessionService {
	return &SessionService{
		cfg:         cfg,
		hub:         hub,
		classRepo:   repository.NewClassRepository(store),
		rosterRepo:  repository.NewRosterRepository(store),
		examRepo:    repository.NewExamRepository(store),
		sessionRepo: repository.NewSessionRepository(store),
		claimRepo:   repository.NewClaimRepository(store),
		resultRepo:  repository.NewResultRepository(store),
	}
}

// Load restores the persisted session and its partition state. Call once
// at startup, before the HTTP server accepts traffic.
func (s *SessionService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.sessionRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	s.doc = *doc
	s.status = make(map[string]*model.ClaimState)
	s.ledger = nil
	s.roster = nil
	s.exam = nil

	if s.doc.CurrentSession.Key() == "" {
		return nil
	}

	exam, err := s.examRepo.Get(ctx, s.doc.CurrentSession.ExamID)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			// The exam was deleted out from under the saved session.
			log.Warn().Str("exam_id", s.doc.CurrentSession.ExamID).Msg("saved session references a missing exam, clearing session")
			s.doc.CurrentSession = model.Session{}
			return s.sessionRepo.Save(ctx, &s.doc)
		}
		return fmt.Errorf("load exam: %w", err)
	}
	s.exam = exam

	return s.reloadPartitionLocked(ctx)
}

// reloadPartitionLocked refreshes roster, claim map and result ledger for
// the current session key. Caller holds mu.
func (s *SessionService) reloadPartitionLocked(ctx context.Context) error {
	roster, err := s.rosterRepo.Get(ctx, s.doc.CurrentSession.ClassID)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}
	s.roster = roster

	key := s.doc.CurrentSession.Key()
	status, err := s.claimRepo.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load student status: %w", err)
	}
	s.status = status

	ledger, err := s.resultRepo.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load results: %w", err)
	}
	s.ledger = ledger
	return nil
}

// Current returns a snapshot of the active session and its exam settings.
func (s *SessionService) Current() model.SessionDoc {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// SetActive switches the active (class, exam) partition. The new exam
// always starts closed; students from the previous partition keep their
// state on disk and get it back if the teacher switches back.
func (s *SessionService) SetActive(ctx context.Context, req model.SwitchSessionRequest) (model.SessionDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Omitted fields keep the current value, so the teacher can switch
	// just the exam or just the class.
	classID, examID := req.ClassID, req.ExamID
	if classID == "" {
		classID = s.doc.CurrentSession.ClassID
	}
	if examID == "" {
		examID = s.doc.CurrentSession.ExamID
	}
	if classID == "" || examID == "" {
		return model.SessionDoc{}, ErrNoActiveSession
	}

	classes, err := s.classRepo.GetAll(ctx)
	if err != nil {
		return model.SessionDoc{}, fmt.Errorf("load classes: %w", err)
	}
	class, ok := classes[classID]
	if !ok {
		return model.SessionDoc{}, ErrClassNotFound
	}

	exam, err := s.examRepo.Get(ctx, examID)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return model.SessionDoc{}, ErrExamNotFound
		}
		return model.SessionDoc{}, fmt.Errorf("load exam: %w", err)
	}

	prevDoc, prevExam := s.doc, s.exam

	s.doc.CurrentSession = model.Session{
		ClassID:   class.ID,
		ClassName: class.Name,
		ExamID:    exam.ID,
		ExamName:  exam.Name,
	}
	s.doc.ExamSettings = exam.Settings
	s.doc.ExamSettings.IsOpen = false
	s.exam = exam

	if err := s.sessionRepo.Save(ctx, &s.doc); err != nil {
		s.doc, s.exam = prevDoc, prevExam
		return model.SessionDoc{}, fmt.Errorf("save session: %w", err)
	}

	if err := s.reloadPartitionLocked(ctx); err != nil {
		return model.SessionDoc{}, err
	}

	if req.ResetStudents {
		s.status = make(map[string]*model.ClaimState)
		if err := s.claimRepo.Save(ctx, s.doc.CurrentSession.Key(), s.status); err != nil {
			return model.SessionDoc{}, fmt.Errorf("reset student status: %w", err)
		}
	}

	log.Info().
		Str("class_id", class.ID).
		Str("exam_id", exam.ID).
		Bool("reset_students", req.ResetStudents).
		Msg("active session switched")

	s.hub.Broadcast(ws.EventSessionChanged, s.doc)
	s.hub.Broadcast(ws.EventExamSwitched, map[string]any{
		"examId":        exam.ID,
		"examName":      exam.Name,
		"resetStudents": req.ResetStudents,
	})
	return s.doc, nil
}

// OpenExam opens the active exam for submissions.
func (s *SessionService) OpenExam(ctx context.Context) (model.ExamSettings, error) {
	return s.setOpen(ctx, true)
}

// CloseExam closes the active exam. In-flight submissions already past the
// gate still land.
func (s *SessionService) CloseExam(ctx context.Context) (model.ExamSettings, error) {
	return s.setOpen(ctx, false)
}

func (s *SessionService) setOpen(ctx context.Context, open bool) (model.ExamSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exam == nil {
		return model.ExamSettings{}, ErrNoActiveSession
	}

	prev := s.doc.ExamSettings.IsOpen
	s.doc.ExamSettings.IsOpen = open
	if err := s.persistSettingsLocked(ctx); err != nil {
		s.doc.ExamSettings.IsOpen = prev
		return model.ExamSettings{}, err
	}

	event := ws.EventExamClosed
	if open {
		event = ws.EventExamOpened
	}
	s.hub.Broadcast(event, nil)
	s.hub.Broadcast(ws.EventExamStatusChanged, map[string]any{"isOpen": open})
	return s.doc.ExamSettings, nil
}

// UpdateSettings applies partial settings changes to the active exam and
// writes them through to the exam document.
func (s *SessionService) UpdateSettings(ctx context.Context, req model.UpdateSettingsRequest) (model.ExamSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exam == nil {
		return model.ExamSettings{}, ErrNoActiveSession
	}

	prev := s.doc.ExamSettings
	next := prev
	if req.Title != nil {
		next.Title = *req.Title
	}
	if req.TimeLimit != nil {
		next.TimeLimit = *req.TimeLimit
	}
	if req.IsOpen != nil {
		next.IsOpen = *req.IsOpen
	}
	if req.ShowScore != nil {
		next.ShowScore = *req.ShowScore
	}
	if req.PracticeMode != nil {
		next.PracticeMode = *req.PracticeMode
	}
	if req.ExamPassword != nil {
		next.ExamPassword = *req.ExamPassword
	}
	if req.RequirePassword != nil {
		next.RequirePassword = *req.RequirePassword
	}

	s.doc.ExamSettings = next
	if err := s.persistSettingsLocked(ctx); err != nil {
		s.doc.ExamSettings = prev
		return model.ExamSettings{}, err
	}

	if prev.IsOpen != next.IsOpen {
		event := ws.EventExamClosed
		if next.IsOpen {
			event = ws.EventExamOpened
		}
		s.hub.Broadcast(event, nil)
		s.hub.Broadcast(ws.EventExamStatusChanged, map[string]any{"isOpen": next.IsOpen})
	}
	s.hub.Broadcast(ws.EventSessionChanged, s.doc)
	return next, nil
}

// persistSettingsLocked saves the session doc and mirrors the working
// settings into the active exam document. Caller holds mu.
func (s *SessionService) persistSettingsLocked(ctx context.Context) error {
	if err := s.sessionRepo.Save(ctx, &s.doc); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.exam.Settings = s.doc.ExamSettings
	if err := s.examRepo.Save(ctx, s.exam); err != nil {
		return fmt.Errorf("save exam: %w", err)
	}
	return nil
}

// PasswordRequired reports whether students must supply an exam password.
func (s *SessionService) PasswordRequired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.ExamSettings.RequirePassword && s.doc.ExamSettings.ExamPassword != ""
}

// VerifyPassword checks a student-supplied exam password.
func (s *SessionService) VerifyPassword(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.doc.ExamSettings.RequirePassword || s.doc.ExamSettings.ExamPassword == "" {
		return nil
	}
	if password != s.doc.ExamSettings.ExamPassword {
		return ErrWrongPassword
	}
	return nil
}

// Paper returns the active exam's questions with correct answers stripped.
// The exam must be open and non-empty.
func (s *SessionService) Paper() ([]model.QuestionForStudent, model.ExamSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exam == nil {
		return nil, model.ExamSettings{}, ErrNoActiveSession
	}
	if !s.doc.ExamSettings.IsOpen && !s.doc.ExamSettings.PracticeMode {
		return nil, model.ExamSettings{}, ErrExamClosed
	}
	if len(s.exam.Questions) == 0 {
		return nil, model.ExamSettings{}, ErrNoQuestions
	}

	paper := make([]model.QuestionForStudent, len(s.exam.Questions))
	for i, q := range s.exam.Questions {
		paper[i] = model.QuestionForStudent{
			ID:      i,
			Text:    q.Text,
			Options: q.Options,
			Image:   q.Image,
		}
	}
	return paper, s.doc.ExamSettings, nil
}

// CheckAnswer grades a single answer in practice mode.
func (s *SessionService) CheckAnswer(req model.CheckAnswerRequest) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exam == nil {
		return nil, ErrNoActiveSession
	}
	if !s.doc.ExamSettings.PracticeMode {
		return nil, ErrNotPracticeMode
	}
	if req.QuestionIndex < 0 || req.QuestionIndex >= len(s.exam.Questions) {
		return nil, ErrNoQuestions
	}

	q := s.exam.Questions[req.QuestionIndex]
	correct := req.Answer == q.Correct
	out := map[string]any{
		"isCorrect":     correct,
		"correctAnswer": q.Correct,
	}
	if q.Correct >= 0 && q.Correct < len(q.Options) {
		out["correctAnswerText"] = q.Options[q.Correct]
	}
	return out, nil
}

// findStudentLocked looks up a roster entry by stt. Caller holds mu.
func (s *SessionService) findStudentLocked(stt string) (model.StudentRecord, bool) {
	for _, st := range s.roster {
		if st.STT == stt {
			return st, true
		}
	}
	return model.StudentRecord{}, false
}

// claimStateLocked returns the claim state for stt, creating a zero state
// on first touch. Caller holds mu.
func (s *SessionService) claimStateLocked(stt string) *model.ClaimState {
	st, ok := s.status[stt]
	if !ok {
		st = model.NewClaimState()
		s.status[stt] = st
	}
	return st
}

// persistStatusLocked saves the claim map for the active key. Caller holds mu.
func (s *SessionService) persistStatusLocked(ctx context.Context) error {
	if err := s.claimRepo.Save(ctx, s.doc.CurrentSession.Key(), s.status); err != nil {
		return fmt.Errorf("save student status: %w", err)
	}
	return nil
}

// persistLedgerLocked saves the result ledger for the active key. Caller holds mu.
func (s *SessionService) persistLedgerLocked(ctx context.Context) error {
	if err := s.resultRepo.Save(ctx, s.doc.CurrentSession.Key(), s.ledger); err != nil {
		return fmt.Errorf("save results: %w", err)
	}
	return nil
}

// roundScore converts a correct count into the 0–10 score scale, one
// decimal place.
func roundScore(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*100) / 10
}

package service

import (
	"context"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lanexam/backend/internal/model"
	"github.com/lanexam/backend/internal/ws"
)

// ResultService grades submissions and maintains the per-session result
// ledger, keyed by stt.
type ResultService struct {
	sessions *SessionService
}

func NewResultService(sessions *SessionService) *ResultService {
	return &ResultService{sessions: sessions}
}

// SubmitOutcome is what the handler returns to the student. Score fields
// are omitted when the teacher disabled score display.
type SubmitOutcome struct {
	Record    model.ResultRecord
	ShowScore bool
	IsRetry   bool
}

// Submit grades an answer sheet and records it in the ledger. A completed
// identity is rejected unless the teacher allowed a retry; whenever a
// ledger entry already exists the new record replaces it in place.
func (s *ResultService) Submit(ctx context.Context, req model.SubmitRequest) (*SubmitOutcome, error) {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.exam == nil || ss.doc.CurrentSession.Key() == "" {
		return nil, ErrNoActiveSession
	}
	if !ss.doc.ExamSettings.IsOpen {
		return nil, ErrExamClosed
	}
	if len(ss.exam.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	if _, ok := ss.findStudentLocked(req.StudentSTT); !ok {
		return nil, ErrStudentNotFound
	}

	st := ss.claimStateLocked(req.StudentSTT)
	if st.Completed && !st.CanRetry {
		return nil, ErrAlreadySubmitted
	}
	existing := ledgerIndex(ss.ledger, req.StudentSTT)
	isRetry := existing >= 0

	record := s.gradeLocked(req)

	prevLedger := append([]model.ResultRecord(nil), ss.ledger...)
	prevState := *st

	if isRetry {
		ss.ledger[existing] = record
	} else {
		ss.ledger = append(ss.ledger, record)
	}
	st.Completed = true
	st.CanRetry = false
	st.Selected = false
	st.SelectedBy = ""

	if err := ss.persistLedgerLocked(ctx); err != nil {
		ss.ledger = prevLedger
		*st = prevState
		return nil, err
	}
	if err := ss.persistStatusLocked(ctx); err != nil {
		ss.ledger = prevLedger
		*st = prevState
		if lerr := ss.persistLedgerLocked(ctx); lerr != nil {
			log.Error().Err(lerr).Msg("failed to restore ledger after status persist failure")
		}
		return nil, err
	}

	event := ws.EventNewResult
	if isRetry {
		event = ws.EventResultUpdated
	}
	ss.hub.Broadcast(event, record)
	ss.hub.Broadcast(ws.EventStudentStatusUpdate, map[string]any{
		"stt":    req.StudentSTT,
		"status": "completed",
	})

	log.Info().
		Str("stt", req.StudentSTT).
		Float64("score", record.Score).
		Bool("retry", isRetry).
		Msg("result recorded")

	return &SubmitOutcome{
		Record:    record,
		ShowScore: ss.doc.ExamSettings.ShowScore,
		IsRetry:   isRetry,
	}, nil
}

// gradeLocked scores an answer sheet against the active exam. Caller
// holds mu. Answer index -1 means unanswered.
func (s *ResultService) gradeLocked(req model.SubmitRequest) model.ResultRecord {
	ss := s.sessions
	questions := ss.exam.Questions

	correct := 0
	details := make([]model.AnswerDetail, len(questions))
	for i, q := range questions {
		answer := -1
		if i < len(req.Answers) {
			answer = req.Answers[i]
		}

		d := model.AnswerDetail{
			Question:      q.Text,
			StudentAnswer: answer,
			CorrectAnswer: q.Correct,
			IsCorrect:     answer == q.Correct,
		}
		if answer >= 0 && answer < len(q.Options) {
			d.StudentAnswerText = q.Options[answer]
		}
		if q.Correct >= 0 && q.Correct < len(q.Options) {
			d.CorrectAnswerText = q.Options[q.Correct]
		}
		if d.IsCorrect {
			correct++
		}
		details[i] = d
	}

	return model.ResultRecord{
		StudentSTT:     req.StudentSTT,
		StudentName:    req.StudentName,
		StudentClass:   req.StudentClass,
		Score:          roundScore(correct, len(questions)),
		CorrectCount:   correct,
		TotalQuestions: len(questions),
		TimeSpent:      req.TimeSpent,
		SubmittedAt:    time.Now(),
		Details:        details,
	}
}

// SubmissionStatus is what a reconnecting client needs to resume: whether
// its identity already has a ledger entry, whether a retry was granted,
// and which exam the entry belongs to.
type SubmissionStatus struct {
	Submitted   bool
	SubmittedAt *time.Time
	CanRetry    bool
	ExamID      string
}

// Status reports the submission state of one roster identity in the
// active session.
func (s *ResultService) Status(stt string) (*SubmissionStatus, error) {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.doc.CurrentSession.Key() == "" {
		return nil, ErrNoActiveSession
	}

	out := &SubmissionStatus{ExamID: ss.doc.CurrentSession.ExamID}
	if st, ok := ss.status[stt]; ok {
		out.CanRetry = st.CanRetry
	}
	if i := ledgerIndex(ss.ledger, stt); i >= 0 {
		out.Submitted = true
		submittedAt := ss.ledger[i].SubmittedAt
		out.SubmittedAt = &submittedAt
	}
	return out, nil
}

// List returns the active session's ledger.
func (s *ResultService) List() ([]model.ResultRecord, error) {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.doc.CurrentSession.Key() == "" {
		return nil, ErrNoActiveSession
	}
	return append([]model.ResultRecord(nil), ss.ledger...), nil
}

// ClearAll wipes the active session's ledger.
func (s *ResultService) ClearAll(ctx context.Context) error {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.doc.CurrentSession.Key() == "" {
		return ErrNoActiveSession
	}

	prev := ss.ledger
	ss.ledger = nil
	if err := ss.persistLedgerLocked(ctx); err != nil {
		ss.ledger = prev
		return err
	}

	ss.hub.Broadcast(ws.EventResultsCleared, nil)
	return nil
}

// ExportSummary joins the roster with the ledger into one row per roster
// entry, ordered by stt with numeric-aware comparison so "2" sorts before
// "10".
func (s *ResultService) ExportSummary() ([]model.SummaryRow, error) {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.doc.CurrentSession.Key() == "" {
		return nil, ErrNoActiveSession
	}

	byStt := make(map[string]*model.ResultRecord, len(ss.ledger))
	for i := range ss.ledger {
		byStt[ss.ledger[i].StudentSTT] = &ss.ledger[i]
	}

	rows := make([]model.SummaryRow, 0, len(ss.roster))
	for _, st := range ss.roster {
		row := model.SummaryRow{
			STT:      st.STT,
			FullName: st.FullName(),
		}
		if r, ok := byStt[st.STT]; ok {
			score := r.Score
			correctCount := r.CorrectCount
			total := r.TotalQuestions
			timeSpent := r.TimeSpent
			row.Score = &score
			row.CorrectCount = &correctCount
			row.TotalQuestions = &total
			row.TimeSpent = &timeSpent
			row.SubmittedAt = &r.SubmittedAt
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return sttLess(rows[i].STT, rows[j].STT)
	})
	return rows, nil
}

// SummaryAcrossSessions aggregates stored ledgers for every session key
// that has one, including sessions no longer active.
func (s *ResultService) SummaryAcrossSessions(ctx context.Context) ([]model.SessionResultSummary, error) {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	keys, err := ss.resultRepo.ListSessionKeys(ctx)
	if err != nil {
		return nil, err
	}

	classes, err := ss.classRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.SessionResultSummary, 0, len(keys))
	for _, key := range keys {
		classID, examID, ok := model.SplitSessionKey(key)
		if !ok {
			continue
		}
		ledger, err := ss.resultRepo.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Str("session_key", key).Msg("skipping unreadable result ledger")
			continue
		}

		sum := model.SessionResultSummary{
			ClassID:     classID,
			ExamID:      examID,
			ResultCount: len(ledger),
		}
		if class, ok := classes[classID]; ok {
			sum.ClassName = class.Name
		}
		if exam, err := ss.examRepo.Get(ctx, examID); err == nil {
			sum.ExamName = exam.Name
		}

		var total float64
		for _, r := range ledger {
			total += r.Score
		}
		if sum.ResultCount > 0 {
			sum.AvgScore = math.Round(total/float64(sum.ResultCount)*10) / 10
		}
		summaries = append(summaries, sum)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].ClassID != summaries[j].ClassID {
			return summaries[i].ClassID < summaries[j].ClassID
		}
		return summaries[i].ExamID < summaries[j].ExamID
	})
	return summaries, nil
}

// ledgerIndex finds a record by stt, -1 when absent.
func ledgerIndex(ledger []model.ResultRecord, stt string) int {
	for i := range ledger {
		if ledger[i].StudentSTT == stt {
			return i
		}
	}
	return -1
}

// sttLess orders stt values numerically when both parse as integers and
// lexicographically otherwise.
func sttLess(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}

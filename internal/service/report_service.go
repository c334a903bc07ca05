package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lanexam/backend/internal/model"
	"github.com/lanexam/backend/internal/repository"
	"github.com/lanexam/backend/internal/ws"
)

// ReportService handles the misclaim correction workflow: a student who
// submitted under the wrong roster identity files a report, and the
// teacher approves (moving the ledger entry) or rejects it.
type ReportService struct {
	sessions *SessionService
	reports  *repository.ReportRepository
}

func NewReportService(sessions *SessionService, reports *repository.ReportRepository) *ReportService {
	return &ReportService{sessions: sessions, reports: reports}
}

// File records a new pending report. Both stt values must exist in the
// active roster.
func (s *ReportService) File(ctx context.Context, req model.FileReportRequest) (*model.Report, error) {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.doc.CurrentSession.Key() == "" {
		return nil, ErrNoActiveSession
	}
	wrong, ok := ss.findStudentLocked(req.WrongSTT)
	if !ok {
		return nil, ErrStudentNotFound
	}
	correct, ok := ss.findStudentLocked(req.CorrectSTT)
	if !ok {
		return nil, ErrStudentNotFound
	}

	report := model.Report{
		ID:           uuid.NewString(),
		WrongSTT:     wrong.STT,
		WrongName:    wrong.FullName(),
		CorrectSTT:   correct.STT,
		CorrectName:  correct.FullName(),
		Reason:       req.Reason,
		ConnectionID: req.ConnectionID,
		Status:       model.ReportStatusPending,
		CreatedAt:    time.Now(),
	}

	all, err := s.reports.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	all = append(all, report)
	if err := s.reports.SaveAll(ctx, all); err != nil {
		return nil, fmt.Errorf("save reports: %w", err)
	}

	ss.hub.Broadcast(ws.EventNewReport, report)
	log.Info().Str("report_id", report.ID).Str("wrong_stt", report.WrongSTT).Str("correct_stt", report.CorrectSTT).Msg("correction report filed")
	return &report, nil
}

// Pending returns reports waiting for a teacher decision, oldest first.
func (s *ReportService) Pending(ctx context.Context) ([]model.Report, error) {
	all, err := s.reports.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]model.Report, 0)
	for _, r := range all {
		if r.Status == model.ReportStatusPending {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

// All returns the full report history.
func (s *ReportService) All(ctx context.Context) ([]model.Report, error) {
	return s.reports.GetAll(ctx)
}

// Approve applies a pending report: the wrong identity is freed, the claim
// moves to the correct identity under the reporting connection, and any
// ledger entry recorded under the wrong stt is re-keyed to the correct stt
// with the student's real name and an annotation. An identity that ends up
// with a ledger entry is marked completed.
func (s *ReportService) Approve(ctx context.Context, reportID string) (*model.Report, error) {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	all, err := s.reports.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	idx := pendingIndex(all, reportID)
	if idx < 0 {
		return nil, ErrReportNotFound
	}
	report := all[idx]

	prevLedger := append([]model.ResultRecord(nil), ss.ledger...)
	prevWrong := *ss.claimStateLocked(report.WrongSTT)
	prevCorrect := *ss.claimStateLocked(report.CorrectSTT)

	// Free the wrong identity and hand the claim to the connection that
	// filed the report, so a mid-exam misclaim continues seamlessly under
	// the right name.
	*ss.claimStateLocked(report.WrongSTT) = *model.NewClaimState()
	correctState := ss.claimStateLocked(report.CorrectSTT)
	correctState.Selected = true
	correctState.SelectedBy = report.ConnectionID
	correctState.Completed = false
	correctState.CanRetry = false

	// When the wrong identity already submitted, its ledger entry follows
	// the claim. A stale entry sitting on the correct stt is replaced by
	// the moved one.
	resultMoved := false
	if entry := ledgerIndex(ss.ledger, report.WrongSTT); entry >= 0 {
		if dup := ledgerIndex(ss.ledger, report.CorrectSTT); dup >= 0 && dup != entry {
			ss.ledger = append(ss.ledger[:dup], ss.ledger[dup+1:]...)
			entry = ledgerIndex(ss.ledger, report.WrongSTT)
		}

		moved := &ss.ledger[entry]
		moved.StudentSTT = report.CorrectSTT
		moved.StudentName = report.CorrectName
		note := fmt.Sprintf("(Chuyển từ %s)", report.WrongName)
		if moved.Note == "" {
			moved.Note = note
		} else {
			moved.Note += " " + note
		}
		resultMoved = true
	}

	// An identity with a ledger entry is done, however the entry arrived.
	if ledgerIndex(ss.ledger, report.CorrectSTT) >= 0 {
		correctState.Completed = true
		correctState.CanRetry = false
		correctState.Selected = false
		correctState.SelectedBy = ""
	}

	rollback := func() {
		ss.ledger = prevLedger
		*ss.claimStateLocked(report.WrongSTT) = prevWrong
		*ss.claimStateLocked(report.CorrectSTT) = prevCorrect
	}

	if err := ss.persistLedgerLocked(ctx); err != nil {
		rollback()
		return nil, err
	}
	if err := ss.persistStatusLocked(ctx); err != nil {
		rollback()
		if lerr := ss.persistLedgerLocked(ctx); lerr != nil {
			log.Error().Err(lerr).Msg("failed to restore ledger after status persist failure")
		}
		return nil, err
	}

	all[idx].Status = model.ReportStatusApproved
	if err := s.reports.SaveAll(ctx, all); err != nil {
		return nil, fmt.Errorf("save reports: %w", err)
	}

	ss.hub.Broadcast(ws.EventReportProcessed, all[idx])
	if resultMoved {
		ss.hub.Broadcast(ws.EventResultUpdated, ss.ledger[ledgerIndex(ss.ledger, report.CorrectSTT)])
	}
	ss.hub.Broadcast(ws.EventStudentStatusUpdate, map[string]any{
		"stt":    report.WrongSTT,
		"status": "available",
	})
	ss.hub.Broadcast(ws.EventStudentStatusUpdate, map[string]any{
		"stt":    report.CorrectSTT,
		"status": statusLabel(correctState),
	})

	log.Info().Str("report_id", report.ID).Msg("correction report approved")
	return &all[idx], nil
}

// Reject marks a pending report rejected without touching the ledger.
func (s *ReportService) Reject(ctx context.Context, reportID string) (*model.Report, error) {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	all, err := s.reports.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	idx := pendingIndex(all, reportID)
	if idx < 0 {
		return nil, ErrReportNotFound
	}

	all[idx].Status = model.ReportStatusRejected
	if err := s.reports.SaveAll(ctx, all); err != nil {
		return nil, fmt.Errorf("save reports: %w", err)
	}

	ss.hub.Broadcast(ws.EventReportProcessed, all[idx])
	log.Info().Str("report_id", reportID).Msg("correction report rejected")
	return &all[idx], nil
}

// pendingIndex finds a pending report by id, -1 when absent or already
// processed.
func pendingIndex(reports []model.Report, id string) int {
	for i := range reports {
		if reports[i].ID == id && reports[i].Status == model.ReportStatusPending {
			return i
		}
	}
	return -1
}

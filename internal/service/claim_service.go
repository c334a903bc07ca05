package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lanexam/backend/internal/model"
	"github.com/lanexam/backend/internal/ws"
)

// ClaimService arbitrates which connection holds which roster identity in
// the active partition. All methods take the session lock, so two students
// racing for the same identity always see a single winner.
type ClaimService struct {
	sessions *SessionService
}

func NewClaimService(sessions *SessionService) *ClaimService {
	return &ClaimService{sessions: sessions}
}

// Claim gives the connection exclusive hold of the roster identity stt.
// Claiming an identity you already hold is a no-op success.
func (s *ClaimService) Claim(ctx context.Context, req model.ClaimRequest) (*model.ClaimState, error) {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.doc.CurrentSession.Key() == "" {
		return nil, ErrNoActiveSession
	}
	if _, ok := ss.findStudentLocked(req.STT); !ok {
		return nil, ErrStudentNotFound
	}

	st := ss.claimStateLocked(req.STT)
	switch {
	case st.Completed && !st.CanRetry:
		return nil, ErrAlreadyCompleted
	case st.Selected && st.SelectedBy == req.ConnectionID:
		// Same connection asking again, e.g. after a page reload.
		return st, nil
	case st.Selected:
		return nil, ErrStudentTaken
	}

	prev := *st
	st.Selected = true
	st.SelectedBy = req.ConnectionID
	// A retry grant is consumed the moment the student sits down again;
	// the submission gate keys off Completed alone.
	st.CanRetry = false
	if err := ss.persistStatusLocked(ctx); err != nil {
		*st = prev
		return nil, err
	}

	ss.hub.Broadcast(ws.EventStudentStatusUpdate, map[string]any{
		"stt":    req.STT,
		"status": statusLabel(st),
	})
	return st, nil
}

// Release frees the identity if this connection holds it. Releasing an
// identity held by someone else is a silent no-op.
func (s *ClaimService) Release(ctx context.Context, req model.ClaimRequest) error {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	st, ok := ss.status[req.STT]
	if !ok || !st.Selected || st.SelectedBy != req.ConnectionID {
		return nil
	}

	prev := *st
	st.Selected = false
	st.SelectedBy = ""
	if err := ss.persistStatusLocked(ctx); err != nil {
		*st = prev
		return err
	}

	ss.hub.Broadcast(ws.EventStudentStatusUpdate, map[string]any{
		"stt":    req.STT,
		"status": statusLabel(st),
	})
	return nil
}

// Disconnect releases every non-completed claim held by the given
// connection. Invoked by the hub when a websocket drops.
func (s *ClaimService) Disconnect(ctx context.Context, connectionID string) {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	var released []string
	for stt, st := range ss.status {
		if st.Selected && st.SelectedBy == connectionID && !st.Completed {
			st.Selected = false
			st.SelectedBy = ""
			released = append(released, stt)
		}
	}
	if len(released) == 0 {
		return
	}

	if err := ss.persistStatusLocked(ctx); err != nil {
		// The claims are already freed in memory so the identities stay
		// usable; persistence catches up on the next successful write.
		log.Error().Err(err).Msg("failed to persist claim release on disconnect")
	}

	for _, stt := range released {
		ss.hub.Broadcast(ws.EventStudentStatusUpdate, map[string]any{
			"stt":    stt,
			"status": "available",
		})
	}
	log.Debug().Str("connection_id", connectionID).Strs("released", released).Msg("released claims of disconnected client")
}

// AllowRetry clears the completion flag so a student may claim and submit
// again. The existing ledger entry stays until the retry submission
// replaces it.
func (s *ClaimService) AllowRetry(ctx context.Context, stt string) error {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if _, ok := ss.findStudentLocked(stt); !ok {
		return ErrStudentNotFound
	}

	st := ss.claimStateLocked(stt)
	prev := *st
	st.CanRetry = true
	st.Completed = false
	st.Selected = false
	st.SelectedBy = ""
	if err := ss.persistStatusLocked(ctx); err != nil {
		*st = prev
		return err
	}

	ss.hub.Broadcast(ws.EventRetryAllowed, map[string]any{"stt": stt})
	ss.hub.Broadcast(ws.EventStudentStatusUpdate, map[string]any{
		"stt":    stt,
		"status": statusLabel(st),
	})
	return nil
}

// ResetAll wipes every claim state in the active partition.
func (s *ClaimService) ResetAll(ctx context.Context) error {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	prev := ss.status
	ss.status = make(map[string]*model.ClaimState)
	if err := ss.persistStatusLocked(ctx); err != nil {
		ss.status = prev
		return err
	}

	ss.hub.Broadcast(ws.EventAllStudentsReset, nil)
	return nil
}

// RecordTabLeave counts a focus-loss event for the student holding stt and
// notifies teacher dashboards.
func (s *ClaimService) RecordTabLeave(ctx context.Context, stt string) {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	st, ok := ss.status[stt]
	if !ok || !st.Selected {
		return
	}

	st.TabLeaveCount++
	st.LastTabLeave = time.Now().Format(time.RFC3339)
	if err := ss.persistStatusLocked(ctx); err != nil {
		log.Error().Err(err).Str("stt", stt).Msg("failed to persist tab-leave count")
	}

	student, _ := ss.findStudentLocked(stt)
	ss.hub.Broadcast(ws.EventStudentTabLeave, map[string]any{
		"stt":   stt,
		"name":  student.FullName(),
		"count": st.TabLeaveCount,
	})
}

// StudentsWithStatus returns the active roster joined with claim states,
// ordered by stt as listed in the roster.
func (s *ClaimService) StudentsWithStatus() ([]model.StudentWithStatus, error) {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.doc.CurrentSession.Key() == "" {
		return nil, ErrNoActiveSession
	}

	out := make([]model.StudentWithStatus, 0, len(ss.roster))
	for _, st := range ss.roster {
		row := model.StudentWithStatus{
			StudentRecord: st,
			FullName:      st.FullName(),
			Status:        statusLabel(ss.status[st.STT]),
		}
		if cs := ss.status[st.STT]; cs != nil {
			row.TabLeaveCount = cs.TabLeaveCount
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return sttLess(out[i].STT, out[j].STT)
	})
	return out, nil
}

// statusLabel collapses a claim state into the label shown on dashboards.
// A nil state means the identity is untouched.
func statusLabel(st *model.ClaimState) string {
	switch {
	case st == nil:
		return "available"
	case st.Completed && !st.CanRetry:
		return "completed"
	case st.Selected:
		return "taken"
	default:
		return "available"
	}
}

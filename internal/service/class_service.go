package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lanexam/backend/internal/model"
	"github.com/lanexam/backend/internal/ws"
)

// ClassService manages the class catalog and roster imports.
type ClassService struct {
	sessions *SessionService
}

func NewClassService(sessions *SessionService) *ClassService {
	return &ClassService{sessions: sessions}
}

// List returns every class, sorted by name.
func (s *ClassService) List(ctx context.Context) ([]model.Class, error) {
	ss := s.sessions
	classes, err := ss.classRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Class, 0, len(classes))
	for _, c := range classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Create adds a new class with an empty roster. Names are unique,
// case-insensitively.
func (s *ClassService) Create(ctx context.Context, req model.CreateClassRequest) (*model.Class, error) {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	classes, err := ss.classRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	for _, c := range classes {
		if strings.EqualFold(c.Name, name) {
			return nil, ErrDuplicateClass
		}
	}

	class := model.Class{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	classes[class.ID] = class
	if err := ss.classRepo.SaveAll(ctx, classes); err != nil {
		return nil, fmt.Errorf("save classes: %w", err)
	}

	log.Info().Str("class_id", class.ID).Str("name", class.Name).Msg("class created")
	return &class, nil
}

// Delete removes a class and its roster. The class backing the active
// session cannot be removed.
func (s *ClassService) Delete(ctx context.Context, classID string) error {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.doc.CurrentSession.ClassID == classID {
		return ErrClassInUse
	}

	classes, err := ss.classRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	if _, ok := classes[classID]; !ok {
		return ErrClassNotFound
	}

	delete(classes, classID)
	if err := ss.classRepo.SaveAll(ctx, classes); err != nil {
		return fmt.Errorf("save classes: %w", err)
	}
	if err := ss.rosterRepo.Delete(ctx, classID); err != nil {
		log.Warn().Err(err).Str("class_id", classID).Msg("failed to delete roster of removed class")
	}

	log.Info().Str("class_id", classID).Msg("class deleted")
	return nil
}

// Roster returns a class's student roster.
func (s *ClassService) Roster(ctx context.Context, classID string) ([]model.StudentRecord, error) {
	ss := s.sessions

	classes, err := ss.classRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := classes[classID]; !ok {
		return nil, ErrClassNotFound
	}
	return ss.rosterRepo.Get(ctx, classID)
}

// ImportRoster replaces a class's roster with the given rows. The stt of
// every row is trimmed so numeric and string ordinals compare equal. When
// the class backs the active session the working roster is refreshed and
// dashboards are notified.
func (s *ClassService) ImportRoster(ctx context.Context, classID string, req model.ImportRosterRequest) (int, error) {
	ss := s.sessions
	ss.mu.Lock()
	defer ss.mu.Unlock()

	classes, err := ss.classRepo.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	class, ok := classes[classID]
	if !ok {
		return 0, ErrClassNotFound
	}

	roster := make([]model.StudentRecord, 0, len(req.Students))
	seen := make(map[string]struct{}, len(req.Students))
	for _, row := range req.Students {
		stt := strings.TrimSpace(row.STT)
		if stt == "" {
			continue
		}
		if _, dup := seen[stt]; dup {
			continue
		}
		seen[stt] = struct{}{}
		roster = append(roster, model.StudentRecord{
			STT:        stt,
			FamilyName: strings.TrimSpace(row.FamilyName),
			GivenName:  strings.TrimSpace(row.GivenName),
			FemaleFlag: strings.TrimSpace(row.FemaleFlag),
		})
	}

	if err := ss.rosterRepo.Save(ctx, classID, roster); err != nil {
		return 0, fmt.Errorf("save roster: %w", err)
	}

	class.StudentCount = len(roster)
	classes[classID] = class
	if err := ss.classRepo.SaveAll(ctx, classes); err != nil {
		return 0, fmt.Errorf("save classes: %w", err)
	}

	if ss.doc.CurrentSession.ClassID == classID {
		ss.roster = roster
		ss.hub.Broadcast(ws.EventStudentsUpdated, map[string]any{
			"classId": classID,
			"count":   len(roster),
		})
	}

	log.Info().Str("class_id", classID).Int("students", len(roster)).Msg("roster imported")
	return len(roster), nil
}

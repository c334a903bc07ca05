package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lanexam/backend/internal/config"
	"github.com/lanexam/backend/internal/kvstore"
	"github.com/lanexam/backend/internal/model"
	"github.com/lanexam/backend/internal/repository"
	"github.com/lanexam/backend/internal/ws"
)

// testEnv wires the full service stack against a file store in a temp dir,
// seeded with one class of ten students and two ten-question exams.
type testEnv struct {
	ctx      context.Context
	store    kvstore.Store
	hub      *ws.Hub
	sessions *SessionService
	claims   *ClaimService
	results  *ResultService
	reports  *ReportService
	classes  *ClassService
	exams    *ExamService
}

const (
	testClassID = "class-1"
	testExamID  = "exam-1"
	testExamID2 = "exam-2"
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	store, err := kvstore.NewFileStore(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	seedStore(t, ctx, store)

	hub := ws.NewHub()
	go hub.Run()

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		JWTExpiry:       time.Hour,
		BcryptCost:      4,
		TeacherPassword: "giaovien",
	}

	sessions := NewSessionService(cfg, hub, store)
	require.NoError(t, sessions.Load(ctx))

	return &testEnv{
		ctx:      ctx,
		store:    store,
		hub:      hub,
		sessions: sessions,
		claims:   NewClaimService(sessions),
		results:  NewResultService(sessions),
		reports:  NewReportService(sessions, repository.NewReportRepository(store)),
		classes:  NewClassService(sessions),
		exams:    NewExamService(sessions),
	}
}

func seedStore(t *testing.T, ctx context.Context, store kvstore.Store) {
	t.Helper()

	classRepo := repository.NewClassRepository(store)
	require.NoError(t, classRepo.SaveAll(ctx, map[string]model.Class{
		testClassID: {ID: testClassID, Name: "10A1", StudentCount: 10, CreatedAt: time.Now()},
	}))

	roster := make([]model.StudentRecord, 0, 10)
	for i := 1; i <= 10; i++ {
		roster = append(roster, model.StudentRecord{
			STT:        fmt.Sprintf("%d", i),
			FamilyName: "Nguyễn Văn",
			GivenName:  fmt.Sprintf("Học Sinh %d", i),
		})
	}
	rosterRepo := repository.NewRosterRepository(store)
	require.NoError(t, rosterRepo.Save(ctx, testClassID, roster))

	examRepo := repository.NewExamRepository(store)
	for _, id := range []string{testExamID, testExamID2} {
		require.NoError(t, examRepo.Save(ctx, &model.Exam{
			ID:        id,
			Name:      "Kiểm tra " + id,
			Questions: testQuestions(10),
			Settings:  model.DefaultExamSettings("Kiểm tra " + id),
			CreatedAt: time.Now(),
		}))
	}
}

// testQuestions builds n questions whose correct answer is always option 0.
func testQuestions(n int) []model.Question {
	qs := make([]model.Question, n)
	for i := range qs {
		qs[i] = model.Question{
			Text:    fmt.Sprintf("Câu %d", i+1),
			Options: []string{"đúng", "sai A", "sai B", "sai C"},
			Correct: 0,
		}
	}
	return qs
}

// activate switches to the seeded class/exam pair and opens the exam.
func (e *testEnv) activate(t *testing.T) {
	t.Helper()
	_, err := e.sessions.SetActive(e.ctx, model.SwitchSessionRequest{
		ClassID: testClassID,
		ExamID:  testExamID,
	})
	require.NoError(t, err)
	_, err = e.sessions.OpenExam(e.ctx)
	require.NoError(t, err)
}

// answers builds an answer sheet with the given number of correct picks,
// the rest wrong (option 1).
func answers(total, correct int) []int {
	out := make([]int, total)
	for i := range out {
		if i < correct {
			out[i] = 0
		} else {
			out[i] = 1
		}
	}
	return out
}

func (e *testEnv) submit(t *testing.T, stt, name string, sheet []int) (*SubmitOutcome, error) {
	t.Helper()
	return e.results.Submit(e.ctx, model.SubmitRequest{
		StudentSTT:   stt,
		StudentName:  name,
		StudentClass: "10A1",
		Answers:      sheet,
		TimeSpent:    300,
	})
}

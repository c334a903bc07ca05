package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanexam/backend/internal/model"
	"github.com/lanexam/backend/internal/ws"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestSetActiveValidatesAndStartsClosed(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.sessions.SetActive(env.ctx, model.SwitchSessionRequest{ClassID: "nope", ExamID: testExamID})
	assert.ErrorIs(t, err, ErrClassNotFound)
	_, err = env.sessions.SetActive(env.ctx, model.SwitchSessionRequest{ClassID: testClassID, ExamID: "nope"})
	assert.ErrorIs(t, err, ErrExamNotFound)

	doc, err := env.sessions.SetActive(env.ctx, model.SwitchSessionRequest{ClassID: testClassID, ExamID: testExamID})
	require.NoError(t, err)
	assert.Equal(t, "10A1", doc.CurrentSession.ClassName)
	assert.False(t, doc.ExamSettings.IsOpen, "a freshly activated exam starts closed")
}

func TestSetActivePartialKeepsCurrentValue(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	// Switch only the exam, class carries over.
	doc, err := env.sessions.SetActive(env.ctx, model.SwitchSessionRequest{ExamID: testExamID2})
	require.NoError(t, err)
	assert.Equal(t, testClassID, doc.CurrentSession.ClassID)
	assert.Equal(t, testExamID2, doc.CurrentSession.ExamID)
}

func TestSetActiveWithResetStudents(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	_, err := env.claims.Claim(env.ctx, model.ClaimRequest{STT: "1", ConnectionID: "conn-a"})
	require.NoError(t, err)
	_, err = env.submit(t, "1", "Nguyễn Văn Học Sinh 1", answers(10, 8))
	require.NoError(t, err)

	// Re-activating the same pair with resetStudents wipes claim state
	// but keeps the ledger.
	_, err = env.sessions.SetActive(env.ctx, model.SwitchSessionRequest{
		ClassID: testClassID, ExamID: testExamID, ResetStudents: true,
	})
	require.NoError(t, err)

	_, err = env.claims.Claim(env.ctx, model.ClaimRequest{STT: "1", ConnectionID: "conn-b"})
	require.NoError(t, err)

	ledger, err := env.results.List()
	require.NoError(t, err)
	assert.Len(t, ledger, 1)
}

func TestLoadRestoresPartitionAfterRestart(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	_, err := env.claims.Claim(env.ctx, model.ClaimRequest{STT: "2", ConnectionID: "conn-a"})
	require.NoError(t, err)
	_, err = env.submit(t, "2", "Nguyễn Văn Học Sinh 2", answers(10, 6))
	require.NoError(t, err)

	// A second service over the same store simulates a process restart.
	hub := ws.NewHub()
	go hub.Run()
	restarted := NewSessionService(env.sessions.cfg, hub, env.store)
	require.NoError(t, restarted.Load(env.ctx))

	doc := restarted.Current()
	assert.Equal(t, testExamID, doc.CurrentSession.ExamID)

	results := NewResultService(restarted)
	ledger, err := results.List()
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, "2", ledger[0].StudentSTT)

	claims := NewClaimService(restarted)
	_, err = claims.Claim(env.ctx, model.ClaimRequest{STT: "2", ConnectionID: "conn-b"})
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestOpenCloseGatePaper(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.sessions.SetActive(env.ctx, model.SwitchSessionRequest{ClassID: testClassID, ExamID: testExamID})
	require.NoError(t, err)

	_, _, err = env.sessions.Paper()
	assert.ErrorIs(t, err, ErrExamClosed)

	_, err = env.sessions.OpenExam(env.ctx)
	require.NoError(t, err)

	paper, settings, err := env.sessions.Paper()
	require.NoError(t, err)
	require.Len(t, paper, 10)
	assert.True(t, settings.IsOpen)

	// The paper never leaks the correct answers.
	for _, q := range paper {
		assert.NotEmpty(t, q.Options)
		assert.NotZero(t, len(q.Text))
	}

	_, err = env.sessions.CloseExam(env.ctx)
	require.NoError(t, err)
	_, _, err = env.sessions.Paper()
	assert.ErrorIs(t, err, ErrExamClosed)
}

func TestUpdateSettingsPartialPatch(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	settings, err := env.sessions.UpdateSettings(env.ctx, model.UpdateSettingsRequest{
		Title:     strPtr("Kiểm tra giữa kỳ"),
		TimeLimit: intPtr(45),
	})
	require.NoError(t, err)
	assert.Equal(t, "Kiểm tra giữa kỳ", settings.Title)
	assert.Equal(t, 45, settings.TimeLimit)
	assert.True(t, settings.IsOpen, "untouched fields keep their value")
	assert.True(t, settings.ShowScore)

	// Settings write through to the exam document.
	exam, err := env.exams.Get(env.ctx, testExamID)
	require.NoError(t, err)
	assert.Equal(t, 45, exam.Settings.TimeLimit)
}

func TestPracticeModeCheckAnswer(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	_, err := env.sessions.CheckAnswer(model.CheckAnswerRequest{QuestionIndex: 0, Answer: 0})
	assert.ErrorIs(t, err, ErrNotPracticeMode)

	_, err = env.sessions.UpdateSettings(env.ctx, model.UpdateSettingsRequest{PracticeMode: boolPtr(true)})
	require.NoError(t, err)

	out, err := env.sessions.CheckAnswer(model.CheckAnswerRequest{QuestionIndex: 0, Answer: 0})
	require.NoError(t, err)
	assert.Equal(t, true, out["isCorrect"])

	out, err = env.sessions.CheckAnswer(model.CheckAnswerRequest{QuestionIndex: 0, Answer: 2})
	require.NoError(t, err)
	assert.Equal(t, false, out["isCorrect"])
	assert.Equal(t, "đúng", out["correctAnswerText"])
}

func TestExamPasswordGate(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	assert.False(t, env.sessions.PasswordRequired())
	assert.NoError(t, env.sessions.VerifyPassword("anything"))

	_, err := env.sessions.UpdateSettings(env.ctx, model.UpdateSettingsRequest{
		ExamPassword:    strPtr("123456"),
		RequirePassword: boolPtr(true),
	})
	require.NoError(t, err)

	assert.True(t, env.sessions.PasswordRequired())
	assert.ErrorIs(t, env.sessions.VerifyPassword("wrong"), ErrWrongPassword)
	assert.NoError(t, env.sessions.VerifyPassword("123456"))
}

// Exam-day flow: students claim identities, submit, one misclaim gets
// corrected, the export reflects all of it.
func TestExamDayScenario(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	// Two students race for stt 1; conn-a wins, conn-b falls back to stt 2.
	_, err := env.claims.Claim(env.ctx, model.ClaimRequest{STT: "1", ConnectionID: "conn-a"})
	require.NoError(t, err)
	_, err = env.claims.Claim(env.ctx, model.ClaimRequest{STT: "1", ConnectionID: "conn-b"})
	require.ErrorIs(t, err, ErrStudentTaken)
	_, err = env.claims.Claim(env.ctx, model.ClaimRequest{STT: "2", ConnectionID: "conn-b"})
	require.NoError(t, err)

	// conn-b actually is student 2's neighbor and picked wrong; they
	// submit anyway and file a correction to stt 3.
	_, err = env.submit(t, "1", "Nguyễn Văn Học Sinh 1", answers(10, 9))
	require.NoError(t, err)
	_, err = env.submit(t, "2", "Nguyễn Văn Học Sinh 2", answers(10, 7))
	require.NoError(t, err)

	report, err := env.reports.File(env.ctx, model.FileReportRequest{
		WrongSTT:     "2",
		CorrectSTT:   "3",
		Reason:       "Ngồi nhầm chỗ",
		ConnectionID: "conn-b",
	})
	require.NoError(t, err)
	_, err = env.reports.Approve(env.ctx, report.ID)
	require.NoError(t, err)

	rows, err := env.results.ExportSummary()
	require.NoError(t, err)
	require.Len(t, rows, 10)

	scores := make(map[string]*float64)
	for i := range rows {
		scores[rows[i].STT] = rows[i].Score
	}
	require.NotNil(t, scores["1"])
	assert.Equal(t, 9.0, *scores["1"])
	assert.Nil(t, scores["2"], "the misclaimed entry moved away")
	require.NotNil(t, scores["3"])
	assert.Equal(t, 7.0, *scores["3"])
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "kiem-tra-giua-ky-1", slugify("Kiểm tra giữa kỳ 1"))
	assert.Equal(t, "bai-tap-dai-so", slugify("Bài tập Đại số"))
	assert.Equal(t, "", slugify("???"))
}

func TestSaveCurrentAsSnapshotsExam(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	saved, err := env.exams.SaveCurrentAs(env.ctx, "Kiểm tra thử")
	require.NoError(t, err)
	assert.Equal(t, "kiem-tra-thu", saved.ID)
	assert.Len(t, saved.Questions, 10)
	assert.False(t, saved.Settings.IsOpen)

	// Saving under the same name gets a suffixed id.
	again, err := env.exams.SaveCurrentAs(env.ctx, "Kiểm tra thử")
	require.NoError(t, err)
	assert.Equal(t, "kiem-tra-thu-2", again.ID)
}

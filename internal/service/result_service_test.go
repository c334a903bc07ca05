package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanexam/backend/internal/model"
)

func TestSubmitGradesAndScores(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	out, err := env.submit(t, "1", "Nguyễn Văn Học Sinh 1", answers(10, 8))
	require.NoError(t, err)

	assert.Equal(t, 8.0, out.Record.Score)
	assert.Equal(t, 8, out.Record.CorrectCount)
	assert.Equal(t, 10, out.Record.TotalQuestions)
	assert.True(t, out.ShowScore)
	assert.False(t, out.IsRetry)
	require.Len(t, out.Record.Details, 10)
	assert.True(t, out.Record.Details[0].IsCorrect)
	assert.False(t, out.Record.Details[9].IsCorrect)
	assert.Equal(t, "đúng", out.Record.Details[9].CorrectAnswerText)
}

func TestSubmitUnansweredCountsWrong(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	sheet := answers(10, 5)
	sheet[9] = -1
	out, err := env.submit(t, "2", "Nguyễn Văn Học Sinh 2", sheet)
	require.NoError(t, err)

	assert.Equal(t, 5, out.Record.CorrectCount)
	assert.Equal(t, -1, out.Record.Details[9].StudentAnswer)
	assert.Empty(t, out.Record.Details[9].StudentAnswerText)
}

func TestSubmitShortSheetTreatedAsUnanswered(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	out, err := env.submit(t, "3", "Nguyễn Văn Học Sinh 3", []int{0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Record.CorrectCount)
	assert.Equal(t, 3.0, out.Record.Score)
}

func TestResubmitRejectedWithoutRetry(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	_, err := env.submit(t, "4", "Nguyễn Văn Học Sinh 4", answers(10, 4))
	require.NoError(t, err)

	_, err = env.submit(t, "4", "Nguyễn Văn Học Sinh 4", answers(10, 10))
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	// The ledger still holds exactly one entry with the first score.
	ledger, err := env.results.List()
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, 4.0, ledger[0].Score)
}

func TestRetryReplacesLedgerEntry(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	_, err := env.submit(t, "5", "Nguyễn Văn Học Sinh 5", answers(10, 4))
	require.NoError(t, err)
	require.NoError(t, env.claims.AllowRetry(env.ctx, "5"))

	out, err := env.submit(t, "5", "Nguyễn Văn Học Sinh 5", answers(10, 9))
	require.NoError(t, err)
	assert.True(t, out.IsRetry)

	ledger, err := env.results.List()
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, 9.0, ledger[0].Score)

	// Retry is consumed; a third submission is rejected again.
	_, err = env.submit(t, "5", "Nguyễn Văn Học Sinh 5", answers(10, 10))
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestResetAllReopensSubmission(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	_, err := env.submit(t, "4", "Nguyễn Văn Học Sinh 4", answers(10, 4))
	require.NoError(t, err)
	require.NoError(t, env.claims.ResetAll(env.ctx))

	// With the claim map wiped the identity is fresh; a new submission
	// replaces the ledger entry left behind.
	_, err = env.claims.Claim(env.ctx, model.ClaimRequest{STT: "4", ConnectionID: "conn-b"})
	require.NoError(t, err)
	out, err := env.submit(t, "4", "Nguyễn Văn Học Sinh 4", answers(10, 7))
	require.NoError(t, err)
	assert.True(t, out.IsRetry)

	ledger, err := env.results.List()
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, 7.0, ledger[0].Score)
}

func TestClearAllKeepsCompletionGate(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	_, err := env.submit(t, "4", "Nguyễn Văn Học Sinh 4", answers(10, 4))
	require.NoError(t, err)
	require.NoError(t, env.results.ClearAll(env.ctx))

	// Clearing results does not reopen completed identities.
	_, err = env.submit(t, "4", "Nguyễn Văn Học Sinh 4", answers(10, 10))
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestSubmitGateClosedExam(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)
	_, err := env.sessions.CloseExam(env.ctx)
	require.NoError(t, err)

	_, err = env.submit(t, "1", "Nguyễn Văn Học Sinh 1", answers(10, 10))
	assert.ErrorIs(t, err, ErrExamClosed)
}

func TestSubmitUnknownStudent(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	_, err := env.submit(t, "42", "Ai Đó", answers(10, 10))
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestClearAllEmptiesLedger(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	_, err := env.submit(t, "1", "Nguyễn Văn Học Sinh 1", answers(10, 7))
	require.NoError(t, err)
	require.NoError(t, env.results.ClearAll(env.ctx))

	ledger, err := env.results.List()
	require.NoError(t, err)
	assert.Empty(t, ledger)
}

func TestExportSummaryJoinsRosterNumericOrder(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	_, err := env.submit(t, "10", "Nguyễn Văn Học Sinh 10", answers(10, 6))
	require.NoError(t, err)
	_, err = env.submit(t, "2", "Nguyễn Văn Học Sinh 2", answers(10, 8))
	require.NoError(t, err)

	rows, err := env.results.ExportSummary()
	require.NoError(t, err)
	require.Len(t, rows, 10)

	// Numeric ordering: 2 before 10.
	assert.Equal(t, "1", rows[0].STT)
	assert.Equal(t, "2", rows[1].STT)
	assert.Equal(t, "10", rows[9].STT)

	require.NotNil(t, rows[1].Score)
	assert.Equal(t, 8.0, *rows[1].Score)
	assert.Nil(t, rows[0].Score)
}

func TestRoundScore(t *testing.T) {
	assert.Equal(t, 8.0, roundScore(8, 10))
	assert.Equal(t, 10.0, roundScore(10, 10))
	assert.Equal(t, 0.0, roundScore(0, 10))
	assert.Equal(t, 3.3, roundScore(1, 3))
	assert.Equal(t, 6.7, roundScore(2, 3))
	// Empty exams grade to zero instead of dividing by zero.
	assert.Equal(t, 0.0, roundScore(0, 0))
}

func TestPartitionIsolationAcrossSessions(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	_, err := env.claims.Claim(env.ctx, model.ClaimRequest{STT: "1", ConnectionID: "conn-a"})
	require.NoError(t, err)
	_, err = env.submit(t, "1", "Nguyễn Văn Học Sinh 1", answers(10, 8))
	require.NoError(t, err)

	// Switch to a different exam: fresh partition, same roster.
	_, err = env.sessions.SetActive(env.ctx, model.SwitchSessionRequest{ClassID: testClassID, ExamID: testExamID2})
	require.NoError(t, err)

	ledger, err := env.results.List()
	require.NoError(t, err)
	assert.Empty(t, ledger)

	_, err = env.sessions.OpenExam(env.ctx)
	require.NoError(t, err)
	_, err = env.claims.Claim(env.ctx, model.ClaimRequest{STT: "1", ConnectionID: "conn-a"})
	require.NoError(t, err, "completion in one partition must not leak into another")

	// Switching back restores the original partition intact.
	_, err = env.sessions.SetActive(env.ctx, model.SwitchSessionRequest{ClassID: testClassID, ExamID: testExamID})
	require.NoError(t, err)

	ledger, err = env.results.List()
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, "1", ledger[0].StudentSTT)

	_, err = env.claims.Claim(env.ctx, model.ClaimRequest{STT: "1", ConnectionID: "conn-b"})
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestSummaryAcrossSessions(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	_, err := env.submit(t, "1", "Nguyễn Văn Học Sinh 1", answers(10, 8))
	require.NoError(t, err)
	_, err = env.submit(t, "2", "Nguyễn Văn Học Sinh 2", answers(10, 6))
	require.NoError(t, err)

	_, err = env.sessions.SetActive(env.ctx, model.SwitchSessionRequest{ClassID: testClassID, ExamID: testExamID2})
	require.NoError(t, err)
	_, err = env.sessions.OpenExam(env.ctx)
	require.NoError(t, err)
	_, err = env.submit(t, "3", "Nguyễn Văn Học Sinh 3", answers(10, 10))
	require.NoError(t, err)

	summaries, err := env.results.SummaryAcrossSessions(env.ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byExam := make(map[string]model.SessionResultSummary)
	for _, s := range summaries {
		byExam[s.ExamID] = s
	}
	assert.Equal(t, 2, byExam[testExamID].ResultCount)
	assert.Equal(t, 7.0, byExam[testExamID].AvgScore)
	assert.Equal(t, 1, byExam[testExamID2].ResultCount)
	assert.Equal(t, "10A1", byExam[testExamID].ClassName)
}

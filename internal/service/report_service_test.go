package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanexam/backend/internal/model"
)

// fileReport submits a result under wrongSTT and files a correction
// pointing at correctSTT, returning the pending report.
func fileReport(t *testing.T, env *testEnv, wrongSTT, correctSTT string) *model.Report {
	t.Helper()

	_, err := env.claims.Claim(env.ctx, model.ClaimRequest{STT: wrongSTT, ConnectionID: "conn-x"})
	require.NoError(t, err)
	_, err = env.submit(t, wrongSTT, "Nguyễn Văn Học Sinh "+wrongSTT, answers(10, 8))
	require.NoError(t, err)

	report, err := env.reports.File(env.ctx, model.FileReportRequest{
		WrongSTT:     wrongSTT,
		CorrectSTT:   correctSTT,
		Reason:       "Chọn nhầm tên",
		ConnectionID: "conn-x",
	})
	require.NoError(t, err)
	require.Equal(t, model.ReportStatusPending, report.Status)
	return report
}

func TestApproveMovesLedgerEntry(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	report := fileReport(t, env, "3", "7")

	processed, err := env.reports.Approve(env.ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusApproved, processed.Status)

	// Exactly one ledger entry, re-keyed and renamed, score untouched.
	ledger, err := env.results.List()
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, "7", ledger[0].StudentSTT)
	assert.Equal(t, "Nguyễn Văn Học Sinh 7", ledger[0].StudentName)
	assert.Equal(t, 8.0, ledger[0].Score)
	assert.Contains(t, ledger[0].Note, "Chuyển từ Nguyễn Văn Học Sinh 3")

	// The wrong identity is claimable again, the correct one is done.
	_, err = env.claims.Claim(env.ctx, model.ClaimRequest{STT: "3", ConnectionID: "conn-y"})
	require.NoError(t, err)
	_, err = env.claims.Claim(env.ctx, model.ClaimRequest{STT: "7", ConnectionID: "conn-z"})
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestApproveBeforeSubmissionTransfersClaim(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	// Mid-exam misclaim: the student noticed the wrong name before
	// submitting anything.
	_, err := env.claims.Claim(env.ctx, model.ClaimRequest{STT: "1", ConnectionID: "conn-a"})
	require.NoError(t, err)
	report, err := env.reports.File(env.ctx, model.FileReportRequest{
		WrongSTT:     "1",
		CorrectSTT:   "2",
		Reason:       "Chọn nhầm tên",
		ConnectionID: "conn-a",
	})
	require.NoError(t, err)

	processed, err := env.reports.Approve(env.ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusApproved, processed.Status)

	// No ledger entry existed, so none was invented.
	ledger, err := env.results.List()
	require.NoError(t, err)
	assert.Empty(t, ledger)

	// The claim moved: "1" is free, "2" belongs to the reporting
	// connection and nobody else.
	_, err = env.claims.Claim(env.ctx, model.ClaimRequest{STT: "1", ConnectionID: "conn-b"})
	require.NoError(t, err)
	_, err = env.claims.Claim(env.ctx, model.ClaimRequest{STT: "2", ConnectionID: "conn-c"})
	assert.ErrorIs(t, err, ErrStudentTaken)
	st, err := env.claims.Claim(env.ctx, model.ClaimRequest{STT: "2", ConnectionID: "conn-a"})
	require.NoError(t, err)
	assert.Equal(t, "conn-a", st.SelectedBy)

	// The student finishes the exam under the right name.
	out, err := env.submit(t, "2", "Nguyễn Văn Học Sinh 2", answers(10, 8))
	require.NoError(t, err)
	assert.Equal(t, 8.0, out.Record.Score)
}

func TestApproveReplacesStaleEntryOnCorrectSTT(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	// The correct identity already has a stale ledger entry.
	_, err := env.submit(t, "7", "Nguyễn Văn Học Sinh 7", answers(10, 2))
	require.NoError(t, err)
	require.NoError(t, env.claims.AllowRetry(env.ctx, "7"))

	report := fileReport(t, env, "3", "7")
	_, err = env.reports.Approve(env.ctx, report.ID)
	require.NoError(t, err)

	ledger, err := env.results.List()
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, "7", ledger[0].StudentSTT)
	assert.Equal(t, 8.0, ledger[0].Score, "the moved entry wins over the stale one")
}

func TestRejectLeavesLedgerAlone(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	report := fileReport(t, env, "2", "5")

	processed, err := env.reports.Reject(env.ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusRejected, processed.Status)

	ledger, err := env.results.List()
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, "2", ledger[0].StudentSTT)

	// Completion on the wrong identity stands.
	_, err = env.claims.Claim(env.ctx, model.ClaimRequest{STT: "2", ConnectionID: "conn-y"})
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestProcessedReportCannotBeProcessedTwice(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	report := fileReport(t, env, "4", "8")
	_, err := env.reports.Approve(env.ctx, report.ID)
	require.NoError(t, err)

	_, err = env.reports.Approve(env.ctx, report.ID)
	assert.ErrorIs(t, err, ErrReportNotFound)
	_, err = env.reports.Reject(env.ctx, report.ID)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestFileReportValidatesRoster(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	_, err := env.reports.File(env.ctx, model.FileReportRequest{
		WrongSTT:     "1",
		CorrectSTT:   "99",
		ConnectionID: "conn-x",
	})
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestPendingFiltersProcessed(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t)

	first := fileReport(t, env, "1", "9")
	second := fileReport(t, env, "2", "10")

	_, err := env.reports.Reject(env.ctx, first.ID)
	require.NoError(t, err)

	pending, err := env.reports.Pending(env.ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	all, err := env.reports.All(env.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

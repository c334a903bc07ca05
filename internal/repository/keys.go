package repository

// Document keys. Session-scoped documents are suffixed with the composite
// session key (classId + "__" + examId).
const (
	keyClasses = "meta/classes"
	keySession = "meta/current-session"
	keyReports = "meta/reports"

	prefixRosters = "rosters/"
	prefixExams   = "exams/"
	prefixStatus  = "student-status/"
	prefixResults = "results/"
)

package service

import "errors"

// Sentinel errors returned by the service layer. Handlers map these onto
// HTTP statuses and response error codes.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrClassNotFound  = errors.New("class not found")
	ErrExamNotFound   = errors.New("exam not found")
	ErrReportNotFound = errors.New("report not found")
	ErrDuplicateClass = errors.New("class name already exists")
	ErrClassInUse     = errors.New("class is used by the active session")
	ErrExamInUse      = errors.New("exam is used by the active session")

	ErrStudentNotFound  = errors.New("student not found in roster")
	ErrStudentTaken     = errors.New("student identity already claimed")
	ErrAlreadyCompleted = errors.New("student already completed the exam")
	ErrAlreadySubmitted = errors.New("student already submitted a result")

	ErrExamClosed      = errors.New("exam is not open")
	ErrNoQuestions     = errors.New("exam has no questions")
	ErrInvalidQuestion = errors.New("correct answer index out of range")
	ErrWrongPassword   = errors.New("wrong exam password")
	ErrNotPracticeMode = errors.New("practice mode is disabled")
	ErrNoActiveSession = errors.New("no active session selected")
)

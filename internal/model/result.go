package model

import "time"

// AnswerDetail records one graded answer. Option texts are captured at
// grading time so corrections remain readable even if the exam is edited
// or the client shuffled option order.
type AnswerDetail struct {
	Question          string `json:"question"`
	StudentAnswer     int    `json:"studentAnswer"`
	StudentAnswerText string `json:"studentAnswerText,omitempty"`
	CorrectAnswer     int    `json:"correctAnswer"`
	CorrectAnswerText string `json:"correctAnswerText"`
	IsCorrect         bool   `json:"isCorrect"`
}

// ResultRecord is one graded submission. At most one exists per
// (session, stt); resubmission replaces it in place.
type ResultRecord struct {
	StudentSTT     string         `json:"studentSTT"`
	StudentName    string         `json:"studentName"`
	StudentClass   string         `json:"studentClass"`
	Score          float64        `json:"score"`
	CorrectCount   int            `json:"correctCount"`
	TotalQuestions int            `json:"totalQuestions"`
	TimeSpent      int            `json:"timeSpent"` // seconds
	SubmittedAt    time.Time      `json:"submittedAt"`
	Note           string         `json:"note,omitempty"`
	Details        []AnswerDetail `json:"details"`
}

// SubmitRequest is the payload for a student submitting answers.
// Answers holds one selected option index per question, -1 for unanswered.
type SubmitRequest struct {
	StudentSTT   string `json:"studentSTT" binding:"required"`
	StudentName  string `json:"studentName" binding:"required"`
	StudentClass string `json:"studentClass"`
	Answers      []int  `json:"answers" binding:"required"`
	TimeSpent    int    `json:"timeSpent" binding:"min=0"`
}

// SummaryRow is one export row: a roster entry joined with its result,
// blank score fields when the student has not submitted.
type SummaryRow struct {
	STT            string     `json:"stt"`
	FullName       string     `json:"fullName"`
	Score          *float64   `json:"score,omitempty"`
	CorrectCount   *int       `json:"correctCount,omitempty"`
	TotalQuestions *int       `json:"totalQuestions,omitempty"`
	TimeSpent      *int       `json:"timeSpent,omitempty"`
	SubmittedAt    *time.Time `json:"submittedAt,omitempty"`
}

// SessionResultSummary aggregates one (class, exam) result document.
type SessionResultSummary struct {
	ClassID     string  `json:"classId"`
	ClassName   string  `json:"className"`
	ExamID      string  `json:"examId"`
	ExamName    string  `json:"examName"`
	ResultCount int     `json:"resultCount"`
	AvgScore    float64 `json:"avgScore"`
}

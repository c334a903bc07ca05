package model

import "time"

// ReportStatus enumerates correction report states.
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusApproved ReportStatus = "approved"
	ReportStatusRejected ReportStatus = "rejected"
)

// Report is a misclaim correction request: the student sitting on WrongSTT
// asks to be moved to CorrectSTT, pending teacher approval.
type Report struct {
	ID           string       `json:"id"`
	WrongSTT     string       `json:"wrongSTT"`
	WrongName    string       `json:"wrongName"`
	CorrectSTT   string       `json:"correctSTT"`
	CorrectName  string       `json:"correctName"`
	Reason       string       `json:"reason"`
	ConnectionID string       `json:"connectionId"`
	Status       ReportStatus `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// FileReportRequest is the payload for filing a misclaim report.
type FileReportRequest struct {
	WrongSTT     string `json:"wrongSTT" binding:"required"`
	CorrectSTT   string `json:"correctSTT" binding:"required"`
	Reason       string `json:"reason" binding:"max=500"`
	ConnectionID string `json:"connectionId" binding:"required"`
}

// ProcessReportRequest is the payload for approving or rejecting a report.
type ProcessReportRequest struct {
	ReportID string `json:"reportId" binding:"required"`
}

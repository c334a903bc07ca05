package model

import "strings"

// Session is the single active (class, exam) pointer. All session-scoped
// state (claim map, result ledger) is partitioned under Key().
type Session struct {
	ClassID   string `json:"classId"`
	ClassName string `json:"className"`
	ExamID    string `json:"examId"`
	ExamName  string `json:"examName"`
}

// Key returns the composite partition key, or "" when no class+exam pair
// is active yet.
func (s Session) Key() string {
	if s.ClassID == "" || s.ExamID == "" {
		return ""
	}
	return s.ClassID + "__" + s.ExamID
}

// SplitSessionKey inverts Key. ok is false for malformed keys.
func SplitSessionKey(key string) (classID, examID string, ok bool) {
	i := strings.Index(key, "__")
	if i <= 0 || i+2 >= len(key) {
		return "", "", false
	}
	return key[:i], key[i+2:], true
}

// SessionDoc is the persisted form of the session pointer. Settings travel
// with the pointer so a restart restores the gate exactly as it was left.
type SessionDoc struct {
	CurrentSession Session      `json:"currentSession"`
	ExamSettings   ExamSettings `json:"examSettings"`
}

// SwitchSessionRequest is the payload for switching the active class/exam.
// Both fields are optional; omitted ones keep their current value.
type SwitchSessionRequest struct {
	ClassID       string `json:"classId"`
	ExamID        string `json:"examId"`
	ResetStudents bool   `json:"resetStudents"`
}

package model

import "strings"

// StudentRecord is one roster entry. STT is the canonical per-class student
// identifier, always kept in normalized string form: roster rows arrive with
// numeric or string ordinals and the two must compare equal afterwards.
type StudentRecord struct {
	STT        string `json:"stt"`
	FamilyName string `json:"ho"`
	GivenName  string `json:"ten"`
	FemaleFlag string `json:"nu"` // "X" when female, "" otherwise
}

// FullName joins the family and given name parts.
func (s StudentRecord) FullName() string {
	return strings.TrimSpace(strings.Join([]string{s.FamilyName, s.GivenName}, " "))
}

// RosterRow is one row of a roster import payload. The spreadsheet itself is
// parsed client-side (or by an external tool); the server only receives rows.
type RosterRow struct {
	STT        string `json:"stt"`
	FamilyName string `json:"ho"`
	GivenName  string `json:"ten"`
	FemaleFlag string `json:"nu"`
}

// ImportRosterRequest is the payload for replacing a class roster.
type ImportRosterRequest struct {
	Students []RosterRow `json:"students" binding:"required,min=1,dive"`
}

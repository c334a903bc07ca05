package model

import "time"

// ExamSettings holds the per-exam runtime settings the teacher controls.
type ExamSettings struct {
	Title           string `json:"title"`
	TimeLimit       int    `json:"timeLimit"` // minutes, advisory for the client timer
	IsOpen          bool   `json:"isOpen"`
	ShowScore       bool   `json:"showScore"`
	PracticeMode    bool   `json:"practiceMode"`
	ExamPassword    string `json:"examPassword"`
	RequirePassword bool   `json:"requirePassword"`
}

// DefaultExamSettings returns the settings applied to a freshly created exam.
func DefaultExamSettings(title string) ExamSettings {
	return ExamSettings{
		Title:     title,
		TimeLimit: 30,
		ShowScore: true,
	}
}

// Exam is a persisted catalog document of questions plus settings.
type Exam struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Questions []Question   `json:"questions"`
	Settings  ExamSettings `json:"settings"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt,omitempty"`
}

// ExamInfo is the catalog listing entry for an exam.
type ExamInfo struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	QuestionCount int       `json:"questionCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreateExamRequest is the payload for creating a new (empty) exam.
type CreateExamRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// UpdateSettingsRequest is a partial settings patch; nil fields are left as-is.
type UpdateSettingsRequest struct {
	Title           *string `json:"title"`
	TimeLimit       *int    `json:"timeLimit" binding:"omitempty,min=1,max=480"`
	IsOpen          *bool   `json:"isOpen"`
	ShowScore       *bool   `json:"showScore"`
	PracticeMode    *bool   `json:"practiceMode"`
	ExamPassword    *string `json:"examPassword"`
	RequirePassword *bool   `json:"requirePassword"`
}

// VerifyPasswordRequest is the payload for checking the exam start password.
type VerifyPasswordRequest struct {
	Password string `json:"password"`
}

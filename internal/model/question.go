package model

// Question represents a single multiple-choice question.
type Question struct {
	Text    string   `json:"question"`
	Options []string `json:"options"`
	Correct int      `json:"correct"`
	Image   string   `json:"image,omitempty"`
}

// QuestionForStudent is a question stripped of the correct answer.
type QuestionForStudent struct {
	ID      int      `json:"id"`
	Text    string   `json:"question"`
	Options []string `json:"options"`
	Image   string   `json:"image,omitempty"`
}

// QuestionRequest is the payload for adding or updating a question.
type QuestionRequest struct {
	Text    string   `json:"question" binding:"required,min=1,max=2000"`
	Options []string `json:"options" binding:"required,min=2,dive,max=1000"`
	Correct int      `json:"correct" binding:"min=0"`
	Image   string   `json:"image" binding:"omitempty,max=500"`
}

// ReplaceQuestionsRequest is the payload for bulk replacing an exam's questions.
type ReplaceQuestionsRequest struct {
	Questions []QuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// CheckAnswerRequest is the payload for the practice-mode answer probe.
type CheckAnswerRequest struct {
	QuestionIndex int `json:"questionIndex" binding:"min=0"`
	Answer        int `json:"answer"`
}

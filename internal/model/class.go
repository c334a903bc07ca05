package model

import "time"

// Class represents a class group owning one student roster.
type Class struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	StudentCount int       `json:"studentCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CreateClassRequest is the payload for creating a new class.
type CreateClassRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

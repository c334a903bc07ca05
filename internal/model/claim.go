package model

// ClaimState tracks one roster identity within the active session.
//
// Invariants (enforced by the claim arbiter):
//   - Selected implies SelectedBy != ""
//   - Completed implies !Selected and SelectedBy == "" (except transiently
//     while a correction report is being applied)
//   - CanRetry implies !Completed
type ClaimState struct {
	Selected      bool   `json:"selected"`
	SelectedBy    string `json:"selectedBy"`
	Completed     bool   `json:"completed"`
	CanRetry      bool   `json:"canRetry"`
	TabLeaveCount int    `json:"tabLeaveCount,omitempty"`
	LastTabLeave  string `json:"lastTabLeave,omitempty"`
}

// NewClaimState returns the Unclaimed state.
func NewClaimState() *ClaimState {
	return &ClaimState{}
}

// StudentWithStatus is a roster entry joined with its live claim state.
// Status is the dashboard label: "available", "taken" or "completed".
type StudentWithStatus struct {
	StudentRecord
	FullName      string `json:"fullName"`
	Status        string `json:"status"`
	TabLeaveCount int    `json:"tabLeaveCount,omitempty"`
}

// ClaimRequest is the payload for claiming or releasing a roster identity.
type ClaimRequest struct {
	STT          string `json:"stt" binding:"required"`
	ConnectionID string `json:"connectionId" binding:"required"`
}

// AllowRetryRequest is the payload for the teacher retry grant.
type AllowRetryRequest struct {
	STT string `json:"stt" binding:"required"`
}

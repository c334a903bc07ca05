package ws

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventConnected           Event = "connected"
	EventSessionChanged      Event = "sessionChanged"
	EventExamSwitched        Event = "examSwitched"
	EventStudentStatusUpdate Event = "studentStatusUpdated"
	EventStudentsUpdated     Event = "studentsUpdated"
	EventNewResult           Event = "newResult"
	EventResultUpdated       Event = "resultUpdated"
	EventResultsCleared      Event = "resultsCleared"
	EventNewReport           Event = "newReport"
	EventReportProcessed     Event = "reportProcessed"
	EventRetryAllowed        Event = "retryAllowed"
	EventAllStudentsReset    Event = "allStudentsReset"
	EventExamStatusChanged   Event = "examStatusChanged"
	EventExamOpened          Event = "examOpened"
	EventExamClosed          Event = "examClosed"
	EventQuestionsUpdated    Event = "questionsUpdated"
	EventStudentTabLeave     Event = "studentTabLeave"
)

// Message is the envelope every broadcast is wrapped in.
type Message struct {
	Event Event `json:"event"`
	Data  any   `json:"data,omitempty"`
}

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing     Action = "ping"
	ActionTabLeave Action = "tabLeave"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// TabLeaveRequest is sent by a student's client when the exam tab loses focus.
type TabLeaveRequest struct {
	Action Action `json:"action"`
	STT    string `json:"stt"`
}

// ConnectedPayload is sent once immediately after the upgrade completes.
type ConnectedPayload struct {
	ConnectionID string `json:"connectionId"`
}

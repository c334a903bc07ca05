package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Envelope is the standard API response wrapper.
type Envelope struct {
	Data     any       `json:"data,omitempty"`
	Error    *APIError `json:"error,omitempty"`
	Metadata Metadata  `json:"metadata"`
}

// APIError carries a machine-readable code plus a localized message.
type APIError struct {
	Code    ErrCode           `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Metadata contains request tracing information.
type Metadata struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

func buildMetadata(c *gin.Context) Metadata {
	return Metadata{
		RequestID: GetRequestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// OK writes a 200 response with the given payload.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Data: data, Metadata: buildMetadata(c)})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Data: data, Metadata: buildMetadata(c)})
}

// Error writes an error response with the message looked up from the code.
func Error(c *gin.Context, status int, code ErrCode) {
	c.JSON(status, Envelope{
		Error:    &APIError{Code: code, Message: GetMessage(code)},
		Metadata: buildMetadata(c),
	})
}

// ErrorWithFields writes a validation error response with per-field details.
func ErrorWithFields(c *gin.Context, status int, code ErrCode, fields map[string]string) {
	c.JSON(status, Envelope{
		Error:    &APIError{Code: code, Message: GetMessage(code), Fields: fields},
		Metadata: buildMetadata(c),
	})
}

// AbortError writes an error response and stops the handler chain.
func AbortError(c *gin.Context, status int, code ErrCode) {
	c.AbortWithStatusJSON(status, Envelope{
		Error:    &APIError{Code: code, Message: GetMessage(code)},
		Metadata: buildMetadata(c),
	})
}

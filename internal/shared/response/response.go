package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	sharederrors "github.com/quickai/server/internal/shared/errors"
)

// Failure is the body of every unsuccessful outcome. Clients inspect
// success and message; the HTTP status is not the error channel.
type Failure struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// OK writes {"success": true} merged with fields.
func OK(c *gin.Context, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Fail writes a failure envelope with the given status.
func Fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, Failure{Success: false, Code: code, Message: message})
}

// AbortFail writes a failure envelope and stops the handler chain.
func AbortFail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Failure{Success: false, Code: code, Message: message})
}

// FromAppError writes the envelope for an AppError using its own status.
func FromAppError(c *gin.Context, appErr *sharederrors.AppError) {
	AbortFail(c, appErr.StatusCode, appErr.Code, appErr.Message)
}

// ErrorMapping maps a domain error to an envelope code and message.
// A zero Status means 200. Verbose reports the wrapped error text instead
// of Message.
type ErrorMapping struct {
	Err     error
	Status  int
	Code    string
	Message string
	Verbose bool
}

// HandleError writes the first mapping matching err.
// Returns true if the error was handled, false otherwise.
func HandleError(c *gin.Context, err error, mappings []ErrorMapping) bool {
	for _, m := range mappings {
		if errors.Is(err, m.Err) {
			msg := m.Message
			if m.Verbose || msg == "" {
				msg = err.Error()
			}
			status := m.Status
			if status == 0 {
				status = http.StatusOK
			}
			Fail(c, status, m.Code, msg)
			return true
		}
	}
	return false
}

// HandleErrorWithDefault handles err, falling back to an internal failure.
func HandleErrorWithDefault(c *gin.Context, err error, mappings []ErrorMapping) {
	if !HandleError(c, err, mappings) {
		Fail(c, http.StatusOK, "INTERNAL_ERROR", "Something went wrong. Please try again.")
	}
}

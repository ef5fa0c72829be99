package handlers

import (
	"errors"
	"net/http"
	"os"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/confpulse/confpulse-backend/internal/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError maps an error to the JSON error envelope. Tagged errors carry
// their own status and code; anything else is a 500 internal.
func RespondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "internal"

	var tagged *apierr.Error
	if errors.As(err, &tagged) {
		if tagged.Status != 0 {
			status = tagged.Status
		}
		if tagged.Code != "" {
			code = tagged.Code
		}
	}

	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}

	// Internal errors expose the stack outside production to ease debugging.
	var stack string
	if status >= http.StatusInternalServerError && os.Getenv("APP_ENV") != "production" {
		stack = string(debug.Stack())
	}

	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
			Stack:   stack,
		},
	})
}

func RespondBadRequest(c *gin.Context, code string, err error) {
	RespondError(c, apierr.New(http.StatusBadRequest, code, err))
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondMethodHint answers GET probes on POST-only routes with a usage hint
// instead of a bare 405.
func RespondMethodHint(c *gin.Context, hint string) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"message": hint})
}

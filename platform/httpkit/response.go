// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"

	"orgdir_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// Envelope is the fixed response format for every endpoint.
// Success responses carry status "success", a human message and a data
// payload; failures carry a status label, message, the numeric statusCode
// and, for validation failures, a per-field errors list.
type Envelope struct {
	Status     string              `json:"status"`
	Message    string              `json:"message,omitempty"`
	StatusCode int                 `json:"statusCode,omitempty"`
	Data       interface{}         `json:"data,omitempty"`
	Errors     []apperr.FieldError `json:"errors,omitempty"`
}

// Success sends a success envelope with the given status code.
func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// OK sends a 200 success envelope.
func OK(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusOK, message, data)
}

// Created sends a 201 success envelope.
func Created(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusCreated, message, data)
}

// Fail sends a failure envelope with an explicit status label.
func Fail(c *gin.Context, status int, label, message string, fields []apperr.FieldError) {
	c.JSON(status, Envelope{
		Status:     label,
		Message:    message,
		StatusCode: status,
		Errors:     fields,
	})
}

// HandleError maps a domain error to the failure envelope. Typed
// *apperr.Error values determine the status code and label; anything else is
// treated as an internal error and its detail is never sent to the client.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	domainErr, ok := err.(*apperr.Error)
	if !ok {
		Fail(c, http.StatusInternalServerError, "error", "internal server error", nil)
		return true
	}

	message := domainErr.Message
	if domainErr.Kind == apperr.KindInternal {
		message = "internal server error"
	}

	Fail(c, domainErr.HTTPStatus(), statusLabel(domainErr.Kind), message, domainErr.Fields)
	return true
}

// statusLabel picks the envelope status string for an error kind. The odd
// capitalization split is part of the public contract: validation failures
// report "Bad Request" while conflict and authentication failures report
// "Bad request".
func statusLabel(kind apperr.Kind) string {
	switch kind {
	case apperr.KindValidation, apperr.KindBadRequest:
		return "Bad Request"
	case apperr.KindConflict, apperr.KindUnauthorized:
		return "Bad request"
	default:
		return "error"
	}
}

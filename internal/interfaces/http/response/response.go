// internal/interfaces/http/response/response.go
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/pkg/apperr"
)

// Envelope is the single response shape every endpoint returns.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// OK writes a 200 success envelope.
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Error maps a service error to its HTTP status and writes a failure envelope.
// Server-side causes are logged; the wire message stays clean.
func Error(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"path":   c.FullPath(),
			"method": c.Request.Method,
			"error":  err.Error(),
		}).Error("Request failed")
	}
	c.JSON(status, Envelope{Success: false, Message: publicMessage(err)})
}

// BadRequest writes a 400 failure envelope for binding errors.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Message: message})
}

func publicMessage(err error) string {
	if apperr.IsClientError(err) {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return appErr.Message
		}
		return err.Error()
	}
	return "Internal server error"
}

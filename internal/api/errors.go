package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"horizon/coach-api/internal/apperr"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// errorResponder turns service errors into the JSON envelope. Internal
// details are only exposed in development.
type errorResponder struct {
	logger      *zap.Logger
	showDetails bool
}

func (r errorResponder) respond(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	body := ErrorResponse{Message: apperr.MessageOf(err)}

	if status >= http.StatusInternalServerError {
		r.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(ContextRequestIDKey)),
			zap.Error(err))
		if r.showDetails {
			body.Details = err.Error()
		}
	}
	c.AbortWithStatusJSON(status, body)
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Message: message})
}

package util

import (
	"errors"
	"net/http"

	"exam_portal_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the envelope every JSON endpoint returns.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func write(c *gin.Context, status int, message string, data interface{}) {
	if message == "" {
		message = http.StatusText(status)
	}
	c.JSON(status, Response{Code: status, Message: message, Data: data})
}

func Success(c *gin.Context, data interface{}) { write(c, http.StatusOK, "success", data) }

func Created(c *gin.Context, data interface{}) { write(c, http.StatusCreated, "created", data) }

// Error writes an envelope without data. An empty message falls back to the
// status text.
func Error(c *gin.Context, status int, message string) { write(c, status, message, nil) }

func BadRequest(c *gin.Context, message string) { write(c, http.StatusBadRequest, message, nil) }

func Unauthorized(c *gin.Context) { write(c, http.StatusUnauthorized, "", nil) }

func Forbidden(c *gin.Context) { write(c, http.StatusForbidden, "", nil) }

func NotFound(c *gin.Context) { write(c, http.StatusNotFound, "", nil) }

func InternalServerError(c *gin.Context) { write(c, http.StatusInternalServerError, "", nil) }

// LogInternalError hides err from the client.
func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("unhandled error",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
	)
	InternalServerError(c)
}

// HandleServiceError maps the service sentinel errors onto HTTP statuses.
// Collaborator failures keep their message so clients see which write failed.
func HandleServiceError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrPolicyViolation):
		status = http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		Forbidden(c)
		return
	case errors.Is(err, ErrCollaborator):
		logger.Log.Error("collaborator failure", zap.Error(err), zap.String("route", c.FullPath()))
		status = http.StatusInternalServerError
	default:
		LogInternalError(c, err)
		return
	}
	write(c, status, err.Error(), nil)
}

package apihandlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sortd/internal/models"
)

// APIError defines standard error response
// Example: { "error": { "code": "conflict", "message": "commit in progress" } }
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error APIError `json:"error"`
}

// JSONError sends a structured error response
func JSONError(ctx *gin.Context, status int, code, msg string) {
	ctx.JSON(status, errorResponse{Error: APIError{Code: code, Message: msg}})
}

// Convenience wrappers
func BadRequest(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusBadRequest, "bad_request", msg)
}

func NotFound(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusNotFound, "not_found", msg)
}

func Internal(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusInternalServerError, "internal_error", msg)
}

func Conflict(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusConflict, "conflict", msg)
}

// respondError maps engine errors onto the response taxonomy. Anything
// outside the known sentinels is an internal error.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		BadRequest(ctx, err.Error())
	case errors.Is(err, models.ErrNotFound):
		NotFound(ctx, err.Error())
	case errors.Is(err, models.ErrCommitInProgress):
		Conflict(ctx, err.Error())
	case errors.Is(err, models.ErrLogCorrupt):
		JSONError(ctx, http.StatusUnprocessableEntity, "log_corrupt", err.Error())
	default:
		Internal(ctx, err.Error())
	}
}

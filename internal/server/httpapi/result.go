package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/flashnest/internal/common"
	"github.com/gin-gonic/gin"
)

// Result is the envelope returned by every non-data operation and by all
// failures.
type Result struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respond(c *gin.Context, code int, message string) {
	c.JSON(code, Result{Code: code, Message: message})
}

func abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Result{Code: code, Message: message})
}

func validationFailed(c *gin.Context) {
	abort(c, http.StatusUnprocessableEntity, "JSON validation error")
}

// errorResult maps a service error to a status code and a message that is
// safe to show to the client.
func errorResult(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized, "Failed to verify token"
	case errors.Is(err, common.ErrInactive):
		return http.StatusUnauthorized, "User not active"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email/password"
	case errors.Is(err, common.ErrWrongPassword):
		return http.StatusUnauthorized, "Incorrect current password"
	case errors.Is(err, common.ErrPasswordTooLong):
		return http.StatusBadRequest, "Password too long"
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusBadRequest, "Invalid token"
	case errors.Is(err, common.ErrEmailExists):
		return http.StatusBadRequest, "User exists"
	case errors.Is(err, common.ErrDuplicateCardID):
		return http.StatusBadRequest, "Failed to add set"
	case errors.Is(err, common.ErrAlreadyActive):
		return http.StatusBadRequest, "User already active"
	case errors.Is(err, common.ErrInvalidMediaKind):
		return http.StatusBadRequest, "Invalid media kind"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Not found"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// fail writes err as a Result. Unexpected errors are logged; their details
// never reach the client.
func (h *Handler) fail(c *gin.Context, err error) {
	code, message := errorResult(err)
	if code == http.StatusInternalServerError {
		h.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	abort(c, code, message)
}

// failNotFound is fail with a resource-specific not-found message.
func (h *Handler) failNotFound(c *gin.Context, err error, message string) {
	if errors.Is(err, common.ErrorNotFound) {
		abort(c, http.StatusNotFound, message)
		return
	}
	h.fail(c, err)
}

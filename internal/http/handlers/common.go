// Package handlers implements the admin API surface. Every resource panel is
// served by the same generic handler set; only the store binding and the
// envelope data key differ per entity.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"opshub/internal/domain"
	"opshub/internal/http/middleware"
)

// RespondError sends the standard failure envelope with request_id included.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success":    false,
		"error":      message,
		"request_id": middleware.GetRequestID(c),
	})
}

// RespondDomainError maps typed domain errors to HTTP responses. Unknown
// errors become a generic 500 so internals never leak to the client.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		RespondError(c, http.StatusBadRequest, err.Error())
	case domain.IsNotFound(err):
		RespondError(c, http.StatusNotFound, err.Error())
	case domain.IsConflict(err):
		RespondError(c, http.StatusConflict, err.Error())
	default:
		RespondError(c, http.StatusInternalServerError, "something went wrong")
	}
}

// BindJSONOrError ensures the body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "empty body")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload")
		return false
	}
	return true
}

// RespondList sends one page of items in the uniform list envelope. dataKey
// varies per resource ("content", "prompts", ...) but the shape is identical.
func RespondList(c *gin.Context, dataKey string, items any, total, page, pageSize int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		dataKey: items,
		"pagination": gin.H{
			"total":    total,
			"page":     page,
			"pageSize": pageSize,
		},
	})
}

// Package api holds the HTTP handlers and the route table that ties them
// to their access rules.
package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/huzzdev/sincrolab-backend/errors"
	"github.com/huzzdev/sincrolab-backend/validation"
)

// bindJSON decodes the request body into dst and validates it.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperrors.InvalidInput("request body too large")
		case errors.Is(err, io.EOF):
			return apperrors.InvalidInput("request body is required")
		default:
			return apperrors.InvalidInput("request body is not valid JSON")
		}
	}
	return validation.Validate(dst)
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/huzzdev/sincrolab-backend/errors"
	"github.com/huzzdev/sincrolab-backend/logger"
)

// PageResponse is the envelope for paginated listings.
type PageResponse struct {
	Data any      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// PageMeta describes the returned window.
type PageMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// RespondWithError writes err as JSON. An *apperrors.AppError keeps its
// status and body; anything else becomes a generic 500 whose cause is
// logged but not sent.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		fields := logger.Fields("code", string(appErr.Code), "path", c.Request.URL.Path)
		if appErr.Cause != nil {
			fields[logger.FieldError] = appErr.Cause.Error()
		}
		logger.GetGlobalLogger().WithContext(c.Request.Context()).Error("Request failed", fields)
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondOK sends a 200 response with body.
func RespondOK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

// RespondCreated sends a 201 response with body.
func RespondCreated(c *gin.Context, body any) {
	c.JSON(http.StatusCreated, body)
}

// RespondPage sends a 200 paginated listing.
func RespondPage(c *gin.Context, data any, meta PageMeta) {
	c.JSON(http.StatusOK, PageResponse{Data: data, Meta: meta})
}

// RespondNoContent sends a 204 with no body.
func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

package controllers

import (
	"errors"
	"log/slog"

	"tableserve/pkg/resp"
	"tableserve/services"

	"github.com/gin-gonic/gin"
)

// respondErr maps the service error taxonomy onto HTTP statuses.
// Unexpected errors are logged with context and surfaced as a generic
// 500; internals never reach the caller.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		resp.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrSessionExpired):
		resp.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		resp.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrInvalidItem),
		errors.Is(err, services.ErrInvalidSignature):
		resp.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		resp.Conflict(c, err.Error())
	default:
		slog.Error("internal error", "path", c.FullPath(), "err", err)
		resp.ServerError(c)
	}
}

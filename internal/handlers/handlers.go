package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/notify"
	"github.com/taskhive/taskhive/internal/services"
	"go.uber.org/zap"
)

// Package-level collaborators, wired once from main before the router starts.
var (
	mailer   notify.Mailer
	texter   notify.Texter
	log      *zap.Logger
	adminCfg config.AdminConfig
)

// Configure injects the notification capabilities and logger the handlers
// depend on. Must be called before any route is served.
func Configure(m notify.Mailer, t notify.Texter, l *zap.Logger, admin config.AdminConfig) {
	mailer = m
	texter = t
	log = l
	adminCfg = admin
}

// respondServiceError translates the service error taxonomy into HTTP status
// codes. Unknown errors become opaque 500s.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, services.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrInvalidAssignee):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Assignee must be the project owner or a member"})
	case errors.Is(err, services.ErrInvalidInput):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error("internal error", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

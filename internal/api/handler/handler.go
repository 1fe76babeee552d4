// Package handler exposes the service over HTTP with gin. Handlers stay
// thin: decode the request, find the acting user, call the service, map the
// error taxonomy onto status codes with localized messages.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"samadhan/backend/internal/apperrors"
	"samadhan/backend/internal/complaint"
	"samadhan/backend/internal/feed"
	"samadhan/backend/internal/localization"
	"samadhan/backend/internal/storage"
)

// Handler carries the dependencies of the HTTP layer.
type Handler struct {
	Complaints *complaint.Service
	Storage    *storage.Service
	Hub        *feed.Hub
	Localizer  *localization.Localizer
	JWTSecret  []byte
}

// NewHandler wires the HTTP layer.
func NewHandler(svc *complaint.Service, store *storage.Service, hub *feed.Hub, loc *localization.Localizer, jwtSecret []byte) *Handler {
	return &Handler{
		Complaints: svc,
		Storage:    store,
		Hub:        hub,
		Localizer:  loc,
		JWTSecret:  jwtSecret,
	}
}

// RegisterRoutes mounts all routes on the engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/auth/token", h.IssueToken)

	authed := r.Group("/", h.AuthRequired())
	{
		authed.POST("/complaints", h.CreateComplaint)
		authed.GET("/complaints", h.ListComplaints)
		authed.GET("/complaints/nearby", h.NearbyComplaints)
		authed.GET("/complaints/trending", h.TrendingComplaints)
		authed.GET("/complaints/:id", h.GetComplaint)
		authed.DELETE("/complaints/:id", h.DeleteComplaint)
		authed.POST("/complaints/:id/upvote", h.UpvoteComplaint)
		authed.PATCH("/complaints/:id/status", h.UpdateStatus)
		authed.POST("/complaints/:id/assign", h.AssignComplaint)
		authed.POST("/complaints/:id/flag", h.FlagComplaint)

		authed.GET("/complaints/:id/comments", h.ListComments)
		authed.POST("/complaints/:id/comments", h.CreateComment)
		authed.PATCH("/complaints/:id/comments/:commentId", h.EditComment)

		authed.GET("/analytics/overview", h.AnalyticsOverview)

		authed.GET("/ws", h.ServeFeed)
	}
}

// lang resolves the response language from the Accept-Language header.
func (h *Handler) lang(c *gin.Context) string {
	return h.Localizer.ResolveLanguage(c.GetHeader("Accept-Language"))
}

// respondError maps the error taxonomy to HTTP statuses. Everything here is
// recoverable; only unknown errors become a 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	lang := h.lang(c)

	status := http.StatusInternalServerError
	key := "error.generic"
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		status, key = http.StatusBadRequest, "error.validation"
	case errors.Is(err, apperrors.ErrForbidden):
		status, key = http.StatusForbidden, "error.unauthorized"
	case errors.Is(err, apperrors.ErrNotFound):
		status, key = http.StatusNotFound, "error.not_found"
	case errors.Is(err, apperrors.ErrAlreadyUpvoted):
		status, key = http.StatusConflict, "error.already_upvoted"
	case errors.Is(err, apperrors.ErrInvalidTransition):
		status, key = http.StatusConflict, "error.invalid_transition"
	case errors.Is(err, apperrors.ErrConflict):
		status, key = http.StatusConflict, "error.conflict"
	}

	c.JSON(status, gin.H{
		"success":      false,
		"error":        h.Localizer.GetString(lang, key),
		"errorDetails": err.Error(),
		"statusCode":   status,
	})
}

// respondOK wraps data in the ApiResponse envelope with a localized message.
func (h *Handler) respondOK(c *gin.Context, status int, messageKey string, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"message": h.Localizer.GetString(h.lang(c), messageKey),
		"data":    data,
	})
}

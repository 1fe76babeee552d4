package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"samadhan/backend/internal/apperrors"
	"samadhan/backend/internal/models"
)

// AnalyticsOverview serves the dashboard rollup, optionally restricted to a
// created-date range.
func (h *Handler) AnalyticsOverview(c *gin.Context) {
	var dateRange *models.DateRange
	if from, to := c.Query("from"), c.Query("to"); from != "" || to != "" {
		dateRange = &models.DateRange{}
		if from != "" {
			t, err := time.Parse(time.RFC3339, from)
			if err != nil {
				h.respondError(c, apperrors.Wrap(apperrors.ErrValidation, "invalid from date"))
				return
			}
			dateRange.From = t
		}
		if to != "" {
			t, err := time.Parse(time.RFC3339, to)
			if err != nil {
				h.respondError(c, apperrors.Wrap(apperrors.ErrValidation, "invalid to date"))
				return
			}
			dateRange.To = t
		}
	}

	data, err := h.Complaints.Analytics(dateRange, h.actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"samadhan/backend/internal/apperrors"
	"samadhan/backend/internal/complaint"
	"samadhan/backend/internal/models"
)

type createComplaintRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Category    models.Category `json:"category"`
	Severity    models.Severity `json:"severity"`
	Location    models.Location `json:"location"`
	ImageURL    string          `json:"imageUrl"`
	ImageURLs   []string        `json:"imageUrls"`
	Tags        []string        `json:"tags"`
}

// CreateComplaint files a new complaint for the authenticated user.
func (h *Handler) CreateComplaint(c *gin.Context) {
	var req createComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Wrap(apperrors.ErrValidation, "invalid body: %v", err))
		return
	}

	created, err := h.Complaints.Create(c.Request.Context(), complaint.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Severity:    req.Severity,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		ImageURLs:   req.ImageURLs,
		Tags:        req.Tags,
	}, h.actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, http.StatusCreated, "complaint.created", created)
}

// ListComplaints serves the filtered, sorted, paginated listing.
func (h *Handler) ListComplaints(c *gin.Context) {
	filters, sortOpts, page, limit, err := parseListRequest(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.Complaints.List(filters, sortOpts, page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetComplaint serves one complaint by id.
func (h *Handler) GetComplaint(c *gin.Context) {
	found, err := h.Complaints.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// DeleteComplaint removes a complaint and its owned records.
func (h *Handler) DeleteComplaint(c *gin.Context) {
	if err := h.Complaints.Delete(c.Param("id"), h.actor(c)); err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, http.StatusOK, "complaint.deleted", nil)
}

// UpvoteComplaint records one upvote from the authenticated user.
func (h *Handler) UpvoteComplaint(c *gin.Context) {
	updated, err := h.Complaints.Upvote(c.Param("id"), h.actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, http.StatusOK, "complaint.upvoted", updated)
}

type updateStatusRequest struct {
	Status                models.Status `json:"status" binding:"required"`
	OfficialNotes         string        `json:"officialNotes"`
	ResolutionDescription string        `json:"resolutionDescription"`
}

// UpdateStatus moves a complaint through the lifecycle.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Wrap(apperrors.ErrValidation, "invalid body: %v", err))
		return
	}

	updated, err := h.Complaints.UpdateStatus(c.Param("id"), complaint.StatusUpdate{
		NewStatus:             req.Status,
		OfficialNotes:         req.OfficialNotes,
		ResolutionDescription: req.ResolutionDescription,
	}, h.actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, http.StatusOK, "complaint.updated", updated)
}

type assignRequest struct {
	Department models.Department `json:"department" binding:"required"`
	OfficerID  string            `json:"officerId"`
}

// AssignComplaint routes a complaint to a department and officer.
func (h *Handler) AssignComplaint(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Wrap(apperrors.ErrValidation, "invalid body: %v", err))
		return
	}

	updated, err := h.Complaints.Assign(c.Param("id"), req.Department, req.OfficerID, h.actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, http.StatusOK, "complaint.updated", updated)
}

type flagRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// FlagComplaint marks a complaint for moderator review.
func (h *Handler) FlagComplaint(c *gin.Context) {
	var req flagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Wrap(apperrors.ErrValidation, "invalid body: %v", err))
		return
	}

	updated, err := h.Complaints.Flag(c.Param("id"), req.Reason, h.actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondOK(c, http.StatusOK, "complaint.updated", updated)
}

// NearbyComplaints lists complaints around a point, nearest first.
func (h *Handler) NearbyComplaints(c *gin.Context) {
	lat, err1 := strconv.ParseFloat(c.Query("latitude"), 64)
	lon, err2 := strconv.ParseFloat(c.Query("longitude"), 64)
	if err1 != nil || err2 != nil {
		h.respondError(c, apperrors.Wrap(apperrors.ErrValidation, "latitude and longitude are required"))
		return
	}
	radius := 0.0
	if raw := c.Query("radiusKm"); raw != "" {
		radius, err1 = strconv.ParseFloat(raw, 64)
		if err1 != nil {
			h.respondError(c, apperrors.Wrap(apperrors.ErrValidation, "invalid radiusKm"))
			return
		}
	}
	page, limit := parsePageParams(c)

	result, err := h.Complaints.Nearby(lat, lon, radius, page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// TrendingComplaints lists the highest-ranked complaints by decayed upvotes.
func (h *Handler) TrendingComplaints(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}
	items, err := h.Complaints.Trending(limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func parsePageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	return page, limit
}

// parseListRequest decodes the listing query string. Multi-value filters
// arrive comma-separated; dates as RFC 3339.
func parseListRequest(c *gin.Context) (models.ComplaintFilters, models.SortOptions, int, int, error) {
	var filters models.ComplaintFilters

	for _, v := range splitParam(c.Query("status")) {
		filters.Status = append(filters.Status, models.Status(v))
	}
	for _, v := range splitParam(c.Query("category")) {
		filters.Category = append(filters.Category, models.Category(v))
	}
	for _, v := range splitParam(c.Query("priority")) {
		filters.Priority = append(filters.Priority, models.Priority(v))
	}
	for _, v := range splitParam(c.Query("severity")) {
		filters.Severity = append(filters.Severity, models.Severity(v))
	}
	for _, v := range splitParam(c.Query("department")) {
		filters.Department = append(filters.Department, models.Department(v))
	}
	filters.UserID = c.Query("userId")
	filters.SearchQuery = c.Query("search")

	if from, to := c.Query("from"), c.Query("to"); from != "" || to != "" {
		dr := &models.DateRange{}
		if from != "" {
			t, err := time.Parse(time.RFC3339, from)
			if err != nil {
				return filters, models.SortOptions{}, 0, 0, apperrors.Wrap(apperrors.ErrValidation, "invalid from date")
			}
			dr.From = t
		}
		if to != "" {
			t, err := time.Parse(time.RFC3339, to)
			if err != nil {
				return filters, models.SortOptions{}, 0, 0, apperrors.Wrap(apperrors.ErrValidation, "invalid to date")
			}
			dr.To = t
		}
		filters.DateRange = dr
	}

	if lat, lon := c.Query("latitude"), c.Query("longitude"); lat != "" && lon != "" {
		latF, err1 := strconv.ParseFloat(lat, 64)
		lonF, err2 := strconv.ParseFloat(lon, 64)
		radius, err3 := strconv.ParseFloat(c.DefaultQuery("radiusKm", "5"), 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return filters, models.SortOptions{}, 0, 0, apperrors.Wrap(apperrors.ErrValidation, "invalid location filter")
		}
		filters.Location = &models.GeoFilter{Latitude: latF, Longitude: lonF, RadiusKm: radius}
	}

	sortOpts := models.SortOptions{
		Field: models.SortField(c.DefaultQuery("sortBy", string(models.SortByCreatedDate))),
		Order: models.SortOrder(c.DefaultQuery("order", string(models.OrderDesc))),
	}
	page, limit := parsePageParams(c)
	return filters, sortOpts, page, limit, nil
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

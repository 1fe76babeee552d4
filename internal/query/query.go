// Package query is the in-memory filter, sort and pagination engine for
// complaint listings. It validates the request before any matching happens,
// then evaluates predicates with OR semantics inside a field and AND across
// fields. Individual malformed records are skipped instead of failing the
// whole listing.
package query

import (
	"math"
	"sort"
	"strings"
	"time"

	"samadhan/backend/internal/apperrors"
	"samadhan/backend/internal/config"
	"samadhan/backend/internal/models"
	"samadhan/backend/internal/scoring"
)

// EarthRadiusKm is the spherical-earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0088

// candidate pairs a complaint with the distance computed while filtering, so
// a nearest-first sort reuses it instead of computing it twice.
type candidate struct {
	complaint models.Complaint
	distance  float64
}

// Validate rejects malformed filters and sort options before any store
// access: unknown enum values, a negative radius, an unknown sort field or
// order, a reversed date range.
func Validate(filters models.ComplaintFilters, sortOpts models.SortOptions) error {
	for _, s := range filters.Status {
		if _, ok := config.GetStatusConfig(s); !ok {
			return apperrors.Wrap(apperrors.ErrValidation, "unknown status %q", s)
		}
	}
	for _, c := range filters.Category {
		if _, ok := config.GetCategoryConfig(c); !ok {
			return apperrors.Wrap(apperrors.ErrValidation, "unknown category %q", c)
		}
	}
	for _, p := range filters.Priority {
		if _, ok := config.GetPriorityConfig(p); !ok {
			return apperrors.Wrap(apperrors.ErrValidation, "unknown priority %q", p)
		}
	}
	for _, s := range filters.Severity {
		if _, ok := config.GetSeverityConfig(s); !ok {
			return apperrors.Wrap(apperrors.ErrValidation, "unknown severity %q", s)
		}
	}
	for _, d := range filters.Department {
		if _, ok := config.GetDepartmentConfig(d); !ok {
			return apperrors.Wrap(apperrors.ErrValidation, "unknown department %q", d)
		}
	}
	if filters.Location != nil && filters.Location.RadiusKm < 0 {
		return apperrors.Wrap(apperrors.ErrValidation, "negative radius %f", filters.Location.RadiusKm)
	}
	if filters.DateRange != nil && !filters.DateRange.From.IsZero() && !filters.DateRange.To.IsZero() &&
		filters.DateRange.To.Before(filters.DateRange.From) {
		return apperrors.Wrap(apperrors.ErrValidation, "date range ends before it starts")
	}

	switch sortOpts.Field {
	case "", models.SortByCreatedDate, models.SortByUpdatedDate,
		models.SortByPriority, models.SortBySeverity, models.SortByUpvotes:
	case models.SortByDistance:
		if filters.Location == nil {
			return apperrors.Wrap(apperrors.ErrValidation, "distance sort requires a location filter")
		}
	default:
		return apperrors.Wrap(apperrors.ErrValidation, "unknown sort field %q", sortOpts.Field)
	}
	switch sortOpts.Order {
	case "", models.OrderAsc, models.OrderDesc:
	default:
		return apperrors.Wrap(apperrors.ErrValidation, "unknown sort order %q", sortOpts.Order)
	}
	return nil
}

// Apply runs a validated request over a snapshot of complaints and returns
// one page. Page numbers beyond the last page yield an empty item list with
// hasNext=false, not an error.
func Apply(complaints []models.Complaint, filters models.ComplaintFilters, sortOpts models.SortOptions, page, limit int) (models.PaginatedResponse[models.Complaint], error) {
	var empty models.PaginatedResponse[models.Complaint]
	if err := Validate(filters, sortOpts); err != nil {
		return empty, err
	}
	if page < 0 || limit < 0 {
		return empty, apperrors.Wrap(apperrors.ErrValidation, "negative page or limit")
	}

	matched := filterCandidates(complaints, filters)
	sortCandidates(matched, sortOpts)

	page, limit = clampPage(page, limit)
	total := len(matched)
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	start := (page - 1) * limit
	items := []models.Complaint{}
	if start < total {
		end := start + limit
		if end > total {
			end = total
		}
		items = make([]models.Complaint, 0, end-start)
		for _, cand := range matched[start:end] {
			items = append(items, cand.complaint)
		}
	}

	return models.PaginatedResponse[models.Complaint]{
		Items: items,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1 && total > 0,
		},
	}, nil
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit == 0 {
		limit = config.DefaultPageSize
	}
	if limit > config.MaxPageSize {
		limit = config.MaxPageSize
	}
	if limit < 1 {
		limit = 1
	}
	return page, limit
}

func filterCandidates(complaints []models.Complaint, f models.ComplaintFilters) []candidate {
	matched := make([]candidate, 0, len(complaints))
	for _, c := range complaints {
		cand := candidate{complaint: c, distance: math.NaN()}
		if f.Location != nil {
			if !hasLocation(c) {
				continue // record without coordinates cannot satisfy a geo filter
			}
			d := Haversine(f.Location.Latitude, f.Location.Longitude, c.Location.Latitude, c.Location.Longitude)
			if d > f.Location.RadiusKm {
				continue
			}
			cand.distance = d
		}
		if !matches(c, f) {
			continue
		}
		matched = append(matched, cand)
	}
	return matched
}

func matches(c models.Complaint, f models.ComplaintFilters) bool {
	if len(f.Status) > 0 && !containsStatus(f.Status, c.Status) {
		return false
	}
	if len(f.Category) > 0 && !containsCategory(f.Category, c.Category) {
		return false
	}
	if len(f.Priority) > 0 && !containsPriority(f.Priority, c.Priority) {
		return false
	}
	if len(f.Severity) > 0 && !containsSeverity(f.Severity, c.Severity) {
		return false
	}
	if len(f.Department) > 0 && !containsDepartment(f.Department, c.AssignedDepartment) {
		return false
	}
	if f.UserID != "" && c.UserID != f.UserID {
		return false
	}
	if f.SearchQuery != "" {
		q := strings.ToLower(f.SearchQuery)
		if !strings.Contains(strings.ToLower(c.Title), q) &&
			!strings.Contains(strings.ToLower(c.Description), q) {
			return false
		}
	}
	if f.DateRange != nil {
		if !f.DateRange.From.IsZero() && c.CreatedDate.Before(f.DateRange.From) {
			return false
		}
		if !f.DateRange.To.IsZero() && c.CreatedDate.After(f.DateRange.To) {
			return false
		}
	}
	return true
}

func hasLocation(c models.Complaint) bool {
	return c.Location.Latitude != 0 || c.Location.Longitude != 0 || c.Location.Address != ""
}

func containsStatus(set []models.Status, v models.Status) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsCategory(set []models.Category, v models.Category) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsPriority(set []models.Priority, v models.Priority) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsSeverity(set []models.Severity, v models.Severity) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsDepartment(set []models.Department, v models.Department) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// sortCandidates orders by the requested key, breaking ties by createdDate
// ascending (then id) so repeated requests paginate identically.
func sortCandidates(cands []candidate, opts models.SortOptions) {
	field := opts.Field
	if field == "" {
		field = models.SortByCreatedDate
	}
	desc := opts.Order == models.OrderDesc

	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		cmp := compareBy(field, a, b)
		if cmp == 0 {
			if !a.complaint.CreatedDate.Equal(b.complaint.CreatedDate) {
				return a.complaint.CreatedDate.Before(b.complaint.CreatedDate)
			}
			return a.complaint.ID < b.complaint.ID
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareBy(field models.SortField, a, b candidate) int {
	switch field {
	case models.SortByCreatedDate:
		return compareTime(a.complaint.CreatedDate, b.complaint.CreatedDate)
	case models.SortByUpdatedDate:
		return compareTime(a.complaint.UpdatedDate, b.complaint.UpdatedDate)
	case models.SortByPriority:
		return scoring.PriorityWeight(a.complaint.Priority) - scoring.PriorityWeight(b.complaint.Priority)
	case models.SortBySeverity:
		return scoring.SeverityWeight(a.complaint.Severity) - scoring.SeverityWeight(b.complaint.Severity)
	case models.SortByUpvotes:
		return a.complaint.Upvotes - b.complaint.Upvotes
	case models.SortByDistance:
		switch {
		case a.distance < b.distance:
			return -1
		case a.distance > b.distance:
			return 1
		}
	}
	return 0
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

// Haversine returns the great-circle distance in kilometers between two
// points on a spherical earth.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180
	phi1 := lat1 * degToRad
	phi2 := lat2 * degToRad
	dPhi := (lat2 - lat1) * degToRad
	dLambda := (lon2 - lon1) * degToRad

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}

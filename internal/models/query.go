package models

import "time"

// DateRange bounds createdDate inclusively on both ends. A zero bound means
// that side is open.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// GeoFilter selects complaints within RadiusKm of a point (inclusive).
type GeoFilter struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusKm  float64 `json:"radiusKm"`
}

// ComplaintFilters narrows a complaint listing. Multi-value fields match with
// OR semantics inside the field; all populated fields must match (AND across
// fields). SearchQuery is a case-insensitive substring match over title and
// description.
type ComplaintFilters struct {
	Status     []Status     `json:"status,omitempty"`
	Category   []Category   `json:"category,omitempty"`
	Priority   []Priority   `json:"priority,omitempty"`
	Severity   []Severity   `json:"severity,omitempty"`
	Department []Department `json:"department,omitempty"`

	UserID      string     `json:"userId,omitempty"`
	SearchQuery string     `json:"searchQuery,omitempty"`
	DateRange   *DateRange `json:"dateRange,omitempty"`
	Location    *GeoFilter `json:"location,omitempty"`
}

// SortField enumerates the sortable complaint fields.
type SortField string

const (
	SortByCreatedDate SortField = "createdDate"
	SortByUpdatedDate SortField = "updatedDate"
	SortByPriority    SortField = "priority"
	SortBySeverity    SortField = "severity"
	SortByUpvotes     SortField = "upvotes"
	// SortByDistance is only valid together with a GeoFilter; the distance
	// computed for the radius predicate doubles as the sort key.
	SortByDistance SortField = "distance"
)

// SortOrder is asc or desc.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// SortOptions selects the sort key and direction for a listing. Ties are
// always broken by createdDate ascending so pagination stays reproducible.
type SortOptions struct {
	Field SortField `json:"field"`
	Order SortOrder `json:"order"`
}

// Pagination is the page metadata returned with every listing.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// PaginatedResponse combines one page of items with its pagination metadata.
type PaginatedResponse[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// AnalyticsData holds the dashboard rollups.
type AnalyticsData struct {
	TotalComplaints      int `json:"totalComplaints"`
	PendingComplaints    int `json:"pendingComplaints"`
	InProgressComplaints int `json:"inProgressComplaints"`
	ResolvedComplaints   int `json:"resolvedComplaints"`

	// AverageResolutionTime is in days, over resolved complaints only.
	// Defined as 0 when nothing is resolved.
	AverageResolutionTime float64 `json:"averageResolutionTime"`

	ComplaintsByCategory   map[Category]int   `json:"complaintsByCategory"`
	ComplaintsByStatus     map[Status]int     `json:"complaintsByStatus"`
	ComplaintsByDepartment map[Department]int `json:"complaintsByDepartment"`

	DateRange *DateRange `json:"dateRange,omitempty"`
}

// ComplaintEvent is the payload broadcast on the live feed when a complaint
// is created or mutated.
type ComplaintEvent struct {
	Type        string    `json:"type"` // created, status-changed, upvoted, assigned, flagged
	ComplaintID string    `json:"complaintId"`
	Category    Category  `json:"category,omitempty"`
	Status      Status    `json:"status,omitempty"`
	Upvotes     int       `json:"upvotes,omitempty"`
	ActorID     string    `json:"actorId,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Status is the lifecycle state of a complaint.
type Status string

const (
	StatusPending     Status = "pending"
	StatusInProgress  Status = "in-progress"
	StatusUnderReview Status = "under-review"
	StatusResolved    Status = "resolved"
	StatusRejected    Status = "rejected"
	StatusClosed      Status = "closed"
)

// Category classifies the civic issue being reported.
type Category string

const (
	CategoryRoadDamage          Category = "road-damage"
	CategoryStreetLight         Category = "street-light"
	CategoryGarbageCollection   Category = "garbage-collection"
	CategoryWaterSupply         Category = "water-supply"
	CategorySewage              Category = "sewage"
	CategoryIllegalConstruction Category = "illegal-construction"
	CategoryNoisePollution      Category = "noise-pollution"
	CategoryAirPollution        Category = "air-pollution"
	CategoryPublicSafety        Category = "public-safety"
	CategoryVandalism           Category = "vandalism"
	CategoryOther               Category = "other"
)

// Priority determines how urgently an issue needs attention.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Severity indicates the impact level of the reported issue.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityMajor    Severity = "major"
	SeveritySevere   Severity = "severe"
)

// Department identifies a government department that can be assigned to
// handle complaints.
type Department string

const (
	DeptPublicWorks          Department = "public-works"
	DeptSanitation           Department = "sanitation"
	DeptWaterBoard           Department = "water-board"
	DeptElectricity          Department = "electricity"
	DeptTrafficPolice        Department = "traffic-police"
	DeptMunicipalCorporation Department = "municipal-corporation"
	DeptEnvironment          Department = "environment"
	DeptHealth               Department = "health"
	DeptHousing              Department = "housing"
	DeptParksRecreation      Department = "parks-recreation"
)

// Location is a value type embedded in Complaint. It has no identity of its
// own; the coordinates are what the nearby queries run against.
type Location struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Address    string  `json:"address"`
	City       string  `json:"city,omitempty"`
	State      string  `json:"state,omitempty"`
	Country    string  `json:"country,omitempty"`
	PostalCode string  `json:"postalCode,omitempty"`
	Landmark   string  `json:"landmark,omitempty"`
}

// Complaint is the aggregate root of the portal: one reported civic issue and
// its full mutable state. Comments and the upvoter set are owned by it and go
// away with it. UpvotedBy is a set keyed by user id; the service layer keeps
// Upvotes equal to its cardinality.
type Complaint struct {
	ID          string   `gorm:"primaryKey" json:"id"`
	UserID      string   `gorm:"index" json:"userId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `gorm:"index" json:"category"`

	ImageURL  string         `json:"imageUrl,omitempty"`
	ImageURLs pq.StringArray `gorm:"type:text[]" json:"imageUrls,omitempty"`
	Tags      pq.StringArray `gorm:"type:text[]" json:"tags,omitempty"`

	Location Location `gorm:"embedded;embeddedPrefix:loc_" json:"location"`

	Status   Status   `gorm:"index" json:"status"`
	Priority Priority `json:"priority"`
	Severity Severity `json:"severity"`

	AssignedDepartment Department `gorm:"index" json:"assignedDepartment,omitempty"`
	AssignedOfficerID  string     `json:"assignedOfficerId,omitempty"`

	AIDetectedCategory Category `json:"aiDetectedCategory,omitempty"`
	AIConfidence       float64  `json:"aiConfidence,omitempty"`

	Upvotes   int            `json:"upvotes"`
	UpvotedBy pq.StringArray `gorm:"type:text[]" json:"upvotedBy,omitempty"`

	OfficialNotes         string `json:"officialNotes,omitempty"`
	ResolutionDescription string `json:"resolutionDescription,omitempty"`
	IsFlagged             bool   `json:"isFlagged"`
	FlagReason            string `json:"flagReason,omitempty"`

	CreatedDate  time.Time  `gorm:"index" json:"createdDate"`
	UpdatedDate  time.Time  `json:"updatedDate"`
	ResolvedDate *time.Time `json:"resolvedDate,omitempty"`

	Comments []Comment `gorm:"foreignKey:ComplaintID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate generates a UUID for the complaint if the ID is not set yet.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// HasUpvoteFrom reports whether the given user already upvoted this complaint.
func (c *Complaint) HasUpvoteFrom(userID string) bool {
	for _, id := range c.UpvotedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusClosed
}

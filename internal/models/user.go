package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Role defines the access level of a user.
type Role string

const (
	RoleCitizen   Role = "citizen"
	RoleVolunteer Role = "volunteer"
	RoleOfficer   Role = "officer"
	RoleAdmin     Role = "admin"
)

// Permission is a capability tag granted to a role.
type Permission string

const (
	PermCreateComplaint Permission = "create-complaint"
	PermViewComplaints  Permission = "view-complaints"
	PermEditComplaint   Permission = "edit-complaint"
	PermDeleteComplaint Permission = "delete-complaint"
	PermAssignComplaint Permission = "assign-complaint"
	PermResolveComplaint Permission = "resolve-complaint"
	PermManageUsers     Permission = "manage-users"
	PermViewAnalytics   Permission = "view-analytics"
	PermExportData      Permission = "export-data"
	PermModerateContent Permission = "moderate-content"
)

// User is an independent root referenced by id from complaints and comments.
// Permissions are derived from Role via the fixed mapping in the config
// package and are never edited on their own. ComplaintsCount and
// ResolvedCount are recomputed by the analytics aggregator.
type User struct {
	ID    string `gorm:"primaryKey" json:"id"`
	Name  string `json:"name"`
	Email string `gorm:"uniqueIndex" json:"email"`
	Role  Role   `json:"role"`

	Department  Department     `json:"department,omitempty"`
	Permissions pq.StringArray `gorm:"type:text[]" json:"permissions"`

	PhoneNumber       string `json:"phoneNumber,omitempty"`
	Address           string `json:"address,omitempty"`
	PreferredLanguage string `json:"preferredLanguage,omitempty"`

	IsActive        bool `json:"isActive"`
	IsEmailVerified bool `json:"isEmailVerified"`

	ComplaintsCount int `json:"complaintsCount"`
	ResolvedCount   int `json:"resolvedCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate generates a UUID for the user if the ID is not set yet.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// HasPermission is a membership test over the user's derived permission set.
func (u *User) HasPermission(p Permission) bool {
	for _, tag := range u.Permissions {
		if Permission(tag) == p {
			return true
		}
	}
	return false
}

// IsOfficial reports whether the user speaks for the administration.
// Comments authored by officials carry the isOfficial flag.
func (u *User) IsOfficial() bool {
	return u.Role == RoleOfficer || u.Role == RoleAdmin
}

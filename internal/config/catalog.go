// Package config holds the application constants and the immutable enum
// catalogs: category, status, priority, severity and department descriptors,
// and the role to permission mapping. The catalogs are built once at process
// start and only read after that. Lookups are total over the enums: an
// unknown value reports not-found instead of panicking.
package config

import "samadhan/backend/internal/models"

// CategoryConfig describes one complaint category for display and routing.
type CategoryConfig struct {
	Value models.Category
	Label string
	Color string
	Icon  string
	// Department that normally handles this category; used for auto-routing
	// on creation.
	Department models.Department
}

// StatusConfig describes one lifecycle status.
type StatusConfig struct {
	Value       models.Status
	Label       string
	Color       string
	BgColor     string
	Description string
}

// PriorityConfig describes one priority level. Weight (1-4) is the sort key;
// priority itself is operator-assigned, never recomputed.
type PriorityConfig struct {
	Value   models.Priority
	Label   string
	Color   string
	BgColor string
	Weight  int
}

// SeverityConfig describes one severity level. Weight orders severities for
// sorting the same way priority weights do.
type SeverityConfig struct {
	Value   models.Severity
	Label   string
	Color   string
	BgColor string
	Weight  int
}

// DepartmentConfig describes one government department.
type DepartmentConfig struct {
	Value        models.Department
	Label        string
	Description  string
	Color        string
	ContactEmail string
}

var Categories = map[models.Category]CategoryConfig{
	models.CategoryRoadDamage:          {models.CategoryRoadDamage, "Road Damage", "#f59e0b", "🛣️", models.DeptPublicWorks},
	models.CategoryStreetLight:         {models.CategoryStreetLight, "Street Light", "#fbbf24", "💡", models.DeptElectricity},
	models.CategoryGarbageCollection:   {models.CategoryGarbageCollection, "Garbage Collection", "#84cc16", "🗑️", models.DeptSanitation},
	models.CategoryWaterSupply:         {models.CategoryWaterSupply, "Water Supply", "#0ea5e9", "💧", models.DeptWaterBoard},
	models.CategorySewage:              {models.CategorySewage, "Sewage", "#64748b", "🚰", models.DeptWaterBoard},
	models.CategoryIllegalConstruction: {models.CategoryIllegalConstruction, "Illegal Construction", "#ef4444", "🏗️", models.DeptHousing},
	models.CategoryNoisePollution:      {models.CategoryNoisePollution, "Noise Pollution", "#8b5cf6", "🔊", models.DeptEnvironment},
	models.CategoryAirPollution:        {models.CategoryAirPollution, "Air Pollution", "#6b7280", "🏭", models.DeptEnvironment},
	models.CategoryPublicSafety:        {models.CategoryPublicSafety, "Public Safety", "#dc2626", "⚠️", models.DeptTrafficPolice},
	models.CategoryVandalism:           {models.CategoryVandalism, "Vandalism", "#7c3aed", "🎨", models.DeptMunicipalCorporation},
	models.CategoryOther:               {models.CategoryOther, "Other", "#6b7280", "📋", models.DeptMunicipalCorporation},
}

var Statuses = map[models.Status]StatusConfig{
	models.StatusPending:     {models.StatusPending, "Pending", "#f59e0b", "#fef3c7", "Complaint submitted, awaiting review"},
	models.StatusInProgress:  {models.StatusInProgress, "In Progress", "#3b82f6", "#dbeafe", "Work is currently underway"},
	models.StatusUnderReview: {models.StatusUnderReview, "Under Review", "#8b5cf6", "#ede9fe", "Complaint is being reviewed by officials"},
	models.StatusResolved:    {models.StatusResolved, "Resolved", "#10b981", "#d1fae5", "Issue has been successfully resolved"},
	models.StatusRejected:    {models.StatusRejected, "Rejected", "#ef4444", "#fee2e2", "Complaint was rejected"},
	models.StatusClosed:      {models.StatusClosed, "Closed", "#6b7280", "#f3f4f6", "Complaint has been closed"},
}

var Priorities = map[models.Priority]PriorityConfig{
	models.PriorityLow:      {models.PriorityLow, "Low", "#10b981", "#d1fae5", 1},
	models.PriorityMedium:   {models.PriorityMedium, "Medium", "#f59e0b", "#fef3c7", 2},
	models.PriorityHigh:     {models.PriorityHigh, "High", "#f97316", "#ffedd5", 3},
	models.PriorityCritical: {models.PriorityCritical, "Critical", "#dc2626", "#fee2e2", 4},
}

var Severities = map[models.Severity]SeverityConfig{
	models.SeverityMinor:    {models.SeverityMinor, "Minor", "#10b981", "#d1fae5", 1},
	models.SeverityModerate: {models.SeverityModerate, "Moderate", "#f59e0b", "#fef3c7", 2},
	models.SeverityMajor:    {models.SeverityMajor, "Major", "#f97316", "#ffedd5", 3},
	models.SeveritySevere:   {models.SeveritySevere, "Severe", "#dc2626", "#fee2e2", 4},
}

var Departments = map[models.Department]DepartmentConfig{
	models.DeptPublicWorks:          {models.DeptPublicWorks, "Public Works", "Roads, infrastructure, and public facilities", "#f59e0b", "publicworks@civic.gov"},
	models.DeptSanitation:           {models.DeptSanitation, "Sanitation", "Garbage collection and waste management", "#84cc16", "sanitation@civic.gov"},
	models.DeptWaterBoard:           {models.DeptWaterBoard, "Water Board", "Water supply and distribution", "#0ea5e9", "water@civic.gov"},
	models.DeptElectricity:          {models.DeptElectricity, "Electricity", "Power supply and street lighting", "#fbbf24", "electricity@civic.gov"},
	models.DeptTrafficPolice:        {models.DeptTrafficPolice, "Traffic Police", "Traffic management and road safety", "#ef4444", "traffic@civic.gov"},
	models.DeptMunicipalCorporation: {models.DeptMunicipalCorporation, "Municipal Corporation", "General municipal services", "#3b82f6", "municipal@civic.gov"},
	models.DeptEnvironment:          {models.DeptEnvironment, "Environment", "Pollution control and environmental issues", "#10b981", "environment@civic.gov"},
	models.DeptHealth:               {models.DeptHealth, "Health", "Public health and sanitation", "#ec4899", "health@civic.gov"},
	models.DeptHousing:              {models.DeptHousing, "Housing", "Building regulations and housing", "#8b5cf6", "housing@civic.gov"},
	models.DeptParksRecreation:      {models.DeptParksRecreation, "Parks & Recreation", "Parks, gardens, and recreational facilities", "#22c55e", "parks@civic.gov"},
}

// RolePermissions is the fixed total mapping from role to its capability
// set. Admin is the superset; no role is granted anything outside its
// declared list.
var RolePermissions = map[models.Role][]models.Permission{
	models.RoleCitizen: {
		models.PermCreateComplaint,
		models.PermViewComplaints,
		models.PermEditComplaint,
	},
	models.RoleVolunteer: {
		models.PermCreateComplaint,
		models.PermViewComplaints,
		models.PermModerateContent,
	},
	models.RoleOfficer: {
		models.PermViewComplaints,
		models.PermEditComplaint,
		models.PermAssignComplaint,
		models.PermResolveComplaint,
		models.PermViewAnalytics,
	},
	models.RoleAdmin: {
		models.PermCreateComplaint,
		models.PermViewComplaints,
		models.PermEditComplaint,
		models.PermDeleteComplaint,
		models.PermAssignComplaint,
		models.PermResolveComplaint,
		models.PermManageUsers,
		models.PermViewAnalytics,
		models.PermExportData,
		models.PermModerateContent,
	},
}

// GetCategoryConfig returns the descriptor for a category.
func GetCategoryConfig(c models.Category) (CategoryConfig, bool) {
	cfg, ok := Categories[c]
	return cfg, ok
}

// GetStatusConfig returns the descriptor for a status.
func GetStatusConfig(s models.Status) (StatusConfig, bool) {
	cfg, ok := Statuses[s]
	return cfg, ok
}

// GetPriorityConfig returns the descriptor for a priority level.
func GetPriorityConfig(p models.Priority) (PriorityConfig, bool) {
	cfg, ok := Priorities[p]
	return cfg, ok
}

// GetSeverityConfig returns the descriptor for a severity level.
func GetSeverityConfig(s models.Severity) (SeverityConfig, bool) {
	cfg, ok := Severities[s]
	return cfg, ok
}

// GetDepartmentConfig returns the descriptor for a department.
func GetDepartmentConfig(d models.Department) (DepartmentConfig, bool) {
	cfg, ok := Departments[d]
	return cfg, ok
}

// PermissionsForRole returns the derived permission set for a role as the
// string slice stored on the user record. Unknown roles get no permissions.
func PermissionsForRole(r models.Role) []string {
	perms := RolePermissions[r]
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

// DepartmentForCategory returns the department that normally handles a
// category, used for auto-routing new complaints.
func DepartmentForCategory(c models.Category) (models.Department, bool) {
	cfg, ok := Categories[c]
	if !ok {
		return "", false
	}
	return cfg.Department, true
}

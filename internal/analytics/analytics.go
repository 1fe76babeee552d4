// Package analytics computes the dashboard rollups over a snapshot of
// complaints. Aggregation is read-only and tolerant of partially-updated
// records: a complaint marked resolved whose resolvedDate has not landed yet
// is left out of the resolution-time mean instead of counting as a
// zero-duration resolution.
package analytics

import "samadhan/backend/internal/models"

const hoursPerDay = 24

// Aggregate produces AnalyticsData for the given complaints, optionally
// restricted to those created inside dateRange (inclusive bounds).
func Aggregate(complaints []models.Complaint, dateRange *models.DateRange) models.AnalyticsData {
	data := models.AnalyticsData{
		ComplaintsByCategory:   make(map[models.Category]int),
		ComplaintsByStatus:     make(map[models.Status]int),
		ComplaintsByDepartment: make(map[models.Department]int),
		DateRange:              dateRange,
	}

	var resolutionSum float64
	var resolutionCount int

	for _, c := range complaints {
		if dateRange != nil {
			if !dateRange.From.IsZero() && c.CreatedDate.Before(dateRange.From) {
				continue
			}
			if !dateRange.To.IsZero() && c.CreatedDate.After(dateRange.To) {
				continue
			}
		}

		data.TotalComplaints++
		data.ComplaintsByStatus[c.Status]++
		data.ComplaintsByCategory[c.Category]++
		if c.AssignedDepartment != "" {
			// Complaints without a department stay in the total but out of
			// the department partition.
			data.ComplaintsByDepartment[c.AssignedDepartment]++
		}

		switch c.Status {
		case models.StatusPending:
			data.PendingComplaints++
		case models.StatusInProgress:
			data.InProgressComplaints++
		case models.StatusResolved:
			data.ResolvedComplaints++
		}

		if c.ResolvedDate != nil && !c.ResolvedDate.Before(c.CreatedDate) {
			resolutionSum += c.ResolvedDate.Sub(c.CreatedDate).Hours() / hoursPerDay
			resolutionCount++
		}
	}

	if resolutionCount > 0 {
		data.AverageResolutionTime = resolutionSum / float64(resolutionCount)
	}
	return data
}

// UserCounters holds the derived per-user counters the aggregator recomputes.
type UserCounters struct {
	ComplaintsCount int
	ResolvedCount   int
}

// CountPerUser recomputes complaintsCount (complaints filed by the user) and
// resolvedCount (complaints resolved by the officer assigned to them) from a
// snapshot. These counters are never hand-edited.
func CountPerUser(complaints []models.Complaint) map[string]UserCounters {
	counters := make(map[string]UserCounters)
	for _, c := range complaints {
		uc := counters[c.UserID]
		uc.ComplaintsCount++
		counters[c.UserID] = uc

		if c.Status == models.StatusResolved && c.AssignedOfficerID != "" {
			oc := counters[c.AssignedOfficerID]
			oc.ResolvedCount++
			counters[c.AssignedOfficerID] = oc
		}
	}
	return counters
}

// ResolutionDays returns the resolution duration of a single complaint in
// days, and false when the complaint was never resolved.
func ResolutionDays(c models.Complaint) (float64, bool) {
	if c.ResolvedDate == nil || c.ResolvedDate.Before(c.CreatedDate) {
		return 0, false
	}
	return c.ResolvedDate.Sub(c.CreatedDate).Hours() / hoursPerDay, true
}

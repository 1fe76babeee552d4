package query_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"samadhan/backend/internal/apperrors"
	"samadhan/backend/internal/models"
	"samadhan/backend/internal/query"
)

var baseDate = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func sampleComplaints() []models.Complaint {
	return []models.Complaint{
		{
			ID:          "c1",
			UserID:      "u1",
			Title:       "Huge pothole on MG Road",
			Description: "Dangerous for two-wheelers",
			Category:    models.CategoryRoadDamage,
			Status:      models.StatusPending,
			Priority:    models.PriorityCritical,
			Severity:    models.SeverityMajor,
			Upvotes:     12,
			Location:    models.Location{Latitude: 18.52, Longitude: 73.85, Address: "MG Road"},
			CreatedDate: baseDate,
		},
		{
			ID:                 "c2",
			UserID:             "u2",
			Title:              "Street light flickering",
			Description:        "Dark stretch near the park",
			Category:           models.CategoryStreetLight,
			Status:             models.StatusInProgress,
			Priority:           models.PriorityMedium,
			Severity:           models.SeverityMinor,
			AssignedDepartment: models.DeptElectricity,
			Upvotes:            3,
			Location:           models.Location{Latitude: 18.53, Longitude: 73.86, Address: "Park Lane"},
			CreatedDate:        baseDate.AddDate(0, 0, 1),
		},
		{
			ID:          "c3",
			UserID:      "u1",
			Title:       "Garbage not collected",
			Description: "Pile growing for a week",
			Category:    models.CategoryGarbageCollection,
			Status:      models.StatusResolved,
			Priority:    models.PriorityLow,
			Severity:    models.SeverityModerate,
			Upvotes:     7,
			CreatedDate: baseDate.AddDate(0, 0, 2),
		},
	}
}

func TestFilterSemantics(t *testing.T) {
	complaints := sampleComplaints()

	t.Run("or within a field", func(t *testing.T) {
		resp, err := query.Apply(complaints, models.ComplaintFilters{
			Status: []models.Status{models.StatusPending, models.StatusResolved},
		}, models.SortOptions{}, 1, 10)
		assert.NoError(t, err)
		assert.Len(t, resp.Items, 2)
	})

	t.Run("and across fields", func(t *testing.T) {
		resp, err := query.Apply(complaints, models.ComplaintFilters{
			Status: []models.Status{models.StatusPending, models.StatusResolved},
			UserID: "u1",
			Priority: []models.Priority{
				models.PriorityCritical,
			},
		}, models.SortOptions{}, 1, 10)
		assert.NoError(t, err)
		if assert.Len(t, resp.Items, 1) {
			assert.Equal(t, "c1", resp.Items[0].ID)
		}
	})

	t.Run("search is case-insensitive over title and description", func(t *testing.T) {
		resp, err := query.Apply(complaints, models.ComplaintFilters{SearchQuery: "POTHOLE"}, models.SortOptions{}, 1, 10)
		assert.NoError(t, err)
		if assert.Len(t, resp.Items, 1) {
			assert.Equal(t, "c1", resp.Items[0].ID)
		}

		resp, err = query.Apply(complaints, models.ComplaintFilters{SearchQuery: "dark stretch"}, models.SortOptions{}, 1, 10)
		assert.NoError(t, err)
		if assert.Len(t, resp.Items, 1) {
			assert.Equal(t, "c2", resp.Items[0].ID)
		}
	})

	t.Run("date range bounds are inclusive", func(t *testing.T) {
		resp, err := query.Apply(complaints, models.ComplaintFilters{
			DateRange: &models.DateRange{From: baseDate, To: baseDate.AddDate(0, 0, 1)},
		}, models.SortOptions{}, 1, 10)
		assert.NoError(t, err)
		assert.Len(t, resp.Items, 2, "complaints created exactly on a bound must match")
	})

	t.Run("department filter matches assignment", func(t *testing.T) {
		resp, err := query.Apply(complaints, models.ComplaintFilters{
			Department: []models.Department{models.DeptElectricity},
		}, models.SortOptions{}, 1, 10)
		assert.NoError(t, err)
		if assert.Len(t, resp.Items, 1) {
			assert.Equal(t, "c2", resp.Items[0].ID)
		}
	})
}

func TestGeoFilter(t *testing.T) {
	complaints := sampleComplaints()
	center := models.GeoFilter{Latitude: 18.52, Longitude: 73.85}
	distanceToC2 := query.Haversine(center.Latitude, center.Longitude, 18.53, 73.86)

	t.Run("radius boundary is inclusive", func(t *testing.T) {
		center.RadiusKm = distanceToC2
		resp, err := query.Apply(complaints, models.ComplaintFilters{Location: &center}, models.SortOptions{}, 1, 10)
		assert.NoError(t, err)
		assert.Len(t, resp.Items, 2, "a complaint at exactly radiusKm is within range")
	})

	t.Run("just inside the boundary excludes the outer point", func(t *testing.T) {
		center.RadiusKm = distanceToC2 * 0.999
		resp, err := query.Apply(complaints, models.ComplaintFilters{Location: &center}, models.SortOptions{}, 1, 10)
		assert.NoError(t, err)
		if assert.Len(t, resp.Items, 1) {
			assert.Equal(t, "c1", resp.Items[0].ID)
		}
	})

	t.Run("records without coordinates are skipped", func(t *testing.T) {
		center.RadiusKm = 10000
		resp, err := query.Apply(complaints, models.ComplaintFilters{Location: &center}, models.SortOptions{}, 1, 10)
		assert.NoError(t, err)
		for _, item := range resp.Items {
			assert.NotEqual(t, "c3", item.ID, "c3 has no location and cannot satisfy a geo filter")
		}
	})

	t.Run("distance sort is nearest first", func(t *testing.T) {
		center.RadiusKm = 10000
		resp, err := query.Apply(complaints, models.ComplaintFilters{Location: &center},
			models.SortOptions{Field: models.SortByDistance, Order: models.OrderAsc}, 1, 10)
		assert.NoError(t, err)
		if assert.Len(t, resp.Items, 2) {
			assert.Equal(t, "c1", resp.Items[0].ID)
			assert.Equal(t, "c2", resp.Items[1].ID)
		}
	})
}

func TestHaversine(t *testing.T) {
	// Pune to Mumbai is roughly 120 km great-circle.
	d := query.Haversine(18.5204, 73.8567, 19.0760, 72.8777)
	assert.InDelta(t, 120.0, d, 5.0)

	assert.Zero(t, query.Haversine(18.52, 73.85, 18.52, 73.85))
}

func TestSorting(t *testing.T) {
	complaints := sampleComplaints()

	t.Run("priority descending uses weights not lexicographic order", func(t *testing.T) {
		resp, err := query.Apply(complaints, models.ComplaintFilters{},
			models.SortOptions{Field: models.SortByPriority, Order: models.OrderDesc}, 1, 10)
		assert.NoError(t, err)
		got := []models.Priority{resp.Items[0].Priority, resp.Items[1].Priority, resp.Items[2].Priority}
		assert.Equal(t, []models.Priority{models.PriorityCritical, models.PriorityMedium, models.PriorityLow}, got)
	})

	t.Run("upvotes descending", func(t *testing.T) {
		resp, err := query.Apply(complaints, models.ComplaintFilters{},
			models.SortOptions{Field: models.SortByUpvotes, Order: models.OrderDesc}, 1, 10)
		assert.NoError(t, err)
		assert.Equal(t, "c1", resp.Items[0].ID)
		assert.Equal(t, "c3", resp.Items[1].ID)
		assert.Equal(t, "c2", resp.Items[2].ID)
	})

	t.Run("default sort is createdDate", func(t *testing.T) {
		resp, err := query.Apply(complaints, models.ComplaintFilters{}, models.SortOptions{Order: models.OrderAsc}, 1, 10)
		assert.NoError(t, err)
		assert.Equal(t, "c1", resp.Items[0].ID)
		assert.Equal(t, "c3", resp.Items[2].ID)
	})

	t.Run("ties break by createdDate then id", func(t *testing.T) {
		tied := []models.Complaint{
			{ID: "b", Priority: models.PriorityHigh, CreatedDate: baseDate},
			{ID: "a", Priority: models.PriorityHigh, CreatedDate: baseDate},
			{ID: "z", Priority: models.PriorityHigh, CreatedDate: baseDate.Add(-time.Hour)},
		}
		resp, err := query.Apply(tied, models.ComplaintFilters{},
			models.SortOptions{Field: models.SortByPriority, Order: models.OrderDesc}, 1, 10)
		assert.NoError(t, err)
		assert.Equal(t, "z", resp.Items[0].ID, "older creation wins the tie")
		assert.Equal(t, "a", resp.Items[1].ID, "equal timestamps fall back to id")
		assert.Equal(t, "b", resp.Items[2].ID)
	})
}

func TestPagination(t *testing.T) {
	complaints := make([]models.Complaint, 0, 25)
	for i := 0; i < 25; i++ {
		complaints = append(complaints, models.Complaint{
			ID:          fmt.Sprintf("c%02d", i),
			Status:      models.StatusPending,
			CreatedDate: baseDate.Add(time.Duration(i) * time.Hour),
		})
	}

	t.Run("page metadata", func(t *testing.T) {
		resp, err := query.Apply(complaints, models.ComplaintFilters{},
			models.SortOptions{Order: models.OrderAsc}, 2, 10)
		assert.NoError(t, err)
		assert.Len(t, resp.Items, 10)
		assert.Equal(t, "c10", resp.Items[0].ID)
		assert.Equal(t, 25, resp.Pagination.Total)
		assert.Equal(t, 3, resp.Pagination.TotalPages)
		assert.True(t, resp.Pagination.HasNext)
		assert.True(t, resp.Pagination.HasPrev)
	})

	t.Run("last partial page", func(t *testing.T) {
		resp, err := query.Apply(complaints, models.ComplaintFilters{},
			models.SortOptions{Order: models.OrderAsc}, 3, 10)
		assert.NoError(t, err)
		assert.Len(t, resp.Items, 5)
		assert.False(t, resp.Pagination.HasNext)
	})

	t.Run("page beyond the end is empty not an error", func(t *testing.T) {
		resp, err := query.Apply(complaints, models.ComplaintFilters{}, models.SortOptions{}, 9, 10)
		assert.NoError(t, err)
		assert.Empty(t, resp.Items)
		assert.False(t, resp.Pagination.HasNext)
		assert.Equal(t, 25, resp.Pagination.Total)
	})

	t.Run("limit is clamped to the maximum", func(t *testing.T) {
		resp, err := query.Apply(complaints, models.ComplaintFilters{}, models.SortOptions{}, 1, 5000)
		assert.NoError(t, err)
		assert.Equal(t, 100, resp.Pagination.Limit)
	})

	t.Run("zero limit falls back to the default", func(t *testing.T) {
		resp, err := query.Apply(complaints, models.ComplaintFilters{}, models.SortOptions{}, 1, 0)
		assert.NoError(t, err)
		assert.Equal(t, 10, resp.Pagination.Limit)
		assert.Len(t, resp.Items, 10)
	})

	t.Run("zero page falls back to the first", func(t *testing.T) {
		resp, err := query.Apply(complaints, models.ComplaintFilters{}, models.SortOptions{}, 0, 10)
		assert.NoError(t, err)
		assert.Equal(t, 1, resp.Pagination.Page)
		assert.False(t, resp.Pagination.HasPrev)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		filters models.ComplaintFilters
		sort    models.SortOptions
	}{
		{"unknown status", models.ComplaintFilters{Status: []models.Status{"vanished"}}, models.SortOptions{}},
		{"unknown category", models.ComplaintFilters{Category: []models.Category{"teleportation"}}, models.SortOptions{}},
		{"unknown priority", models.ComplaintFilters{Priority: []models.Priority{"ultra"}}, models.SortOptions{}},
		{"unknown severity", models.ComplaintFilters{Severity: []models.Severity{"apocalyptic"}}, models.SortOptions{}},
		{"unknown department", models.ComplaintFilters{Department: []models.Department{"ministry-of-magic"}}, models.SortOptions{}},
		{"negative radius", models.ComplaintFilters{Location: &models.GeoFilter{RadiusKm: -1}}, models.SortOptions{}},
		{"reversed date range", models.ComplaintFilters{DateRange: &models.DateRange{From: baseDate, To: baseDate.Add(-time.Hour)}}, models.SortOptions{}},
		{"unknown sort field", models.ComplaintFilters{}, models.SortOptions{Field: "color"}},
		{"unknown sort order", models.ComplaintFilters{}, models.SortOptions{Order: "sideways"}},
		{"distance sort without location", models.ComplaintFilters{}, models.SortOptions{Field: models.SortByDistance}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := query.Validate(tt.filters, tt.sort)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}

	assert.NoError(t, query.Validate(models.ComplaintFilters{
		Status:   []models.Status{models.StatusPending},
		Location: &models.GeoFilter{Latitude: 18.5, Longitude: 73.8, RadiusKm: 5},
	}, models.SortOptions{Field: models.SortByDistance, Order: models.OrderAsc}))
}

package lifecycle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"samadhan/backend/internal/apperrors"
	"samadhan/backend/internal/config"
	"samadhan/backend/internal/lifecycle"
	"samadhan/backend/internal/models"
)

func officer() *models.User {
	return &models.User{
		ID:          "officer-1",
		Role:        models.RoleOfficer,
		Permissions: config.PermissionsForRole(models.RoleOfficer),
		IsActive:    true,
	}
}

func citizen() *models.User {
	return &models.User{
		ID:          "citizen-1",
		Role:        models.RoleCitizen,
		Permissions: config.PermissionsForRole(models.RoleCitizen),
		IsActive:    true,
	}
}

func TestValidateTable(t *testing.T) {
	// The production table must pass its own startup check.
	assert.NoError(t, lifecycle.ValidateTable(lifecycle.Transitions))

	missing := map[models.Status][]models.Status{
		models.StatusPending: {models.StatusClosed},
	}
	assert.Error(t, lifecycle.ValidateTable(missing), "table missing statuses must fail")

	danglingEdge := map[models.Status][]models.Status{
		models.StatusPending:     {"lost-in-space"},
		models.StatusInProgress:  {models.StatusResolved},
		models.StatusUnderReview: {models.StatusResolved},
		models.StatusResolved:    {models.StatusClosed},
		models.StatusRejected:    {},
		models.StatusClosed:      {},
	}
	assert.Error(t, lifecycle.ValidateTable(danglingEdge), "edge to unknown status must fail")

	deadEnd := map[models.Status][]models.Status{
		models.StatusPending:     {},
		models.StatusInProgress:  {models.StatusResolved},
		models.StatusUnderReview: {models.StatusResolved},
		models.StatusResolved:    {models.StatusClosed},
		models.StatusRejected:    {},
		models.StatusClosed:      {},
	}
	assert.Error(t, lifecycle.ValidateTable(deadEnd), "non-terminal status without edges must fail")
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    models.Status
		to      models.Status
		allowed bool
	}{
		{"pending to in-progress", models.StatusPending, models.StatusInProgress, true},
		{"pending to under-review", models.StatusPending, models.StatusUnderReview, true},
		{"pending to rejected", models.StatusPending, models.StatusRejected, true},
		{"pending to resolved skips work", models.StatusPending, models.StatusResolved, false},
		{"in-progress to resolved", models.StatusInProgress, models.StatusResolved, true},
		{"in-progress back to pending", models.StatusInProgress, models.StatusPending, false},
		{"under-review back to in-progress", models.StatusUnderReview, models.StatusInProgress, true},
		{"resolved to closed", models.StatusResolved, models.StatusClosed, true},
		{"resolved cannot reopen", models.StatusResolved, models.StatusPending, false},
		{"resolved cannot go back to in-progress", models.StatusResolved, models.StatusInProgress, false},
		{"rejected is terminal", models.StatusRejected, models.StatusPending, false},
		{"closed is terminal", models.StatusClosed, models.StatusInProgress, false},
		{"self transition not listed", models.StatusPending, models.StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, lifecycle.CanTransition(tt.from, tt.to))
		})
	}
}

func TestTransitionStampsTimestamps(t *testing.T) {
	// Arrange
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	c := &models.Complaint{ID: "c1", Status: models.StatusInProgress}

	// Act
	err := lifecycle.Transition(c, models.StatusResolved, officer(), now)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, models.StatusResolved, c.Status)
	assert.Equal(t, now, c.UpdatedDate)
	if assert.NotNil(t, c.ResolvedDate) {
		assert.Equal(t, now, *c.ResolvedDate)
	}
}

func TestTransitionResolvedDateIsWriteOnce(t *testing.T) {
	// Arrange: a complaint resolved last week, now being closed.
	firstResolve := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	c := &models.Complaint{ID: "c1", Status: models.StatusResolved, ResolvedDate: &firstResolve}

	// Act
	err := lifecycle.Transition(c, models.StatusClosed, officer(), firstResolve.AddDate(0, 0, 7))

	// Assert: closing must not touch the resolution stamp.
	assert.NoError(t, err)
	assert.Equal(t, firstResolve, *c.ResolvedDate)
}

func TestTransitionIllegalEdge(t *testing.T) {
	c := &models.Complaint{ID: "c1", Status: models.StatusResolved}

	err := lifecycle.Transition(c, models.StatusPending, officer(), time.Now())

	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Equal(t, models.StatusResolved, c.Status, "failed transition must not mutate")
}

func TestTransitionUnknownStatus(t *testing.T) {
	c := &models.Complaint{ID: "c1", Status: models.StatusPending}

	err := lifecycle.Transition(c, "escalated-to-mars", officer(), time.Now())

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTransitionPermissions(t *testing.T) {
	tests := []struct {
		name    string
		actor   *models.User
		from    models.Status
		to      models.Status
		wantErr error
	}{
		{"citizen cannot resolve", citizen(), models.StatusInProgress, models.StatusResolved, apperrors.ErrForbidden},
		{"citizen cannot reject", citizen(), models.StatusPending, models.StatusRejected, apperrors.ErrForbidden},
		{"citizen with edit may move to in-progress", citizen(), models.StatusPending, models.StatusInProgress, nil},
		{"officer may resolve", officer(), models.StatusInProgress, models.StatusResolved, nil},
		{"nil actor rejected", nil, models.StatusPending, models.StatusInProgress, apperrors.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &models.Complaint{ID: "c1", Status: tt.from}
			err := lifecycle.Transition(c, tt.to, tt.actor, time.Now())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransitionInactiveActor(t *testing.T) {
	actor := officer()
	actor.IsActive = false
	c := &models.Complaint{ID: "c1", Status: models.StatusPending}

	err := lifecycle.Transition(c, models.StatusInProgress, actor, time.Now())

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAssign(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	c := &models.Complaint{ID: "c1", Status: models.StatusPending}

	err := lifecycle.Assign(c, models.DeptWaterBoard, "officer-7", officer(), now)

	assert.NoError(t, err)
	assert.Equal(t, models.DeptWaterBoard, c.AssignedDepartment)
	assert.Equal(t, "officer-7", c.AssignedOfficerID)
	assert.Equal(t, now, c.UpdatedDate)
	assert.Equal(t, models.StatusPending, c.Status, "assignment does not change status")
}

func TestAssignRejections(t *testing.T) {
	t.Run("citizen lacks assign-complaint", func(t *testing.T) {
		c := &models.Complaint{ID: "c1", Status: models.StatusPending}
		err := lifecycle.Assign(c, models.DeptWaterBoard, "", citizen(), time.Now())
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("terminal complaint cannot be assigned", func(t *testing.T) {
		c := &models.Complaint{ID: "c1", Status: models.StatusClosed}
		err := lifecycle.Assign(c, models.DeptWaterBoard, "", officer(), time.Now())
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})

	t.Run("unknown department", func(t *testing.T) {
		c := &models.Complaint{ID: "c1", Status: models.StatusPending}
		err := lifecycle.Assign(c, "ministry-of-magic", "", officer(), time.Now())
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

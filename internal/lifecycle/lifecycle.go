// Package lifecycle implements the complaint state machine: which status can
// follow which, who may move a complaint, and the timestamps each move
// stamps. The transition table is the single source of truth; it is checked
// for completeness at startup.
package lifecycle

import (
	"time"

	"samadhan/backend/internal/apperrors"
	"samadhan/backend/internal/config"
	"samadhan/backend/internal/models"
)

// Transitions maps each status to its allowed successors. Rejected and
// closed are terminal. Pending is the sole initial state.
var Transitions = map[models.Status][]models.Status{
	models.StatusPending:     {models.StatusInProgress, models.StatusUnderReview, models.StatusRejected, models.StatusClosed},
	models.StatusInProgress:  {models.StatusUnderReview, models.StatusResolved, models.StatusClosed},
	models.StatusUnderReview: {models.StatusInProgress, models.StatusResolved, models.StatusRejected, models.StatusClosed},
	models.StatusResolved:    {models.StatusClosed},
	models.StatusRejected:    {},
	models.StatusClosed:      {},
}

func init() {
	if err := ValidateTable(Transitions); err != nil {
		panic(err)
	}
}

// ValidateTable checks the transition table at startup: every status appears
// as a key, every referenced successor exists, and every non-terminal status
// has at least one outgoing edge.
func ValidateTable(table map[models.Status][]models.Status) error {
	for status := range table {
		if _, ok := knownStatus(status); !ok {
			return apperrors.Wrap(apperrors.ErrValidation, "transition table references unknown status %q", status)
		}
	}
	all := []models.Status{
		models.StatusPending, models.StatusInProgress, models.StatusUnderReview,
		models.StatusResolved, models.StatusRejected, models.StatusClosed,
	}
	for _, status := range all {
		successors, ok := table[status]
		if !ok {
			return apperrors.Wrap(apperrors.ErrValidation, "transition table missing status %q", status)
		}
		if !status.IsTerminal() && len(successors) == 0 {
			return apperrors.Wrap(apperrors.ErrValidation, "non-terminal status %q has no outgoing edges", status)
		}
		for _, next := range successors {
			if _, ok := knownStatus(next); !ok {
				return apperrors.Wrap(apperrors.ErrValidation, "edge %q -> %q targets unknown status", status, next)
			}
		}
	}
	return nil
}

func knownStatus(s models.Status) (models.Status, bool) {
	switch s {
	case models.StatusPending, models.StatusInProgress, models.StatusUnderReview,
		models.StatusResolved, models.StatusRejected, models.StatusClosed:
		return s, true
	}
	return s, false
}

// CanTransition reports whether newStatus is an allowed successor of current.
func CanTransition(current, newStatus models.Status) bool {
	for _, next := range Transitions[current] {
		if next == newStatus {
			return true
		}
	}
	return false
}

// requiredPermission returns the permission gating a transition into the
// given status. Resolving, rejecting and closing need resolve-complaint;
// every other move needs edit-complaint or assign-complaint.
func requiredPermission(actor *models.User, newStatus models.Status) bool {
	switch newStatus {
	case models.StatusResolved, models.StatusRejected, models.StatusClosed:
		return actor.HasPermission(models.PermResolveComplaint)
	default:
		return actor.HasPermission(models.PermEditComplaint) || actor.HasPermission(models.PermAssignComplaint)
	}
}

// Transition moves a complaint to newStatus on behalf of actor. On success it
// sets the status, stamps updatedDate, and on the move into resolved stamps
// resolvedDate. resolvedDate is write-once: re-entering resolved is not an
// edge in the table, so the stamp can never be overwritten or cleared.
func Transition(c *models.Complaint, newStatus models.Status, actor *models.User, now time.Time) error {
	if _, ok := knownStatus(newStatus); !ok {
		return apperrors.Wrap(apperrors.ErrValidation, "unknown status %q", newStatus)
	}
	if !CanTransition(c.Status, newStatus) {
		return apperrors.Wrap(apperrors.ErrInvalidTransition, "%s -> %s", c.Status, newStatus)
	}
	if actor == nil || !actor.IsActive {
		return apperrors.Wrap(apperrors.ErrForbidden, "acting user is not active")
	}
	if !requiredPermission(actor, newStatus) {
		return apperrors.Wrap(apperrors.ErrForbidden, "user %s may not set status %s", actor.ID, newStatus)
	}

	c.Status = newStatus
	c.UpdatedDate = now
	if newStatus == models.StatusResolved && c.ResolvedDate == nil {
		resolved := now
		c.ResolvedDate = &resolved
	}
	return nil
}

// Assign routes a complaint to a department and optionally an officer. It
// needs assign-complaint, works in any non-terminal state, and does not touch
// the status; callers usually follow up with a transition to in-progress.
func Assign(c *models.Complaint, dept models.Department, officerID string, actor *models.User, now time.Time) error {
	if actor == nil || !actor.IsActive {
		return apperrors.Wrap(apperrors.ErrForbidden, "acting user is not active")
	}
	if !actor.HasPermission(models.PermAssignComplaint) {
		return apperrors.Wrap(apperrors.ErrForbidden, "user %s may not assign complaints", actor.ID)
	}
	if c.Status.IsTerminal() {
		return apperrors.Wrap(apperrors.ErrInvalidTransition, "cannot assign a %s complaint", c.Status)
	}
	if _, ok := config.GetDepartmentConfig(dept); !ok {
		return apperrors.Wrap(apperrors.ErrNotFound, "unknown department %q", dept)
	}

	c.AssignedDepartment = dept
	c.AssignedOfficerID = officerID
	c.UpdatedDate = now
	return nil
}

package aggregates

import (
	"strings"

	"github.com/google/uuid"

	"github.com/a-korvus/business-management-system/internal/domain/team"
	"github.com/a-korvus/business-management-system/internal/pkg/dbctx"
)

// CASGuard provides compare-and-set helpers for aggregate writes.
type CASGuard struct{}

// UpdateByStatus updates a row only when id+status guard matches. It must run
// inside the unit's transaction.
func (CASGuard) UpdateByStatus(dbc dbctx.Context, table string, id uuid.UUID, allowedStatuses []string, updates map[string]any) (bool, error) {
	db, err := dbc.DB(nil)
	if err != nil {
		return false, err
	}
	table = strings.TrimSpace(table)
	if table == "" || id == uuid.Nil {
		return false, ValidationError("table and id are required for UpdateByStatus")
	}
	if len(allowedStatuses) == 0 {
		return false, ValidationError("allowedStatuses must not be empty")
	}
	res := db.Table(table).
		Where("id = ? AND status IN ?", id, allowedStatuses).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RequireCASSuccess converts a failed compare-and-set into a typed conflict error.
func RequireCASSuccess(ok bool, message string) error {
	if ok {
		return nil
	}
	return ConflictError(strings.TrimSpace(message))
}

// RequireStatusAllowed validates current status against allowed values.
func RequireStatusAllowed(current string, allowed ...string) error {
	current = strings.TrimSpace(current)
	if len(allowed) == 0 {
		return ValidationError("allowed statuses cannot be empty")
	}
	for _, s := range allowed {
		if strings.EqualFold(current, strings.TrimSpace(s)) {
			return nil
		}
	}
	return ConflictError("status transition not allowed")
}

// RequireMeetingTransition enforces PLANNED -> COMPLETED|CANCELLED. Unknown
// targets are validation errors; leaving a terminal status is a conflict.
func RequireMeetingTransition(from, to team.MeetingStatus) error {
	if !to.Valid() {
		return ValidationError("unknown meeting status " + string(to))
	}
	if from == to {
		return nil
	}
	if err := RequireStatusAllowed(string(from), string(team.MeetingPlanned)); err != nil {
		return ConflictError("meeting status " + string(from) + " is terminal")
	}
	if !from.CanTransitionTo(to) {
		return ConflictError("meeting cannot move from " + string(from) + " to " + string(to))
	}
	return nil
}

package services

import (
	"github.com/google/uuid"

	"github.com/a-korvus/business-management-system/internal/data/aggregates"
	domainagg "github.com/a-korvus/business-management-system/internal/domain/aggregates"
	"github.com/a-korvus/business-management-system/internal/domain/org"
)

func requireUser(uow *aggregates.UnitOfWork, op string, id uuid.UUID) (*org.User, error) {
	u, err := uow.Partners().GetByID(uow.DBC(), id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domainagg.NotFound(op, "user", id)
	}
	return u, nil
}

func requireActiveUser(uow *aggregates.UnitOfWork, op string, id uuid.UUID) (*org.User, error) {
	u, err := requireUser(uow, op, id)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, domainagg.NotFound(op, "user", id)
	}
	return u, nil
}

func requireCommand(uow *aggregates.UnitOfWork, op string, id uuid.UUID) (*org.Command, error) {
	c, err := uow.Commands().GetByID(uow.DBC(), id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domainagg.NotFound(op, "command", id)
	}
	return c, nil
}

// resolveAll loads every id or reports the first one that does not exist.
func resolveAll(uow *aggregates.UnitOfWork, op string, ids []uuid.UUID) ([]*org.User, error) {
	ids = org.DedupeIDs(ids)
	users, err := uow.Partners().ResolveUsers(uow.DBC(), ids)
	if err != nil {
		return nil, err
	}
	if len(users) == len(ids) {
		return users, nil
	}
	found := make(map[uuid.UUID]struct{}, len(users))
	for _, u := range users {
		found[u.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, domainagg.NotFound(op, "user", id)
		}
	}
	return users, nil
}

// newIDs returns the de-duplicated ids of candidates not already in current.
func newIDs(candidates, current []uuid.UUID) []uuid.UUID {
	have := make(map[uuid.UUID]struct{}, len(current))
	for _, id := range current {
		have[id] = struct{}{}
	}
	out := make([]uuid.UUID, 0, len(candidates))
	for _, id := range org.DedupeIDs(candidates) {
		if _, ok := have[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

package team

import (
	"context"
)

// TeamService defines business logic for team management.
type TeamService interface {
	// Create registers a team; the leader, when given, must hold the
	// TEAMLEADER role.
	Create(ctx context.Context, req CreateRequest) (Response, error)

	// Get fetches one team with leader and member count.
	Get(ctx context.Context, id string) (Response, error)

	// Update renames a team or changes its leader.
	Update(ctx context.Context, id string, req UpdateRequest) (Response, error)

	// Delete removes a team, detaching its members first.
	Delete(ctx context.Context, id string) error

	// List returns all company teams.
	List(ctx context.Context) ([]Response, error)
}

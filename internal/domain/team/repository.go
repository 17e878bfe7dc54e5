package team

import (
	"context"
)

// TeamRepository defines data access methods for teams.
type TeamRepository interface {
	Create(ctx context.Context, t Team) (Team, error)
	GetByID(ctx context.Context, id string, companyID string) (Team, error)
	Update(ctx context.Context, t Team) error
	Delete(ctx context.Context, id string, companyID string) error
	List(ctx context.Context, companyID string) ([]Team, error)
}

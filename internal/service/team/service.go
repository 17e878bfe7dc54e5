package team

import (
	"context"
	"fmt"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/employee"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/team"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/database"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/jwt"
	"github.com/staffops-hq/staffops-backend-go/internal/repository/postgresql"
)

type TeamServiceImpl struct {
	db           *database.DB
	teamRepo     team.TeamRepository
	employeeRepo employee.EmployeeRepository
}

func NewTeamService(
	db *database.DB,
	teamRepo team.TeamRepository,
	employeeRepo employee.EmployeeRepository,
) team.TeamService {
	return &TeamServiceImpl{
		db:           db,
		teamRepo:     teamRepo,
		employeeRepo: employeeRepo,
	}
}

// checkLeader verifies the designated leader holds the TEAMLEADER role.
func (s *TeamServiceImpl) checkLeader(ctx context.Context, leaderID, companyID string) error {
	leader, err := s.employeeRepo.GetByID(ctx, leaderID, companyID)
	if err != nil {
		return err
	}
	if leader.Role != employee.RoleTeamLeader {
		return team.ErrLeaderNotTeamLeader
	}
	return nil
}

// Create implements team.TeamService.
func (s *TeamServiceImpl) Create(ctx context.Context, req team.CreateRequest) (team.Response, error) {
	if err := req.Validate(); err != nil {
		return team.Response{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return team.Response{}, err
	}

	if req.LeaderID != nil {
		if err := s.checkLeader(ctx, *req.LeaderID, claims.CompanyID); err != nil {
			return team.Response{}, err
		}
	}

	t, err := s.teamRepo.Create(ctx, team.Team{
		CompanyID: claims.CompanyID,
		Name:      req.Name,
		LeaderID:  req.LeaderID,
	})
	if err != nil {
		return team.Response{}, err
	}

	return team.ToResponse(t), nil
}

// Get implements team.TeamService.
func (s *TeamServiceImpl) Get(ctx context.Context, id string) (team.Response, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return team.Response{}, err
	}

	t, err := s.teamRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return team.Response{}, err
	}
	return team.ToResponse(t), nil
}

// Update implements team.TeamService.
func (s *TeamServiceImpl) Update(ctx context.Context, id string, req team.UpdateRequest) (team.Response, error) {
	if err := req.Validate(); err != nil {
		return team.Response{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return team.Response{}, err
	}

	t, err := s.teamRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return team.Response{}, err
	}

	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.LeaderID != nil {
		if err := s.checkLeader(ctx, *req.LeaderID, claims.CompanyID); err != nil {
			return team.Response{}, err
		}
		t.LeaderID = req.LeaderID
	}

	if err := s.teamRepo.Update(ctx, t); err != nil {
		return team.Response{}, err
	}

	return team.ToResponse(t), nil
}

// Delete implements team.TeamService. Member detachment and the delete run
// in one transaction.
func (s *TeamServiceImpl) Delete(ctx context.Context, id string) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	return postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.teamRepo.Delete(txCtx, id, claims.CompanyID)
	})
}

// List implements team.TeamService.
func (s *TeamServiceImpl) List(ctx context.Context) ([]team.Response, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.List(ctx, claims.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	resp := make([]team.Response, 0, len(teams))
	for _, t := range teams {
		resp = append(resp, team.ToResponse(t))
	}
	return resp, nil
}

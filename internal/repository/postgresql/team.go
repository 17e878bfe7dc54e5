package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/team"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/database"
)

type teamRepository struct {
	db *database.DB
}

func NewTeamRepository(db *database.DB) team.TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) Create(ctx context.Context, t team.Team) (team.Team, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO teams (company_id, name, leader_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, t.CompanyID, t.Name, t.LeaderID).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "teams_company_name_key") {
			return team.Team{}, team.ErrTeamNameExists
		}
		return team.Team{}, fmt.Errorf("failed to create team: %w", err)
	}

	return t, nil
}

func (r *teamRepository) GetByID(ctx context.Context, id string, companyID string) (team.Team, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT t.id, t.company_id, t.name, t.leader_id, t.created_at, t.updated_at,
			   l.name,
			   (SELECT COUNT(*) FROM employees m WHERE m.team_id = t.id AND m.active)
		FROM teams t
		LEFT JOIN employees l ON l.id = t.leader_id
		WHERE t.id = $1 AND t.company_id = $2
	`

	var t team.Team
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&t.ID, &t.CompanyID, &t.Name, &t.LeaderID, &t.CreatedAt, &t.UpdatedAt,
		&t.LeaderName, &t.MemberCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return team.Team{}, team.ErrTeamNotFound
		}
		return team.Team{}, fmt.Errorf("failed to get team: %w", err)
	}

	return t, nil
}

func (r *teamRepository) Update(ctx context.Context, t team.Team) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE teams
		SET name = $1, leader_id = $2, updated_at = NOW()
		WHERE id = $3 AND company_id = $4
	`

	tag, err := q.Exec(ctx, query, t.Name, t.LeaderID, t.ID, t.CompanyID)
	if err != nil {
		if strings.Contains(err.Error(), "teams_company_name_key") {
			return team.ErrTeamNameExists
		}
		return fmt.Errorf("failed to update team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return team.ErrTeamNotFound
	}

	return nil
}

// Delete detaches members first so employees.team_id never dangles.
func (r *teamRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx,
		`UPDATE employees SET team_id = NULL WHERE team_id = $1 AND company_id = $2`,
		id, companyID,
	); err != nil {
		return fmt.Errorf("failed to detach team members: %w", err)
	}

	tag, err := q.Exec(ctx, `DELETE FROM teams WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return team.ErrTeamNotFound
	}

	return nil
}

func (r *teamRepository) List(ctx context.Context, companyID string) ([]team.Team, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT t.id, t.company_id, t.name, t.leader_id, t.created_at, t.updated_at,
			   l.name,
			   (SELECT COUNT(*) FROM employees m WHERE m.team_id = t.id AND m.active)
		FROM teams t
		LEFT JOIN employees l ON l.id = t.leader_id
		WHERE t.company_id = $1
		ORDER BY t.name
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []team.Team
	for rows.Next() {
		var t team.Team
		if err := rows.Scan(
			&t.ID, &t.CompanyID, &t.Name, &t.LeaderID, &t.CreatedAt, &t.UpdatedAt,
			&t.LeaderName, &t.MemberCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate teams: %w", err)
	}

	return teams, nil
}

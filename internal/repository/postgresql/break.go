package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/attendance"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/database"
)

type breakRepository struct {
	db *database.DB
}

func NewBreakRepository(db *database.DB) attendance.BreakRepository {
	return &breakRepository{db: db}
}

// CreateActive implements attendance.BreakRepository. A partial unique index
// on (employee_id) WHERE active backs the one-active-break invariant, so two
// concurrent starts cannot both insert.
func (b *breakRepository) CreateActive(ctx context.Context, brk attendance.Break) (attendance.Break, error) {
	q := GetQuerier(ctx, b.db)

	query := `
		INSERT INTO breaks (employee_id, company_id, attendance_id, started_at, active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		brk.EmployeeID, brk.CompanyID, brk.AttendanceID, brk.StartedAt,
	).Scan(&brk.ID, &brk.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "breaks_one_active_key") {
			return attendance.Break{}, attendance.ErrBreakAlreadyActive
		}
		return attendance.Break{}, fmt.Errorf("failed to start break: %w", err)
	}

	brk.Active = true
	return brk, nil
}

// GetActive implements attendance.BreakRepository. Returns nil when no break
// is active.
func (b *breakRepository) GetActive(ctx context.Context, employeeID string, companyID string) (*attendance.Break, error) {
	q := GetQuerier(ctx, b.db)

	query := `
		SELECT id, employee_id, company_id, attendance_id, started_at, ended_at,
			   duration_minutes, active, created_at
		FROM breaks
		WHERE employee_id = $1 AND company_id = $2 AND active = TRUE
		LIMIT 1
	`

	var brk attendance.Break
	err := q.QueryRow(ctx, query, employeeID, companyID).Scan(
		&brk.ID, &brk.EmployeeID, &brk.CompanyID, &brk.AttendanceID, &brk.StartedAt, &brk.EndedAt,
		&brk.DurationMinutes, &brk.Active, &brk.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active break: %w", err)
	}

	return &brk, nil
}

// End implements attendance.BreakRepository. The active = TRUE predicate
// makes a double end a no-op the service reports as ErrNoActiveBreak.
func (b *breakRepository) End(ctx context.Context, brk attendance.Break) (attendance.Break, error) {
	q := GetQuerier(ctx, b.db)

	query := `
		UPDATE breaks
		SET ended_at = $1, duration_minutes = $2, active = FALSE
		WHERE id = $3 AND company_id = $4 AND active = TRUE
	`

	tag, err := q.Exec(ctx, query, brk.EndedAt, brk.DurationMinutes, brk.ID, brk.CompanyID)
	if err != nil {
		return attendance.Break{}, fmt.Errorf("failed to end break: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.Break{}, attendance.ErrNoActiveBreak
	}

	brk.Active = false
	return brk, nil
}

// ListForEmployeeOnDate implements attendance.BreakRepository.
func (b *breakRepository) ListForEmployeeOnDate(ctx context.Context, employeeID string, date time.Time, companyID string) ([]attendance.Break, error) {
	q := GetQuerier(ctx, b.db)

	query := `
		SELECT id, employee_id, company_id, attendance_id, started_at, ended_at,
			   duration_minutes, active, created_at
		FROM breaks
		WHERE employee_id = $1 AND company_id = $2
		  AND started_at >= $3 AND started_at < ($3::timestamptz + INTERVAL '1 day')
		ORDER BY started_at
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list breaks: %w", err)
	}
	defer rows.Close()

	var breaks []attendance.Break
	for rows.Next() {
		var brk attendance.Break
		if err := rows.Scan(
			&brk.ID, &brk.EmployeeID, &brk.CompanyID, &brk.AttendanceID, &brk.StartedAt, &brk.EndedAt,
			&brk.DurationMinutes, &brk.Active, &brk.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan break: %w", err)
		}
		breaks = append(breaks, brk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate breaks: %w", err)
	}

	return breaks, nil
}

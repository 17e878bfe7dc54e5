package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/report"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/database"
)

type reportRepository struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepository{db: db}
}

// CycleSummary aggregates per-employee attendance over [from, to). Punctual
// days are counted off the ledger: a day is punctual when a PUNCTUALITY_BONUS
// entry correlates to its attendance record.
func (r *reportRepository) CycleSummary(ctx context.Context, from, to time.Time, companyID string, teamID *string) ([]report.CycleSummaryRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.code, e.name,
			   COUNT(*) FILTER (WHERE a.status = 'PRESENT')      AS present_days,
			   COUNT(*) FILTER (WHERE a.status = 'LATE')         AS late_days,
			   COUNT(*) FILTER (WHERE a.status = 'HALF_DAY')     AS half_days,
			   COUNT(*) FILTER (WHERE a.status = 'ABSENT')       AS absent_days,
			   COUNT(*) FILTER (WHERE a.status = 'WFH_APPROVED') AS wfh_days,
			   COUNT(*) FILTER (WHERE EXISTS (
					SELECT 1 FROM ledger_entries le
					WHERE le.correlation_type = 'ATTENDANCE'
					  AND le.correlation_id = a.id
					  AND le.category = 'PUNCTUALITY_BONUS'
			   ))                                                AS punctual_days,
			   COALESCE(SUM(a.work_minutes), 0)                  AS work_minutes
		FROM employees e
		LEFT JOIN attendances a
			   ON a.employee_id = e.id AND a.date >= $2 AND a.date < $3
		WHERE e.company_id = $1 AND e.active
	`

	args := []any{companyID, from, to}
	if teamID != nil {
		query += ` AND e.team_id = $4`
		args = append(args, *teamID)
	}
	query += `
		GROUP BY e.id, e.code, e.name
		ORDER BY e.code
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run cycle summary: %w", err)
	}
	defer rows.Close()

	var result []report.CycleSummaryRow
	for rows.Next() {
		var row report.CycleSummaryRow
		if err := rows.Scan(
			&row.EmployeeID, &row.EmployeeCode, &row.EmployeeName,
			&row.PresentDays, &row.LateDays, &row.HalfDays, &row.AbsentDays,
			&row.WFHDays, &row.PunctualDays, &row.WorkMinutes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cycle summary row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cycle summary: %w", err)
	}

	return result, nil
}

// Leaderboard ranks employees by positive ledger entries in [from, to).
// Spends and penalties do not reduce a standing.
func (r *reportRepository) Leaderboard(ctx context.Context, currency string, from, to time.Time, companyID string, limit int) ([]report.LeaderboardRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.code, e.name, COALESCE(SUM(le.amount), 0) AS earned
		FROM employees e
		JOIN ledger_entries le
		  ON le.employee_id = e.id
		 AND le.currency = $2
		 AND le.amount > 0
		 AND le.created_at >= $3 AND le.created_at < $4
		WHERE e.company_id = $1 AND e.active
		GROUP BY e.id, e.code, e.name
		ORDER BY earned DESC, e.code
		LIMIT $5
	`

	rows, err := q.Query(ctx, query, companyID, currency, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to run leaderboard: %w", err)
	}
	defer rows.Close()

	var result []report.LeaderboardRow
	rank := 0
	for rows.Next() {
		var row report.LeaderboardRow
		if err := rows.Scan(&row.EmployeeID, &row.EmployeeCode, &row.EmployeeName, &row.Earned); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		rank++
		row.Rank = rank
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard: %w", err)
	}

	return result, nil
}

package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/issue"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/database"
)

type issueRepository struct {
	db *database.DB
}

func NewIssueRepository(db *database.DB) issue.IssueRepository {
	return &issueRepository{db: db}
}

func (r *issueRepository) Create(ctx context.Context, iss issue.Issue) (issue.Issue, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO issues (company_id, employee_id, type, severity, title, description, penalty_points, status, raised_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		iss.CompanyID, iss.EmployeeID, iss.Type, iss.Severity, iss.Title,
		iss.Description, iss.PenaltyPoints, iss.Status, iss.RaisedBy,
	).Scan(&iss.ID, &iss.CreatedAt, &iss.UpdatedAt)
	if err != nil {
		return issue.Issue{}, fmt.Errorf("failed to create issue: %w", err)
	}

	return iss, nil
}

func (r *issueRepository) GetByID(ctx context.Context, id string, companyID string) (issue.Issue, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT i.id, i.company_id, i.employee_id, i.type, i.severity, i.title, i.description,
			   i.penalty_points, i.status, i.raised_by, i.resolved_by, i.resolved_at,
			   i.resolution_note, i.created_at, i.updated_at, e.name
		FROM issues i
		JOIN employees e ON e.id = i.employee_id
		WHERE i.id = $1 AND i.company_id = $2
	`

	var iss issue.Issue
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&iss.ID, &iss.CompanyID, &iss.EmployeeID, &iss.Type, &iss.Severity, &iss.Title, &iss.Description,
		&iss.PenaltyPoints, &iss.Status, &iss.RaisedBy, &iss.ResolvedBy, &iss.ResolvedAt,
		&iss.ResolutionNote, &iss.CreatedAt, &iss.UpdatedAt, &iss.EmployeeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return issue.Issue{}, issue.ErrIssueNotFound
		}
		return issue.Issue{}, fmt.Errorf("failed to get issue: %w", err)
	}

	return iss, nil
}

// Resolve only transitions OPEN issues; resolving twice reports
// ErrAlreadyResolved via the zero-row path.
func (r *issueRepository) Resolve(ctx context.Context, iss issue.Issue) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE issues
		SET status = $1, resolved_by = $2, resolved_at = $3, resolution_note = $4, updated_at = NOW()
		WHERE id = $5 AND company_id = $6 AND status = 'OPEN'
	`

	tag, err := q.Exec(ctx, query, iss.Status, iss.ResolvedBy, iss.ResolvedAt, iss.ResolutionNote, iss.ID, iss.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to resolve issue: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return issue.ErrAlreadyResolved
	}

	return nil
}

func (r *issueRepository) List(ctx context.Context, filter issue.Filter, companyID string) ([]issue.Issue, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM issues i
		JOIN employees e ON e.id = i.employee_id
		WHERE i.company_id = $1
	`

	args := []any{companyID}
	argIdx := 2

	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND i.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	if filter.Type != nil {
		baseQuery += fmt.Sprintf(" AND i.type = $%d", argIdx)
		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND i.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	var total int64
	countQuery := `SELECT COUNT(*) ` + baseQuery
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count issues: %w", err)
	}

	listQuery := `
		SELECT i.id, i.company_id, i.employee_id, i.type, i.severity, i.title, i.description,
			   i.penalty_points, i.status, i.raised_by, i.resolved_by, i.resolved_at,
			   i.resolution_note, i.created_at, i.updated_at, e.name
	` + baseQuery + `
		ORDER BY i.created_at DESC
	`

	if filter.Limit > 0 {
		offset := (filter.Page - 1) * filter.Limit
		if offset < 0 {
			offset = 0
		}
		listQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, offset)
	}

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	var issues []issue.Issue
	for rows.Next() {
		var iss issue.Issue
		if err := rows.Scan(
			&iss.ID, &iss.CompanyID, &iss.EmployeeID, &iss.Type, &iss.Severity, &iss.Title, &iss.Description,
			&iss.PenaltyPoints, &iss.Status, &iss.RaisedBy, &iss.ResolvedBy, &iss.ResolvedAt,
			&iss.ResolutionNote, &iss.CreatedAt, &iss.UpdatedAt, &iss.EmployeeName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan issue: %w", err)
		}
		issues = append(issues, iss)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate issues: %w", err)
	}

	return issues, total, nil
}

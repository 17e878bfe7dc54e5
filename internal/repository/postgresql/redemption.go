package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/reward"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/database"
)

type redemptionRepository struct {
	db *database.DB
}

func NewRedemptionRepository(db *database.DB) reward.RedemptionRepository {
	return &redemptionRepository{db: db}
}

func (r *redemptionRepository) Create(ctx context.Context, rd reward.Redemption) (reward.Redemption, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO redemptions (reward_id, employee_id, company_id, currency, cost, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		rd.RewardID, rd.EmployeeID, rd.CompanyID, rd.Currency, rd.Cost, rd.Status,
	).Scan(&rd.ID, &rd.CreatedAt)
	if err != nil {
		return reward.Redemption{}, fmt.Errorf("failed to create redemption: %w", err)
	}

	return rd, nil
}

func (r *redemptionRepository) GetByID(ctx context.Context, id string, companyID string) (reward.Redemption, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT rd.id, rd.reward_id, rd.employee_id, rd.company_id, rd.currency, rd.cost,
			   rd.status, rd.note, rd.processed_by, rd.processed_at, rd.created_at,
			   rw.name, e.name
		FROM redemptions rd
		JOIN rewards rw ON rw.id = rd.reward_id
		JOIN employees e ON e.id = rd.employee_id
		WHERE rd.id = $1 AND rd.company_id = $2
	`

	var rd reward.Redemption
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&rd.ID, &rd.RewardID, &rd.EmployeeID, &rd.CompanyID, &rd.Currency, &rd.Cost,
		&rd.Status, &rd.Note, &rd.ProcessedBy, &rd.ProcessedAt, &rd.CreatedAt,
		&rd.RewardName, &rd.EmployeeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reward.Redemption{}, reward.ErrRedemptionNotFound
		}
		return reward.Redemption{}, fmt.Errorf("failed to get redemption: %w", err)
	}

	return rd, nil
}

func (r *redemptionRepository) UpdateStatus(ctx context.Context, rd reward.Redemption) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE redemptions
		SET status = $1, note = $2, processed_by = $3, processed_at = $4
		WHERE id = $5 AND company_id = $6
	`

	tag, err := q.Exec(ctx, query,
		rd.Status, rd.Note, rd.ProcessedBy, rd.ProcessedAt, rd.ID, rd.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update redemption status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return reward.ErrRedemptionNotFound
	}

	return nil
}

func (r *redemptionRepository) List(ctx context.Context, filter reward.RedemptionFilter, companyID string) ([]reward.Redemption, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM redemptions rd
		JOIN rewards rw ON rw.id = rd.reward_id
		JOIN employees e ON e.id = rd.employee_id
		WHERE rd.company_id = $1
	`

	args := []any{companyID}
	argIdx := 2

	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND rd.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND rd.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	var total int64
	countQuery := `SELECT COUNT(*) ` + baseQuery
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count redemptions: %w", err)
	}

	listQuery := `
		SELECT rd.id, rd.reward_id, rd.employee_id, rd.company_id, rd.currency, rd.cost,
			   rd.status, rd.note, rd.processed_by, rd.processed_at, rd.created_at,
			   rw.name, e.name
	` + baseQuery + `
		ORDER BY rd.created_at DESC
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
		return nil, 0, fmt.Errorf("failed to list redemptions: %w", err)
	}
	defer rows.Close()

	var redemptions []reward.Redemption
	for rows.Next() {
		var rd reward.Redemption
		if err := rows.Scan(
			&rd.ID, &rd.RewardID, &rd.EmployeeID, &rd.CompanyID, &rd.Currency, &rd.Cost,
			&rd.Status, &rd.Note, &rd.ProcessedBy, &rd.ProcessedAt, &rd.CreatedAt,
			&rd.RewardName, &rd.EmployeeName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan redemption: %w", err)
		}
		redemptions = append(redemptions, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate redemptions: %w", err)
	}

	return redemptions, total, nil
}

package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/reward"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/database"
)

type rewardRepository struct {
	db *database.DB
}

func NewRewardRepository(db *database.DB) reward.RewardRepository {
	return &rewardRepository{db: db}
}

const rewardColumns = `id, company_id, name, description, currency, cost, cash_value, stock, active, created_at, updated_at`

func scanReward(row pgx.Row) (reward.Reward, error) {
	var rw reward.Reward
	err := row.Scan(
		&rw.ID, &rw.CompanyID, &rw.Name, &rw.Description, &rw.Currency,
		&rw.Cost, &rw.CashValue, &rw.Stock, &rw.Active, &rw.CreatedAt, &rw.UpdatedAt,
	)
	return rw, err
}

func (r *rewardRepository) Create(ctx context.Context, rw reward.Reward) (reward.Reward, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO rewards (company_id, name, description, currency, cost, cash_value, stock, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rw.CompanyID, rw.Name, rw.Description, rw.Currency, rw.Cost, rw.CashValue, rw.Stock, rw.Active,
	).Scan(&rw.ID, &rw.CreatedAt, &rw.UpdatedAt)
	if err != nil {
		return reward.Reward{}, fmt.Errorf("failed to create reward: %w", err)
	}

	return rw, nil
}

func (r *rewardRepository) GetByID(ctx context.Context, id string, companyID string) (reward.Reward, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + rewardColumns + ` FROM rewards WHERE id = $1 AND company_id = $2`

	rw, err := scanReward(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reward.Reward{}, reward.ErrRewardNotFound
		}
		return reward.Reward{}, fmt.Errorf("failed to get reward: %w", err)
	}

	return rw, nil
}

// GetByIDForUpdate locks the reward row for the duration of the surrounding
// transaction so the stock check and decrement run against a stable value.
func (r *rewardRepository) GetByIDForUpdate(ctx context.Context, id string, companyID string) (reward.Reward, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + rewardColumns + ` FROM rewards WHERE id = $1 AND company_id = $2 FOR UPDATE`

	rw, err := scanReward(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reward.Reward{}, reward.ErrRewardNotFound
		}
		return reward.Reward{}, fmt.Errorf("failed to lock reward: %w", err)
	}

	return rw, nil
}

func (r *rewardRepository) Update(ctx context.Context, rw reward.Reward) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE rewards
		SET name = $1, description = $2, cost = $3, stock = $4, active = $5, updated_at = NOW()
		WHERE id = $6 AND company_id = $7
	`

	tag, err := q.Exec(ctx, query,
		rw.Name, rw.Description, rw.Cost, rw.Stock, rw.Active, rw.ID, rw.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reward: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return reward.ErrRewardNotFound
	}

	return nil
}

// DecrementStock only applies to finite-stock rewards; the stock > 0 guard
// keeps the counter from going negative under concurrent redemptions.
func (r *rewardRepository) DecrementStock(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE rewards
		SET stock = stock - 1, updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND stock IS NOT NULL AND stock > 0
	`

	tag, err := q.Exec(ctx, query, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to decrement reward stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return reward.ErrOutOfStock
	}

	return nil
}

func (r *rewardRepository) IncrementStock(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE rewards
		SET stock = stock + 1, updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND stock IS NOT NULL
	`

	if _, err := q.Exec(ctx, query, id, companyID); err != nil {
		return fmt.Errorf("failed to restore reward stock: %w", err)
	}

	return nil
}

func (r *rewardRepository) List(ctx context.Context, companyID string, activeOnly bool) ([]reward.Reward, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + rewardColumns + ` FROM rewards WHERE company_id = $1`
	if activeOnly {
		query += ` AND active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rewards: %w", err)
	}
	defer rows.Close()

	var rewards []reward.Reward
	for rows.Next() {
		rw, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reward: %w", err)
		}
		rewards = append(rewards, rw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rewards: %w", err)
	}

	return rewards, nil
}

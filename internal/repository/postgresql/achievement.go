package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/gamification"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/database"
)

type achievementRepository struct {
	db *database.DB
}

func NewAchievementRepository(db *database.DB) gamification.AchievementRepository {
	return &achievementRepository{db: db}
}

// Create implements gamification.AchievementRepository.
func (a *achievementRepository) Create(ctx context.Context, ach gamification.Achievement) (gamification.Achievement, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO achievements (
			company_id, name, description, category, point_reward,
			metric, threshold, period_days, active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		ach.CompanyID,
		ach.Name,
		ach.Description,
		ach.Category,
		ach.PointReward,
		ach.Metric,
		ach.Threshold,
		ach.PeriodDays,
		ach.Active,
	).Scan(&ach.ID, &ach.CreatedAt, &ach.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "achievements_company_name_key") {
			return gamification.Achievement{}, gamification.ErrAchievementNameTaken
		}
		return gamification.Achievement{}, fmt.Errorf("failed to create achievement: %w", err)
	}

	return ach, nil
}

// GetByID implements gamification.AchievementRepository.
func (a *achievementRepository) GetByID(ctx context.Context, id string, companyID string) (gamification.Achievement, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, company_id, name, description, category, point_reward,
			   metric, threshold, period_days, active, created_at, updated_at
		FROM achievements
		WHERE id = $1 AND company_id = $2
	`

	var ach gamification.Achievement
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&ach.ID, &ach.CompanyID, &ach.Name, &ach.Description, &ach.Category, &ach.PointReward,
		&ach.Metric, &ach.Threshold, &ach.PeriodDays, &ach.Active, &ach.CreatedAt, &ach.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return gamification.Achievement{}, gamification.ErrAchievementNotFound
		}
		return gamification.Achievement{}, fmt.Errorf("failed to get achievement: %w", err)
	}

	return ach, nil
}

// List implements gamification.AchievementRepository.
func (a *achievementRepository) List(ctx context.Context, companyID string, activeOnly bool) ([]gamification.Achievement, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, company_id, name, description, category, point_reward,
			   metric, threshold, period_days, active, created_at, updated_at
		FROM achievements
		WHERE company_id = $1
	`
	if activeOnly {
		query += " AND active = TRUE"
	}
	query += " ORDER BY name"

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer rows.Close()

	var achievements []gamification.Achievement
	for rows.Next() {
		var ach gamification.Achievement
		if err := rows.Scan(
			&ach.ID, &ach.CompanyID, &ach.Name, &ach.Description, &ach.Category, &ach.PointReward,
			&ach.Metric, &ach.Threshold, &ach.PeriodDays, &ach.Active, &ach.CreatedAt, &ach.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		achievements = append(achievements, ach)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate achievements: %w", err)
	}

	return achievements, nil
}

// SetActive implements gamification.AchievementRepository.
func (a *achievementRepository) SetActive(ctx context.Context, id string, companyID string, active bool) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx,
		`UPDATE achievements SET active = $1, updated_at = NOW() WHERE id = $2 AND company_id = $3`,
		active, id, companyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update achievement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return gamification.ErrAchievementNotFound
	}

	return nil
}

// InsertUnlockOnce implements gamification.AchievementRepository. The unique
// constraint on (employee_id, achievement_id) makes re-evaluation a no-op.
func (a *achievementRepository) InsertUnlockOnce(ctx context.Context, employeeID string, achievementID string) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO employee_achievements (employee_id, achievement_id, completed)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (employee_id, achievement_id) DO NOTHING
	`

	tag, err := q.Exec(ctx, query, employeeID, achievementID)
	if err != nil {
		return false, fmt.Errorf("failed to insert achievement unlock: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// IsUnlocked implements gamification.AchievementRepository.
func (a *achievementRepository) IsUnlocked(ctx context.Context, employeeID string, achievementID string) (bool, error) {
	q := GetQuerier(ctx, a.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM employee_achievements
			WHERE employee_id = $1 AND achievement_id = $2
		)
	`, employeeID, achievementID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check achievement unlock: %w", err)
	}

	return exists, nil
}

// ListUnlocked implements gamification.AchievementRepository.
func (a *achievementRepository) ListUnlocked(ctx context.Context, employeeID string) ([]gamification.EmployeeAchievement, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, `
		SELECT id, employee_id, achievement_id, completed, unlocked_at
		FROM employee_achievements
		WHERE employee_id = $1
		ORDER BY unlocked_at DESC
	`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievement unlocks: %w", err)
	}
	defer rows.Close()

	var unlocks []gamification.EmployeeAchievement
	for rows.Next() {
		var ua gamification.EmployeeAchievement
		if err := rows.Scan(&ua.ID, &ua.EmployeeID, &ua.AchievementID, &ua.Completed, &ua.UnlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement unlock: %w", err)
		}
		unlocks = append(unlocks, ua)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate achievement unlocks: %w", err)
	}

	return unlocks, nil
}

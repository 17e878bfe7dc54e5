package gamification

import (
	"context"
	"time"
)

// LedgerRepository persists ledger entries and the materialized balances.
// Mutating methods are expected to run inside a transaction supplied through
// the context; the balance row must move in the same unit of work as the
// entry append or the counter drifts from the audit trail.
type LedgerRepository interface {
	// AppendEntry inserts a ledger row and applies its signed amount to the
	// materialized balance in one statement pair.
	AppendEntry(ctx context.Context, entry LedgerEntry) (LedgerEntry, error)

	// GetBalanceForUpdate reads the balance row with a row lock so a
	// check-then-append spend cannot race a concurrent spend. Returns 0 when
	// the employee has no balance row yet.
	GetBalanceForUpdate(ctx context.Context, employeeID string, currency Currency, companyID string) (int, error)

	// GetBalance is the unlocked read path for display.
	GetBalance(ctx context.Context, employeeID string, currency Currency, companyID string) (int, error)

	// HasEntryForCorrelation reports whether an entry already exists for the
	// given correlation, the guard behind every award-once rule.
	HasEntryForCorrelation(ctx context.Context, employeeID string, currency Currency, corrType CorrelationType, corrID string, companyID string) (bool, error)

	// List returns an employee's ledger with filters and pagination.
	List(ctx context.Context, employeeID string, filter LedgerFilter, companyID string) ([]LedgerEntry, int64, error)

	// SumEarnedInRange totals positive entries within [from, to) for the
	// POINTS_EARNED achievement metric and cycle leaderboards.
	SumEarnedInRange(ctx context.Context, employeeID string, currency Currency, from, to time.Time, companyID string) (int, error)
}

type AchievementRepository interface {
	Create(ctx context.Context, a Achievement) (Achievement, error)
	GetByID(ctx context.Context, id string, companyID string) (Achievement, error)
	List(ctx context.Context, companyID string, activeOnly bool) ([]Achievement, error)
	SetActive(ctx context.Context, id string, companyID string, active bool) error

	// InsertUnlockOnce inserts the unlock row, returning false without error
	// when the (employee, achievement) pair is already unlocked.
	InsertUnlockOnce(ctx context.Context, employeeID string, achievementID string) (bool, error)
	IsUnlocked(ctx context.Context, employeeID string, achievementID string) (bool, error)
	ListUnlocked(ctx context.Context, employeeID string) ([]EmployeeAchievement, error)
}

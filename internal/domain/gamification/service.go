package gamification

import (
	"context"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/attendance"
)

// Service defines business logic for the points/coins ledger and
// achievements. Every mutation writes a ledger entry and moves the
// materialized balance in the same transaction.
type Service interface {
	// Award credits an employee (admin manual adjustment or internal bonus).
	Award(ctx context.Context, req AwardRequest) (LedgerEntryResponse, error)

	// Spend debits an employee after a locked balance check. Returns
	// *InsufficientBalanceError when the balance cannot cover the amount.
	Spend(ctx context.Context, req SpendRequest) (LedgerEntryResponse, error)

	// GetBalance returns both currency balances for an employee.
	GetBalance(ctx context.Context, employeeID string) (BalanceResponse, error)

	// GetMyBalance returns the authenticated employee's balances.
	GetMyBalance(ctx context.Context) (BalanceResponse, error)

	// ListLedger pages through an employee's ledger entries.
	ListLedger(ctx context.Context, employeeID string, filter LedgerFilter) (ListLedgerResponse, error)

	// EvaluateAttendance awards the punctuality bonus for a completed
	// attendance record (once per record) and advances achievements.
	// Safe to call repeatedly for the same record.
	EvaluateAttendance(ctx context.Context, att attendance.Attendance) error

	// CreateAchievement defines a new achievement.
	CreateAchievement(ctx context.Context, req CreateAchievementRequest) (AchievementResponse, error)

	// ListAchievements returns the company's achievement definitions.
	ListAchievements(ctx context.Context, activeOnly bool) ([]AchievementResponse, error)

	// SetAchievementActive toggles an achievement without deleting history.
	SetAchievementActive(ctx context.Context, id string, active bool) error

	// GetMyAchievements evaluates every active achievement for the
	// authenticated employee and returns progress (capped at 100).
	GetMyAchievements(ctx context.Context) ([]AchievementProgressResponse, error)

	// EvaluateEmployee recomputes every active achievement for one employee
	// (admin ad-hoc recompute). Unlocks triggered by the recompute pay their
	// reward exactly once, same as the nightly sweep.
	EvaluateEmployee(ctx context.Context, employeeID string) ([]AchievementProgressResponse, error)
}

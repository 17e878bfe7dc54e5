package gamification

import (
	"time"
)

// Currency selects which of the two parallel ledgers an entry belongs to.
// Points are earned through attendance and achievements; coins are a
// separate currency redeemable for physical or cash rewards.
type Currency string

const (
	CurrencyPoints Currency = "POINTS"
	CurrencyCoins  Currency = "COINS"
)

func IsValidCurrency(s string) bool {
	return Currency(s) == CurrencyPoints || Currency(s) == CurrencyCoins
}

type Category string

const (
	CategoryAttendanceBonus  Category = "ATTENDANCE_BONUS"
	CategoryPunctualityBonus Category = "PUNCTUALITY_BONUS"
	CategoryAchievementBonus Category = "ACHIEVEMENT_BONUS"
	CategoryPenalty          Category = "PENALTY"
	CategoryRedemption       Category = "REDEMPTION"
	CategoryRedemptionRefund Category = "REDEMPTION_REFUND"
	CategoryManualAdjustment Category = "MANUAL_ADJUSTMENT"
)

// CorrelationType tags what domain object a ledger entry was written for,
// so idempotent awards can be detected before inserting a duplicate.
type CorrelationType string

const (
	CorrelationAttendance  CorrelationType = "ATTENDANCE"
	CorrelationRedemption  CorrelationType = "REDEMPTION"
	CorrelationAchievement CorrelationType = "ACHIEVEMENT"
	CorrelationIssue       CorrelationType = "ISSUE"
)

// LedgerEntry is one append-only row of the points or coins ledger.
// Amount is signed: positive for earn, negative for spend/deduct.
type LedgerEntry struct {
	ID              string
	EmployeeID      string
	CompanyID       string
	Currency        Currency
	Amount          int
	Category        Category
	Reason          string
	CorrelationType *CorrelationType
	CorrelationID   *string
	CreatedAt       time.Time
}

// Balance is the materialized running counter for one (employee, currency)
// pair. It is updated in the same transaction as every ledger append; the
// ledger itself is the audit trail.
type Balance struct {
	EmployeeID string
	CompanyID  string
	Currency   Currency
	Amount     int
	UpdatedAt  time.Time
}

// Metric names the statistic an achievement threshold is measured against.
type Metric string

const (
	MetricPunctualDays Metric = "PUNCTUAL_DAYS"
	MetricPresentDays  Metric = "PRESENT_DAYS"
	MetricPointsEarned Metric = "POINTS_EARNED"
)

func IsValidMetric(s string) bool {
	switch Metric(s) {
	case MetricPunctualDays, MetricPresentDays, MetricPointsEarned:
		return true
	}
	return false
}

type Achievement struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Category    string
	PointReward int
	Metric      Metric
	Threshold   int
	PeriodDays  int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EmployeeAchievement records an unlock. At most one row exists per
// (employee, achievement) pair, enforced by a unique constraint.
type EmployeeAchievement struct {
	ID            string
	EmployeeID    string
	AchievementID string
	Completed     bool
	UnlockedAt    time.Time
}

package report

import (
	"context"
	"time"
)

// ReportRepository runs the aggregate queries behind pay-cycle reports.
// Ranges are half-open [from, to) at the repository boundary; handlers
// convert the inclusive cycle window before calling.
type ReportRepository interface {
	CycleSummary(ctx context.Context, from, to time.Time, companyID string, teamID *string) ([]CycleSummaryRow, error)
	Leaderboard(ctx context.Context, currency string, from, to time.Time, companyID string, limit int) ([]LeaderboardRow, error)
}

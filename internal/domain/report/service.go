package report

import (
	"context"
)

// ReportService defines the pay-cycle reports. A cycle runs from the 6th of
// one month through the 5th of the next; offset shifts whole cycles back
// (negative) or forward (positive) from the cycle containing the anchor date.
type ReportService interface {
	// CycleSummary aggregates attendance per employee for one cycle.
	// date (YYYY-MM-DD) anchors the cycle; empty means today.
	CycleSummary(ctx context.Context, date string, offset int, teamID *string) (CycleSummaryResponse, error)

	// Leaderboard ranks employees by currency earned within one cycle.
	Leaderboard(ctx context.Context, currency string, offset int, limit int) (LeaderboardResponse, error)
}

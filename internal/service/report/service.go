package report

import (
	"context"
	"fmt"
	"time"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/gamification"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/report"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/jwt"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/paycycle"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

type ReportServiceImpl struct {
	reportRepo report.ReportRepository
	loc        *time.Location
	clock      paycycle.Clock
}

func NewReportService(reportRepo report.ReportRepository, loc *time.Location, clock paycycle.Clock) report.ReportService {
	if clock == nil {
		clock = time.Now
	}
	return &ReportServiceImpl{
		reportRepo: reportRepo,
		loc:        loc,
		clock:      clock,
	}
}

// anchor resolves the reference date for a cycle lookup. An empty date means
// "the cycle we are in right now" in the portal timezone.
func (s *ReportServiceImpl) anchor(date string) (time.Time, error) {
	if date == "" {
		return s.clock().In(s.loc), nil
	}
	d, err := time.ParseInLocation("2006-01-02", date, s.loc)
	if err != nil {
		return time.Time{}, report.ErrInvalidDate
	}
	return d, nil
}

// CycleSummary implements report.ReportService.
func (s *ReportServiceImpl) CycleSummary(ctx context.Context, date string, offset int, teamID *string) (report.CycleSummaryResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return report.CycleSummaryResponse{}, err
	}

	anchor, err := s.anchor(date)
	if err != nil {
		return report.CycleSummaryResponse{}, err
	}
	win := paycycle.ForDateOffset(anchor, offset)

	rows, err := s.reportRepo.CycleSummary(ctx, win.Start, win.EndExclusive(), claims.CompanyID, teamID)
	if err != nil {
		return report.CycleSummaryResponse{}, fmt.Errorf("failed to build cycle summary: %w", err)
	}

	return report.CycleSummaryResponse{
		CycleStart: win.Start.Format("2006-01-02"),
		CycleEnd:   win.End.Format("2006-01-02"),
		Rows:       rows,
	}, nil
}

// Leaderboard implements report.ReportService.
func (s *ReportServiceImpl) Leaderboard(ctx context.Context, currency string, offset int, limit int) (report.LeaderboardResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return report.LeaderboardResponse{}, err
	}

	if !gamification.IsValidCurrency(currency) {
		return report.LeaderboardResponse{}, gamification.ErrInvalidCurrency
	}
	if limit < 1 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	win := paycycle.ForDateOffset(s.clock().In(s.loc), offset)

	rows, err := s.reportRepo.Leaderboard(ctx, currency, win.Start, win.EndExclusive(), claims.CompanyID, limit)
	if err != nil {
		return report.LeaderboardResponse{}, fmt.Errorf("failed to build leaderboard: %w", err)
	}

	return report.LeaderboardResponse{
		Currency:   currency,
		CycleStart: win.Start.Format("2006-01-02"),
		CycleEnd:   win.End.Format("2006-01-02"),
		Rows:       rows,
	}, nil
}

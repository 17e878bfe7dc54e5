package report

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/gamification"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/report"
)

type fakeReportRepo struct {
	summaryFrom, summaryTo time.Time
	summaryCompanyID       string
	summaryTeamID          *string

	lbCurrency   string
	lbFrom, lbTo time.Time
	lbCompanyID  string
	lbLimit      int
	lbRows       []report.LeaderboardRow
}

func (f *fakeReportRepo) CycleSummary(ctx context.Context, from, to time.Time, companyID string, teamID *string) ([]report.CycleSummaryRow, error) {
	f.summaryFrom, f.summaryTo = from, to
	f.summaryCompanyID = companyID
	f.summaryTeamID = teamID
	return []report.CycleSummaryRow{}, nil
}

func (f *fakeReportRepo) Leaderboard(ctx context.Context, currency string, from, to time.Time, companyID string, limit int) ([]report.LeaderboardRow, error) {
	f.lbCurrency = currency
	f.lbFrom, f.lbTo = from, to
	f.lbCompanyID = companyID
	f.lbLimit = limit
	return f.lbRows, nil
}

func authedContext(t *testing.T) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("report-test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"employee_id": "emp-1",
		"company_id":  "co-1",
		"role":        "ADMIN",
		"type":        "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func fixedClock(value string) func() time.Time {
	return func() time.Time {
		t, _ := time.Parse(time.RFC3339, value)
		return t
	}
}

func TestCycleSummaryWindowFromAnchorDate(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := NewReportService(repo, time.UTC, fixedClock("2024-07-01T12:00:00Z"))

	resp, err := svc.CycleSummary(authedContext(t), "2024-03-10", 0, nil)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-06", resp.CycleStart)
	assert.Equal(t, "2024-04-05", resp.CycleEnd)
	// Repository receives the half-open window: [Mar 6, Apr 6).
	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), repo.summaryFrom)
	assert.Equal(t, time.Date(2024, 4, 6, 0, 0, 0, 0, time.UTC), repo.summaryTo)
	assert.Equal(t, "co-1", repo.summaryCompanyID)
}

func TestCycleSummaryDefaultsToCurrentCycle(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := NewReportService(repo, time.UTC, fixedClock("2024-03-04T09:00:00Z"))

	// March 4 is before the 6th, so the current cycle started February 6.
	resp, err := svc.CycleSummary(authedContext(t), "", 0, nil)
	require.NoError(t, err)

	assert.Equal(t, "2024-02-06", resp.CycleStart)
	assert.Equal(t, "2024-03-05", resp.CycleEnd)
}

func TestCycleSummaryOffsetShiftsWholeCycles(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := NewReportService(repo, time.UTC, fixedClock("2024-07-01T12:00:00Z"))

	resp, err := svc.CycleSummary(authedContext(t), "2024-03-10", -1, nil)
	require.NoError(t, err)

	assert.Equal(t, "2024-02-06", resp.CycleStart)
	assert.Equal(t, "2024-03-05", resp.CycleEnd)
}

func TestCycleSummaryRejectsMalformedDate(t *testing.T) {
	svc := NewReportService(&fakeReportRepo{}, time.UTC, fixedClock("2024-07-01T12:00:00Z"))

	_, err := svc.CycleSummary(authedContext(t), "10-03-2024", 0, nil)
	assert.ErrorIs(t, err, report.ErrInvalidDate)
}

func TestCycleSummaryPassesTeamFilter(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := NewReportService(repo, time.UTC, fixedClock("2024-07-01T12:00:00Z"))

	teamID := "team-9"
	_, err := svc.CycleSummary(authedContext(t), "2024-03-10", 0, &teamID)
	require.NoError(t, err)

	require.NotNil(t, repo.summaryTeamID)
	assert.Equal(t, "team-9", *repo.summaryTeamID)
}

func TestLeaderboardValidatesCurrency(t *testing.T) {
	svc := NewReportService(&fakeReportRepo{}, time.UTC, fixedClock("2024-07-01T12:00:00Z"))

	_, err := svc.Leaderboard(authedContext(t), "GEMS", 0, 10)
	assert.ErrorIs(t, err, gamification.ErrInvalidCurrency)
}

func TestLeaderboardClampsLimit(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := NewReportService(repo, time.UTC, fixedClock("2024-07-01T12:00:00Z"))

	_, err := svc.Leaderboard(authedContext(t), "POINTS", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, repo.lbLimit)

	_, err = svc.Leaderboard(authedContext(t), "POINTS", 0, 5000)
	require.NoError(t, err)
	assert.Equal(t, 100, repo.lbLimit)
}

func TestLeaderboardUsesCurrentCycle(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := NewReportService(repo, time.UTC, fixedClock("2024-07-10T12:00:00Z"))

	resp, err := svc.Leaderboard(authedContext(t), "COINS", 0, 10)
	require.NoError(t, err)

	assert.Equal(t, "COINS", resp.Currency)
	assert.Equal(t, "2024-07-06", resp.CycleStart)
	assert.Equal(t, "2024-08-05", resp.CycleEnd)
	assert.Equal(t, time.Date(2024, 7, 6, 0, 0, 0, 0, time.UTC), repo.lbFrom)
	assert.Equal(t, time.Date(2024, 8, 6, 0, 0, 0, 0, time.UTC), repo.lbTo)
}

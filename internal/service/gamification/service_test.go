package gamification

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/attendance"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/employee"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/gamification"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/database"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/paycycle"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/sse"
	"github.com/staffops-hq/staffops-backend-go/internal/repository/postgresql"
)

var gamTestDB *database.DB

func gamTestInit(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	if gamTestDB == nil {
		db, err := database.NewPostgreSQLDB(dsn)
		require.NoError(t, err)
		gamTestDB = db
	}
	return gamTestDB
}

func gamClaimsContext(t *testing.T, employeeID, companyID string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("gamification-test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"company_id":  companyID,
		"role":        "ADMIN",
		"type":        "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// Fixtures are scoped to a fresh company id per test so suites can share the
// test database without truncation.
func createGamEmployee(t *testing.T, ctx context.Context, db *database.DB, companyID string) employee.Employee {
	t.Helper()
	repo := postgresql.NewEmployeeRepository(db)
	emp, err := repo.Create(ctx, employee.Employee{
		CompanyID:    companyID,
		EmployeeCode: fmt.Sprintf("OPS-%d", time.Now().UnixNano()),
		FullName:     "Ledger Tester",
		Email:        fmt.Sprintf("ledger-%d@example.com", time.Now().UnixNano()),
		Role:         employee.RoleEmployee,
		Active:       true,
	})
	require.NoError(t, err)
	return emp
}

func createCompletedAttendance(t *testing.T, ctx context.Context, db *database.DB, emp employee.Employee, date time.Time, inHour, inMin, outHour, outMin int) attendance.Attendance {
	t.Helper()
	repo := postgresql.NewAttendanceRepository(db)
	checkIn := time.Date(date.Year(), date.Month(), date.Day(), inHour, inMin, 0, 0, time.UTC)
	checkOut := time.Date(date.Year(), date.Month(), date.Day(), outHour, outMin, 0, 0, time.UTC)
	rec, err := repo.Create(ctx, attendance.Attendance{
		EmployeeID: emp.ID,
		CompanyID:  emp.CompanyID,
		Date:       date,
		CheckIn:    &checkIn,
		CheckOut:   &checkOut,
		Status:     attendance.StatusPresent,
	})
	require.NoError(t, err)
	return rec
}

func newGamTestService(db *database.DB, clock paycycle.Clock) gamification.Service {
	return NewGamificationService(
		db,
		postgresql.NewLedgerRepository(db),
		postgresql.NewAchievementRepository(db),
		postgresql.NewAttendanceRepository(db),
		sse.NewHub(),
		15,
		time.UTC,
		clock,
	)
}

func TestGamificationService_Spend_RejectsOverdraw(t *testing.T) {
	db := gamTestInit(t)
	ctx := context.Background()

	companyID := uuid.NewString()
	emp := createGamEmployee(t, ctx, db, companyID)
	ctx = gamClaimsContext(t, emp.ID, companyID)
	svc := newGamTestService(db, nil)

	_, err := svc.Award(ctx, gamification.AwardRequest{
		EmployeeID: emp.ID, Currency: "POINTS", Amount: 30, Reason: "seed",
	})
	require.NoError(t, err)

	_, err = svc.Spend(ctx, gamification.SpendRequest{
		EmployeeID: emp.ID, Currency: "POINTS", Amount: 50, Reason: "overdraw attempt",
	})
	var insufficient *gamification.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 50, insufficient.Required)
	assert.Equal(t, 30, insufficient.Available)

	// The failed spend must not have touched the ledger.
	bal, err := svc.GetBalance(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, bal.Points)
}

func TestGamificationService_Spend_ConcurrentSpendsCannotGoNegative(t *testing.T) {
	db := gamTestInit(t)
	ctx := context.Background()

	companyID := uuid.NewString()
	emp := createGamEmployee(t, ctx, db, companyID)
	ctx = gamClaimsContext(t, emp.ID, companyID)
	svc := newGamTestService(db, nil)

	_, err := svc.Award(ctx, gamification.AwardRequest{
		EmployeeID: emp.ID, Currency: "POINTS", Amount: 50, Reason: "seed",
	})
	require.NoError(t, err)

	// Both spends are covered individually but not together; the locked
	// balance check admits exactly one.
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Spend(ctx, gamification.SpendRequest{
				EmployeeID: emp.ID, Currency: "POINTS", Amount: 50, Reason: "concurrent spend",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var insufficient *gamification.InsufficientBalanceError
		assert.ErrorAs(t, err, &insufficient)
	}
	assert.Equal(t, 1, succeeded)

	bal, err := svc.GetBalance(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, bal.Points)
}

func TestGamificationService_EvaluateAttendance_AwardsOncePerRecord(t *testing.T) {
	db := gamTestInit(t)
	ctx := context.Background()

	companyID := uuid.NewString()
	emp := createGamEmployee(t, ctx, db, companyID)
	ctx = gamClaimsContext(t, emp.ID, companyID)
	svc := newGamTestService(db, nil)

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	rec := createCompletedAttendance(t, ctx, db, emp, date, 10, 5, 19, 10)

	// Check-out path and nightly sweep both call this; the second call must
	// be a no-op.
	require.NoError(t, svc.EvaluateAttendance(ctx, rec))
	require.NoError(t, svc.EvaluateAttendance(ctx, rec))

	category := string(gamification.CategoryPunctualityBonus)
	ledger, err := svc.ListLedger(ctx, emp.ID, gamification.LedgerFilter{Category: &category})
	require.NoError(t, err)
	assert.Equal(t, int64(1), ledger.Total)

	bal, err := svc.GetBalance(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, bal.Points)
}

func TestGamificationService_EvaluateAttendance_SkipsUnpunctualDay(t *testing.T) {
	db := gamTestInit(t)
	ctx := context.Background()

	companyID := uuid.NewString()
	emp := createGamEmployee(t, ctx, db, companyID)
	ctx = gamClaimsContext(t, emp.ID, companyID)
	svc := newGamTestService(db, nil)

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	rec := createCompletedAttendance(t, ctx, db, emp, date, 10, 45, 19, 10)

	require.NoError(t, svc.EvaluateAttendance(ctx, rec))

	bal, err := svc.GetBalance(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, bal.Points)
}

func TestLedgerRepository_AppendEntry_RejectsDuplicateCorrelation(t *testing.T) {
	db := gamTestInit(t)
	ctx := context.Background()

	companyID := uuid.NewString()
	emp := createGamEmployee(t, ctx, db, companyID)
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	rec := createCompletedAttendance(t, ctx, db, emp, date, 10, 5, 19, 10)

	ledgerRepo := postgresql.NewLedgerRepository(db)
	corrType := gamification.CorrelationAttendance
	entry := gamification.LedgerEntry{
		EmployeeID:      emp.ID,
		CompanyID:       companyID,
		Currency:        gamification.CurrencyPoints,
		Amount:          15,
		Category:        gamification.CategoryPunctualityBonus,
		Reason:          "Punctuality bonus for 2025-03-10",
		CorrelationType: &corrType,
		CorrelationID:   &rec.ID,
	}

	_, err := ledgerRepo.AppendEntry(ctx, entry)
	require.NoError(t, err)

	_, err = ledgerRepo.AppendEntry(ctx, entry)
	assert.ErrorIs(t, err, gamification.ErrBonusAlreadyAwarded)
}

// racingLedgerRepo pretends the correlation check always comes back clean,
// simulating another writer committing between the check and the insert.
type racingLedgerRepo struct {
	gamification.LedgerRepository
}

func (r *racingLedgerRepo) HasEntryForCorrelation(ctx context.Context, employeeID string, currency gamification.Currency, corrType gamification.CorrelationType, corrID string, companyID string) (bool, error) {
	return false, nil
}

func TestGamificationService_EvaluateAttendance_LostRaceIsBenign(t *testing.T) {
	db := gamTestInit(t)
	ctx := context.Background()

	companyID := uuid.NewString()
	emp := createGamEmployee(t, ctx, db, companyID)
	ctx = gamClaimsContext(t, emp.ID, companyID)

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	rec := createCompletedAttendance(t, ctx, db, emp, date, 10, 5, 19, 10)

	svc := newGamTestService(db, nil)
	require.NoError(t, svc.EvaluateAttendance(ctx, rec))

	racingSvc := NewGamificationService(
		db,
		&racingLedgerRepo{postgresql.NewLedgerRepository(db)},
		postgresql.NewAchievementRepository(db),
		postgresql.NewAttendanceRepository(db),
		sse.NewHub(),
		15,
		time.UTC,
		nil,
	)

	// The check misses but the unique index catches the duplicate; the loser
	// treats it as already-awarded instead of failing.
	require.NoError(t, racingSvc.EvaluateAttendance(ctx, rec))

	category := string(gamification.CategoryPunctualityBonus)
	ledger, err := svc.ListLedger(ctx, emp.ID, gamification.LedgerFilter{Category: &category})
	require.NoError(t, err)
	assert.Equal(t, int64(1), ledger.Total)
}

func TestGamificationService_AchievementUnlock_PaysRewardOnce(t *testing.T) {
	db := gamTestInit(t)
	ctx := context.Background()

	companyID := uuid.NewString()
	emp := createGamEmployee(t, ctx, db, companyID)
	ctx = gamClaimsContext(t, emp.ID, companyID)

	clock := func() time.Time { return time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC) }
	svc := newGamTestService(db, clock)

	created, err := svc.CreateAchievement(ctx, gamification.CreateAchievementRequest{
		Name:        fmt.Sprintf("Punctual Week %d", time.Now().UnixNano()),
		Description: "Two punctual days inside a week",
		Category:    "ATTENDANCE",
		PointReward: 100,
		Metric:      "PUNCTUAL_DAYS",
		Threshold:   2,
		PeriodDays:  7,
	})
	require.NoError(t, err)

	createCompletedAttendance(t, ctx, db, emp, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), 10, 5, 19, 10)
	createCompletedAttendance(t, ctx, db, emp, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), 10, 5, 19, 10)

	rows, err := svc.EvaluateEmployee(ctx, emp.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, created.ID, rows[0].Achievement.ID)
	assert.True(t, rows[0].Unlocked)
	assert.Equal(t, 100, rows[0].Progress)

	// Re-running the evaluation must not pay the reward again.
	rows, err = svc.EvaluateEmployee(ctx, emp.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Unlocked)

	category := string(gamification.CategoryAchievementBonus)
	ledger, err := svc.ListLedger(ctx, emp.ID, gamification.LedgerFilter{Category: &category})
	require.NoError(t, err)
	assert.Equal(t, int64(1), ledger.Total)

	bal, err := svc.GetBalance(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, bal.Points)
}

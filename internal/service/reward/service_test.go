package reward

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

	"github.com/staffops-hq/staffops-backend-go/internal/config"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/employee"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/gamification"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/reward"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/database"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/email"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/sse"
	"github.com/staffops-hq/staffops-backend-go/internal/repository/postgresql"
)

var rewardTestDB *database.DB

func rewardTestInit(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	if rewardTestDB == nil {
		db, err := database.NewPostgreSQLDB(dsn)
		require.NoError(t, err)
		rewardTestDB = db
	}
	return rewardTestDB
}

func rewardClaimsContext(t *testing.T, employeeID, companyID string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("reward-test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"company_id":  companyID,
		"role":        "ADMIN",
		"type":        "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func createRewardEmployee(t *testing.T, ctx context.Context, db *database.DB, companyID string) employee.Employee {
	t.Helper()
	repo := postgresql.NewEmployeeRepository(db)
	emp, err := repo.Create(ctx, employee.Employee{
		CompanyID:    companyID,
		EmployeeCode: fmt.Sprintf("OPS-%d", time.Now().UnixNano()),
		FullName:     "Redeem Tester",
		Email:        fmt.Sprintf("redeem-%d@example.com", time.Now().UnixNano()),
		Role:         employee.RoleEmployee,
		Active:       true,
	})
	require.NoError(t, err)
	return emp
}

func seedCoins(t *testing.T, ctx context.Context, db *database.DB, emp employee.Employee, amount int) {
	t.Helper()
	ledgerRepo := postgresql.NewLedgerRepository(db)
	_, err := ledgerRepo.AppendEntry(ctx, gamification.LedgerEntry{
		EmployeeID: emp.ID,
		CompanyID:  emp.CompanyID,
		Currency:   gamification.CurrencyCoins,
		Amount:     amount,
		Category:   gamification.CategoryManualAdjustment,
		Reason:     "test seed",
	})
	require.NoError(t, err)
}

func coinBalance(t *testing.T, ctx context.Context, db *database.DB, emp employee.Employee) int {
	t.Helper()
	ledgerRepo := postgresql.NewLedgerRepository(db)
	balance, err := ledgerRepo.GetBalance(ctx, emp.ID, gamification.CurrencyCoins, emp.CompanyID)
	require.NoError(t, err)
	return balance
}

func newRewardTestService(t *testing.T, db *database.DB) reward.RewardService {
	t.Helper()
	// SMTP is unconfigured so sends are skipped, same as a dev environment.
	emailSvc, err := email.NewEmailService(config.SMTPConfig{})
	require.NoError(t, err)
	return NewRewardService(
		db,
		postgresql.NewRewardRepository(db),
		postgresql.NewRedemptionRepository(db),
		postgresql.NewLedgerRepository(db),
		postgresql.NewEmployeeRepository(db),
		emailSvc,
		sse.NewHub(),
	)
}

func createTestReward(t *testing.T, ctx context.Context, svc reward.RewardService, cost, stock int) reward.Response {
	t.Helper()
	stockVal := stock
	created, err := svc.CreateReward(ctx, reward.CreateRequest{
		Name:        fmt.Sprintf("Coffee Voucher %d", time.Now().UnixNano()),
		Description: "One free coffee",
		Currency:    "COINS",
		Cost:        cost,
		Stock:       &stockVal,
	})
	require.NoError(t, err)
	return created
}

func TestRewardService_Redeem_DebitsBalanceAndDecrementsStock(t *testing.T) {
	db := rewardTestInit(t)
	ctx := context.Background()

	companyID := uuid.NewString()
	emp := createRewardEmployee(t, ctx, db, companyID)
	ctx = rewardClaimsContext(t, emp.ID, companyID)
	svc := newRewardTestService(t, db)

	seedCoins(t, ctx, db, emp, 100)
	rw := createTestReward(t, ctx, svc, 40, 3)

	rd, err := svc.Redeem(ctx, rw.ID)
	require.NoError(t, err)
	assert.Equal(t, string(reward.StatusPending), rd.Status)
	assert.Equal(t, 40, rd.Cost)

	assert.Equal(t, 60, coinBalance(t, ctx, db, emp))

	after, err := svc.GetReward(ctx, rw.ID)
	require.NoError(t, err)
	require.NotNil(t, after.Stock)
	assert.Equal(t, 2, *after.Stock)
}

func TestRewardService_Redeem_InsufficientBalanceLeavesStockUntouched(t *testing.T) {
	db := rewardTestInit(t)
	ctx := context.Background()

	companyID := uuid.NewString()
	emp := createRewardEmployee(t, ctx, db, companyID)
	ctx = rewardClaimsContext(t, emp.ID, companyID)
	svc := newRewardTestService(t, db)

	seedCoins(t, ctx, db, emp, 10)
	rw := createTestReward(t, ctx, svc, 40, 3)

	_, err := svc.Redeem(ctx, rw.ID)
	var insufficient *gamification.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 40, insufficient.Required)
	assert.Equal(t, 10, insufficient.Available)

	// Nothing from the rolled-back transaction may be visible.
	assert.Equal(t, 10, coinBalance(t, ctx, db, emp))

	after, err := svc.GetReward(ctx, rw.ID)
	require.NoError(t, err)
	require.NotNil(t, after.Stock)
	assert.Equal(t, 3, *after.Stock)

	mine, err := svc.ListMyRedemptions(ctx, reward.RedemptionFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), mine.Total)
}

func TestRewardService_Redeem_LastUnitGoesToExactlyOneEmployee(t *testing.T) {
	db := rewardTestInit(t)
	ctx := context.Background()

	companyID := uuid.NewString()
	empA := createRewardEmployee(t, ctx, db, companyID)
	empB := createRewardEmployee(t, ctx, db, companyID)
	ctxA := rewardClaimsContext(t, empA.ID, companyID)
	ctxB := rewardClaimsContext(t, empB.ID, companyID)
	svc := newRewardTestService(t, db)

	seedCoins(t, ctxA, db, empA, 100)
	seedCoins(t, ctxB, db, empB, 100)
	rw := createTestReward(t, ctxA, svc, 40, 1)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.Redeem(ctxA, rw.ID)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = svc.Redeem(ctxB, rw.ID)
	}()
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, reward.ErrOutOfStock)
	}
	assert.Equal(t, 1, succeeded)

	after, err := svc.GetReward(ctxA, rw.ID)
	require.NoError(t, err)
	require.NotNil(t, after.Stock)
	assert.Equal(t, 0, *after.Stock)

	// The loser keeps their coins.
	balances := coinBalance(t, ctxA, db, empA) + coinBalance(t, ctxB, db, empB)
	assert.Equal(t, 160, balances)
}

func TestRewardService_RejectRedemption_RefundsAndRestoresStock(t *testing.T) {
	db := rewardTestInit(t)
	ctx := context.Background()

	companyID := uuid.NewString()
	emp := createRewardEmployee(t, ctx, db, companyID)
	ctx = rewardClaimsContext(t, emp.ID, companyID)
	svc := newRewardTestService(t, db)

	seedCoins(t, ctx, db, emp, 100)
	rw := createTestReward(t, ctx, svc, 40, 3)

	rd, err := svc.Redeem(ctx, rw.ID)
	require.NoError(t, err)
	require.Equal(t, 60, coinBalance(t, ctx, db, emp))

	note := "out of vouchers this month"
	rejected, err := svc.RejectRedemption(ctx, rd.ID, reward.ProcessRequest{Note: &note})
	require.NoError(t, err)
	assert.Equal(t, string(reward.StatusRejected), rejected.Status)

	assert.Equal(t, 100, coinBalance(t, ctx, db, emp))

	after, err := svc.GetReward(ctx, rw.ID)
	require.NoError(t, err)
	require.NotNil(t, after.Stock)
	assert.Equal(t, 3, *after.Stock)

	// A decided redemption cannot be decided again.
	_, err = svc.RejectRedemption(ctx, rd.ID, reward.ProcessRequest{})
	assert.ErrorIs(t, err, reward.ErrAlreadyProcessed)
}

func TestRewardService_FulfillRedemption_RequiresApproval(t *testing.T) {
	db := rewardTestInit(t)
	ctx := context.Background()

	companyID := uuid.NewString()
	emp := createRewardEmployee(t, ctx, db, companyID)
	ctx = rewardClaimsContext(t, emp.ID, companyID)
	svc := newRewardTestService(t, db)

	seedCoins(t, ctx, db, emp, 100)
	rw := createTestReward(t, ctx, svc, 40, 3)

	rd, err := svc.Redeem(ctx, rw.ID)
	require.NoError(t, err)

	_, err = svc.FulfillRedemption(ctx, rd.ID)
	assert.ErrorIs(t, err, reward.ErrNotApproved)

	approved, err := svc.ApproveRedemption(ctx, rd.ID, reward.ProcessRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(reward.StatusApproved), approved.Status)

	fulfilled, err := svc.FulfillRedemption(ctx, rd.ID)
	require.NoError(t, err)
	assert.Equal(t, string(reward.StatusFulfilled), fulfilled.Status)
}

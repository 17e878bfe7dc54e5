package postgresql

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/employee"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/gamification"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/database"
)

var txTestDB *database.DB

func txTestInit(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	if txTestDB == nil {
		db, err := database.NewPostgreSQLDB(dsn)
		require.NoError(t, err)
		txTestDB = db
	}
	return txTestDB
}

func createTxEmployee(t *testing.T, ctx context.Context, db *database.DB, companyID string) employee.Employee {
	t.Helper()
	emp, err := NewEmployeeRepository(db).Create(ctx, employee.Employee{
		CompanyID:    companyID,
		EmployeeCode: fmt.Sprintf("OPS-%d", time.Now().UnixNano()),
		FullName:     "Transaction Tester",
		Email:        fmt.Sprintf("tx-%d@example.com", time.Now().UnixNano()),
		Role:         employee.RoleEmployee,
		Active:       true,
	})
	require.NoError(t, err)
	return emp
}

func TestWithTransaction_FnContextJoinsTransaction(t *testing.T) {
	db := txTestInit(t)
	ctx := context.Background()

	companyID := uuid.NewString()
	emp := createTxEmployee(t, ctx, db, companyID)
	ledgerRepo := NewLedgerRepository(db)

	err := WithTransaction(ctx, db, func(txCtx context.Context) error {
		_, err := ledgerRepo.AppendEntry(txCtx, gamification.LedgerEntry{
			EmployeeID: emp.ID,
			CompanyID:  companyID,
			Currency:   gamification.CurrencyPoints,
			Amount:     10,
			Category:   gamification.CategoryManualAdjustment,
			Reason:     "inside transaction",
		})
		if err != nil {
			return err
		}

		// Reads through the transaction context see the uncommitted write;
		// reads through the pool do not.
		inTx, err := ledgerRepo.GetBalance(txCtx, emp.ID, gamification.CurrencyPoints, companyID)
		if err != nil {
			return err
		}
		assert.Equal(t, 10, inTx)

		outside, err := ledgerRepo.GetBalance(ctx, emp.ID, gamification.CurrencyPoints, companyID)
		if err != nil {
			return err
		}
		assert.Equal(t, 0, outside)
		return nil
	})
	require.NoError(t, err)

	// Committed now.
	after, err := ledgerRepo.GetBalance(ctx, emp.ID, gamification.CurrencyPoints, companyID)
	require.NoError(t, err)
	assert.Equal(t, 10, after)
}

func TestWithTransaction_ErrorRollsBackEveryWrite(t *testing.T) {
	db := txTestInit(t)
	ctx := context.Background()

	companyID := uuid.NewString()
	emp := createTxEmployee(t, ctx, db, companyID)
	ledgerRepo := NewLedgerRepository(db)

	boom := errors.New("second step failed")
	err := WithTransaction(ctx, db, func(txCtx context.Context) error {
		if _, err := ledgerRepo.AppendEntry(txCtx, gamification.LedgerEntry{
			EmployeeID: emp.ID,
			CompanyID:  companyID,
			Currency:   gamification.CurrencyPoints,
			Amount:     10,
			Category:   gamification.CategoryManualAdjustment,
			Reason:     "will be rolled back",
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	balance, err := ledgerRepo.GetBalance(ctx, emp.ID, gamification.CurrencyPoints, companyID)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)

	entries, total, err := ledgerRepo.List(ctx, emp.ID, gamification.LedgerFilter{}, companyID)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, int64(0), total)
}

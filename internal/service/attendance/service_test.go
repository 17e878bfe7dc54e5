package attendance

import (
	"context"
	"fmt"
	"os"
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
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/sse"
	"github.com/staffops-hq/staffops-backend-go/internal/repository/postgresql"
	gamificationService "github.com/staffops-hq/staffops-backend-go/internal/service/gamification"
)

var attTestDB *database.DB

func attTestInit(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	if attTestDB == nil {
		db, err := database.NewPostgreSQLDB(dsn)
		require.NoError(t, err)
		attTestDB = db
	}
	return attTestDB
}

func attClaimsContext(t *testing.T, employeeID, companyID string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("attendance-test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"company_id":  companyID,
		"role":        "ADMIN",
		"type":        "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func createAttEmployee(t *testing.T, ctx context.Context, db *database.DB, companyID string) employee.Employee {
	t.Helper()
	repo := postgresql.NewEmployeeRepository(db)
	emp, err := repo.Create(ctx, employee.Employee{
		CompanyID:    companyID,
		EmployeeCode: fmt.Sprintf("OPS-%d", time.Now().UnixNano()),
		FullName:     "Attendance Tester",
		Email:        fmt.Sprintf("attendance-%d@example.com", time.Now().UnixNano()),
		Role:         employee.RoleEmployee,
		Active:       true,
	})
	require.NoError(t, err)
	return emp
}

// newAttTestService wires the attendance service against a real gamification
// service so check-out exercises the punctuality award end to end. The
// returned setter moves the test clock.
func newAttTestService(db *database.DB, start time.Time) (attendance.AttendanceService, gamification.Service, func(time.Time)) {
	now := start
	clock := func() time.Time { return now }

	gamSvc := gamificationService.NewGamificationService(
		db,
		postgresql.NewLedgerRepository(db),
		postgresql.NewAchievementRepository(db),
		postgresql.NewAttendanceRepository(db),
		sse.NewHub(),
		15,
		time.UTC,
		clock,
	)
	svc := NewAttendanceService(
		db,
		postgresql.NewAttendanceRepository(db),
		postgresql.NewBreakRepository(db),
		postgresql.NewEmployeeRepository(db),
		gamSvc,
		time.UTC,
		clock,
	)
	return svc, gamSvc, func(ts time.Time) { now = ts }
}

func TestAttendanceService_CheckIn_RejectsSecondCheckIn(t *testing.T) {
	db := attTestInit(t)
	companyID := uuid.NewString()
	emp := createAttEmployee(t, context.Background(), db, companyID)
	ctx := attClaimsContext(t, emp.ID, companyID)

	svc, _, _ := newAttTestService(db, time.Date(2025, 3, 10, 10, 5, 0, 0, time.UTC))

	rec, err := svc.CheckIn(ctx)
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusPresent), rec.Status)
	require.NotNil(t, rec.CheckIn)

	_, err = svc.CheckIn(ctx)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestAttendanceService_CheckIn_AfterWindowIsLate(t *testing.T) {
	db := attTestInit(t)
	companyID := uuid.NewString()
	emp := createAttEmployee(t, context.Background(), db, companyID)
	ctx := attClaimsContext(t, emp.ID, companyID)

	svc, _, _ := newAttTestService(db, time.Date(2025, 3, 10, 10, 45, 0, 0, time.UTC))

	rec, err := svc.CheckIn(ctx)
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusLate), rec.Status)
}

func TestAttendanceService_CheckOut_ComputesMinutesAndAwardsPunctuality(t *testing.T) {
	db := attTestInit(t)
	companyID := uuid.NewString()
	emp := createAttEmployee(t, context.Background(), db, companyID)
	ctx := attClaimsContext(t, emp.ID, companyID)

	svc, gamSvc, setClock := newAttTestService(db, time.Date(2025, 3, 10, 10, 5, 0, 0, time.UTC))

	_, err := svc.CheckIn(ctx)
	require.NoError(t, err)

	setClock(time.Date(2025, 3, 10, 19, 10, 0, 0, time.UTC))
	rec, err := svc.CheckOut(ctx)
	require.NoError(t, err)
	require.NotNil(t, rec.WorkMinutes)
	assert.Equal(t, 545, *rec.WorkMinutes)

	// 10:05 in and 19:10 out are both inside the punctuality windows.
	bal, err := gamSvc.GetBalance(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, bal.Points)

	_, err = svc.CheckOut(ctx)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestAttendanceService_StartBreak_RejectsSecondActiveBreak(t *testing.T) {
	db := attTestInit(t)
	companyID := uuid.NewString()
	emp := createAttEmployee(t, context.Background(), db, companyID)
	ctx := attClaimsContext(t, emp.ID, companyID)

	svc, _, setClock := newAttTestService(db, time.Date(2025, 3, 10, 10, 5, 0, 0, time.UTC))

	_, err := svc.CheckIn(ctx)
	require.NoError(t, err)

	setClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	_, err = svc.StartBreak(ctx)
	require.NoError(t, err)

	_, err = svc.StartBreak(ctx)
	assert.ErrorIs(t, err, attendance.ErrBreakAlreadyActive)
}

func TestAttendanceService_EndBreak_WithoutActiveBreak(t *testing.T) {
	db := attTestInit(t)
	companyID := uuid.NewString()
	emp := createAttEmployee(t, context.Background(), db, companyID)
	ctx := attClaimsContext(t, emp.ID, companyID)

	svc, _, _ := newAttTestService(db, time.Date(2025, 3, 10, 10, 5, 0, 0, time.UTC))

	_, err := svc.CheckIn(ctx)
	require.NoError(t, err)

	_, err = svc.EndBreak(ctx)
	assert.ErrorIs(t, err, attendance.ErrNoActiveBreak)
}

func TestAttendanceService_BreakMinutesReduceWorkMinutes(t *testing.T) {
	db := attTestInit(t)
	companyID := uuid.NewString()
	emp := createAttEmployee(t, context.Background(), db, companyID)
	ctx := attClaimsContext(t, emp.ID, companyID)

	svc, _, setClock := newAttTestService(db, time.Date(2025, 3, 10, 10, 5, 0, 0, time.UTC))

	_, err := svc.CheckIn(ctx)
	require.NoError(t, err)

	setClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	_, err = svc.StartBreak(ctx)
	require.NoError(t, err)

	setClock(time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC))
	brk, err := svc.EndBreak(ctx)
	require.NoError(t, err)
	require.NotNil(t, brk.DurationMinutes)
	assert.Equal(t, 30, *brk.DurationMinutes)

	setClock(time.Date(2025, 3, 10, 19, 10, 0, 0, time.UTC))
	rec, err := svc.CheckOut(ctx)
	require.NoError(t, err)
	require.NotNil(t, rec.BreakMinutes)
	assert.Equal(t, 30, *rec.BreakMinutes)
	require.NotNil(t, rec.WorkMinutes)
	assert.Equal(t, 515, *rec.WorkMinutes)
}

func TestAttendanceService_EditAttendance_WritesHistoryAtomically(t *testing.T) {
	db := attTestInit(t)
	companyID := uuid.NewString()
	emp := createAttEmployee(t, context.Background(), db, companyID)
	ctx := attClaimsContext(t, emp.ID, companyID)

	svc, _, setClock := newAttTestService(db, time.Date(2025, 3, 10, 10, 5, 0, 0, time.UTC))

	_, err := svc.CheckIn(ctx)
	require.NoError(t, err)
	setClock(time.Date(2025, 3, 10, 19, 10, 0, 0, time.UTC))
	rec, err := svc.CheckOut(ctx)
	require.NoError(t, err)

	newStatus := string(attendance.StatusWFHApproved)
	edited, err := svc.EditAttendance(ctx, rec.ID, attendance.EditRequest{
		Status: &newStatus,
		Reason: "worked from home with prior approval",
	})
	require.NoError(t, err)
	assert.Equal(t, newStatus, edited.Status)

	history, err := svc.GetEditHistory(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "status", history[0].Field)
	assert.Equal(t, emp.ID, history[0].EditedBy)

	// An edit that changes nothing is rejected and leaves no history.
	_, err = svc.EditAttendance(ctx, rec.ID, attendance.EditRequest{
		Status: &newStatus,
		Reason: "same value again",
	})
	assert.ErrorIs(t, err, attendance.ErrNothingToEdit)

	history, err = svc.GetEditHistory(ctx, rec.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

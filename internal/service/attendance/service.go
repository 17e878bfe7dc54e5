package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/attendance"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/employee"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/gamification"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/database"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/jwt"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/paycycle"
	"github.com/staffops-hq/staffops-backend-go/internal/repository/postgresql"
)

// A day shorter than this many worked minutes is recorded as HALF_DAY.
const fullDayMinimumMinutes = 240

// Check-ins after this minute of day (10:30 portal time) are marked LATE.
const lateThresholdMinutes = 10*60 + 30

type AttendanceServiceImpl struct {
	db              *database.DB
	attendanceRepo  attendance.AttendanceRepository
	breakRepo       attendance.BreakRepository
	employeeRepo    employee.EmployeeRepository
	gamificationSvc gamification.Service
	loc             *time.Location
	clock           paycycle.Clock
}

func NewAttendanceService(
	db *database.DB,
	attendanceRepo attendance.AttendanceRepository,
	breakRepo attendance.BreakRepository,
	employeeRepo employee.EmployeeRepository,
	gamificationSvc gamification.Service,
	loc *time.Location,
	clock paycycle.Clock,
) attendance.AttendanceService {
	if clock == nil {
		clock = time.Now
	}
	return &AttendanceServiceImpl{
		db:              db,
		attendanceRepo:  attendanceRepo,
		breakRepo:       breakRepo,
		employeeRepo:    employeeRepo,
		gamificationSvc: gamificationSvc,
		loc:             loc,
		clock:           clock,
	}
}

// workDate truncates an instant to the work date in the portal timezone.
func (a *AttendanceServiceImpl) workDate(t time.Time) time.Time {
	local := t.In(a.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context) (attendance.Response, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.Response{}, err
	}
	return a.checkIn(ctx, claims.EmployeeID, claims.CompanyID)
}

func (a *AttendanceServiceImpl) checkIn(ctx context.Context, employeeID, companyID string) (attendance.Response, error) {
	nowUTC := a.clock().UTC()
	date := a.workDate(nowUTC)

	existing, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, date, companyID)
	if err != nil {
		return attendance.Response{}, fmt.Errorf("failed to look up today's record: %w", err)
	}
	if existing != nil && existing.CheckIn != nil {
		return attendance.Response{}, attendance.ErrAlreadyCheckedIn
	}

	status := attendance.StatusPresent
	nowLocal := nowUTC.In(a.loc)
	if nowLocal.Hour()*60+nowLocal.Minute() > lateThresholdMinutes {
		status = attendance.StatusLate
	}

	if existing != nil {
		// An ABSENT record from the nightly sweep, or a WFH-approved stub.
		existing.CheckIn = &nowUTC
		if existing.Status != attendance.StatusWFHApproved {
			existing.Status = status
		}
		if err := a.attendanceRepo.Update(ctx, *existing); err != nil {
			return attendance.Response{}, fmt.Errorf("failed to check in: %w", err)
		}
		return attendance.ToResponse(*existing), nil
	}

	rec, err := a.attendanceRepo.Create(ctx, attendance.Attendance{
		EmployeeID: employeeID,
		CompanyID:  companyID,
		Date:       date,
		CheckIn:    &nowUTC,
		Status:     status,
	})
	if err != nil {
		return attendance.Response{}, err
	}

	return attendance.ToResponse(rec), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context) (attendance.Response, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.Response{}, err
	}
	return a.checkOut(ctx, claims.EmployeeID, claims.CompanyID)
}

func (a *AttendanceServiceImpl) checkOut(ctx context.Context, employeeID, companyID string) (attendance.Response, error) {
	nowUTC := a.clock().UTC()
	date := a.workDate(nowUTC)

	rec, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, date, companyID)
	if err != nil {
		return attendance.Response{}, fmt.Errorf("failed to look up today's record: %w", err)
	}
	if rec == nil || rec.CheckIn == nil {
		return attendance.Response{}, attendance.ErrNotCheckedIn
	}
	if rec.CheckOut != nil {
		return attendance.Response{}, attendance.ErrAlreadyCheckedOut
	}

	// An open break ends implicitly at check-out.
	if active, err := a.breakRepo.GetActive(ctx, employeeID, companyID); err == nil && active != nil {
		if _, err := a.endBreak(ctx, rec, active, nowUTC); err != nil {
			return attendance.Response{}, err
		}
	}

	breakMinutes := 0
	if rec.BreakMinutes != nil {
		breakMinutes = *rec.BreakMinutes
	}
	workMinutes := int(nowUTC.Sub(*rec.CheckIn).Minutes()) - breakMinutes
	if workMinutes < 0 {
		workMinutes = 0
	}

	rec.CheckOut = &nowUTC
	rec.WorkMinutes = &workMinutes
	if workMinutes < fullDayMinimumMinutes {
		rec.Status = attendance.StatusHalfDay
	}

	if err := a.attendanceRepo.Update(ctx, *rec); err != nil {
		return attendance.Response{}, fmt.Errorf("failed to check out: %w", err)
	}

	if err := a.gamificationSvc.EvaluateAttendance(ctx, *rec); err != nil {
		// The nightly sweep retries; the check-out itself succeeded.
		slog.Error("Failed to evaluate punctuality on check-out",
			"attendance_id", rec.ID,
			"employee_id", employeeID,
			"error", err)
	}

	return attendance.ToResponse(*rec), nil
}

// KioskCheck implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) KioskCheck(ctx context.Context, req attendance.KioskCheckRequest) (attendance.Response, error) {
	if err := req.Validate(); err != nil {
		return attendance.Response{}, err
	}

	// The kiosk is pinned to one company via its own credential; the company
	// scope comes from the kiosk token claims.
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.Response{}, err
	}

	emp, err := a.employeeRepo.GetByCode(ctx, req.EmployeeCode, claims.CompanyID)
	if err != nil {
		return attendance.Response{}, err
	}
	if !emp.Active {
		return attendance.Response{}, employee.ErrEmployeeInactive
	}
	if emp.KioskPINHash == nil || *emp.KioskPINHash == "" {
		return attendance.Response{}, employee.ErrPINNotSet
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*emp.KioskPINHash), []byte(req.PIN)); err != nil {
		return attendance.Response{}, employee.ErrInvalidPIN
	}

	date := a.workDate(a.clock().UTC())
	rec, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, date, claims.CompanyID)
	if err != nil {
		return attendance.Response{}, fmt.Errorf("failed to look up today's record: %w", err)
	}

	// Toggle: no open record means check-in, an open one means check-out.
	if rec == nil || rec.CheckIn == nil {
		return a.checkIn(ctx, emp.ID, claims.CompanyID)
	}
	return a.checkOut(ctx, emp.ID, claims.CompanyID)
}

// StartBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) StartBreak(ctx context.Context) (attendance.BreakResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.BreakResponse{}, err
	}

	nowUTC := a.clock().UTC()
	date := a.workDate(nowUTC)

	rec, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, claims.EmployeeID, date, claims.CompanyID)
	if err != nil {
		return attendance.BreakResponse{}, fmt.Errorf("failed to look up today's record: %w", err)
	}
	if rec == nil || rec.CheckIn == nil {
		return attendance.BreakResponse{}, attendance.ErrNotCheckedIn
	}
	if rec.CheckOut != nil {
		return attendance.BreakResponse{}, attendance.ErrAlreadyCheckedOut
	}

	brk, err := a.breakRepo.CreateActive(ctx, attendance.Break{
		EmployeeID:   claims.EmployeeID,
		CompanyID:    claims.CompanyID,
		AttendanceID: &rec.ID,
		StartedAt:    nowUTC,
	})
	if err != nil {
		return attendance.BreakResponse{}, err
	}

	return attendance.ToBreakResponse(brk), nil
}

// EndBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) EndBreak(ctx context.Context) (attendance.BreakResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.BreakResponse{}, err
	}

	active, err := a.breakRepo.GetActive(ctx, claims.EmployeeID, claims.CompanyID)
	if err != nil {
		return attendance.BreakResponse{}, fmt.Errorf("failed to look up active break: %w", err)
	}
	if active == nil {
		return attendance.BreakResponse{}, attendance.ErrNoActiveBreak
	}

	nowUTC := a.clock().UTC()
	date := a.workDate(nowUTC)
	rec, err := a.attendanceRepo.GetByEmployeeAndDate(ctx, claims.EmployeeID, date, claims.CompanyID)
	if err != nil {
		return attendance.BreakResponse{}, fmt.Errorf("failed to look up today's record: %w", err)
	}

	brk, err := a.endBreak(ctx, rec, active, nowUTC)
	if err != nil {
		return attendance.BreakResponse{}, err
	}

	return attendance.ToBreakResponse(brk), nil
}

// endBreak closes the break and folds its duration into the attendance
// record's break minutes, atomically.
func (a *AttendanceServiceImpl) endBreak(ctx context.Context, rec *attendance.Attendance, active *attendance.Break, nowUTC time.Time) (attendance.Break, error) {
	duration := int(nowUTC.Sub(active.StartedAt).Minutes())
	if duration < 0 {
		duration = 0
	}
	active.EndedAt = &nowUTC
	active.DurationMinutes = &duration

	var ended attendance.Break
	err := postgresql.WithTransaction(ctx, a.db, func(txCtx context.Context) error {
		var err error
		ended, err = a.breakRepo.End(txCtx, *active)
		if err != nil {
			return err
		}

		if rec != nil {
			total := duration
			if rec.BreakMinutes != nil {
				total += *rec.BreakMinutes
			}
			rec.BreakMinutes = &total
			return a.attendanceRepo.Update(txCtx, *rec)
		}
		return nil
	})
	if err != nil {
		return attendance.Break{}, fmt.Errorf("failed to end break: %w", err)
	}

	return ended, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.Filter) (attendance.ListResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.ListResponse{}, err
	}

	filter.EmployeeID = &claims.EmployeeID
	filter.TeamID = nil
	return a.list(ctx, filter, claims.CompanyID)
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.Filter) (attendance.ListResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.ListResponse{}, err
	}
	return a.list(ctx, filter, claims.CompanyID)
}

func (a *AttendanceServiceImpl) list(ctx context.Context, filter attendance.Filter, companyID string) (attendance.ListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	records, total, err := a.attendanceRepo.List(ctx, filter, companyID)
	if err != nil {
		return attendance.ListResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	resp := attendance.ListResponse{
		Records: make([]attendance.Response, 0, len(records)),
		Total:   total,
		Page:    filter.Page,
		Limit:   filter.Limit,
	}
	for _, rec := range records {
		resp.Records = append(resp.Records, attendance.ToResponse(rec))
	}
	return resp, nil
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.Response, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.Response{}, err
	}

	rec, err := a.attendanceRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return attendance.Response{}, err
	}
	return attendance.ToResponse(rec), nil
}

// EditAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) EditAttendance(ctx context.Context, id string, req attendance.EditRequest) (attendance.Response, error) {
	if err := req.Validate(); err != nil {
		return attendance.Response{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.Response{}, err
	}

	rec, err := a.attendanceRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return attendance.Response{}, err
	}

	var history []attendance.EditHistory

	if req.CheckIn != nil {
		parsed, _ := time.Parse(time.RFC3339, *req.CheckIn)
		parsed = parsed.UTC()
		if rec.CheckIn == nil || !rec.CheckIn.Equal(parsed) {
			history = append(history, attendance.EditHistory{
				AttendanceID: rec.ID,
				Field:        "check_in",
				OldValue:     timeValue(rec.CheckIn),
				NewValue:     timeValue(&parsed),
				EditedBy:     claims.EmployeeID,
				Reason:       req.Reason,
			})
			rec.CheckIn = &parsed
		}
	}

	if req.CheckOut != nil {
		parsed, _ := time.Parse(time.RFC3339, *req.CheckOut)
		parsed = parsed.UTC()
		if rec.CheckOut == nil || !rec.CheckOut.Equal(parsed) {
			history = append(history, attendance.EditHistory{
				AttendanceID: rec.ID,
				Field:        "check_out",
				OldValue:     timeValue(rec.CheckOut),
				NewValue:     timeValue(&parsed),
				EditedBy:     claims.EmployeeID,
				Reason:       req.Reason,
			})
			rec.CheckOut = &parsed
		}
	}

	if req.Status != nil && string(rec.Status) != *req.Status {
		oldStatus := string(rec.Status)
		history = append(history, attendance.EditHistory{
			AttendanceID: rec.ID,
			Field:        "status",
			OldValue:     &oldStatus,
			NewValue:     req.Status,
			EditedBy:     claims.EmployeeID,
			Reason:       req.Reason,
		})
		rec.Status = attendance.Status(*req.Status)
	}

	if len(history) == 0 {
		return attendance.Response{}, attendance.ErrNothingToEdit
	}

	// Re-derive work minutes when both instants are now present.
	if rec.CheckIn != nil && rec.CheckOut != nil {
		breakMinutes := 0
		if rec.BreakMinutes != nil {
			breakMinutes = *rec.BreakMinutes
		}
		workMinutes := int(rec.CheckOut.Sub(*rec.CheckIn).Minutes()) - breakMinutes
		if workMinutes < 0 {
			workMinutes = 0
		}
		rec.WorkMinutes = &workMinutes
	}

	err = postgresql.WithTransaction(ctx, a.db, func(txCtx context.Context) error {
		if err := a.attendanceRepo.Update(txCtx, rec); err != nil {
			return err
		}
		for _, h := range history {
			if err := a.attendanceRepo.AppendEditHistory(txCtx, h); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return attendance.Response{}, fmt.Errorf("failed to edit attendance: %w", err)
	}

	// An edit can turn the day punctual; the award guard keeps this
	// idempotent when it already was.
	if err := a.gamificationSvc.EvaluateAttendance(ctx, rec); err != nil {
		slog.Error("Failed to evaluate punctuality after edit",
			"attendance_id", rec.ID,
			"error", err)
	}

	return attendance.ToResponse(rec), nil
}

// GetEditHistory implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetEditHistory(ctx context.Context, id string) ([]attendance.EditHistoryResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := a.attendanceRepo.GetByID(ctx, id, claims.CompanyID); err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil, attendance.ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}

	rows, err := a.attendanceRepo.ListEditHistory(ctx, id, claims.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list edit history: %w", err)
	}

	resp := make([]attendance.EditHistoryResponse, 0, len(rows))
	for _, h := range rows {
		resp = append(resp, attendance.ToEditHistoryResponse(h))
	}
	return resp, nil
}

func timeValue(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

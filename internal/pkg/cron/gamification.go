package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/attendance"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/employee"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/database"
)

// PunctualityEvaluator awards punctuality bonuses and achievement progress
// for one completed attendance record. Idempotent per record.
type PunctualityEvaluator interface {
	EvaluateAttendance(ctx context.Context, att attendance.Attendance) error
}

// GamificationJobs sweeps yesterday's attendance: completed records go
// through punctuality evaluation, missing records become ABSENT rows.
type GamificationJobs struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	evaluator      PunctualityEvaluator
	db             *database.DB
	loc            *time.Location
}

func NewGamificationJobs(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	evaluator PunctualityEvaluator,
	db *database.DB,
	loc *time.Location,
) *GamificationJobs {
	return &GamificationJobs{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		evaluator:      evaluator,
		db:             db,
		loc:            loc,
	}
}

func (j *GamificationJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("award_punctuality_bonuses", 1*time.Hour, j.AwardPunctualityBonuses)
	scheduler.AddJob("mark_absent_employees", 1*time.Hour, j.MarkAbsentEmployees)
}

func (j *GamificationJobs) companyIDs(ctx context.Context) ([]string, error) {
	rows, err := j.db.Pool.Query(ctx, `SELECT DISTINCT company_id FROM employees WHERE active`)
	if err != nil {
		return nil, fmt.Errorf("failed to get companies: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// yesterday returns the previous work date at day granularity in the portal
// timezone.
func (j *GamificationJobs) yesterday() time.Time {
	now := time.Now().In(j.loc).AddDate(0, 0, -1)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// AwardPunctualityBonuses re-evaluates yesterday's completed records. The
// interactive check-out path already awards in real time; this sweep covers
// admin-edited records and check-outs the award failed on. Only runs in the
// midnight hour (00:00-00:59 portal time).
func (j *GamificationJobs) AwardPunctualityBonuses(ctx context.Context) error {
	if time.Now().In(j.loc).Hour() != 0 {
		return nil
	}

	slog.Info("Cron: Starting punctuality bonus sweep")

	companyIDs, err := j.companyIDs(ctx)
	if err != nil {
		return err
	}

	date := j.yesterday()
	evaluated := 0

	for _, companyID := range companyIDs {
		records, err := j.attendanceRepo.ListCompletedOnDate(ctx, date, companyID)
		if err != nil {
			slog.Error("Cron: Failed to list completed attendances", "company_id", companyID, "error", err)
			continue
		}

		for _, rec := range records {
			if err := j.evaluator.EvaluateAttendance(ctx, rec); err != nil {
				slog.Error("Cron: Failed to evaluate attendance",
					"attendance_id", rec.ID,
					"employee_id", rec.EmployeeID,
					"error", err)
				continue
			}
			evaluated++
		}
	}

	slog.Info("Cron: Punctuality bonus sweep done", "evaluated", evaluated)
	return nil
}

// MarkAbsentEmployees writes ABSENT records for active employees with no
// record yesterday. Only runs in the midnight hour (00:00-00:59 portal time).
func (j *GamificationJobs) MarkAbsentEmployees(ctx context.Context) error {
	if time.Now().In(j.loc).Hour() != 0 {
		return nil
	}

	slog.Info("Cron: Starting mark absent employees job")

	companyIDs, err := j.companyIDs(ctx)
	if err != nil {
		return err
	}

	date := j.yesterday()
	totalAbsent := 0

	for _, companyID := range companyIDs {
		employees, err := j.employeeRepo.ListActive(ctx, companyID)
		if err != nil {
			slog.Error("Cron: Failed to get employees", "company_id", companyID, "error", err)
			continue
		}

		var absences []attendance.Attendance
		for _, emp := range employees {
			existing, err := j.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, date, companyID)
			if err != nil || existing != nil {
				continue
			}

			zero := 0
			absences = append(absences, attendance.Attendance{
				EmployeeID:  emp.ID,
				CompanyID:   companyID,
				Date:        date,
				Status:      attendance.StatusAbsent,
				WorkMinutes: &zero,
			})
		}

		if len(absences) == 0 {
			continue
		}

		if err := j.attendanceRepo.BulkCreateAbsences(ctx, absences); err != nil {
			slog.Error("Cron: Failed to bulk create absences", "company_id", companyID, "error", err)
			continue
		}
		totalAbsent += len(absences)
	}

	slog.Info("Cron: Marked absent employees", "count", totalAbsent)
	return nil
}

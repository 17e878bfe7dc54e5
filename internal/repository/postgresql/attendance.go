package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/attendance"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			employee_id, company_id, date, check_in, check_out,
			work_minutes, break_minutes, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.EmployeeID,
		att.CompanyID,
		att.Date,
		att.CheckIn,
		att.CheckOut,
		att.WorkMinutes,
		att.BreakMinutes,
		att.Status,
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "attendances_employee_date_key") {
			return attendance.Attendance{}, attendance.ErrDuplicateRecord
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT a.id, a.employee_id, a.company_id, a.date, a.check_in, a.check_out,
			   a.work_minutes, a.break_minutes, a.status, a.created_at, a.updated_at,
			   e.full_name AS employee_name,
			   e.employee_code AS employee_code
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1 AND a.company_id = $2
	`

	var att attendance.Attendance
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&att.ID, &att.EmployeeID, &att.CompanyID, &att.Date, &att.CheckIn, &att.CheckOut,
		&att.WorkMinutes, &att.BreakMinutes, &att.Status, &att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeName, &att.EmployeeCode,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}

	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, employee_id, company_id, date, check_in, check_out,
			   work_minutes, break_minutes, status, created_at, updated_at
		FROM attendances
		WHERE employee_id = $1 AND date = $2 AND company_id = $3
		LIMIT 1
	`

	var att attendance.Attendance
	err := q.QueryRow(ctx, query, employeeID, date, companyID).Scan(
		&att.ID, &att.EmployeeID, &att.CompanyID, &att.Date, &att.CheckIn, &att.CheckOut,
		&att.WorkMinutes, &att.BreakMinutes, &att.Status, &att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no record for this day yet
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_in = $1, check_out = $2, work_minutes = $3, break_minutes = $4,
			status = $5, updated_at = NOW()
		WHERE id = $6 AND company_id = $7
	`

	tag, err := q.Exec(ctx, query,
		att.CheckIn, att.CheckOut, att.WorkMinutes, att.BreakMinutes,
		att.Status, att.ID, att.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.Filter, companyID string) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "a.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	if filter.TeamID != nil && *filter.TeamID != "" {
		baseWhere += fmt.Sprintf(" AND e.team_id = $%d", argIdx)
		args = append(args, *filter.TeamID)
		argIdx++
	}

	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND a.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := `
		SELECT COUNT(*)
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	listQuery := fmt.Sprintf(`
		SELECT a.id, a.employee_id, a.company_id, a.date, a.check_in, a.check_out,
			   a.work_minutes, a.break_minutes, a.status, a.created_at, a.updated_at,
			   e.full_name AS employee_name,
			   e.employee_code AS employee_code
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.date DESC, e.employee_code
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		if err := rows.Scan(
			&att.ID, &att.EmployeeID, &att.CompanyID, &att.Date, &att.CheckIn, &att.CheckOut,
			&att.WorkMinutes, &att.BreakMinutes, &att.Status, &att.CreatedAt, &att.UpdatedAt,
			&att.EmployeeName, &att.EmployeeCode,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return records, total, nil
}

// ListForEmployeeInRange implements attendance.AttendanceRepository.
// The range is inclusive on both ends, matching pay-cycle windows.
func (a *attendanceRepository) ListForEmployeeInRange(ctx context.Context, employeeID string, from, to time.Time, companyID string) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, employee_id, company_id, date, check_in, check_out,
			   work_minutes, break_minutes, status, created_at, updated_at
		FROM attendances
		WHERE employee_id = $1 AND company_id = $2 AND date >= $3 AND date <= $4
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances in range: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		if err := rows.Scan(
			&att.ID, &att.EmployeeID, &att.CompanyID, &att.Date, &att.CheckIn, &att.CheckOut,
			&att.WorkMinutes, &att.BreakMinutes, &att.Status, &att.CreatedAt, &att.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return records, nil
}

// ListCompletedOnDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListCompletedOnDate(ctx context.Context, date time.Time, companyID string) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, employee_id, company_id, date, check_in, check_out,
			   work_minutes, break_minutes, status, created_at, updated_at
		FROM attendances
		WHERE company_id = $1 AND date = $2
		  AND check_in IS NOT NULL AND check_out IS NOT NULL
	`

	rows, err := q.Query(ctx, query, companyID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		if err := rows.Scan(
			&att.ID, &att.EmployeeID, &att.CompanyID, &att.Date, &att.CheckIn, &att.CheckOut,
			&att.WorkMinutes, &att.BreakMinutes, &att.Status, &att.CreatedAt, &att.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return records, nil
}

// BulkCreateAbsences implements attendance.AttendanceRepository. Conflicts
// with records created between the scan and the insert are skipped.
func (a *attendanceRepository) BulkCreateAbsences(ctx context.Context, records []attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (employee_id, company_id, date, work_minutes, status)
		VALUES ($1, $2, $3, 0, $4)
		ON CONFLICT (employee_id, date) DO NOTHING
	`

	for _, att := range records {
		if _, err := q.Exec(ctx, query, att.EmployeeID, att.CompanyID, att.Date, attendance.StatusAbsent); err != nil {
			return fmt.Errorf("failed to create absence record: %w", err)
		}
	}

	return nil
}

// AppendEditHistory implements attendance.AttendanceRepository.
func (a *attendanceRepository) AppendEditHistory(ctx context.Context, h attendance.EditHistory) error {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_edit_history (
			attendance_id, field, old_value, new_value, edited_by, reason
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := q.Exec(ctx, query,
		h.AttendanceID, h.Field, h.OldValue, h.NewValue, h.EditedBy, h.Reason,
	); err != nil {
		return fmt.Errorf("failed to append edit history: %w", err)
	}

	return nil
}

// ListEditHistory implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListEditHistory(ctx context.Context, attendanceID string, companyID string) ([]attendance.EditHistory, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT h.id, h.attendance_id, h.field, h.old_value, h.new_value,
			   h.edited_by, h.reason, h.created_at
		FROM attendance_edit_history h
		JOIN attendances a ON a.id = h.attendance_id
		WHERE h.attendance_id = $1 AND a.company_id = $2
		ORDER BY h.created_at
	`

	rows, err := q.Query(ctx, query, attendanceID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list edit history: %w", err)
	}
	defer rows.Close()

	var history []attendance.EditHistory
	for rows.Next() {
		var h attendance.EditHistory
		if err := rows.Scan(
			&h.ID, &h.AttendanceID, &h.Field, &h.OldValue, &h.NewValue,
			&h.EditedBy, &h.Reason, &h.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan edit history: %w", err)
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate edit history: %w", err)
	}

	return history, nil
}

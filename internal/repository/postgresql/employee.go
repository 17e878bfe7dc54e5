package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/employee"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	e.id, e.company_id, e.team_id, e.employee_code, e.full_name, e.email,
	e.role, e.active, e.identity_provider, e.identity_subject, e.kiosk_pin_hash,
	e.created_at, e.updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.CompanyID, &emp.TeamID, &emp.EmployeeCode, &emp.FullName, &emp.Email,
		&emp.Role, &emp.Active, &emp.IdentityProvider, &emp.IdentitySubject, &emp.KioskPINHash,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepository) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (
			company_id, team_id, employee_code, full_name, email, role, active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		emp.CompanyID,
		emp.TeamID,
		emp.EmployeeCode,
		emp.FullName,
		emp.Email,
		emp.Role,
		emp.Active,
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		switch {
		case strings.Contains(err.Error(), "employees_company_code_key"):
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		case strings.Contains(err.Error(), "employees_company_email_key"):
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepository) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := fmt.Sprintf(`
		SELECT %s, t.name AS team_name
		FROM employees e
		LEFT JOIN teams t ON t.id = e.team_id
		WHERE e.id = $1 AND e.company_id = $2
	`, employeeColumns)

	var emp employee.Employee
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&emp.ID, &emp.CompanyID, &emp.TeamID, &emp.EmployeeCode, &emp.FullName, &emp.Email,
		&emp.Role, &emp.Active, &emp.IdentityProvider, &emp.IdentitySubject, &emp.KioskPINHash,
		&emp.CreatedAt, &emp.UpdatedAt,
		&emp.TeamName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}

	return emp, nil
}

// GetByCode implements employee.EmployeeRepository.
func (e *employeeRepository) GetByCode(ctx context.Context, code string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := fmt.Sprintf(`
		SELECT %s FROM employees e
		WHERE e.employee_code = $1 AND e.company_id = $2
	`, employeeColumns)

	emp, err := scanEmployee(q.QueryRow(ctx, query, code, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by code: %w", err)
	}

	return emp, nil
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepository) Update(ctx context.Context, emp employee.Employee) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET full_name = $1, email = $2, role = $3, team_id = $4, active = $5, updated_at = NOW()
		WHERE id = $6 AND company_id = $7
	`

	tag, err := q.Exec(ctx, query,
		emp.FullName, emp.Email, emp.Role, emp.TeamID, emp.Active,
		emp.ID, emp.CompanyID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "employees_company_email_key") {
			return employee.ErrEmailExists
		}
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}

// UpdatePINHash implements employee.EmployeeRepository.
func (e *employeeRepository) UpdatePINHash(ctx context.Context, id string, companyID string, pinHash string) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx,
		`UPDATE employees SET kiosk_pin_hash = $1, updated_at = NOW() WHERE id = $2 AND company_id = $3`,
		pinHash, id, companyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update kiosk PIN: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}

// LinkIdentity implements employee.EmployeeRepository.
func (e *employeeRepository) LinkIdentity(ctx context.Context, id string, companyID string, provider string, subject string) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx, `
		UPDATE employees
		SET identity_provider = $1, identity_subject = $2, updated_at = NOW()
		WHERE id = $3 AND company_id = $4 AND identity_provider IS NULL
	`, provider, subject, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to link identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrIdentityAlreadyLinked
	}

	return nil
}

// Deactivate implements employee.EmployeeRepository.
func (e *employeeRepository) Deactivate(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx,
		`UPDATE employees SET active = FALSE, updated_at = NOW() WHERE id = $1 AND company_id = $2`,
		id, companyID,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}

// Purge implements employee.EmployeeRepository. Hard delete, admin only.
func (e *employeeRepository) Purge(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, e.db)

	tag, err := q.Exec(ctx,
		`DELETE FROM employees WHERE id = $1 AND company_id = $2`,
		id, companyID,
	)
	if err != nil {
		return fmt.Errorf("failed to purge employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepository) List(ctx context.Context, filter employee.Filter, companyID string) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, e.db)

	baseWhere := "e.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Search != nil && *filter.Search != "" {
		baseWhere += fmt.Sprintf(" AND (e.full_name ILIKE $%d OR e.employee_code ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	if filter.Role != nil && *filter.Role != "" {
		baseWhere += fmt.Sprintf(" AND e.role = $%d", argIdx)
		args = append(args, *filter.Role)
		argIdx++
	}

	if filter.TeamID != nil && *filter.TeamID != "" {
		baseWhere += fmt.Sprintf(" AND e.team_id = $%d", argIdx)
		args = append(args, *filter.TeamID)
		argIdx++
	}

	if filter.Active != nil {
		baseWhere += fmt.Sprintf(" AND e.active = $%d", argIdx)
		args = append(args, *filter.Active)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM employees e WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
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
		SELECT %s, t.name AS team_name
		FROM employees e
		LEFT JOIN teams t ON t.id = e.team_id
		WHERE %s
		ORDER BY e.employee_code
		LIMIT $%d OFFSET $%d
	`, employeeColumns, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var emp employee.Employee
		if err := rows.Scan(
			&emp.ID, &emp.CompanyID, &emp.TeamID, &emp.EmployeeCode, &emp.FullName, &emp.Email,
			&emp.Role, &emp.Active, &emp.IdentityProvider, &emp.IdentitySubject, &emp.KioskPINHash,
			&emp.CreatedAt, &emp.UpdatedAt,
			&emp.TeamName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, total, nil
}

// ListActive implements employee.EmployeeRepository.
func (e *employeeRepository) ListActive(ctx context.Context, companyID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := fmt.Sprintf(`
		SELECT %s FROM employees e
		WHERE e.company_id = $1 AND e.active = TRUE
		ORDER BY e.employee_code
	`, employeeColumns)

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var emp employee.Employee
		if err := rows.Scan(
			&emp.ID, &emp.CompanyID, &emp.TeamID, &emp.EmployeeCode, &emp.FullName, &emp.Email,
			&emp.Role, &emp.Active, &emp.IdentityProvider, &emp.IdentitySubject, &emp.KioskPINHash,
			&emp.CreatedAt, &emp.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

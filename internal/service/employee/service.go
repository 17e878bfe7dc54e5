package employee

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/employee"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/database"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/jwt"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/oauth"
	"github.com/staffops-hq/staffops-backend-go/internal/repository/postgresql"
)

type EmployeeServiceImpl struct {
	db            *database.DB
	employeeRepo  employee.EmployeeRepository
	googleService oauth.GoogleService
}

func NewEmployeeService(
	db *database.DB,
	employeeRepo employee.EmployeeRepository,
	googleService oauth.GoogleService,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		db:            db,
		employeeRepo:  employeeRepo,
		googleService: googleService,
	}
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateRequest) (employee.Response, error) {
	if err := req.Validate(); err != nil {
		return employee.Response{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return employee.Response{}, err
	}

	emp, err := s.employeeRepo.Create(ctx, employee.Employee{
		CompanyID:    claims.CompanyID,
		TeamID:       req.TeamID,
		EmployeeCode: req.EmployeeCode,
		FullName:     req.FullName,
		Email:        req.Email,
		Role:         employee.Role(req.Role),
		Active:       true,
	})
	if err != nil {
		return employee.Response{}, err
	}

	return employee.ToResponse(emp), nil
}

// BulkImport implements employee.EmployeeService.
func (s *EmployeeServiceImpl) BulkImport(ctx context.Context, req employee.BulkImportRequest) ([]employee.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	created := make([]employee.Response, 0, len(req.Employees))
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		for _, row := range req.Employees {
			emp, err := s.employeeRepo.Create(txCtx, employee.Employee{
				CompanyID:    claims.CompanyID,
				TeamID:       row.TeamID,
				EmployeeCode: row.EmployeeCode,
				FullName:     row.FullName,
				Email:        row.Email,
				Role:         employee.Role(row.Role),
				Active:       true,
			})
			if err != nil {
				return fmt.Errorf("row %s: %w", row.EmployeeCode, err)
			}
			created = append(created, employee.ToResponse(emp))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.Response, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return employee.Response{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return employee.Response{}, err
	}
	return employee.ToResponse(emp), nil
}

// GetMe implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetMe(ctx context.Context) (employee.Response, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return employee.Response{}, err
	}
	return s.Get(ctx, claims.EmployeeID)
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, id string, req employee.UpdateRequest) (employee.Response, error) {
	if err := req.Validate(); err != nil {
		return employee.Response{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return employee.Response{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return employee.Response{}, err
	}

	if req.FullName != nil {
		emp.FullName = *req.FullName
	}
	if req.Email != nil {
		emp.Email = *req.Email
	}
	if req.Role != nil {
		emp.Role = employee.Role(*req.Role)
	}
	if req.TeamID != nil {
		emp.TeamID = req.TeamID
	}

	if err := s.employeeRepo.Update(ctx, emp); err != nil {
		return employee.Response{}, err
	}

	return employee.ToResponse(emp), nil
}

// SetPIN implements employee.EmployeeService.
func (s *EmployeeServiceImpl) SetPIN(ctx context.Context, req employee.SetPINRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash pin: %w", err)
	}

	return s.employeeRepo.UpdatePINHash(ctx, claims.EmployeeID, claims.CompanyID, string(hash))
}

// LinkIdentityURL implements employee.EmployeeService.
func (s *EmployeeServiceImpl) LinkIdentityURL(ctx context.Context, userAgent string) (string, error) {
	if _, err := jwt.ClaimsFromContext(ctx); err != nil {
		return "", err
	}

	state := s.googleService.GenerateState(userAgent)
	if state == "" {
		return "", fmt.Errorf("failed to generate oauth state")
	}
	return s.googleService.RedirectURL(state), nil
}

// LinkIdentity implements employee.EmployeeService.
func (s *EmployeeServiceImpl) LinkIdentity(ctx context.Context, req employee.LinkIdentityRequest) (employee.Response, error) {
	if err := req.Validate(); err != nil {
		return employee.Response{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return employee.Response{}, err
	}

	token, err := s.googleService.VerifyToken(ctx, req.Code)
	if err != nil {
		return employee.Response{}, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	info, err := s.googleService.VerifyUser(ctx, token)
	if err != nil {
		return employee.Response{}, fmt.Errorf("failed to fetch google user info: %w", err)
	}

	if err := s.employeeRepo.LinkIdentity(ctx, claims.EmployeeID, claims.CompanyID, "google", info.GoogleID); err != nil {
		return employee.Response{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, claims.EmployeeID, claims.CompanyID)
	if err != nil {
		return employee.Response{}, err
	}
	return employee.ToResponse(emp), nil
}

// Deactivate implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Deactivate(ctx context.Context, id string) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	return s.employeeRepo.Deactivate(ctx, id, claims.CompanyID)
}

// Purge implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Purge(ctx context.Context, id string) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	return s.employeeRepo.Purge(ctx, id, claims.CompanyID)
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, filter employee.Filter) (employee.ListResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return employee.ListResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	employees, total, err := s.employeeRepo.List(ctx, filter, claims.CompanyID)
	if err != nil {
		return employee.ListResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	resp := employee.ListResponse{
		Employees: make([]employee.Response, 0, len(employees)),
		Total:     total,
		Page:      filter.Page,
		Limit:     filter.Limit,
	}
	for _, emp := range employees {
		resp.Employees = append(resp.Employees, employee.ToResponse(emp))
	}
	return resp, nil
}

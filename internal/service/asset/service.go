package asset

import (
	"context"
	"fmt"
	"time"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/asset"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/employee"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/jwt"
)

type AssetServiceImpl struct {
	assetRepo    asset.AssetRepository
	employeeRepo employee.EmployeeRepository
}

func NewAssetService(
	assetRepo asset.AssetRepository,
	employeeRepo employee.EmployeeRepository,
) asset.AssetService {
	return &AssetServiceImpl{
		assetRepo:    assetRepo,
		employeeRepo: employeeRepo,
	}
}

// Create implements asset.AssetService.
func (s *AssetServiceImpl) Create(ctx context.Context, req asset.CreateRequest) (asset.Response, error) {
	if err := req.Validate(); err != nil {
		return asset.Response{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return asset.Response{}, err
	}

	a, err := s.assetRepo.Create(ctx, asset.Asset{
		CompanyID:    claims.CompanyID,
		Tag:          req.Tag,
		Name:         req.Name,
		Category:     req.Category,
		SerialNumber: req.SerialNumber,
		Status:       asset.StatusAvailable,
	})
	if err != nil {
		return asset.Response{}, err
	}

	return asset.ToResponse(a), nil
}

// Get implements asset.AssetService.
func (s *AssetServiceImpl) Get(ctx context.Context, id string) (asset.Response, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return asset.Response{}, err
	}

	a, err := s.assetRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return asset.Response{}, err
	}
	return asset.ToResponse(a), nil
}

// Assign implements asset.AssetService.
func (s *AssetServiceImpl) Assign(ctx context.Context, id string, req asset.AssignRequest) (asset.Response, error) {
	if err := req.Validate(); err != nil {
		return asset.Response{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return asset.Response{}, err
	}

	a, err := s.assetRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return asset.Response{}, err
	}
	if a.Status == asset.StatusRetired {
		return asset.Response{}, asset.ErrAssetRetired
	}
	if a.Status != asset.StatusAvailable {
		return asset.Response{}, asset.ErrNotAvailable
	}

	// The assignee must exist and be active.
	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, claims.CompanyID)
	if err != nil {
		return asset.Response{}, err
	}
	if !emp.Active {
		return asset.Response{}, employee.ErrEmployeeInactive
	}

	now := time.Now().UTC()
	a.Status = asset.StatusAssigned
	a.AssignedTo = &req.EmployeeID
	a.AssignedAt = &now

	if err := s.assetRepo.Update(ctx, a); err != nil {
		return asset.Response{}, fmt.Errorf("failed to assign asset: %w", err)
	}

	a.AssigneeName = &emp.FullName
	return asset.ToResponse(a), nil
}

// Return implements asset.AssetService.
func (s *AssetServiceImpl) Return(ctx context.Context, id string) (asset.Response, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return asset.Response{}, err
	}

	a, err := s.assetRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return asset.Response{}, err
	}
	if a.Status != asset.StatusAssigned {
		return asset.Response{}, asset.ErrNotAssigned
	}

	a.Status = asset.StatusAvailable
	a.AssignedTo = nil
	a.AssignedAt = nil
	a.AssigneeName = nil

	if err := s.assetRepo.Update(ctx, a); err != nil {
		return asset.Response{}, fmt.Errorf("failed to return asset: %w", err)
	}

	return asset.ToResponse(a), nil
}

// Retire implements asset.AssetService.
func (s *AssetServiceImpl) Retire(ctx context.Context, id string) (asset.Response, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return asset.Response{}, err
	}

	a, err := s.assetRepo.GetByID(ctx, id, claims.CompanyID)
	if err != nil {
		return asset.Response{}, err
	}
	if a.Status == asset.StatusRetired {
		return asset.Response{}, asset.ErrAssetRetired
	}

	a.Status = asset.StatusRetired
	a.AssignedTo = nil
	a.AssignedAt = nil
	a.AssigneeName = nil

	if err := s.assetRepo.Update(ctx, a); err != nil {
		return asset.Response{}, fmt.Errorf("failed to retire asset: %w", err)
	}

	return asset.ToResponse(a), nil
}

// List implements asset.AssetService.
func (s *AssetServiceImpl) List(ctx context.Context, filter asset.Filter) (asset.ListResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return asset.ListResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	assets, total, err := s.assetRepo.List(ctx, filter, claims.CompanyID)
	if err != nil {
		return asset.ListResponse{}, fmt.Errorf("failed to list assets: %w", err)
	}

	resp := asset.ListResponse{
		Assets: make([]asset.Response, 0, len(assets)),
		Total:  total,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	for _, a := range assets {
		resp.Assets = append(resp.Assets, asset.ToResponse(a))
	}
	return resp, nil
}

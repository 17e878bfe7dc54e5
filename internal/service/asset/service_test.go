package asset

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/asset"
	"github.com/staffops-hq/staffops-backend-go/internal/domain/employee"
)

// fakeAssetRepo keeps one asset in memory; enough to drive the status
// transitions without a database.
type fakeAssetRepo struct {
	asset.AssetRepository
	stored asset.Asset
	getErr error
}

func (f *fakeAssetRepo) GetByID(ctx context.Context, id string, companyID string) (asset.Asset, error) {
	if f.getErr != nil {
		return asset.Asset{}, f.getErr
	}
	return f.stored, nil
}

func (f *fakeAssetRepo) Update(ctx context.Context, a asset.Asset) error {
	f.stored = a
	return nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	emp    employee.Employee
	getErr error
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	if f.getErr != nil {
		return employee.Employee{}, f.getErr
	}
	return f.emp, nil
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("asset-test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"employee_id": "admin-1",
		"company_id":  "co-1",
		"role":        "ADMIN",
		"type":        "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestAssignAvailableAsset(t *testing.T) {
	assetRepo := &fakeAssetRepo{stored: asset.Asset{ID: "a-1", CompanyID: "co-1", Status: asset.StatusAvailable}}
	empRepo := &fakeEmployeeRepo{emp: employee.Employee{ID: "emp-1", FullName: "Dewi Lestari", Active: true}}
	svc := NewAssetService(assetRepo, empRepo)

	resp, err := svc.Assign(testContext(t), "a-1", asset.AssignRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	assert.Equal(t, string(asset.StatusAssigned), resp.Status)
	require.NotNil(t, resp.AssignedTo)
	assert.Equal(t, "emp-1", *resp.AssignedTo)
	assert.Equal(t, asset.StatusAssigned, assetRepo.stored.Status)
}

func TestAssignRejectsAssignedAsset(t *testing.T) {
	holder := "emp-0"
	assetRepo := &fakeAssetRepo{stored: asset.Asset{ID: "a-1", Status: asset.StatusAssigned, AssignedTo: &holder}}
	svc := NewAssetService(assetRepo, &fakeEmployeeRepo{})

	_, err := svc.Assign(testContext(t), "a-1", asset.AssignRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, asset.ErrNotAvailable)
}

func TestAssignRejectsRetiredAsset(t *testing.T) {
	assetRepo := &fakeAssetRepo{stored: asset.Asset{ID: "a-1", Status: asset.StatusRetired}}
	svc := NewAssetService(assetRepo, &fakeEmployeeRepo{})

	_, err := svc.Assign(testContext(t), "a-1", asset.AssignRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, asset.ErrAssetRetired)
}

func TestAssignRejectsInactiveEmployee(t *testing.T) {
	assetRepo := &fakeAssetRepo{stored: asset.Asset{ID: "a-1", Status: asset.StatusAvailable}}
	empRepo := &fakeEmployeeRepo{emp: employee.Employee{ID: "emp-1", Active: false}}
	svc := NewAssetService(assetRepo, empRepo)

	_, err := svc.Assign(testContext(t), "a-1", asset.AssignRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestReturnAssignedAsset(t *testing.T) {
	holder := "emp-1"
	assetRepo := &fakeAssetRepo{stored: asset.Asset{ID: "a-1", Status: asset.StatusAssigned, AssignedTo: &holder}}
	svc := NewAssetService(assetRepo, &fakeEmployeeRepo{})

	resp, err := svc.Return(testContext(t), "a-1")
	require.NoError(t, err)

	assert.Equal(t, string(asset.StatusAvailable), resp.Status)
	assert.Nil(t, resp.AssignedTo)
	assert.Nil(t, assetRepo.stored.AssignedTo)
}

func TestReturnRejectsUnassignedAsset(t *testing.T) {
	assetRepo := &fakeAssetRepo{stored: asset.Asset{ID: "a-1", Status: asset.StatusAvailable}}
	svc := NewAssetService(assetRepo, &fakeEmployeeRepo{})

	_, err := svc.Return(testContext(t), "a-1")
	assert.ErrorIs(t, err, asset.ErrNotAssigned)
}

func TestRetireClearsAssignment(t *testing.T) {
	holder := "emp-1"
	assetRepo := &fakeAssetRepo{stored: asset.Asset{ID: "a-1", Status: asset.StatusAssigned, AssignedTo: &holder}}
	svc := NewAssetService(assetRepo, &fakeEmployeeRepo{})

	resp, err := svc.Retire(testContext(t), "a-1")
	require.NoError(t, err)

	assert.Equal(t, string(asset.StatusRetired), resp.Status)
	assert.Nil(t, resp.AssignedTo)
}

func TestRetireIsTerminal(t *testing.T) {
	assetRepo := &fakeAssetRepo{stored: asset.Asset{ID: "a-1", Status: asset.StatusRetired}}
	svc := NewAssetService(assetRepo, &fakeEmployeeRepo{})

	_, err := svc.Retire(testContext(t), "a-1")
	assert.ErrorIs(t, err, asset.ErrAssetRetired)

	_, err = svc.Assign(testContext(t), "a-1", asset.AssignRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, asset.ErrAssetRetired)
}

package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/asset"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/database"
)

type assetRepository struct {
	db *database.DB
}

func NewAssetRepository(db *database.DB) asset.AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Create(ctx context.Context, a asset.Asset) (asset.Asset, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO assets (company_id, tag, name, category, serial_number, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.CompanyID, a.Tag, a.Name, a.Category, a.SerialNumber, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "assets_company_tag_key") {
			return asset.Asset{}, asset.ErrTagExists
		}
		return asset.Asset{}, fmt.Errorf("failed to create asset: %w", err)
	}

	return a, nil
}

func (r *assetRepository) GetByID(ctx context.Context, id string, companyID string) (asset.Asset, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.company_id, a.tag, a.name, a.category, a.serial_number,
			   a.status, a.assigned_to, a.assigned_at, a.created_at, a.updated_at,
			   e.name
		FROM assets a
		LEFT JOIN employees e ON e.id = a.assigned_to
		WHERE a.id = $1 AND a.company_id = $2
	`

	var a asset.Asset
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&a.ID, &a.CompanyID, &a.Tag, &a.Name, &a.Category, &a.SerialNumber,
		&a.Status, &a.AssignedTo, &a.AssignedAt, &a.CreatedAt, &a.UpdatedAt,
		&a.AssigneeName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return asset.Asset{}, asset.ErrAssetNotFound
		}
		return asset.Asset{}, fmt.Errorf("failed to get asset: %w", err)
	}

	return a, nil
}

func (r *assetRepository) Update(ctx context.Context, a asset.Asset) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE assets
		SET name = $1, category = $2, serial_number = $3, status = $4,
			assigned_to = $5, assigned_at = $6, updated_at = NOW()
		WHERE id = $7 AND company_id = $8
	`

	tag, err := q.Exec(ctx, query,
		a.Name, a.Category, a.SerialNumber, a.Status,
		a.AssignedTo, a.AssignedAt, a.ID, a.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return asset.ErrAssetNotFound
	}

	return nil
}

func (r *assetRepository) List(ctx context.Context, filter asset.Filter, companyID string) ([]asset.Asset, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM assets a
		LEFT JOIN employees e ON e.id = a.assigned_to
		WHERE a.company_id = $1
	`

	args := []any{companyID}
	argIdx := 2

	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.Category != nil {
		baseQuery += fmt.Sprintf(" AND a.category = $%d", argIdx)
		args = append(args, *filter.Category)
		argIdx++
	}

	if filter.AssignedTo != nil {
		baseQuery += fmt.Sprintf(" AND a.assigned_to = $%d", argIdx)
		args = append(args, *filter.AssignedTo)
		argIdx++
	}

	var total int64
	countQuery := `SELECT COUNT(*) ` + baseQuery
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count assets: %w", err)
	}

	listQuery := `
		SELECT a.id, a.company_id, a.tag, a.name, a.category, a.serial_number,
			   a.status, a.assigned_to, a.assigned_at, a.created_at, a.updated_at,
			   e.name
	` + baseQuery + `
		ORDER BY a.tag
	`

	if filter.Limit > 0 {
		offset := (filter.Page - 1) * filter.Limit
		if offset < 0 {
			offset = 0
		}
		listQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, filter.Limit, offset)
	}

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []asset.Asset
	for rows.Next() {
		var a asset.Asset
		if err := rows.Scan(
			&a.ID, &a.CompanyID, &a.Tag, &a.Name, &a.Category, &a.SerialNumber,
			&a.Status, &a.AssignedTo, &a.AssignedAt, &a.CreatedAt, &a.UpdatedAt,
			&a.AssigneeName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate assets: %w", err)
	}

	return assets, total, nil
}

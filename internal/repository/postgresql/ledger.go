package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/staffops-hq/staffops-backend-go/internal/domain/gamification"
	"github.com/staffops-hq/staffops-backend-go/internal/pkg/database"
)

type ledgerRepository struct {
	db *database.DB
}

func NewLedgerRepository(db *database.DB) gamification.LedgerRepository {
	return &ledgerRepository{db: db}
}

// AppendEntry implements gamification.LedgerRepository. The insert and the
// balance upsert run against the same querier; callers that need atomicity
// with other writes put a transaction in the context.
func (l *ledgerRepository) AppendEntry(ctx context.Context, entry gamification.LedgerEntry) (gamification.LedgerEntry, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO ledger_entries (
			employee_id, company_id, currency, amount, category, reason,
			correlation_type, correlation_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		entry.EmployeeID,
		entry.CompanyID,
		entry.Currency,
		entry.Amount,
		entry.Category,
		entry.Reason,
		entry.CorrelationType,
		entry.CorrelationID,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		// Partial unique index on (employee_id, currency, correlation_type,
		// correlation_id); a lost check-then-insert race lands here.
		if strings.Contains(err.Error(), "ledger_entries_correlation_key") {
			return gamification.LedgerEntry{}, gamification.ErrBonusAlreadyAwarded
		}
		return gamification.LedgerEntry{}, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	// Keep the materialized counter in the same unit of work as the append.
	upsert := `
		INSERT INTO ledger_balances (employee_id, company_id, currency, balance, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (employee_id, currency)
		DO UPDATE SET balance = ledger_balances.balance + $4, updated_at = NOW()
	`
	if _, err := q.Exec(ctx, upsert, entry.EmployeeID, entry.CompanyID, entry.Currency, entry.Amount); err != nil {
		return gamification.LedgerEntry{}, fmt.Errorf("failed to update ledger balance: %w", err)
	}

	return entry, nil
}

// GetBalanceForUpdate implements gamification.LedgerRepository.
func (l *ledgerRepository) GetBalanceForUpdate(ctx context.Context, employeeID string, currency gamification.Currency, companyID string) (int, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT balance FROM ledger_balances
		WHERE employee_id = $1 AND currency = $2 AND company_id = $3
		FOR UPDATE
	`

	var balance int
	err := q.QueryRow(ctx, query, employeeID, currency, companyID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No row yet means the employee has never earned this currency.
			return 0, nil
		}
		return 0, fmt.Errorf("failed to lock ledger balance: %w", err)
	}

	return balance, nil
}

// GetBalance implements gamification.LedgerRepository.
func (l *ledgerRepository) GetBalance(ctx context.Context, employeeID string, currency gamification.Currency, companyID string) (int, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT balance FROM ledger_balances
		WHERE employee_id = $1 AND currency = $2 AND company_id = $3
	`

	var balance int
	err := q.QueryRow(ctx, query, employeeID, currency, companyID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get ledger balance: %w", err)
	}

	return balance, nil
}

// HasEntryForCorrelation implements gamification.LedgerRepository.
func (l *ledgerRepository) HasEntryForCorrelation(ctx context.Context, employeeID string, currency gamification.Currency, corrType gamification.CorrelationType, corrID string, companyID string) (bool, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM ledger_entries
			WHERE employee_id = $1
			  AND currency = $2
			  AND correlation_type = $3
			  AND correlation_id = $4
			  AND company_id = $5
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, employeeID, currency, corrType, corrID, companyID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check ledger correlation: %w", err)
	}

	return exists, nil
}

// List implements gamification.LedgerRepository.
func (l *ledgerRepository) List(ctx context.Context, employeeID string, filter gamification.LedgerFilter, companyID string) ([]gamification.LedgerEntry, int64, error) {
	q := GetQuerier(ctx, l.db)

	baseWhere := "employee_id = $1 AND company_id = $2"
	args := []interface{}{employeeID, companyID}
	argIdx := 3

	if filter.Currency != nil && *filter.Currency != "" {
		baseWhere += fmt.Sprintf(" AND currency = $%d", argIdx)
		args = append(args, *filter.Currency)
		argIdx++
	}

	if filter.Category != nil && *filter.Category != "" {
		baseWhere += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, *filter.Category)
		argIdx++
	}

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND created_at >= $%d::date", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND created_at < ($%d::date + INTERVAL '1 day')", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM ledger_entries WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count ledger entries: %w", err)
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
		SELECT id, employee_id, company_id, currency, amount, category, reason,
			   correlation_type, correlation_id, created_at
		FROM ledger_entries
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []gamification.LedgerEntry
	for rows.Next() {
		var e gamification.LedgerEntry
		if err := rows.Scan(
			&e.ID, &e.EmployeeID, &e.CompanyID, &e.Currency, &e.Amount, &e.Category, &e.Reason,
			&e.CorrelationType, &e.CorrelationID, &e.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, total, nil
}

// SumEarnedInRange implements gamification.LedgerRepository.
func (l *ledgerRepository) SumEarnedInRange(ctx context.Context, employeeID string, currency gamification.Currency, from, to time.Time, companyID string) (int, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT COALESCE(SUM(amount), 0) FROM ledger_entries
		WHERE employee_id = $1
		  AND currency = $2
		  AND company_id = $3
		  AND amount > 0
		  AND created_at >= $4
		  AND created_at < $5
	`

	var sum int
	err := q.QueryRow(ctx, query, employeeID, currency, companyID, from, to).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum earned amounts: %w", err)
	}

	return sum, nil
}

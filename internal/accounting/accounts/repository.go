package accounts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abschluss-erp/abschluss-erp/internal/accounting/shared"
)

// Repository encapsulates DB operations for the chart of accounts.
type Repository interface {
	ListByCompany(ctx context.Context, companyID int64) ([]Account, error)
	GetByCode(ctx context.Context, companyID int64, code string) (Account, error)
	UpdateRule(ctx context.Context, accountID int64, rule PresentationRule) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListByCompany(ctx context.Context, companyID int64) ([]Account, error) {
	rows, err := r.db.Query(ctx, `SELECT id, company_id, code, name, type, COALESCE(presentation_rule, ''), created_at, updated_at
FROM accounts WHERE company_id=$1 ORDER BY code ASC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.Code, &a.Name, &a.Type, &a.Rule, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repository) GetByCode(ctx context.Context, companyID int64, code string) (Account, error) {
	var a Account
	err := r.db.QueryRow(ctx, `SELECT id, company_id, code, name, type, COALESCE(presentation_rule, ''), created_at, updated_at
FROM accounts WHERE company_id=$1 AND code=$2`, companyID, code).
		Scan(&a.ID, &a.CompanyID, &a.Code, &a.Name, &a.Type, &a.Rule, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, shared.ErrAccountNotFound
		}
		return Account{}, err
	}
	return a, nil
}

// UpdateRule applies an administrative correction of the presentation rule.
func (r *repository) UpdateRule(ctx context.Context, accountID int64, rule PresentationRule) error {
	cmd, err := r.db.Exec(ctx, `UPDATE accounts SET presentation_rule=$2, updated_at=NOW() WHERE id=$1`, accountID, rule)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrAccountNotFound
	}
	return nil
}

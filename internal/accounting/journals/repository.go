package journals

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository encapsulates read access to posted journal data.
type Repository interface {
	// AggregateTotals groups posted, non-closing line items of one fiscal
	// year into per-account debit and credit sums. The grouping runs in SQL
	// so the engine never materialises raw ledger rows.
	AggregateTotals(ctx context.Context, fiscalYearID int64) ([]AccountTotals, error)
	ListEntries(ctx context.Context, fiscalYearID int64) ([]JournalEntry, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) AggregateTotals(ctx context.Context, fiscalYearID int64) ([]AccountTotals, error) {
	rows, err := r.db.Query(ctx, `SELECT li.account_id,
       COALESCE(SUM(li.amount) FILTER (WHERE li.direction='debit'), 0)::text,
       COALESCE(SUM(li.amount) FILTER (WHERE li.direction='credit'), 0)::text
FROM line_items li
JOIN journal_entries je ON je.id = li.entry_id
WHERE je.fiscal_year_id=$1 AND je.posted_at IS NOT NULL AND je.kind <> 'closing'
GROUP BY li.account_id
ORDER BY li.account_id ASC`, fiscalYearID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AccountTotals
	for rows.Next() {
		var t AccountTotals
		var debit, credit string
		if err := rows.Scan(&t.AccountID, &debit, &credit); err != nil {
			return nil, err
		}
		if t.Debit, err = decimal.NewFromString(debit); err != nil {
			return nil, err
		}
		if t.Credit, err = decimal.NewFromString(credit); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *repository) ListEntries(ctx context.Context, fiscalYearID int64) ([]JournalEntry, error) {
	rows, err := r.db.Query(ctx, `SELECT id, fiscal_year_id, booking_date, kind, memo, posted_at, created_at, updated_at
FROM journal_entries WHERE fiscal_year_id=$1 ORDER BY booking_date ASC, id ASC`, fiscalYearID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		if err := rows.Scan(&e.ID, &e.FiscalYearID, &e.BookingDate, &e.Kind, &e.Memo, &e.PostedAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

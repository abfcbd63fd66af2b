package statements

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abschluss-erp/abschluss-erp/internal/accounting/accounts"
	"github.com/abschluss-erp/abschluss-erp/internal/accounting/fiscalyears"
	"github.com/abschluss-erp/abschluss-erp/internal/accounting/journals"
)

// DataSource is the read-only view of the ledger the engine computes from.
// The pgx implementation below is the production source; tests substitute
// stubs.
type DataSource interface {
	FiscalYear(ctx context.Context, id int64) (fiscalyears.FiscalYear, error)
	Accounts(ctx context.Context, companyID int64) ([]accounts.Account, error)
	AccountTotals(ctx context.Context, fiscalYearID int64) ([]journals.AccountTotals, error)
	Snapshot(ctx context.Context, fiscalYearID int64) (fiscalyears.Snapshot, error)
}

// SnapshotStore is the write side used when a year is closed.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snap fiscalyears.Snapshot) error
	MarkClosed(ctx context.Context, fiscalYearID int64) error
}

type pgSource struct {
	years    fiscalyears.Repository
	accounts accounts.Repository
	journals journals.Repository
}

// NewDataSource composes the accounting repositories into one ledger view.
func NewDataSource(db *pgxpool.Pool) DataSource {
	return &pgSource{
		years:    fiscalyears.NewRepository(db),
		accounts: accounts.NewRepository(db),
		journals: journals.NewRepository(db),
	}
}

func (s *pgSource) FiscalYear(ctx context.Context, id int64) (fiscalyears.FiscalYear, error) {
	return s.years.Get(ctx, id)
}

func (s *pgSource) Accounts(ctx context.Context, companyID int64) ([]accounts.Account, error) {
	return s.accounts.ListByCompany(ctx, companyID)
}

func (s *pgSource) AccountTotals(ctx context.Context, fiscalYearID int64) ([]journals.AccountTotals, error) {
	return s.journals.AggregateTotals(ctx, fiscalYearID)
}

func (s *pgSource) Snapshot(ctx context.Context, fiscalYearID int64) (fiscalyears.Snapshot, error) {
	return s.years.LoadSnapshot(ctx, fiscalYearID)
}

package fiscalyears

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abschluss-erp/abschluss-erp/internal/accounting/shared"
)

// Repository encapsulates DB operations for fiscal years and their closing
// snapshots.
type Repository interface {
	Get(ctx context.Context, id int64) (FiscalYear, error)
	ListByCompany(ctx context.Context, companyID int64) ([]FiscalYear, error)
	LoadSnapshot(ctx context.Context, fiscalYearID int64) (Snapshot, error)
	SaveSnapshot(ctx context.Context, snap Snapshot) error
	MarkClosed(ctx context.Context, fiscalYearID int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, id int64) (FiscalYear, error) {
	var fy FiscalYear
	err := r.db.QueryRow(ctx, `SELECT id, company_id, year, start_date, end_date, closed, closed_at, created_at, updated_at
FROM fiscal_years WHERE id=$1`, id).
		Scan(&fy.ID, &fy.CompanyID, &fy.Year, &fy.StartDate, &fy.EndDate, &fy.Closed, &fy.ClosedAt, &fy.CreatedAt, &fy.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FiscalYear{}, shared.ErrFiscalYearNotFound
		}
		return FiscalYear{}, err
	}
	return fy, nil
}

func (r *repository) ListByCompany(ctx context.Context, companyID int64) ([]FiscalYear, error) {
	rows, err := r.db.Query(ctx, `SELECT id, company_id, year, start_date, end_date, closed, closed_at, created_at, updated_at
FROM fiscal_years WHERE company_id=$1 ORDER BY year DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var years []FiscalYear
	for rows.Next() {
		var fy FiscalYear
		if err := rows.Scan(&fy.ID, &fy.CompanyID, &fy.Year, &fy.StartDate, &fy.EndDate, &fy.Closed, &fy.ClosedAt, &fy.CreatedAt, &fy.UpdatedAt); err != nil {
			return nil, err
		}
		years = append(years, fy)
	}
	return years, rows.Err()
}

func (r *repository) LoadSnapshot(ctx context.Context, fiscalYearID int64) (Snapshot, error) {
	var snap Snapshot
	err := r.db.QueryRow(ctx, `SELECT id, fiscal_year_id, kind, payload, posted_at
FROM statement_snapshots WHERE fiscal_year_id=$1 AND kind=$2`, fiscalYearID, SnapshotKindClosing).
		Scan(&snap.ID, &snap.FiscalYearID, &snap.Kind, &snap.Payload, &snap.PostedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, shared.ErrSnapshotNotFound
		}
		return Snapshot{}, err
	}
	return snap, nil
}

func (r *repository) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	if snap.ID == uuid.Nil {
		snap.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, `INSERT INTO statement_snapshots (id, fiscal_year_id, kind, payload, posted_at)
VALUES ($1,$2,$3,$4,$5)`, snap.ID, snap.FiscalYearID, snap.Kind, snap.Payload, snap.PostedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "uq_statement_snapshots_year_kind" {
			return shared.ErrSnapshotExists
		}
		return err
	}
	return nil
}

func (r *repository) MarkClosed(ctx context.Context, fiscalYearID int64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE fiscal_years SET closed=TRUE, closed_at=NOW(), updated_at=NOW()
WHERE id=$1 AND closed=FALSE`, fiscalYearID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrFiscalYearClosed
	}
	return nil
}

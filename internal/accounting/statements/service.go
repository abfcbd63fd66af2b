package statements

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/abschluss-erp/abschluss-erp/internal/accounting/fiscalyears"
	"github.com/abschluss-erp/abschluss-erp/internal/accounting/shared"
)

// Result is the public contract of the statement operation: a fully-built
// statement or a non-empty list of human-readable failure reasons, never
// both and never neither.
type Result struct {
	Statement *Statement `json:"statement,omitempty"`
	Errors    []string   `json:"errors,omitempty"`
}

// OK reports whether the operation produced a statement.
func (r Result) OK() bool {
	return r.Statement != nil && len(r.Errors) == 0
}

// Failure wraps failure reasons into a Result.
func Failure(reasons ...string) Result {
	return Result{Errors: reasons}
}

// BuildObserver receives timing for live statement computations.
type BuildObserver interface {
	ObserveBuild(outcome string, d time.Duration)
}

// Service orchestrates the statement computation: snapshot gate, aggregation,
// classification, and the result contract. Faults inside the computation are
// caught here; the caller never sees a raw panic.
type Service struct {
	source   DataSource
	builder  *Builder
	store    SnapshotStore
	cache    *Cache
	logger   *slog.Logger
	observer BuildObserver
	now      func() time.Time
	group    singleflight.Group
}

// NewService constructs a Service instance.
func NewService(source DataSource, builder *Builder) *Service {
	return &Service{
		source:  source,
		builder: builder,
		logger:  slog.Default(),
		now:     time.Now,
	}
}

// WithCache enables the open-year statement cache.
func (s *Service) WithCache(cache *Cache) {
	s.cache = cache
}

// WithSnapshotStore enables closing-snapshot posting.
func (s *Service) WithSnapshotStore(store SnapshotStore) {
	s.store = store
}

// WithLogger overrides the default logger.
func (s *Service) WithLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// WithObserver attaches build metrics.
func (s *Service) WithObserver(observer BuildObserver) {
	s.observer = observer
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Statement produces the statutory statement for one fiscal year of one
// company. Closed years with a posted snapshot return that snapshot
// verbatim; everything else computes live from posted, non-closing postings.
func (s *Service) Statement(ctx context.Context, companyID, fiscalYearID int64) Result {
	if companyID == 0 {
		return Failure(shared.ErrCompanyNotFound.Error())
	}
	if fiscalYearID == 0 {
		return Failure(shared.ErrFiscalYearNotFound.Error())
	}

	fy, err := s.source.FiscalYear(ctx, fiscalYearID)
	if err != nil {
		return Failure(err.Error())
	}
	if fy.CompanyID != companyID {
		return Failure(shared.ErrFiscalYearNotFound.Error())
	}

	if fy.Closed {
		snap, err := s.source.Snapshot(ctx, fy.ID)
		switch {
		case err == nil:
			st, err := decodeSnapshot(snap)
			if err != nil {
				return Failure(err.Error())
			}
			return Result{Statement: &st}
		case errors.Is(err, shared.ErrSnapshotNotFound):
			// Closed without a posted snapshot is degraded but defined:
			// compute live.
			s.logger.Warn("closed fiscal year has no snapshot, computing live",
				slog.Int64("fiscal_year_id", fy.ID))
		default:
			return Failure(err.Error())
		}
	}

	if !fy.Closed {
		if st, hit := s.cache.Get(ctx, fy.ID); hit {
			return Result{Statement: &st}
		}
	}

	v, err, _ := s.group.Do(strconv.FormatInt(fy.ID, 10), func() (any, error) {
		return s.compute(ctx, fy)
	})
	if err != nil {
		return Failure(err.Error())
	}
	st := v.(Statement)
	if !fy.Closed {
		s.cache.Set(ctx, fy.ID, st)
	}
	return Result{Statement: &st}
}

// PostClosingSnapshot computes the final statement for a year being closed,
// persists it as the authoritative closing document, and marks the year
// closed. The caller (the close worker) serialises invocations per year.
func (s *Service) PostClosingSnapshot(ctx context.Context, fiscalYearID int64) (fiscalyears.Snapshot, error) {
	if s.store == nil {
		return fiscalyears.Snapshot{}, errors.New("statements: snapshot store not configured")
	}
	fy, err := s.source.FiscalYear(ctx, fiscalYearID)
	if err != nil {
		return fiscalyears.Snapshot{}, err
	}
	if _, err := s.source.Snapshot(ctx, fy.ID); err == nil {
		return fiscalyears.Snapshot{}, shared.ErrSnapshotExists
	} else if !errors.Is(err, shared.ErrSnapshotNotFound) {
		return fiscalyears.Snapshot{}, err
	}

	// The stored document must already read as closed.
	fy.Closed = true
	st, err := s.compute(ctx, fy)
	if err != nil {
		return fiscalyears.Snapshot{}, err
	}
	postedAt := s.now().UTC()
	st.Stored = true
	st.PostedAt = &postedAt

	payload, err := json.Marshal(st)
	if err != nil {
		return fiscalyears.Snapshot{}, err
	}
	snap := fiscalyears.Snapshot{
		FiscalYearID: fy.ID,
		Kind:         fiscalyears.SnapshotKindClosing,
		Payload:      payload,
		PostedAt:     postedAt,
	}
	if err := s.store.SaveSnapshot(ctx, snap); err != nil {
		return fiscalyears.Snapshot{}, err
	}
	if err := s.store.MarkClosed(ctx, fy.ID); err != nil && !errors.Is(err, shared.ErrFiscalYearClosed) {
		return fiscalyears.Snapshot{}, err
	}
	s.cache.Invalidate(ctx, fy.ID)
	s.logger.Info("closing statement posted",
		slog.Int64("fiscal_year_id", fy.ID),
		slog.Bool("balanced", st.Balanced))
	return snap, nil
}

// compute runs the live pipeline. Any panic inside aggregation or
// classification is converted into an error at this boundary.
func (s *Service) compute(ctx context.Context, fy fiscalyears.FiscalYear) (st Statement, err error) {
	started := s.now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("statement computation failed: %v", r)
		}
		if s.observer != nil {
			outcome := "ok"
			if err != nil {
				outcome = "error"
			}
			s.observer.ObserveBuild(outcome, time.Since(started))
		}
	}()

	accts, err := s.source.Accounts(ctx, fy.CompanyID)
	if err != nil {
		return Statement{}, err
	}
	totals, err := s.source.AccountTotals(ctx, fy.ID)
	if err != nil {
		return Statement{}, err
	}
	return s.builder.Build(fy, Aggregate(accts, totals)), nil
}

func decodeSnapshot(snap fiscalyears.Snapshot) (Statement, error) {
	var st Statement
	if err := json.Unmarshal(snap.Payload, &st); err != nil {
		return Statement{}, fmt.Errorf("statements: corrupt snapshot for fiscal year %d: %w", snap.FiscalYearID, err)
	}
	st.Stored = true
	postedAt := snap.PostedAt
	st.PostedAt = &postedAt
	return st, nil
}

package fiscalyears

import (
	"time"

	"github.com/google/uuid"
)

// FiscalYear represents one accounting period window.
type FiscalYear struct {
	ID        int64
	CompanyID int64
	Year      int
	StartDate time.Time
	EndDate   time.Time
	Closed    bool
	ClosedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SnapshotKindClosing marks a snapshot as the authoritative closing
// statement for its year.
const SnapshotKindClosing = "closing"

// Snapshot is the frozen statement document persisted when a year closes.
// Payload keeps the exact JSON shape of a live-computed statement so that
// deserialisation yields an identical structure.
type Snapshot struct {
	ID           uuid.UUID
	FiscalYearID int64
	Kind         string
	Payload      []byte
	PostedAt     time.Time
}

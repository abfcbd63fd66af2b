package journals

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind distinguishes ordinary activity from year-end closing entries.
type EntryKind string

const (
	EntryKindNormal  EntryKind = "normal"
	EntryKindClosing EntryKind = "closing"
)

// Direction marks which side of the entry a line item sits on.
type Direction string

const (
	DirectionDebit  Direction = "debit"
	DirectionCredit Direction = "credit"
)

// JournalEntry captures booking metadata. PostedAt nil means draft; a posted
// entry and its lines are immutable.
type JournalEntry struct {
	ID           int64
	FiscalYearID int64
	BookingDate  time.Time
	Kind         EntryKind
	Memo         string
	PostedAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Lines        []LineItem
}

// Posted reports whether the entry has been finalised.
func (e JournalEntry) Posted() bool {
	return e.PostedAt != nil
}

// FeedsStatement reports whether the entry's lines are visible to statement
// aggregation: posted and not a closing entry. Closing entries only shuttle
// balances at year end and must not re-enter the computation as activity.
func (e JournalEntry) FeedsStatement() bool {
	return e.Posted() && e.Kind != EntryKindClosing
}

// LineItem is a single debit or credit against one account. Amount is
// non-negative with two-decimal precision.
type LineItem struct {
	ID        int64
	EntryID   int64
	AccountID int64
	Direction Direction
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// AccountTotals carries the exact per-account debit and credit sums for one
// fiscal year, as delivered by the storage layer.
type AccountTotals struct {
	AccountID int64
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

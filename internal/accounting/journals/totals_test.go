package journals

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func amt(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestTotalsFromEntriesSumsPerAccount(t *testing.T) {
	posted := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []JournalEntry{
		{
			ID: 1, Kind: EntryKindNormal, PostedAt: &posted,
			Lines: []LineItem{
				{AccountID: 10, Direction: DirectionDebit, Amount: amt("100.00")},
				{AccountID: 20, Direction: DirectionCredit, Amount: amt("100.00")},
			},
		},
		{
			ID: 2, Kind: EntryKindNormal, PostedAt: &posted,
			Lines: []LineItem{
				{AccountID: 10, Direction: DirectionDebit, Amount: amt("40.50")},
				{AccountID: 10, Direction: DirectionCredit, Amount: amt("15.00")},
				{AccountID: 20, Direction: DirectionCredit, Amount: amt("25.50")},
			},
		},
	}

	got := TotalsFromEntries(entries)
	if len(got) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(got))
	}
	if got[0].AccountID != 10 || got[1].AccountID != 20 {
		t.Fatalf("expected account order 10, 20; got %d, %d", got[0].AccountID, got[1].AccountID)
	}
	if !got[0].Debit.Equal(amt("140.50")) || !got[0].Credit.Equal(amt("15.00")) {
		t.Fatalf("account 10: got debit %s credit %s", got[0].Debit, got[0].Credit)
	}
	if !got[1].Debit.Equal(amt("0")) || !got[1].Credit.Equal(amt("125.50")) {
		t.Fatalf("account 20: got debit %s credit %s", got[1].Debit, got[1].Credit)
	}
}

func TestTotalsFromEntriesExcludesDrafts(t *testing.T) {
	entries := []JournalEntry{
		{
			ID: 1, Kind: EntryKindNormal,
			Lines: []LineItem{
				{AccountID: 10, Direction: DirectionDebit, Amount: amt("999.00")},
			},
		},
	}
	if got := TotalsFromEntries(entries); len(got) != 0 {
		t.Fatalf("draft lines must not contribute, got %d accounts", len(got))
	}
}

func TestTotalsFromEntriesExcludesClosingEntries(t *testing.T) {
	posted := time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)
	entries := []JournalEntry{
		{
			ID: 1, Kind: EntryKindClosing, PostedAt: &posted,
			Lines: []LineItem{
				{AccountID: 10, Direction: DirectionCredit, Amount: amt("5000.00")},
			},
		},
		{
			ID: 2, Kind: EntryKindNormal, PostedAt: &posted,
			Lines: []LineItem{
				{AccountID: 10, Direction: DirectionDebit, Amount: amt("75.00")},
			},
		},
	}
	got := TotalsFromEntries(entries)
	if len(got) != 1 {
		t.Fatalf("expected 1 account, got %d", len(got))
	}
	if !got[0].Debit.Equal(amt("75.00")) || !got[0].Credit.IsZero() {
		t.Fatalf("closing activity leaked into totals: debit %s credit %s", got[0].Debit, got[0].Credit)
	}
}

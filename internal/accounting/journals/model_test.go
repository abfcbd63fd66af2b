package journals

import (
	"testing"
	"time"

	_ "github.com/abschluss-erp/abschluss-erp/testing"
)

func TestFeedsStatement(t *testing.T) {
	posted := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		entry JournalEntry
		want  bool
	}{
		{"posted normal entry", JournalEntry{Kind: EntryKindNormal, PostedAt: &posted}, true},
		{"draft entry", JournalEntry{Kind: EntryKindNormal}, false},
		{"posted closing entry", JournalEntry{Kind: EntryKindClosing, PostedAt: &posted}, false},
		{"draft closing entry", JournalEntry{Kind: EntryKindClosing}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.entry.FeedsStatement(); got != tc.want {
				t.Fatalf("FeedsStatement() = %v, want %v", got, tc.want)
			}
		})
	}
}

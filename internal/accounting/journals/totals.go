package journals

import "sort"

// TotalsFromEntries folds raw journal entries into per-account debit and
// credit sums, the same shape AggregateTotals delivers from SQL. Visibility
// follows FeedsStatement: draft and closing entries contribute nothing.
// Callers holding materialised entries use this instead of a second query.
func TotalsFromEntries(entries []JournalEntry) []AccountTotals {
	byID := make(map[int64]*AccountTotals)
	for _, e := range entries {
		if !e.FeedsStatement() {
			continue
		}
		for _, li := range e.Lines {
			t := byID[li.AccountID]
			if t == nil {
				t = &AccountTotals{AccountID: li.AccountID}
				byID[li.AccountID] = t
			}
			switch li.Direction {
			case DirectionDebit:
				t.Debit = t.Debit.Add(li.Amount)
			case DirectionCredit:
				t.Credit = t.Credit.Add(li.Amount)
			}
		}
	}

	out := make([]AccountTotals, 0, len(byID))
	for _, t := range byID {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out
}

package statements

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/abschluss-erp/abschluss-erp/internal/accounting/accounts"
	"github.com/abschluss-erp/abschluss-erp/internal/accounting/journals"
	"github.com/abschluss-erp/abschluss-erp/internal/accounting/sections"
)

// materialityThreshold is the minimum absolute balance for an account to be
// reportable, in the statement's currency unit.
var materialityThreshold = decimal.NewFromFloat(0.01)

// closingAccountPrefix marks accounts that exist only to shuttle closing
// entries. They never appear in a rendered statement.
const closingAccountPrefix = "9"

// AccountBalance is the transient result of aggregating one account's posted
// activity: the signed net balance under the account type's sign convention.
type AccountBalance struct {
	Code    string
	Name    string
	Type    accounts.AccountType
	Rule    accounts.PresentationRule
	Balance decimal.Decimal
}

// Aggregate folds per-account debit/credit totals into signed net balances.
//
// Sign convention: asset and expense accounts are debit-normal (net =
// debit − credit); liability, equity, and revenue accounts are credit-normal
// (net = credit − debit). An unknown account type nets to zero rather than
// failing the statement.
//
// Accounts below the materiality threshold and accounts whose code carries
// the closing prefix are dropped. Output is sorted by code so repeated runs
// over identical data are byte-identical.
func Aggregate(accts []accounts.Account, totals []journals.AccountTotals) []AccountBalance {
	byID := make(map[int64]journals.AccountTotals, len(totals))
	for _, t := range totals {
		byID[t.AccountID] = t
	}

	out := make([]AccountBalance, 0, len(accts))
	for _, acc := range accts {
		t, ok := byID[acc.ID]
		if !ok {
			continue
		}
		var net decimal.Decimal
		switch {
		case acc.Type.DebitNormal():
			net = t.Debit.Sub(t.Credit)
		case acc.Type.CreditNormal():
			net = t.Credit.Sub(t.Debit)
		default:
			net = decimal.Zero
		}
		if net.Abs().LessThan(materialityThreshold) {
			continue
		}
		code := acc.Code
		if canon, err := sections.Canonical(code); err == nil {
			code = canon
		}
		if strings.HasPrefix(code, closingAccountPrefix) {
			continue
		}
		out = append(out, AccountBalance{
			Code:    code,
			Name:    acc.Name,
			Type:    acc.Type,
			Rule:    acc.Rule,
			Balance: net,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

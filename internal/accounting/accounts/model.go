package accounts

import "time"

// AccountType enumerates CoA categories.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// DebitNormal reports whether a debit surplus increases the account.
// Unknown types are neither debit- nor credit-normal; callers treat their
// balance as zero rather than failing the statement.
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// CreditNormal reports whether a credit surplus increases the account.
func (t AccountType) CreditNormal() bool {
	return t == AccountTypeLiability || t == AccountTypeEquity || t == AccountTypeRevenue
}

// PresentationRule tags accounts whose statement side needs a decision beyond
// code-range membership. The zero value means "classify by code alone".
type PresentationRule string

const (
	RuleNone          PresentationRule = ""
	RuleAssetOnly     PresentationRule = "asset_only"
	RuleLiabilityOnly PresentationRule = "liability_only"
	RuleEquityOnly    PresentationRule = "equity_only"
	RulePnLOnly       PresentationRule = "pnl_only"

	// Bidirectional rules: the statement side depends on the sign of the
	// aggregated balance at computation time.
	RuleReceivablePayable           PresentationRule = "receivable_payable"
	RuleBankCashOverdraft           PresentationRule = "bank_cash_overdraft"
	RuleTaxReceivablePayable        PresentationRule = "tax_receivable_payable"
	RuleAffiliatedReceivablePayable PresentationRule = "affiliated_receivable_payable"

	// RuleNeedsReview marks accounts the offline classifier recognised as
	// ambiguous without being able to infer a rule. They surface in the
	// statement's unclassified bucket for a human to resolve.
	RuleNeedsReview PresentationRule = "needs_review"
)

// Bidirectional reports whether the rule makes the side saldo-dependent.
func (r PresentationRule) Bidirectional() bool {
	switch r {
	case RuleReceivablePayable, RuleBankCashOverdraft, RuleTaxReceivablePayable, RuleAffiliatedReceivablePayable:
		return true
	}
	return false
}

// Account models a chart of accounts node. Accounts referenced by posted
// line items are immutable except for the presentation rule, which may be
// corrected administratively.
type Account struct {
	ID        int64
	CompanyID int64
	Code      string
	Name      string
	Type      AccountType
	Rule      PresentationRule
	CreatedAt time.Time
	UpdatedAt time.Time
}

package statements

import (
	"github.com/shopspring/decimal"

	"github.com/abschluss-erp/abschluss-erp/internal/accounting/accounts"
	"github.com/abschluss-erp/abschluss-erp/internal/accounting/sections"
)

// rulePair names the two sections a bidirectional rule can resolve to.
type rulePair struct {
	Asset     string
	Liability string
}

// defaultRulePairs binds each bidirectional rule variant to its asset-side
// and liability-side section in the default taxonomy.
func defaultRulePairs() map[accounts.PresentationRule]rulePair {
	return map[accounts.PresentationRule]rulePair{
		accounts.RuleReceivablePayable:           {Asset: "forderungen_ll", Liability: "verbindlichkeiten_ll"},
		accounts.RuleBankCashOverdraft:           {Asset: "kasse_bank", Liability: "verbindlichkeiten_kreditinstitute"},
		accounts.RuleTaxReceivablePayable:        {Asset: "steuerforderungen", Liability: "steuerverbindlichkeiten"},
		accounts.RuleAffiliatedReceivablePayable: {Asset: "forderungen_verbundene", Liability: "verbindlichkeiten_verbundene"},
	}
}

// Resolver decides, per bidirectional account, which statement side the
// current balance belongs on. Static rules and plain accounts classify by
// code range alone and never reach the resolver.
type Resolver struct {
	pairs map[accounts.PresentationRule]rulePair
}

// NewResolver builds a resolver against cfg, verifying every target section
// exists so a taxonomy/rule mismatch surfaces at startup.
func NewResolver(cfg *sections.Config) (*Resolver, error) {
	return NewResolverWithPairs(cfg, defaultRulePairs())
}

// NewResolverWithPairs builds a resolver with an explicit rule binding,
// mainly for alternate taxonomies and tests.
func NewResolverWithPairs(cfg *sections.Config, pairs map[accounts.PresentationRule]rulePair) (*Resolver, error) {
	for rule, pair := range pairs {
		asset, ok := cfg.Section(pair.Asset)
		if !ok {
			return nil, &sections.ConfigError{Section: pair.Asset, Reason: "rule " + string(rule) + " targets an undefined asset-side section"}
		}
		if asset.Side != sections.SideAktiva {
			return nil, &sections.ConfigError{Section: pair.Asset, Reason: "rule " + string(rule) + " asset target must be an aktiva section"}
		}
		liability, ok := cfg.Section(pair.Liability)
		if !ok {
			return nil, &sections.ConfigError{Section: pair.Liability, Reason: "rule " + string(rule) + " targets an undefined liability-side section"}
		}
		if liability.Side != sections.SidePassiva {
			return nil, &sections.ConfigError{Section: pair.Liability, Reason: "rule " + string(rule) + " liability target must be a passiva section"}
		}
	}
	return &Resolver{pairs: pairs}, nil
}

// Resolve picks the asset-side section when the net balance is non-negative,
// otherwise the liability-side section. The chosen section receives the
// magnitude; the sign is consumed by the side selection. The boolean is
// false when the rule is not a bidirectional variant.
func (r *Resolver) Resolve(rule accounts.PresentationRule, balance decimal.Decimal) (string, decimal.Decimal, bool) {
	pair, ok := r.pairs[rule]
	if !ok {
		return "", decimal.Decimal{}, false
	}
	if balance.Sign() >= 0 {
		return pair.Asset, balance, true
	}
	return pair.Liability, balance.Abs(), true
}

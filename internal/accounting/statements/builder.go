package statements

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abschluss-erp/abschluss-erp/internal/accounting/accounts"
	"github.com/abschluss-erp/abschluss-erp/internal/accounting/fiscalyears"
	"github.com/abschluss-erp/abschluss-erp/internal/accounting/sections"
)

const (
	profitLabel = "Jahresüberschuss"
	lossLabel   = "Jahresfehlbetrag"

	// netIncomeCode marks the synthetic equity line carrying net income.
	netIncomeCode = "-"
)

// Row is one account line inside a statement section. Balance is rounded to
// two decimals at build time; upstream accumulation keeps full precision.
type Row struct {
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// SectionNode is one section of the statement hierarchy.
type SectionNode struct {
	Key             string          `json:"key"`
	Label           string          `json:"label"`
	Rows            []Row           `json:"accounts"`
	Total           decimal.Decimal `json:"total"`
	CumulativeTotal decimal.Decimal `json:"cumulative_total"`
	AccountCount    int             `json:"account_count"`
	CumulativeCount int             `json:"cumulative_account_count"`
	Children        []SectionNode   `json:"children,omitempty"`
}

// StatementSide groups the root sections of one statement side.
type StatementSide struct {
	Sections []SectionNode   `json:"sections"`
	Total    decimal.Decimal `json:"total"`
}

// NetIncomeLine is the synthetic equity entry derived from the GuV.
type NetIncomeLine struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// FiscalYearMeta carries period metadata into the statement output.
type FiscalYearMeta struct {
	ID        int64     `json:"id"`
	Year      int       `json:"year"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Closed    bool      `json:"closed"`
}

// Statement is the complete classified output for one fiscal year: balance
// sheet sides, GuV sections, the injected net income line, the unclassified
// bucket, and the balanced flag. The persisted snapshot document uses the
// identical JSON shape.
type Statement struct {
	FiscalYear   FiscalYearMeta `json:"fiscal_year"`
	Aktiva       StatementSide  `json:"aktiva"`
	Passiva      StatementSide  `json:"passiva"`
	Revenue      StatementSide  `json:"revenue"`
	Expense      StatementSide  `json:"expense"`
	NetIncome    NetIncomeLine  `json:"net_income"`
	Unclassified []Row          `json:"unclassified,omitempty"`
	Balanced     bool           `json:"balanced"`
	Stored       bool           `json:"stored,omitempty"`
	PostedAt     *time.Time     `json:"posted_at,omitempty"`
}

// balancedTolerance absorbs decimal rounding across many summed lines. It is
// the only acceptable slack; real imbalance must not hide behind it.
var balancedTolerance = decimal.NewFromFloat(0.01)

// Builder classifies aggregated balances into the section hierarchy and
// assembles the statement. It is read-only after construction and safe for
// concurrent use.
type Builder struct {
	idx       *sections.Index
	resolver  *Resolver
	equityKey string
}

// NewBuilder wires a builder against one loaded taxonomy. The equity section
// receiving the net income line must exist on the passiva side.
func NewBuilder(idx *sections.Index, resolver *Resolver, equityKey string) (*Builder, error) {
	sec, ok := idx.Config().Section(equityKey)
	if !ok {
		return nil, &sections.UnknownSectionError{Key: equityKey}
	}
	if sec.Side != sections.SidePassiva {
		return nil, &sections.ConfigError{Section: equityKey, Reason: "net income target must be a passiva section"}
	}
	return &Builder{idx: idx, resolver: resolver, equityKey: equityKey}, nil
}

type sectionAcc struct {
	rows  []Row
	total decimal.Decimal
}

// Build groups classified balances into the section hierarchy, injects net
// income into equity, and evaluates the balanced invariant. It never mutates
// its inputs.
func (b *Builder) Build(fy fiscalyears.FiscalYear, balances []AccountBalance) Statement {
	accs := make(map[string]*sectionAcc)
	add := func(key string, row Row, exact decimal.Decimal) {
		acc := accs[key]
		if acc == nil {
			acc = &sectionAcc{}
			accs[key] = acc
		}
		acc.rows = append(acc.rows, row)
		acc.total = acc.total.Add(exact)
	}

	var unclassified []Row
	for _, bal := range balances {
		if bal.Rule == accounts.RuleNeedsReview {
			unclassified = append(unclassified, Row{Code: bal.Code, Name: bal.Name, Balance: bal.Balance.Round(2)})
			continue
		}
		if bal.Rule.Bidirectional() {
			if key, amount, ok := b.resolver.Resolve(bal.Rule, bal.Balance); ok {
				add(key, Row{Code: bal.Code, Name: bal.Name, Balance: amount.Round(2)}, amount)
				continue
			}
		}
		key, ok := b.idx.ResolveCode(bal.Code)
		if !ok {
			unclassified = append(unclassified, Row{Code: bal.Code, Name: bal.Name, Balance: bal.Balance.Round(2)})
			continue
		}
		add(key, Row{Code: bal.Code, Name: bal.Name, Balance: bal.Balance.Round(2)}, bal.Balance)
	}

	cfg := b.idx.Config()

	revenueTotal := sideExactTotal(cfg, accs, sections.SideRevenue)
	expenseTotal := sideExactTotal(cfg, accs, sections.SideExpense)
	netIncome := revenueTotal.Sub(expenseTotal)

	label := profitLabel
	if netIncome.Sign() < 0 {
		label = lossLabel
	}
	add(b.equityKey, Row{Code: netIncomeCode, Name: label, Balance: netIncome.Round(2)}, netIncome)

	aktiva, aktivaTotal := b.buildSide(accs, sections.SideAktiva)
	passiva, passivaTotal := b.buildSide(accs, sections.SidePassiva)
	revenue, _ := b.buildSide(accs, sections.SideRevenue)
	expense, _ := b.buildSide(accs, sections.SideExpense)

	sort.SliceStable(unclassified, func(i, j int) bool { return unclassified[i].Code < unclassified[j].Code })

	return Statement{
		FiscalYear: FiscalYearMeta{
			ID:        fy.ID,
			Year:      fy.Year,
			StartDate: fy.StartDate,
			EndDate:   fy.EndDate,
			Closed:    fy.Closed,
		},
		Aktiva:       aktiva,
		Passiva:      passiva,
		Revenue:      revenue,
		Expense:      expense,
		NetIncome:    NetIncomeLine{Label: label, Amount: netIncome.Round(2)},
		Unclassified: unclassified,
		Balanced:     aktivaTotal.Sub(passivaTotal).Abs().LessThan(balancedTolerance),
	}
}

func sideExactTotal(cfg *sections.Config, accs map[string]*sectionAcc, side sections.Side) decimal.Decimal {
	total := decimal.Zero
	for _, sec := range cfg.Sections {
		if sec.Side != side {
			continue
		}
		if acc := accs[sec.Key]; acc != nil {
			total = total.Add(acc.total)
		}
	}
	return total
}

// buildSide assembles the section tree for one side. The returned total is
// the full-precision sum across the side; the nodes carry rounded values.
func (b *Builder) buildSide(accs map[string]*sectionAcc, side sections.Side) (StatementSide, decimal.Decimal) {
	cfg := b.idx.Config()
	out := StatementSide{Sections: make([]SectionNode, 0)}
	total := decimal.Zero
	for _, key := range cfg.Roots(side) {
		node, exact := b.buildNode(accs, key)
		out.Sections = append(out.Sections, node)
		total = total.Add(exact)
	}
	out.Total = total.Round(2)
	return out, total
}

func (b *Builder) buildNode(accs map[string]*sectionAcc, key string) (SectionNode, decimal.Decimal) {
	cfg := b.idx.Config()
	sec, _ := cfg.Section(key)
	node := SectionNode{Key: key, Label: sec.Label, Rows: make([]Row, 0)}

	own := decimal.Zero
	if acc := accs[key]; acc != nil {
		node.Rows = append(node.Rows, acc.rows...)
		own = acc.total
	}
	sort.SliceStable(node.Rows, func(i, j int) bool { return node.Rows[i].Code < node.Rows[j].Code })
	node.AccountCount = len(node.Rows)

	cumulative := own
	node.CumulativeCount = node.AccountCount
	for _, childKey := range cfg.Children(key) {
		child, childExact := b.buildNode(accs, childKey)
		node.Children = append(node.Children, child)
		cumulative = cumulative.Add(childExact)
		node.CumulativeCount += child.CumulativeCount
	}

	node.Total = own.Round(2)
	node.CumulativeTotal = cumulative.Round(2)
	return node, cumulative
}

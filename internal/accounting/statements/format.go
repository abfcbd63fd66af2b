package statements

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var german = message.NewPrinter(language.German)

// formatAmount renders a monetary value in German convention (1.234,56).
// Display only; the JSON output keeps plain decimal strings.
func formatAmount(d decimal.Decimal) string {
	return german.Sprintf("%.2f", d.InexactFloat64())
}

// RenderText renders a statement as a plain-text listing, one side per
// block, for terminal output and e-mail bodies.
func RenderText(st Statement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bilanz %d (%s - %s)\n", st.FiscalYear.Year,
		st.FiscalYear.StartDate.Format("02.01.2006"), st.FiscalYear.EndDate.Format("02.01.2006"))
	if st.Stored && st.PostedAt != nil {
		fmt.Fprintf(&b, "Festgeschrieben am %s\n", st.PostedAt.Format("02.01.2006 15:04"))
	}
	writeSide(&b, "Aktiva", st.Aktiva)
	writeSide(&b, "Passiva", st.Passiva)
	writeSide(&b, "Erträge", st.Revenue)
	writeSide(&b, "Aufwendungen", st.Expense)
	fmt.Fprintf(&b, "\n%s: %s\n", st.NetIncome.Label, formatAmount(st.NetIncome.Amount))
	if len(st.Unclassified) > 0 {
		fmt.Fprintf(&b, "\nNicht zugeordnet:\n")
		for _, row := range st.Unclassified {
			fmt.Fprintf(&b, "  %s  %-40s %s\n", row.Code, row.Name, formatAmount(row.Balance))
		}
	}
	if st.Balanced {
		fmt.Fprintf(&b, "\nBilanz ist ausgeglichen.\n")
	} else {
		fmt.Fprintf(&b, "\nBilanz ist NICHT ausgeglichen.\n")
	}
	return b.String()
}

func writeSide(b *strings.Builder, title string, side StatementSide) {
	fmt.Fprintf(b, "\n%s\n", title)
	for _, sec := range side.Sections {
		writeSection(b, sec, 1)
	}
	fmt.Fprintf(b, "  Summe %s: %s\n", title, formatAmount(side.Total))
}

func writeSection(b *strings.Builder, node SectionNode, depth int) {
	indent := strings.Repeat("  ", depth)
	if node.CumulativeCount == 0 {
		return
	}
	fmt.Fprintf(b, "%s%s (%s)\n", indent, node.Label, formatAmount(node.CumulativeTotal))
	for _, row := range node.Rows {
		fmt.Fprintf(b, "%s  %s  %-40s %s\n", indent, row.Code, row.Name, formatAmount(row.Balance))
	}
	for _, child := range node.Children {
		writeSection(b, child, depth+1)
	}
}

package report

import (
	"fmt"
	"sort"
	"strings"
)

const (
	dateLayout   = "01/02/2006"
	columnHeader = "Date\tCustomer\tUsers\tLicenses\tTax\tTotal\tFees"
)

// totals accumulates the four summed columns in minor units.
type totals struct {
	licenses int64
	tax      int64
	total    int64
	fees     int64
}

func (t *totals) add(r Row) {
	t.licenses += r.LicenseCents
	t.tax += r.TaxCents
	t.total += r.TotalCents
	t.fees += r.FeeCents
}

func (t *totals) merge(o totals) {
	t.licenses += o.licenses
	t.tax += o.tax
	t.total += o.total
	t.fees += o.fees
}

// Build renders the full report document: rows grouped by state code in
// alphabetical order, each group sorted by date then customer name, with a
// per-group subtotal line and a final grand-total line. Deterministic and
// pure; running it twice on the same rows is byte-identical.
func Build(rows []Row) string {
	byState := make(map[string][]Row)
	for _, r := range rows {
		byState[r.State] = append(byState[r.State], r)
	}

	codes := make([]string, 0, len(byState))
	for code := range byState {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var b strings.Builder
	var grand totals

	for i, code := range codes {
		group := byState[code]
		sort.SliceStable(group, func(i, j int) bool {
			if !group[i].Date.Equal(group[j].Date) {
				return group[i].Date.Before(group[j].Date)
			}
			return group[i].Customer < group[j].Customer
		})

		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(stateHeader(code))
		b.WriteByte('\n')
		b.WriteString(columnHeader)
		b.WriteByte('\n')

		var sub totals
		for _, r := range group {
			fmt.Fprintf(&b, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
				r.Date.UTC().Format(dateLayout),
				r.Customer,
				r.Users,
				formatCents(r.LicenseCents),
				formatCents(r.TaxCents),
				formatCents(r.TotalCents),
				formatCents(r.FeeCents),
			)
			sub.add(r)
		}

		// Subtotal line: Date/Customer/Users columns stay blank.
		fmt.Fprintf(&b, "\t\t\t%s\t%s\t%s\t%s\n",
			formatCents(sub.licenses),
			formatCents(sub.tax),
			formatCents(sub.total),
			formatCents(sub.fees),
		)
		grand.merge(sub)
	}

	if len(codes) > 0 {
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "TOTAL\t\t\t%s\t%s\t%s\t%s\n",
		formatCents(grand.licenses),
		formatCents(grand.tax),
		formatCents(grand.total),
		formatCents(grand.fees),
	)

	return b.String()
}

// stateHeader renders the section header, e.g. "TEXAS (TX)".
func stateHeader(code string) string {
	if name, ok := stateNames[code]; ok {
		return fmt.Sprintf("%s (%s)", name, code)
	}
	return code
}

// formatCents renders a minor-unit amount with exactly two decimal places
// using integer math, so no value ever round-trips through a float.
func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

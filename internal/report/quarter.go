package report

import (
	"fmt"
	"time"
)

// Quarter is one fiscal quarter as a half-open UTC interval [Start, End).
// Fiscal quarters align to calendar quarters: Q1=Jan-Mar through Q4=Oct-Dec.
type Quarter struct {
	Start  time.Time
	End    time.Time
	Number int
	Year   int
}

// PreviousQuarter returns the fiscal quarter immediately preceding the one
// containing now. A run in January resolves to Q4 of the previous year.
// Pure function; inject the clock for testability.
func PreviousQuarter(now time.Time) Quarter {
	now = now.UTC()

	number := (int(now.Month())-1)/3 + 1
	year := now.Year()

	number--
	if number == 0 {
		number = 4
		year--
	}

	startMonth := time.Month((number-1)*3 + 1)
	start := time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC)

	return Quarter{
		Start:  start,
		End:    start.AddDate(0, 3, 0),
		Number: number,
		Year:   year,
	}
}

// LastDay is the final calendar day inside the quarter, for display.
func (q Quarter) LastDay() time.Time {
	return q.End.AddDate(0, 0, -1)
}

// Label renders the quarter as e.g. "Q4 2025".
func (q Quarter) Label() string {
	return fmt.Sprintf("Q%d %d", q.Number, q.Year)
}

package crash

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/joshday/DataJamboree2022/frame"
)

// Diagnostics reports the killed-count reconciliation: how many records
// carry a recorded persons-killed total that agrees with the sum of the
// pedestrian, cyclist and motorist counts. The pipeline never fails on a
// mismatch; the computed sum is authoritative downstream.
type Diagnostics struct {
	Records int
	Matched int
	Pct     float64 // percent matched, rounded to 2 decimals

	// Mismatches holds the offending rows for inspection.
	Mismatches *frame.DF
}

func (d *Diagnostics) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "persons_killed reconciliation: %d of %d records match (%.2f%%)\n", d.Matched, d.Records, d.Pct)
	if d.Mismatches != nil && d.Mismatches.RowCount() > 0 {
		fmt.Fprintf(&b, "mismatching records:\n%s", d.Mismatches)
	}

	return b.String()
}

// Derive adds the analysis columns to df in place: nkilled, hour, death
// and factor1. It returns the reconciliation diagnostics. A malformed
// date/time is an error; a reconciliation mismatch is not.
func Derive(df *frame.DF, factorThreshold int) (*Diagnostics, error) {
	diag, e := deriveKilled(df)
	if e != nil {
		return nil, e
	}

	if e := deriveHour(df); e != nil {
		return nil, e
	}

	if e := deriveFactor(df, factorThreshold); e != nil {
		return nil, e
	}

	return diag, nil
}

// deriveKilled adds nkilled (sum of the three sub-counts, a missing
// sub-count contributing zero) and death (1 if nkilled >= 1), and
// reconciles nkilled against the recorded persons-killed total.
func deriveKilled(df *frame.DF) (*Diagnostics, error) {
	ped, e := df.Column(ColPedKill)
	if e != nil {
		return nil, e
	}
	cyc, e := df.Column(ColCycKill)
	if e != nil {
		return nil, e
	}
	mot, e := df.Column(ColMotKill)
	if e != nil {
		return nil, e
	}
	recorded, e := df.Column(ColPersKill)
	if e != nil {
		return nil, e
	}

	n := df.RowCount()
	nkilled := make([]int, n)
	death := make([]int, n)
	matched := 0
	var misRows []int

	for row := 0; row < n; row++ {
		s := at(ped, row) + at(cyc, row) + at(mot, row)
		nkilled[row] = s
		if s >= 1 {
			death[row] = 1
		}

		if !recorded.IsMissing(row) && recorded.Ints()[row] == s {
			matched++
		} else {
			misRows = append(misRows, row)
		}
	}

	nc, e := frame.NewCol(ColNKilled, nkilled)
	if e != nil {
		return nil, e
	}
	if e := df.AppendColumn(nc); e != nil {
		return nil, e
	}

	dc, e := frame.NewCol(ColDeath, death)
	if e != nil {
		return nil, e
	}
	if e := df.AppendColumn(dc); e != nil {
		return nil, e
	}

	mismatches, e := df.Subset(misRows)
	if e != nil {
		return nil, e
	}

	pct := 0.0
	if n > 0 {
		pct = math.Round(10000.0*float64(matched)/float64(n)) / 100.0
	}

	return &Diagnostics{Records: n, Matched: matched, Pct: pct, Mismatches: mismatches}, nil
}

// timeFormats accepted for the crash_time field.
var timeFormats = []string{"15:04", "15:04:05"}

// deriveHour adds the hour column from crash_date + crash_time. The date
// column is already parsed; only the time-of-day string is handled here.
func deriveHour(df *frame.DF) error {
	dates, e := df.Column(ColDate)
	if e != nil {
		return e
	}
	times, e := df.Column(ColTime)
	if e != nil {
		return e
	}

	n := df.RowCount()
	hours := make([]int, n)
	for row := 0; row < n; row++ {
		if dates.IsMissing(row) || times.IsMissing(row) {
			return fmt.Errorf("row %d: missing crash date or time", row+1)
		}

		tod, ex := parseTime(times.Strings()[row])
		if ex != nil {
			return fmt.Errorf("row %d: %w", row+1, ex)
		}

		hours[row] = tod.Hour()
	}

	hc, e := frame.NewCol(ColHour, hours)
	if e != nil {
		return e
	}

	return df.AppendColumn(hc)
}

func parseTime(s string) (time.Time, error) {
	for _, fmtx := range timeFormats {
		if t, e := time.Parse(fmtx, s); e == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("cannot parse crash time %q", s)
}

// deriveFactor adds factor1: the vehicle-one contributing factor with
// rare labels collapsed to Other. The rare set is computed once over the
// whole column; the empty label is a category like any other and
// collapses the same way.
func deriveFactor(df *frame.DF, threshold int) error {
	fc, e := df.Column(ColFactor)
	if e != nil {
		return e
	}

	rare := RareLevels(fc.Strings(), threshold)

	src := fc.Strings()
	out := make([]string, len(src))
	for row, v := range src {
		out[row] = v
		if rare[v] {
			out[row] = Other
		}
	}

	oc, e := frame.NewCol(ColFactor1, out)
	if e != nil {
		return e
	}

	return df.AppendColumn(oc)
}

// RareLevels returns the set of labels whose observed frequency is
// strictly below threshold. A label seen exactly threshold times is kept.
func RareLevels(labels []string, threshold int) map[string]bool {
	counts := make(map[string]int)
	for _, v := range labels {
		counts[v]++
	}

	rare := make(map[string]bool)
	for v, n := range counts {
		if n < threshold {
			rare[v] = true
		}
	}

	return rare
}

// at reads an int cell treating missing as zero.
func at(c *frame.Col, row int) int {
	if c.IsMissing(row) {
		return 0
	}

	return c.Ints()[row]
}

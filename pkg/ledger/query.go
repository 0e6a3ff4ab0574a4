package ledger

import "sort"

// Balance derives the outstanding amount of a recovery. It is recomputed on
// every read, never persisted, and may be negative when the client overpaid.
func Balance(r *Recovery) float64 {
	return r.AmountDue - r.AmountPaid
}

// BalanceStatus labels a balance: positive means outstanding, zero or
// negative means the entry is settled (or overpaid).
func BalanceStatus(r *Recovery) string {
	if Balance(r) > 0 {
		return "outstanding"
	}
	return "settled"
}

// Aggregate sums due, paid and balance across a set of recoveries. An empty
// set yields zero totals, not an error.
func Aggregate(records []*Recovery) Totals {
	var t Totals
	for _, r := range records {
		t.TotalDue += r.AmountDue
		t.TotalPaid += r.AmountPaid
		t.TotalBalance += Balance(r)
	}
	return t
}

// distinctYearsDesc sorts edition years descending and drops duplicates.
// The SQL path already does both; this keeps the cached path honest too.
func distinctYearsDesc(years []string) []string {
	if len(years) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(years))
	out := make([]string, 0, len(years))
	for _, y := range years {
		if _, ok := seen[y]; ok {
			continue
		}
		seen[y] = struct{}{}
		out = append(out, y)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}

package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBalance(t *testing.T) {
	tests := []struct {
		name string
		due  float64
		paid float64
		want float64
	}{
		{"outstanding", 1000, 400, 600},
		{"settled", 1000, 1000, 0},
		{"overpaid goes negative", 500, 700, -200},
		{"all zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Recovery{AmountDue: tt.due, AmountPaid: tt.paid}
			assert.Equal(t, tt.want, Balance(r))
		})
	}
}

func TestBalanceStatus(t *testing.T) {
	assert.Equal(t, "outstanding", BalanceStatus(&Recovery{AmountDue: 100, AmountPaid: 1}))
	assert.Equal(t, "settled", BalanceStatus(&Recovery{AmountDue: 100, AmountPaid: 100}))
	assert.Equal(t, "settled", BalanceStatus(&Recovery{AmountDue: 100, AmountPaid: 150}), "overpayment counts as settled")
}

func TestAggregate(t *testing.T) {
	records := []*Recovery{
		{AmountDue: 1000, AmountPaid: 400},
		{AmountDue: 500, AmountPaid: 700},
		{AmountDue: 0, AmountPaid: 0},
	}

	totals := Aggregate(records)
	assert.Equal(t, 1500.0, totals.TotalDue)
	assert.Equal(t, 1100.0, totals.TotalPaid)
	assert.Equal(t, 400.0, totals.TotalBalance)
}

func TestAggregate_Empty(t *testing.T) {
	totals := Aggregate(nil)
	assert.Equal(t, Totals{}, totals, "empty set yields zeros, not an error")

	totals = Aggregate([]*Recovery{})
	assert.Zero(t, totals.TotalDue)
	assert.Zero(t, totals.TotalPaid)
	assert.Zero(t, totals.TotalBalance)
}

func TestDistinctYearsDesc(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"empty", nil, []string{}},
		{"already sorted", []string{"2025", "2024"}, []string{"2025", "2024"}},
		{"unsorted with duplicates", []string{"2023", "2025", "2023", "2024", "2025"}, []string{"2025", "2024", "2023"}},
		{"single", []string{"2024"}, []string{"2024"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := distinctYearsDesc(tt.input)
			assert.Equal(t, tt.want, got)

			// Strictly descending, no duplicates
			for i := 1; i < len(got); i++ {
				assert.Greater(t, got[i-1], got[i])
			}
		})
	}
}

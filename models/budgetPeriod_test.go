package models_test

import (
	"testing"
	"time"

	"github.com/piggibank/piggibank_backend/models"
	"github.com/shopspring/decimal"
)

func TestGeneratePeriodsWeekly(t *testing.T) {
	anchor := date(2024, time.January, 1)
	periods := models.GeneratePeriods(anchor, models.CadenceWeekly)

	// 91 days between Jan 1 and Apr 1 hold exactly 13 whole weeks.
	if len(periods) != 13 {
		t.Fatalf("expected 13 weekly periods, got %d", len(periods))
	}
	first := periods[0]
	if !first.StartDate.Equal(anchor) || !first.EndDate.Equal(date(2024, time.January, 8)) {
		t.Fatalf("first period = [%s, %s)", first.StartDate, first.EndDate)
	}
	last := periods[len(periods)-1]
	if !last.StartDate.Equal(date(2024, time.March, 25)) || !last.EndDate.Equal(date(2024, time.April, 1)) {
		t.Fatalf("last period = [%s, %s)", last.StartDate, last.EndDate)
	}
}

func TestGeneratePeriodsContiguous(t *testing.T) {
	anchor := date(2024, time.March, 7)
	cadences := []models.Cadence{
		models.CadenceDaily,
		models.CadenceWeekly,
		models.CadenceBiweekly,
		models.CadenceMonthly,
		models.CadenceYearly,
	}
	for _, cadence := range cadences {
		periods := models.GeneratePeriods(anchor, cadence)
		if len(periods) == 0 {
			t.Fatalf("%s: no periods generated", cadence.Type)
		}
		if !periods[0].StartDate.Equal(anchor) {
			t.Fatalf("%s: first period starts at %s, not the anchor", cadence.Type, periods[0].StartDate)
		}
		horizon := cadence.HorizonEnd(anchor)
		for i, p := range periods {
			if !p.StartDate.Before(p.EndDate) {
				t.Fatalf("%s: period %d is empty or inverted [%s, %s)", cadence.Type, i, p.StartDate, p.EndDate)
			}
			if p.EndDate.After(horizon) {
				t.Fatalf("%s: period %d ends %s past the horizon %s", cadence.Type, i, p.EndDate, horizon)
			}
			if i > 0 && !periods[i-1].EndDate.Equal(p.StartDate) {
				t.Fatalf("%s: gap between period %d end %s and period %d start %s",
					cadence.Type, i-1, periods[i-1].EndDate, i, p.StartDate)
			}
		}
	}
}

func TestGeneratePeriodsYearlySingle(t *testing.T) {
	anchor := date(2024, time.June, 15)
	periods := models.GeneratePeriods(anchor, models.CadenceYearly)
	if len(periods) != 1 {
		t.Fatalf("expected a single yearly period, got %d", len(periods))
	}
	if !periods[0].EndDate.Equal(date(2025, time.June, 15)) {
		t.Fatalf("yearly period ends %s", periods[0].EndDate)
	}
}

func TestGeneratePeriodsDaily(t *testing.T) {
	periods := models.GeneratePeriods(date(2024, time.January, 1), models.CadenceDaily)
	if len(periods) != 31 {
		t.Fatalf("expected 31 daily periods over January, got %d", len(periods))
	}
}

func TestCalculateTotalBudget(t *testing.T) {
	cases := []struct {
		name    string
		income  int64
		fixed   int64
		savings int64
		want    string
	}{
		{"typical", 3000, 700, 20, "1840"},
		{"small", 1000, 200, 10, "720"},
		{"no savings", 2000, 500, 0, "1500"},
		{"full savings", 2000, 500, 100, "0"},
		{"overspent propagates negative", 1000, 1500, 10, "-450"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := models.CalculateTotalBudget(
				decimal.NewFromInt(tc.income),
				decimal.NewFromInt(tc.fixed),
				decimal.NewFromInt(tc.savings),
			)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("totalBudget(%d, %d, %d%%) = %s, want %s", tc.income, tc.fixed, tc.savings, got, tc.want)
			}
		})
	}
}

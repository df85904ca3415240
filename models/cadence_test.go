package models_test

import (
	"testing"
	"time"

	"github.com/piggibank/piggibank_backend/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseCadence(t *testing.T) {
	cases := []struct {
		input string
		want  models.PeriodType
	}{
		{"daily", models.PeriodTypeDaily},
		{"weekly", models.PeriodTypeWeekly},
		{"biweekly", models.PeriodTypeBiweekly},
		{"monthly", models.PeriodTypeMonthly},
		{"yearly", models.PeriodTypeYearly},
		{"Monthly", models.PeriodTypeMonthly},
		{"BIWEEKLY", models.PeriodTypeBiweekly},
	}
	for _, tc := range cases {
		cadence, err := models.ParseCadence(tc.input)
		if err != nil {
			t.Fatalf("ParseCadence(%q): unexpected error %v", tc.input, err)
		}
		if cadence.Type != tc.want {
			t.Fatalf("ParseCadence(%q) = %s, want %s", tc.input, cadence.Type, tc.want)
		}
		if !cadence.IsValid() {
			t.Fatalf("ParseCadence(%q): invalid cadence %+v", tc.input, cadence)
		}
	}
}

func TestParseCadenceRejectsUnknownType(t *testing.T) {
	for _, input := range []string{"", "fortnightly", "month"} {
		if _, err := models.ParseCadence(input); err == nil {
			t.Fatalf("ParseCadence(%q): expected error, got none", input)
		}
	}
}

func TestCadenceAdvance(t *testing.T) {
	anchor := date(2024, time.January, 15)
	cases := []struct {
		cadence models.Cadence
		want    time.Time
	}{
		{models.CadenceDaily, date(2024, time.January, 16)},
		{models.CadenceWeekly, date(2024, time.January, 22)},
		{models.CadenceBiweekly, date(2024, time.January, 29)},
		{models.CadenceMonthly, date(2024, time.February, 15)},
		{models.CadenceYearly, date(2025, time.January, 15)},
	}
	for _, tc := range cases {
		got := tc.cadence.Advance(anchor)
		if !got.Equal(tc.want) {
			t.Fatalf("%s.Advance(%s) = %s, want %s", tc.cadence.Type, anchor, got, tc.want)
		}
	}
}

// Month arithmetic is calendar-aware, so a monthly step from Jan 31 spills
// into March rather than clamping to Feb 29.
func TestCadenceAdvanceMonthEndSpill(t *testing.T) {
	got := models.CadenceMonthly.Advance(date(2024, time.January, 31))
	want := date(2024, time.March, 2)
	if !got.Equal(want) {
		t.Fatalf("monthly advance from Jan 31 = %s, want %s", got, want)
	}
}

func TestHorizonEnd(t *testing.T) {
	anchor := date(2024, time.January, 1)
	cases := []struct {
		cadence models.Cadence
		want    time.Time
	}{
		{models.CadenceDaily, date(2024, time.February, 1)},
		{models.CadenceWeekly, date(2024, time.April, 1)},
		{models.CadenceBiweekly, date(2024, time.April, 1)},
		{models.CadenceMonthly, date(2025, time.January, 1)},
		{models.CadenceYearly, date(2025, time.January, 1)},
	}
	for _, tc := range cases {
		got := tc.cadence.HorizonEnd(anchor)
		if !got.Equal(tc.want) {
			t.Fatalf("%s.HorizonEnd(%s) = %s, want %s", tc.cadence.Type, anchor, got, tc.want)
		}
	}
}

package models_test

import (
	"testing"
	"time"

	"github.com/piggibank/piggibank_backend/models"
	"github.com/shopspring/decimal"
)

func TestAmortizeGoalEvenSplit(t *testing.T) {
	// 600 across three weekly periods whose last end lands on the deadline.
	got := models.AmortizeGoal(models.AmortizeInput{
		Remaining:     decimal.NewFromInt(600),
		PeriodCount:   3,
		LastPeriodEnd: date(2024, time.January, 22),
		Deadline:      date(2024, time.January, 22),
		Cadence:       models.CadenceWeekly,
	})
	if !got.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("perPeriodAmount = %s, want 200", got)
	}
}

func TestAmortizeGoalKeepsAmountOnUnchangedCadence(t *testing.T) {
	previous := decimal.NewFromInt(200)
	got := models.AmortizeGoal(models.AmortizeInput{
		Remaining:         decimal.NewFromInt(570),
		PeriodCount:       3,
		LastPeriodEnd:     date(2024, time.January, 24),
		Deadline:          date(2024, time.January, 24),
		Cadence:           models.CadenceWeekly,
		UnchangedCadence:  true,
		PreviousPerPeriod: &previous,
	})
	// A start date shifted by a couple of days must not redistribute the
	// contribution when the cadence itself did not change.
	if !got.Equal(previous) {
		t.Fatalf("perPeriodAmount = %s, want the previous 200", got)
	}
}

func TestAmortizeGoalRecomputesOnChangedCadence(t *testing.T) {
	previous := decimal.NewFromInt(200)
	got := models.AmortizeGoal(models.AmortizeInput{
		Remaining:         decimal.NewFromInt(600),
		PeriodCount:       2,
		LastPeriodEnd:     date(2024, time.January, 29),
		Deadline:          date(2024, time.January, 29),
		Cadence:           models.CadenceBiweekly,
		UnchangedCadence:  false,
		PreviousPerPeriod: &previous,
	})
	if !got.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("perPeriodAmount = %s, want 300", got)
	}
}

func TestAmortizeGoalWholeRemainderWhenNoPeriodsRemain(t *testing.T) {
	// Deadline already passed: amount 100 with 40 contributed leaves 60 due
	// on the current period in one piece.
	got := models.AmortizeGoal(models.AmortizeInput{
		Remaining:   decimal.NewFromInt(60),
		PeriodCount: 0,
		Deadline:    date(2024, time.January, 1),
		Cadence:     models.CadenceWeekly,
	})
	if !got.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("perPeriodAmount = %s, want 60", got)
	}
}

func TestAmortizeGoalExtendsPastHorizon(t *testing.T) {
	// Two generated periods end at Jan 15 but the deadline is two more weeks
	// out, so projection counts four total and splits 600 four ways.
	got := models.AmortizeGoal(models.AmortizeInput{
		Remaining:     decimal.NewFromInt(600),
		PeriodCount:   2,
		LastPeriodEnd: date(2024, time.January, 15),
		Deadline:      date(2024, time.January, 29),
		Cadence:       models.CadenceWeekly,
	})
	if !got.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("perPeriodAmount = %s, want 150", got)
	}
}

func TestAmortizeGoalOverfundedGoesNonPositive(t *testing.T) {
	got := models.AmortizeGoal(models.AmortizeInput{
		Remaining:     decimal.NewFromInt(-50),
		PeriodCount:   2,
		LastPeriodEnd: date(2024, time.January, 15),
		Deadline:      date(2024, time.January, 15),
		Cadence:       models.CadenceWeekly,
	})
	if !got.Equal(decimal.NewFromInt(-25)) {
		t.Fatalf("perPeriodAmount = %s, want -25", got)
	}
}

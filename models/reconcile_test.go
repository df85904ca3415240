package models_test

import (
	"testing"
	"time"

	"github.com/piggibank/piggibank_backend/models"
)

func TestPlanReconciliationForwardShift(t *testing.T) {
	pivotStart := date(2024, time.January, 1)
	newStart := date(2024, time.January, 10)

	plan := models.PlanReconciliation(pivotStart, newStart, models.CadenceWeekly)

	// The pivot is truncated at the new start; regeneration picks up there.
	if !plan.PivotEndDate.Equal(newStart) {
		t.Fatalf("pivot end = %s, want %s", plan.PivotEndDate, newStart)
	}
	if len(plan.NewPeriods) == 0 {
		t.Fatal("no periods regenerated")
	}
	if !plan.NewPeriods[0].StartDate.Equal(plan.PivotEndDate) {
		t.Fatalf("first regenerated period starts %s, pivot ends %s",
			plan.NewPeriods[0].StartDate, plan.PivotEndDate)
	}
}

func TestPlanReconciliationBackdatedStart(t *testing.T) {
	pivotStart := date(2024, time.January, 10)
	newStart := date(2024, time.January, 1)

	plan := models.PlanReconciliation(pivotStart, newStart, models.CadenceWeekly)

	// Jan 1 advances weekly to Jan 15, the first boundary strictly past the
	// pivot's original start, so the shrunk pivot keeps positive length.
	want := date(2024, time.January, 15)
	if !plan.PivotEndDate.Equal(want) {
		t.Fatalf("pivot end = %s, want %s", plan.PivotEndDate, want)
	}
	if !plan.PivotEndDate.After(pivotStart) {
		t.Fatal("pivot would have zero or negative length")
	}
}

// The boundary comparison runs against the pivot's start as loaded, never the
// already-shifted value, so a new start equal to the pivot start still
// advances exactly one cadence step.
func TestPlanReconciliationEqualStartAdvancesOnce(t *testing.T) {
	pivotStart := date(2024, time.February, 5)

	plan := models.PlanReconciliation(pivotStart, pivotStart, models.CadenceBiweekly)

	want := date(2024, time.February, 19)
	if !plan.PivotEndDate.Equal(want) {
		t.Fatalf("pivot end = %s, want %s", plan.PivotEndDate, want)
	}
}

func TestPlanReconciliationTimelineStaysContiguous(t *testing.T) {
	pivotStart := date(2024, time.January, 10)
	newStart := date(2024, time.January, 3)

	for _, cadence := range []models.Cadence{
		models.CadenceDaily,
		models.CadenceWeekly,
		models.CadenceBiweekly,
		models.CadenceMonthly,
		models.CadenceYearly,
	} {
		plan := models.PlanReconciliation(pivotStart, newStart, cadence)
		if !plan.PivotEndDate.After(pivotStart) {
			t.Fatalf("%s: pivot end %s not past pivot start %s", cadence.Type, plan.PivotEndDate, pivotStart)
		}
		prevEnd := plan.PivotEndDate
		for i, p := range plan.NewPeriods {
			if !p.StartDate.Equal(prevEnd) {
				t.Fatalf("%s: period %d starts %s, previous ends %s", cadence.Type, i, p.StartDate, prevEnd)
			}
			if !p.StartDate.Before(p.EndDate) {
				t.Fatalf("%s: period %d is empty or inverted", cadence.Type, i)
			}
			prevEnd = p.EndDate
		}
	}
}

package models_test

import (
	"testing"
	"time"

	"github.com/piggibank/piggibank_backend/models"
	"github.com/shopspring/decimal"
)

func achievementsByTitle(statuses []*models.AchievementStatus) map[string]bool {
	out := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		out[s.Title] = s.Completed
	}
	return out
}

func TestEvaluateAchievementsSavingTiers(t *testing.T) {
	now := date(2024, time.June, 1)
	cases := []struct {
		saved int64
		want  map[string]bool
	}{
		{99, map[string]bool{"Save $100": false, "Save $1000": false, "Save $5000": false, "Save $10,000": false}},
		{100, map[string]bool{"Save $100": true, "Save $1000": false}},
		{1000, map[string]bool{"Save $100": true, "Save $1000": true, "Save $5000": false}},
		{10000, map[string]bool{"Save $5000": true, "Save $10,000": true}},
	}
	for _, tc := range cases {
		statuses := models.EvaluateAchievements(models.AchievementStats{
			AmountSaved: decimal.NewFromInt(tc.saved),
		}, now)
		got := achievementsByTitle(statuses)
		for title, want := range tc.want {
			if got[title] != want {
				t.Fatalf("saved=%d: %q completed=%v, want %v", tc.saved, title, got[title], want)
			}
		}
	}
}

func TestEvaluateAchievementsGoalAndPeriodCounts(t *testing.T) {
	now := date(2024, time.June, 1)
	statuses := models.EvaluateAchievements(models.AchievementStats{
		CompletedGoals:   5,
		CompletedPeriods: 3,
	}, now)
	got := achievementsByTitle(statuses)

	for title, want := range map[string]bool{
		"Complete 1 Goal":      true,
		"Complete 5 Goals":     true,
		"Complete 10 Goals":    false,
		"Budget For 3 Periods": true,
	} {
		if got[title] != want {
			t.Fatalf("%q completed=%v, want %v", title, got[title], want)
		}
	}
}

func TestEvaluateAchievementsFullYearTenure(t *testing.T) {
	firstStart := date(2023, time.March, 10)
	cases := []struct {
		now  time.Time
		want bool
	}{
		{date(2024, time.March, 9), false},
		{date(2024, time.March, 10), true},
		{date(2024, time.March, 11), true},
	}
	for _, tc := range cases {
		statuses := models.EvaluateAchievements(models.AchievementStats{
			FirstStartDate: &firstStart,
		}, tc.now)
		if got := achievementsByTitle(statuses)["Budget For A Full Year"]; got != tc.want {
			t.Fatalf("now=%s: full year=%v, want %v", tc.now, got, tc.want)
		}
	}
}

func TestEvaluateAchievementsWithoutAnyPeriods(t *testing.T) {
	statuses := models.EvaluateAchievements(models.AchievementStats{}, date(2024, time.June, 1))
	if achievementsByTitle(statuses)["Budget For A Full Year"] {
		t.Fatal("tenure achievement should stay locked with no periods on record")
	}
	if len(statuses) != 9 {
		t.Fatalf("checklist has %d entries, want 9", len(statuses))
	}
}

package models

import (
	"context"
	"time"

	"github.com/piggibank/piggibank_backend/config"
	"github.com/piggibank/piggibank_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Achievement logs one earned milestone per user. A (user_id, title) pair is
// recorded at most once, so the log doubles as the dedup store for "newly
// earned" notifications.
type Achievement struct {
	ID        int       `gorm:"primary_key" json:"id"`
	UserId    int       `gorm:"uniqueIndex:idx_achievements_user_title;not null" json:"user_id"`
	Title     string    `gorm:"uniqueIndex:idx_achievements_user_title;size:255;not null" json:"title"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"achieved_at"`
}

// AchievementStats are the aggregates the checklist is evaluated against.
type AchievementStats struct {
	AmountSaved      decimal.Decimal
	CompletedGoals   int
	CompletedPeriods int
	FirstStartDate   *time.Time
}

type AchievementStatus struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	New       bool   `json:"new"`
}

var (
	saveTier1 = decimal.NewFromInt(100)
	saveTier2 = decimal.NewFromInt(1000)
	saveTier3 = decimal.NewFromInt(5000)
	saveTier4 = decimal.NewFromInt(10000)
)

// EvaluateAchievements runs the fixed checklist against the aggregates.
func EvaluateAchievements(stats AchievementStats, now time.Time) []*AchievementStatus {
	fullYear := false
	if stats.FirstStartDate != nil {
		fullYear = !now.Before(stats.FirstStartDate.AddDate(1, 0, 0))
	}

	return []*AchievementStatus{
		{Title: "Save $100", Completed: stats.AmountSaved.GreaterThanOrEqual(saveTier1)},
		{Title: "Save $1000", Completed: stats.AmountSaved.GreaterThanOrEqual(saveTier2)},
		{Title: "Save $5000", Completed: stats.AmountSaved.GreaterThanOrEqual(saveTier3)},
		{Title: "Complete 1 Goal", Completed: stats.CompletedGoals >= 1},
		{Title: "Complete 5 Goals", Completed: stats.CompletedGoals >= 5},
		{Title: "Complete 10 Goals", Completed: stats.CompletedGoals >= 10},
		{Title: "Budget For 3 Periods", Completed: stats.CompletedPeriods >= 3},
		{Title: "Budget For A Full Year", Completed: fullYear},
		{Title: "Save $10,000", Completed: stats.AmountSaved.GreaterThanOrEqual(saveTier4)},
	}
}

// gatherAchievementStats computes the aggregates over the user's completed
// periods and goals. A period counts as completed once its end date has
// passed; the saved amount per completed period is the slice the allocator
// withheld from the budget.
func gatherAchievementStats(ctx context.Context, db *gorm.DB, userId int, now time.Time) (*AchievementStats, error) {
	var saved decimal.NullDecimal
	err := db.WithContext(ctx).Raw(`
		SELECT SUM(users.income * users.savings / 100) FROM budget_periods
		JOIN users ON budget_periods.user_id = users.id
		WHERE budget_periods.user_id = ? AND budget_periods.end_date <= ?`,
		userId, now).Scan(&saved).Error
	if err != nil {
		return nil, err
	}

	var goals []*Goal
	err = db.WithContext(ctx).Where("user_id = ?", userId).Find(&goals).Error
	if err != nil {
		return nil, err
	}
	completedGoals := 0
	for _, goal := range goals {
		progress, err := GoalProgress(ctx, db, goal.ID, now)
		if err != nil {
			return nil, err
		}
		if goal.Amount.Sub(progress).LessThan(completionTolerance) {
			completedGoals++
		}
	}

	var completedPeriods int64
	err = db.WithContext(ctx).Model(&BudgetPeriod{}).
		Where("user_id = ? AND end_date <= ?", userId, now).
		Count(&completedPeriods).Error
	if err != nil {
		return nil, err
	}

	stats := AchievementStats{
		AmountSaved:      utils.NullDecimalToZero(saved),
		CompletedGoals:   completedGoals,
		CompletedPeriods: int(completedPeriods),
	}

	var first BudgetPeriod
	err = db.WithContext(ctx).Where("user_id = ?", userId).
		Order("start_date ASC").First(&first).Error
	if err == nil {
		stats.FirstStartDate = &first.StartDate
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	return &stats, nil
}

// GetAchievements evaluates the checklist and records titles earned since the
// last visit. The New flag is set only on that first sighting.
func GetAchievements(ctx context.Context, userId int, now time.Time) ([]*AchievementStatus, error) {
	logger := config.GetLogger()
	db := config.GetDB()

	stats, err := gatherAchievementStats(ctx, db, userId, now)
	if err != nil {
		config.LogError(logger, "achievement", "GetAchievements", "gatherAchievementStats", nil, err)
		return nil, err
	}
	statuses := EvaluateAchievements(*stats, now)

	var earned []Achievement
	err = db.WithContext(ctx).Where("user_id = ?", userId).Find(&earned).Error
	if err != nil {
		return nil, err
	}
	recorded := make(map[string]bool, len(earned))
	for _, a := range earned {
		recorded[a.Title] = true
	}

	for _, status := range statuses {
		if !status.Completed || recorded[status.Title] {
			continue
		}
		entry := Achievement{UserId: userId, Title: status.Title}
		if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
			config.LogError(logger, "achievement", "GetAchievements", "record title", status.Title, err)
			return nil, err
		}
		status.New = true
	}

	return statuses, nil
}

package models

import (
	"context"
	"time"

	"github.com/piggibank/piggibank_backend/config"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetPeriodGoal links one goal to one budget period and carries the
// contribution allocated to the goal for that period. A goal gets one row per
// covered period; the rows are regenerated wholesale when the timeline is
// reconciled.
type BudgetPeriodGoal struct {
	ID             int             `gorm:"primary_key" json:"id"`
	Amount         decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	GoalId         int             `gorm:"index;not null" json:"goal_id"`
	BudgetPeriodId int             `gorm:"index;not null" json:"budget_period_id"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func GetGoalLinksForPeriod(ctx context.Context, budgetPeriodId int) ([]*BudgetPeriodGoal, error) {
	db := config.GetDB()
	var links []*BudgetPeriodGoal
	err := db.WithContext(ctx).
		Where("budget_period_id = ?", budgetPeriodId).
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

// every insert stays inside the caller's transaction; the enclosing operation
// only reports success once all links are written
func insertGoalLinks(ctx context.Context, tx *gorm.DB, goalId int, amount decimal.Decimal, budgetPeriodIds []int) error {
	for _, periodId := range budgetPeriodIds {
		link := BudgetPeriodGoal{
			Amount:         amount,
			GoalId:         goalId,
			BudgetPeriodId: periodId,
		}
		if err := tx.WithContext(ctx).Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

func deleteGoalLinksForPeriods(ctx context.Context, tx *gorm.DB, budgetPeriodIds []int) error {
	if len(budgetPeriodIds) == 0 {
		return nil
	}
	return tx.WithContext(ctx).
		Where("budget_period_id IN ?", budgetPeriodIds).
		Delete(&BudgetPeriodGoal{}).Error
}

func deleteGoalLinksForGoal(ctx context.Context, tx *gorm.DB, goalId int) error {
	return tx.WithContext(ctx).
		Where("goal_id = ?", goalId).
		Delete(&BudgetPeriodGoal{}).Error
}

// lastLinkedAmount returns the most recently scheduled per-period contribution
// for the goal, if any. The reconciler reads it before wiping links so an
// unchanged cadence keeps its amount instead of redistributing by rounding.
func lastLinkedAmount(ctx context.Context, tx *gorm.DB, goalId int) (*decimal.Decimal, error) {
	var link BudgetPeriodGoal
	err := tx.WithContext(ctx).
		Where("goal_id = ?", goalId).
		Order("budget_period_id DESC").
		First(&link).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &link.Amount, nil
}

package models

import (
	"context"
	"time"

	"github.com/piggibank/piggibank_backend/config"
	"github.com/piggibank/piggibank_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FixedExpense is one recurring cost (rent, subscriptions). The list is only
// ever replaced as a whole; there is no per-item update.
type FixedExpense struct {
	ID        int             `gorm:"primary_key" json:"id"`
	UserId    int             `gorm:"index;not null" json:"user_id"`
	Title     string          `gorm:"size:255;not null" json:"title"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewFixedExpense struct {
	Title  string          `json:"title" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

type ReplaceFixedExpensesInput struct {
	FixedSpendingList     []*NewFixedExpense `json:"fixed_spending_list" binding:"required"`
	StartDate             time.Time          `json:"start_date" binding:"required"`
	CurrentBudgetPeriodId int                `json:"current_budget_period_id" binding:"required"`
}

func GetFixedExpenses(ctx context.Context, userId int) ([]*FixedExpense, error) {
	return utils.FetchAllModels[FixedExpense](ctx, userId)
}

func sumFixedExpenses(ctx context.Context, tx *gorm.DB, userId int) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := tx.WithContext(ctx).Model(&FixedExpense{}).
		Where("user_id = ?", userId).
		Select("SUM(amount)").Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	return utils.NullDecimalToZero(sum), nil
}

// ReplaceFixedExpenses swaps the user's whole fixed-expense list, recomputes
// the total budget, and applies it to every open period. Delete plus
// re-insert happens inside one transaction so a failed replacement never
// leaves a half-written list behind.
func ReplaceFixedExpenses(ctx context.Context, userId int, input *ReplaceFixedExpensesInput) ([]*FixedExpense, decimal.Decimal, *BudgetPeriod, error) {

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Where("user_id = ?", userId).Delete(&FixedExpense{}).Error; err != nil {
		tx.Rollback()
		return nil, decimal.Zero, nil, err
	}

	for _, item := range input.FixedSpendingList {
		expense := FixedExpense{
			UserId: userId,
			Title:  item.Title,
			Amount: item.Amount,
		}
		if err := tx.WithContext(ctx).Create(&expense).Error; err != nil {
			tx.Rollback()
			return nil, decimal.Zero, nil, err
		}
	}

	var user User
	if err := tx.WithContext(ctx).First(&user, userId).Error; err != nil {
		tx.Rollback()
		return nil, decimal.Zero, nil, utils.ErrorRecordNotFound
	}
	fixedTotal, err := sumFixedExpenses(ctx, tx, userId)
	if err != nil {
		tx.Rollback()
		return nil, decimal.Zero, nil, err
	}
	totalBudget := CalculateTotalBudget(user.Income, fixedTotal, user.Savings)

	if err := UpdateFutureBudgets(ctx, tx, userId, totalBudget, input.StartDate); err != nil {
		tx.Rollback()
		return nil, decimal.Zero, nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, decimal.Zero, nil, err
	}

	config.RemoveRedisKey(userProfileCacheKey(userId))

	expenses, err := GetFixedExpenses(ctx, userId)
	if err != nil {
		return nil, decimal.Zero, nil, err
	}
	period, err := GetBudgetPeriod(ctx, userId, input.CurrentBudgetPeriodId)
	if err != nil {
		return nil, decimal.Zero, nil, err
	}
	return expenses, fixedTotal, period, nil
}

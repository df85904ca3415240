package models

import (
	"context"
	"errors"
	"time"

	"github.com/piggibank/piggibank_backend/config"
	"github.com/piggibank/piggibank_backend/utils"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeEarning TransactionType = "earning"
)

// Transaction is a single expense or earning recorded against one budget
// period. Rows are created and deleted, never updated in place.
type Transaction struct {
	ID              int             `gorm:"primary_key" json:"id"`
	UserId          int             `gorm:"index;not null" json:"user_id"`
	BudgetPeriodId  int             `gorm:"index;not null" json:"budget_period_id"`
	Category        string          `gorm:"size:255;not null" json:"category"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Note            string          `gorm:"type:text" json:"note"`
	Date            time.Time       `gorm:"not null" json:"date"`
	TransactionType TransactionType `gorm:"type:enum('expense','earning');not null" json:"transaction_type"`
	Icon            string          `gorm:"size:64" json:"icon"`
	Colour          string          `gorm:"size:64" json:"colour"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewTransaction struct {
	Category        string          `json:"category" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Note            string          `json:"note"`
	Date            time.Time       `json:"date" binding:"required"`
	BudgetPeriodId  int             `json:"budget_period_id" binding:"required"`
	TransactionType TransactionType `json:"transaction_type" binding:"required"`
	Icon            string          `json:"icon"`
	Colour          string          `json:"colour"`
}

// CategoryHabit is one category's spending (or earning) total within a period.
type CategoryHabit struct {
	Category string          `json:"category"`
	Sum      decimal.Decimal `json:"sum"`
	Icon     string          `json:"icon"`
	Colour   string          `json:"colour"`
}

// PeriodHabits summarizes one period's transactions grouped by category, with
// the neighbouring period ids for paging through the timeline.
type PeriodHabits struct {
	ExpenseHabits          []*CategoryHabit `json:"expense_habits"`
	EarningHabits          []*CategoryHabit `json:"earning_habits"`
	CurrentBudgetPeriod    *BudgetPeriod    `json:"current_budget_period"`
	PreviousBudgetPeriodId int              `json:"previous_budget_period_id"`
	NextBudgetPeriodId     int              `json:"next_budget_period_id"`
	Transactions           []*Transaction   `json:"transactions"`
}

// CategoryTrend compares one category's spend in a period against the
// preceding period. PercentChange is nil when there is no previous spend to
// compare against.
type CategoryTrend struct {
	Transactions           []*Transaction   `json:"transactions"`
	CurrentBudgetPeriod    *BudgetPeriod    `json:"current_budget_period"`
	PreviousBudgetPeriodId int              `json:"previous_budget_period_id"`
	NextBudgetPeriodId     int              `json:"next_budget_period_id"`
	PercentChange          *decimal.Decimal `json:"percent_change"`
}

func (t TransactionType) IsValid() bool {
	return t == TransactionTypeExpense || t == TransactionTypeEarning
}

func GetTransactionsForPeriod(ctx context.Context, userId int, budgetPeriodId int) ([]*Transaction, error) {
	db := config.GetDB()
	var transactions []*Transaction
	err := db.WithContext(ctx).
		Where("user_id = ? AND budget_period_id = ?", userId, budgetPeriodId).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// CreateTransaction records the transaction and returns the period's full
// transaction list.
func CreateTransaction(ctx context.Context, userId int, input *NewTransaction) ([]*Transaction, error) {
	if !input.TransactionType.IsValid() {
		return nil, errors.New("invalid transaction type")
	}
	if err := utils.ValidateResourceId[BudgetPeriod](ctx, userId, input.BudgetPeriodId); err != nil {
		return nil, errors.New("budget period not found")
	}

	transaction := Transaction{
		UserId:          userId,
		BudgetPeriodId:  input.BudgetPeriodId,
		Category:        input.Category,
		Amount:          input.Amount,
		Note:            input.Note,
		Date:            input.Date,
		TransactionType: input.TransactionType,
		Icon:            input.Icon,
		Colour:          input.Colour,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&transaction).Error; err != nil {
		return nil, err
	}

	return GetTransactionsForPeriod(ctx, userId, input.BudgetPeriodId)
}

// DeleteTransaction removes the transaction and returns the period's
// remaining transactions.
func DeleteTransaction(ctx context.Context, userId int, transactionId int, budgetPeriodId int) ([]*Transaction, error) {
	if _, err := utils.FetchModel[Transaction](ctx, userId, transactionId); err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Where("user_id = ?", userId).Delete(&Transaction{}, transactionId).Error; err != nil {
		return nil, err
	}

	return GetTransactionsForPeriod(ctx, userId, budgetPeriodId)
}

func categoryHabits(ctx context.Context, userId int, budgetPeriodId int, transactionType TransactionType) ([]*CategoryHabit, error) {
	db := config.GetDB()
	var habits []*CategoryHabit
	err := db.WithContext(ctx).Raw(`
		SELECT category, SUM(amount) AS sum,
			MAX(icon) AS icon, MAX(colour) AS colour
		FROM transactions
		WHERE user_id = ? AND budget_period_id = ? AND transaction_type = ?
		GROUP BY category`, userId, budgetPeriodId, transactionType).Scan(&habits).Error
	if err != nil {
		return nil, err
	}
	return habits, nil
}

// GetPeriodHabits groups a period's transactions by category for both
// expenses and earnings and locates the neighbouring periods.
func GetPeriodHabits(ctx context.Context, userId int, budgetPeriodId int) (*PeriodHabits, error) {
	period, err := GetBudgetPeriod(ctx, userId, budgetPeriodId)
	if err != nil {
		return nil, err
	}

	expenseHabits, err := categoryHabits(ctx, userId, budgetPeriodId, TransactionTypeExpense)
	if err != nil {
		return nil, err
	}
	earningHabits, err := categoryHabits(ctx, userId, budgetPeriodId, TransactionTypeEarning)
	if err != nil {
		return nil, err
	}

	nextId, err := NextBudgetPeriodId(ctx, userId, period.EndDate)
	if err != nil {
		return nil, err
	}
	previousId, err := PreviousBudgetPeriodId(ctx, userId, period.EndDate)
	if err != nil {
		return nil, err
	}

	transactions, err := GetTransactionsForPeriod(ctx, userId, budgetPeriodId)
	if err != nil {
		return nil, err
	}

	return &PeriodHabits{
		ExpenseHabits:          expenseHabits,
		EarningHabits:          earningHabits,
		CurrentBudgetPeriod:    period,
		PreviousBudgetPeriodId: previousId,
		NextBudgetPeriodId:     nextId,
		Transactions:           transactions,
	}, nil
}

func sumCategorySpend(ctx context.Context, userId int, budgetPeriodId int, category string) (decimal.Decimal, error) {
	db := config.GetDB()
	var sum decimal.NullDecimal
	err := db.WithContext(ctx).Model(&Transaction{}).
		Where("user_id = ? AND budget_period_id = ? AND category = ?", userId, budgetPeriodId, category).
		Select("SUM(amount)").Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	return utils.NullDecimalToZero(sum), nil
}

// GetCategoryTrend compares a single category across this period and the
// previous one. With nothing spent previously there is no ratio to report.
func GetCategoryTrend(ctx context.Context, userId int, budgetPeriodId int, category string) (*CategoryTrend, error) {
	period, err := GetBudgetPeriod(ctx, userId, budgetPeriodId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var transactions []*Transaction
	err = db.WithContext(ctx).
		Where("user_id = ? AND category = ? AND budget_period_id = ?", userId, category, budgetPeriodId).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	nextId, err := NextBudgetPeriodId(ctx, userId, period.EndDate)
	if err != nil {
		return nil, err
	}
	previousId, err := PreviousBudgetPeriodId(ctx, userId, period.EndDate)
	if err != nil {
		return nil, err
	}

	trend := CategoryTrend{
		Transactions:           transactions,
		CurrentBudgetPeriod:    period,
		PreviousBudgetPeriodId: previousId,
		NextBudgetPeriodId:     nextId,
	}

	if previousId == 0 {
		return &trend, nil
	}

	previousSpent, err := sumCategorySpend(ctx, userId, previousId, category)
	if err != nil {
		return nil, err
	}
	if previousSpent.IsZero() {
		return &trend, nil
	}
	currentSpent, err := sumCategorySpend(ctx, userId, budgetPeriodId, category)
	if err != nil {
		return nil, err
	}

	change := currentSpent.Sub(previousSpent).Div(previousSpent.Abs()).Mul(percentBase)
	trend.PercentChange = &change
	return &trend, nil
}

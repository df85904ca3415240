package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/piggibank/piggibank_backend/config"
	"github.com/piggibank/piggibank_backend/utils"
	"github.com/shopspring/decimal"
)

// User is the root aggregate: every other entity is owned by exactly one user.
type User struct {
	ID            int             `gorm:"primary_key" json:"id"`
	Email         string          `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password      string          `gorm:"size:255;not null" json:"-"`
	Income        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"income"`
	Savings       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"savings"`
	CreatedBudget *bool           `gorm:"not null;default:false" json:"created_budget"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type SignUpInput struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Password2 string `json:"password2" binding:"required"`
}

type SignInInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthPayload struct {
	Token         string          `json:"token"`
	Email         string          `json:"email"`
	Income        decimal.Decimal `json:"income"`
	Savings       decimal.Decimal `json:"savings"`
	CreatedBudget bool            `json:"created_budget"`
}

type UserProfile struct {
	Income             decimal.Decimal `json:"income"`
	Savings            decimal.Decimal `json:"savings"`
	CreatedBudget      bool            `json:"created_budget"`
	FixedSpendingList  []*FixedExpense `json:"fixed_spending_list"`
	FixedSpendingTotal decimal.Decimal `json:"fixed_spending_total"`
}

func userProfileCacheKey(userId int) string {
	return fmt.Sprintf("userProfile:%d", userId)
}

func SignUp(ctx context.Context, input *SignUpInput) (*AuthPayload, error) {
	if !utils.IsValidEmail(input.Email) {
		return nil, errors.New("please provide a valid email")
	}
	if input.Password != input.Password2 {
		return nil, errors.New("passwords do not match, please try again")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Email:         input.Email,
		Password:      string(hashedPassword),
		CreatedBudget: utils.NewFalse(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, errors.New("invalid email, email already signed up")
	}

	token, err := utils.JwtGenerate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &AuthPayload{Token: token, Email: user.Email}, nil
}

func SignIn(ctx context.Context, input *SignInInput) (*AuthPayload, error) {
	if !utils.IsValidEmail(input.Email) {
		return nil, errors.New("please provide a valid email")
	}

	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).Where("email = ?", input.Email).First(&user).Error; err != nil {
		return nil, errors.New("must provide a valid email and password")
	}
	if err := utils.ComparePassword(user.Password, input.Password); err != nil {
		return nil, errors.New("invalid password")
	}

	token, err := utils.JwtGenerate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &AuthPayload{
		Token:         token,
		Email:         user.Email,
		Income:        user.Income,
		Savings:       user.Savings,
		CreatedBudget: user.CreatedBudget != nil && *user.CreatedBudget,
	}, nil
}

func GetUser(ctx context.Context, userId int) (*User, error) {
	return utils.FetchSingleModel[User](ctx, userId)
}

// GetUserProfile returns the onboarding-relevant slice of the user plus their
// fixed expenses. Read often enough to be worth the cache; every mutation of
// the underlying rows drops the key.
func GetUserProfile(ctx context.Context, userId int) (*UserProfile, error) {
	var profile UserProfile
	cached, err := config.GetRedisObject(userProfileCacheKey(userId), &profile)
	if err == nil && cached {
		return &profile, nil
	}

	user, err := GetUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	expenses, err := GetFixedExpenses(ctx, userId)
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	total, err := sumFixedExpenses(ctx, db, userId)
	if err != nil {
		return nil, err
	}

	profile = UserProfile{
		Income:             user.Income,
		Savings:            user.Savings,
		CreatedBudget:      user.CreatedBudget != nil && *user.CreatedBudget,
		FixedSpendingList:  expenses,
		FixedSpendingTotal: total,
	}
	if err := config.SetRedisObject(userProfileCacheKey(userId), &profile, 10*time.Minute); err != nil {
		return nil, err
	}

	return &profile, nil
}

type SetIncomeInput struct {
	Income                decimal.Decimal `json:"income" binding:"required"`
	StartDate             time.Time       `json:"start_date" binding:"required"`
	CurrentBudgetPeriodId int             `json:"current_budget_period_id" binding:"required"`
}

// SetIncome stores the user's fixed income and pushes the recomputed total
// budget onto every period still open after the start date.
func SetIncome(ctx context.Context, userId int, input *SetIncomeInput) (*BudgetPeriod, decimal.Decimal, error) {
	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Model(&User{ID: userId}).Update("income", input.Income).Error; err != nil {
		tx.Rollback()
		return nil, decimal.Zero, err
	}

	var user User
	if err := tx.WithContext(ctx).First(&user, userId).Error; err != nil {
		tx.Rollback()
		return nil, decimal.Zero, utils.ErrorRecordNotFound
	}
	fixedTotal, err := sumFixedExpenses(ctx, tx, userId)
	if err != nil {
		tx.Rollback()
		return nil, decimal.Zero, err
	}
	totalBudget := CalculateTotalBudget(user.Income, fixedTotal, user.Savings)

	if err := UpdateFutureBudgets(ctx, tx, userId, totalBudget, input.StartDate); err != nil {
		tx.Rollback()
		return nil, decimal.Zero, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, decimal.Zero, err
	}

	config.RemoveRedisKey(userProfileCacheKey(userId))

	period, err := GetBudgetPeriod(ctx, userId, input.CurrentBudgetPeriodId)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return period, user.Income, nil
}

type SetSavingsInput struct {
	Savings               decimal.Decimal `json:"savings" binding:"required"`
	StartDate             time.Time       `json:"start_date" binding:"required"`
	CurrentBudgetPeriodId int             `json:"current_budget_period_id" binding:"required"`
}

// SetSavings stores the savings percentage and refreshes open periods the
// same way SetIncome does.
func SetSavings(ctx context.Context, userId int, input *SetSavingsInput) (*BudgetPeriod, decimal.Decimal, error) {
	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Model(&User{ID: userId}).Update("savings", input.Savings).Error; err != nil {
		tx.Rollback()
		return nil, decimal.Zero, err
	}

	var user User
	if err := tx.WithContext(ctx).First(&user, userId).Error; err != nil {
		tx.Rollback()
		return nil, decimal.Zero, utils.ErrorRecordNotFound
	}
	fixedTotal, err := sumFixedExpenses(ctx, tx, userId)
	if err != nil {
		tx.Rollback()
		return nil, decimal.Zero, err
	}
	totalBudget := CalculateTotalBudget(user.Income, fixedTotal, user.Savings)

	if err := UpdateFutureBudgets(ctx, tx, userId, totalBudget, input.StartDate); err != nil {
		tx.Rollback()
		return nil, decimal.Zero, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, decimal.Zero, err
	}

	config.RemoveRedisKey(userProfileCacheKey(userId))

	period, err := GetBudgetPeriod(ctx, userId, input.CurrentBudgetPeriodId)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return period, user.Savings, nil
}

// MarkBudgetCreated flags the user as done with initial budget onboarding.
func MarkBudgetCreated(ctx context.Context, userId int) (*User, error) {
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&User{ID: userId}).Update("created_budget", true).Error; err != nil {
		return nil, err
	}
	config.RemoveRedisKey(userProfileCacheKey(userId))
	return GetUser(ctx, userId)
}

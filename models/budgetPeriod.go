package models

import (
	"context"
	"time"

	"github.com/piggibank/piggibank_backend/config"
	"github.com/piggibank/piggibank_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetPeriod is one half-open interval [StartDate, EndDate) of a user's
// timeline. For a given user, periods are contiguous and non-overlapping.
type BudgetPeriod struct {
	ID          int             `gorm:"primary_key" json:"id"`
	UserId      int             `gorm:"index;not null" json:"user_id"`
	PeriodType  PeriodType      `gorm:"type:enum('daily','weekly','biweekly','monthly','yearly');not null" json:"period_type"`
	StartDate   time.Time       `gorm:"not null" json:"start_date"`
	EndDate     time.Time       `gorm:"index;not null" json:"end_date"`
	TotalBudget decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_budget"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBudgetPeriods struct {
	Type      string    `json:"type" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
}

// PeriodInterval is a generated-but-not-yet-persisted period boundary pair.
type PeriodInterval struct {
	StartDate time.Time
	EndDate   time.Time
}

// GeneratePeriods emits the ordered, gap-free period intervals covering the
// cadence's horizon measured from anchor. The last interval's end never
// exceeds the horizon boundary; when even the first end would, the result is
// empty and callers must cope.
func GeneratePeriods(anchor time.Time, cadence Cadence) []PeriodInterval {
	horizon := cadence.HorizonEnd(anchor)

	var periods []PeriodInterval
	start := anchor
	for {
		end := cadence.Advance(start)
		if end.After(horizon) {
			break
		}
		periods = append(periods, PeriodInterval{StartDate: start, EndDate: end})
		start = end
	}
	return periods
}

var percentBase = decimal.NewFromInt(100)

// CalculateTotalBudget derives a period's spendable total:
// (income - fixedExpenseTotal) * (1 - savingsPercent/100).
// Negative results propagate on purpose; overspent setups are the user's to see.
func CalculateTotalBudget(income decimal.Decimal, fixedExpenseTotal decimal.Decimal, savingsPercent decimal.Decimal) decimal.Decimal {
	disposable := income.Sub(fixedExpenseTotal)
	return disposable.Sub(disposable.Mul(savingsPercent.Div(percentBase)))
}

// CreateRecurringPeriods persists a fresh horizon of periods for the user and
// returns the one covering the start date. The total budget starts at zero;
// the budget-setup endpoints fill it in during onboarding.
func CreateRecurringPeriods(ctx context.Context, userId int, input *NewBudgetPeriods) (*BudgetPeriod, error) {

	cadence, err := ParseCadence(input.Type)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := insertPeriods(ctx, tx, userId, cadence, GeneratePeriods(input.StartDate, cadence), decimal.Zero); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return currentPeriodAfter(ctx, db, userId, input.StartDate)
}

func insertPeriods(ctx context.Context, tx *gorm.DB, userId int, cadence Cadence, intervals []PeriodInterval, totalBudget decimal.Decimal) error {
	for _, interval := range intervals {
		period := BudgetPeriod{
			UserId:      userId,
			PeriodType:  cadence.Type,
			StartDate:   interval.StartDate,
			EndDate:     interval.EndDate,
			TotalBudget: totalBudget,
		}
		if err := tx.WithContext(ctx).Create(&period).Error; err != nil {
			return err
		}
	}
	return nil
}

// first period still running at the reference time
func currentPeriodAfter(ctx context.Context, db *gorm.DB, userId int, reference time.Time) (*BudgetPeriod, error) {
	var period BudgetPeriod
	err := db.WithContext(ctx).
		Where("user_id = ? AND end_date > ?", userId, reference).
		Order("end_date ASC").
		First(&period).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &period, nil
}

// GetCurrentBudgetPeriod returns the period containing now. When the
// pre-generated horizon has been exhausted it extends the timeline forward
// from the latest period's end, reusing that period's cadence and budget,
// then retries the lookup.
func GetCurrentBudgetPeriod(ctx context.Context, userId int, now time.Time) (*BudgetPeriod, error) {
	db := config.GetDB()

	period, err := currentPeriodAfter(ctx, db, userId, now)
	if err == nil {
		return period, nil
	}

	var latest BudgetPeriod
	err = db.WithContext(ctx).
		Where("user_id = ? AND start_date <= ?", userId, now).
		Order("end_date DESC").
		First(&latest).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	cadence, err := ParseCadence(string(latest.PeriodType))
	if err != nil {
		return nil, err
	}

	tx := db.Begin()
	if err := insertPeriods(ctx, tx, userId, cadence, GeneratePeriods(latest.EndDate, cadence), latest.TotalBudget); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return currentPeriodAfter(ctx, db, userId, now)
}

func GetBudgetPeriod(ctx context.Context, userId int, id int) (*BudgetPeriod, error) {
	return utils.FetchModel[BudgetPeriod](ctx, userId, id)
}

// UpdateFutureBudgets applies a recomputed total budget to every period still
// open after the given date (current period included).
func UpdateFutureBudgets(ctx context.Context, tx *gorm.DB, userId int, totalBudget decimal.Decimal, after time.Time) error {
	return tx.WithContext(ctx).Model(&BudgetPeriod{}).
		Where("user_id = ? AND end_date > ?", userId, after).
		Update("total_budget", totalBudget).Error
}

// NextBudgetPeriodId returns the id of the period following the one ending at
// endDate, or zero when the timeline ends there.
func NextBudgetPeriodId(ctx context.Context, userId int, endDate time.Time) (int, error) {
	db := config.GetDB()
	var id int
	err := db.WithContext(ctx).Model(&BudgetPeriod{}).
		Where("user_id = ? AND end_date > ?", userId, endDate).
		Order("end_date ASC").Limit(1).
		Select("id").Scan(&id).Error
	if err != nil {
		return 0, err
	}
	return id, nil
}

// PreviousBudgetPeriodId returns the id of the period preceding the one ending
// at endDate, or zero when there is none.
func PreviousBudgetPeriodId(ctx context.Context, userId int, endDate time.Time) (int, error) {
	db := config.GetDB()
	var id int
	err := db.WithContext(ctx).Model(&BudgetPeriod{}).
		Where("user_id = ? AND end_date < ?", userId, endDate).
		Order("end_date DESC").Limit(1).
		Select("id").Scan(&id).Error
	if err != nil {
		return 0, err
	}
	return id, nil
}

package models

import (
	"context"
	"errors"
	"time"

	"github.com/piggibank/piggibank_backend/config"
	"github.com/piggibank/piggibank_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Goal is a savings target with a deadline. Amount and deadline are immutable
// after creation; the goal is deleted outright instead of edited.
type Goal struct {
	ID        int             `gorm:"primary_key" json:"id"`
	UserId    int             `gorm:"index;not null" json:"user_id"`
	Title     string          `gorm:"size:255;not null" json:"title"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Duration  string          `gorm:"size:255" json:"duration"`
	EndDate   time.Time       `gorm:"not null" json:"end_date"`
	Colour    string          `gorm:"size:64" json:"colour"`
	Icon      string          `gorm:"size:64" json:"icon"`
	Completed *bool           `gorm:"not null;default:false" json:"completed"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewGoal struct {
	Title                 string          `json:"title" binding:"required"`
	Amount                decimal.Decimal `json:"amount" binding:"required"`
	Duration              string          `json:"duration"`
	EndDate               time.Time       `json:"end_date" binding:"required"`
	Colour                string          `json:"colour"`
	Icon                  string          `json:"icon"`
	CurrentBudgetPeriodId int             `json:"current_budget_period_id" binding:"required"`
}

type GoalWithProgress struct {
	Goal
	Progress decimal.Decimal `json:"progress"`
}

// completionTolerance is one currency unit: a goal within 1 of its target
// counts as reached. Absolute, not a percentage.
var completionTolerance = decimal.NewFromInt(1)

type AmortizeInput struct {
	Remaining         decimal.Decimal
	PeriodCount       int
	LastPeriodEnd     time.Time // end of the last scheduled period; unused when PeriodCount is 0
	Deadline          time.Time
	Cadence           Cadence
	UnchangedCadence  bool
	PreviousPerPeriod *decimal.Decimal
}

// AmortizeGoal computes the even per-period contribution for a goal's
// remaining amount.
//
// An unchanged cadence keeps the previously scheduled amount verbatim. With
// no periods left before the deadline the whole remainder is due on the
// current period. When the pre-generated horizon stops short of the deadline,
// the period count is extended by projecting the cadence forward, so the
// remainder is not over-allocated onto the few periods that happen to exist.
func AmortizeGoal(in AmortizeInput) decimal.Decimal {
	if in.UnchangedCadence && in.PreviousPerPeriod != nil {
		return *in.PreviousPerPeriod
	}

	if in.PeriodCount == 0 {
		return in.Remaining
	}

	count := in.PeriodCount
	if !in.Cadence.IsValid() {
		// A zero-value cadence cannot project forward; Advance would loop.
		return in.Remaining.Div(decimal.NewFromInt(int64(count)))
	}
	end := in.LastPeriodEnd
	for {
		next := in.Cadence.Advance(end)
		if next.After(in.Deadline) {
			break
		}
		count++
		end = next
	}

	return in.Remaining.Div(decimal.NewFromInt(int64(count)))
}

// GoalProgress sums the contributions linked to periods that have already
// begun as of the reference time. An absent sum reads as zero.
func GoalProgress(ctx context.Context, db *gorm.DB, goalId int, asOf time.Time) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := db.WithContext(ctx).Raw(`
		SELECT SUM(amount) FROM (
			SELECT amount, start_date, end_date FROM budget_period_goals
			JOIN budget_periods ON budget_period_goals.budget_period_id = budget_periods.id
			WHERE goal_id = ? AND start_date <= ?
		) AS valid_budgets`, goalId, asOf).Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	return utils.NullDecimalToZero(sum), nil
}

// refreshGoalCompletion flips the completed flag once the goal's progress is
// within tolerance of its target. The flag never flips back, and the
// transition is reported exactly once.
func refreshGoalCompletion(ctx context.Context, tx *gorm.DB, goal *Goal, progress decimal.Decimal) (bool, error) {
	if goal.Completed != nil && *goal.Completed {
		return false, nil
	}
	if goal.Amount.Sub(progress).GreaterThanOrEqual(completionTolerance) {
		return false, nil
	}
	if err := tx.WithContext(ctx).Model(goal).Update("completed", true).Error; err != nil {
		return false, err
	}
	goal.Completed = utils.NewTrue()
	return true, nil
}

// upcomingPeriods lists the user's periods whose end falls in (after, deadline],
// ordered by end. These are the periods a goal contribution can still land on.
func upcomingPeriods(ctx context.Context, tx *gorm.DB, userId int, after time.Time, deadline time.Time) ([]*BudgetPeriod, error) {
	var periods []*BudgetPeriod
	err := tx.WithContext(ctx).
		Where("user_id = ? AND end_date <= ? AND end_date > ?", userId, deadline, after).
		Order("end_date ASC").
		Find(&periods).Error
	if err != nil {
		return nil, err
	}
	return periods, nil
}

// AverageGoalAmount previews the per-period contribution for a prospective
// goal reaching numUnits calendar units from now. The projection cadence is
// the user's current one.
func AverageGoalAmount(ctx context.Context, userId int, amount decimal.Decimal, numUnits int, unitOfTime string, now time.Time) (decimal.Decimal, time.Time, error) {
	if numUnits <= 0 {
		return decimal.Zero, time.Time{}, errors.New("number of time units must be positive")
	}
	var unit CalendarUnit
	switch CalendarUnit(unitOfTime) {
	case CalendarUnitDay, CalendarUnitWeek, CalendarUnitMonth, CalendarUnitYear:
		unit = CalendarUnit(unitOfTime)
	default:
		return decimal.Zero, time.Time{}, errors.New("invalid unit of time")
	}

	horizon := Cadence{Multiplier: numUnits, Unit: unit}
	endDate := horizon.Advance(now)

	db := config.GetDB()
	periods, err := upcomingPeriods(ctx, db, userId, now, endDate)
	if err != nil {
		return decimal.Zero, time.Time{}, err
	}

	in := AmortizeInput{
		Remaining:   amount,
		PeriodCount: len(periods),
		Deadline:    endDate,
	}
	if len(periods) > 0 {
		in.LastPeriodEnd = periods[len(periods)-1].EndDate
		current, cerr := ParseCadence(string(periods[0].PeriodType))
		if cerr == nil {
			in.Cadence = current
		}
	}

	return AmortizeGoal(in), endDate, nil
}

// CreateGoal stores the goal and fans its amortized contribution out across
// the periods between now and the deadline, all inside one transaction. With
// no periods left the whole amount lands on the current period.
func CreateGoal(ctx context.Context, userId int, input *NewGoal, now time.Time) (*Goal, error) {

	if !input.Amount.IsPositive() {
		return nil, errors.New("goal amount must be positive")
	}
	if err := utils.ValidateResourceId[BudgetPeriod](ctx, userId, input.CurrentBudgetPeriodId); err != nil {
		return nil, errors.New("current budget period not found")
	}

	goal := Goal{
		UserId:    userId,
		Title:     input.Title,
		Amount:    input.Amount,
		Duration:  input.Duration,
		EndDate:   input.EndDate,
		Colour:    input.Colour,
		Icon:      input.Icon,
		Completed: utils.NewFalse(),
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Create(&goal).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	periods, err := upcomingPeriods(ctx, tx, userId, now, input.EndDate)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	in := AmortizeInput{
		Remaining:   input.Amount,
		PeriodCount: len(periods),
		Deadline:    input.EndDate,
	}
	periodIds := []int{input.CurrentBudgetPeriodId}
	if len(periods) > 0 {
		in.LastPeriodEnd = periods[len(periods)-1].EndDate
		cadence, cerr := ParseCadence(string(periods[0].PeriodType))
		if cerr == nil {
			in.Cadence = cadence
		}
		periodIds = periodIds[:0]
		for _, period := range periods {
			periodIds = append(periodIds, period.ID)
		}
	}
	perPeriod := AmortizeGoal(in)

	if err := insertGoalLinks(ctx, tx, goal.ID, perPeriod, periodIds); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &goal, nil
}

func DeleteGoal(ctx context.Context, userId int, id int) (*Goal, error) {
	goal, err := utils.FetchModel[Goal](ctx, userId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := deleteGoalLinksForGoal(ctx, tx, goal.ID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Delete(goal).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return goal, nil
}

// GetGoalsWithProgress returns all the user's goals, each annotated with its
// progress as of the reference time. Completion flags are refreshed on the
// way through so a goal crossing its target sticks as completed.
func GetGoalsWithProgress(ctx context.Context, userId int, asOf time.Time) ([]*GoalWithProgress, error) {
	goals, err := utils.FetchAllModels[Goal](ctx, userId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	results := make([]*GoalWithProgress, 0, len(goals))
	for _, goal := range goals {
		progress, err := GoalProgress(ctx, db, goal.ID, asOf)
		if err != nil {
			return nil, err
		}
		if _, err := refreshGoalCompletion(ctx, db, goal, progress); err != nil {
			return nil, err
		}
		results = append(results, &GoalWithProgress{Goal: *goal, Progress: progress})
	}
	return results, nil
}

// GetGoalsForPeriod returns the goals drawing from the given period, with
// progress as of the reference time.
func GetGoalsForPeriod(ctx context.Context, userId int, budgetPeriodId int, asOf time.Time) ([]*GoalWithProgress, error) {
	links, err := GetGoalLinksForPeriod(ctx, budgetPeriodId)
	if err != nil {
		return nil, err
	}
	linked := make(map[int]bool, len(links))
	for _, link := range links {
		linked[link.GoalId] = true
	}

	goals, err := GetGoalsWithProgress(ctx, userId, asOf)
	if err != nil {
		return nil, err
	}

	var results []*GoalWithProgress
	for _, goal := range goals {
		if linked[goal.ID] {
			results = append(results, goal)
		}
	}
	return results, nil
}

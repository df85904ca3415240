package models

import (
	"context"
	"time"

	"github.com/piggibank/piggibank_backend/config"
	"github.com/piggibank/piggibank_backend/utils"
	"github.com/shopspring/decimal"
)

// ReconcileBudgetPeriods carries a cadence/start-date change request against
// the period identified by CurrentBudgetPeriodId (the pivot).
type ReconcileBudgetPeriods struct {
	Type                  string    `json:"type" binding:"required"`
	StartDate             time.Time `json:"start_date" binding:"required"`
	CurrentBudgetPeriodId int       `json:"current_budget_period_id" binding:"required"`
}

// ReconcilePlan is the storage-free decision of how the timeline changes: the
// pivot's new end boundary and the regenerated intervals after it.
type ReconcilePlan struct {
	PivotEndDate time.Time
	NewPeriods   []PeriodInterval
}

// PlanReconciliation computes the pivot's new end boundary and the fresh
// horizon behind it. The requested start date is advanced under the new
// cadence until it strictly exceeds the pivot's original start, so a shrunk
// pivot can never end up with zero or negative length, and the regenerated
// periods stay contiguous with it.
func PlanReconciliation(pivotStartDate time.Time, newStartDate time.Time, cadence Cadence) ReconcilePlan {
	boundary := newStartDate
	for !boundary.After(pivotStartDate) {
		boundary = cadence.Advance(boundary)
	}
	return ReconcilePlan{
		PivotEndDate: boundary,
		NewPeriods:   GeneratePeriods(boundary, cadence),
	}
}

// ChangeBudgetCadence rewrites the user's period timeline from the pivot
// onward under the new cadence and re-amortizes every incomplete goal across
// the regenerated periods. The whole reconciliation runs inside one
// transaction under a per-user lock; retrying the same request after a
// failure converges to the same end state.
func ChangeBudgetCadence(ctx context.Context, userId int, input *ReconcileBudgetPeriods, now time.Time) (*BudgetPeriod, error) {

	cadence, err := ParseCadence(input.Type)
	if err != nil {
		return nil, err
	}

	// Two reconciliations racing for one user can interleave deletes with the
	// other's inserts and corrupt the timeline.
	release, err := utils.UserLock(ctx, userId, "reconcile", "models/reconcile.go", "ChangeBudgetCadence")
	if err != nil {
		return nil, err
	}
	defer release()

	db := config.GetDB()
	tx := db.Begin()

	var pivot BudgetPeriod
	if err := tx.WithContext(ctx).Where("user_id = ?", userId).First(&pivot, input.CurrentBudgetPeriodId).Error; err != nil {
		tx.Rollback()
		return nil, utils.ErrorRecordNotFound
	}
	previousCadence := pivot.PeriodType

	plan := PlanReconciliation(pivot.StartDate, input.StartDate, cadence)
	anchor := plan.PivotEndDate

	// Incomplete goals and their previously scheduled per-period amounts have
	// to be read before the links are wiped.
	var goals []*Goal
	if err := tx.WithContext(ctx).Where("user_id = ? AND completed = ?", userId, false).Find(&goals).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	priorAmounts := make(map[int]*decimal.Decimal, len(goals))
	for _, goal := range goals {
		prior, err := lastLinkedAmount(ctx, tx, goal.ID)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		priorAmounts[goal.ID] = prior
	}

	// Drop every period from the pivot's start onward except the pivot itself,
	// along with the goal links of the dropped periods and of the pivot.
	var staleIds []int
	if err := tx.WithContext(ctx).Model(&BudgetPeriod{}).
		Where("user_id = ? AND start_date >= ? AND id != ?", userId, pivot.StartDate, pivot.ID).
		Pluck("id", &staleIds).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := deleteGoalLinksForPeriods(ctx, tx, append(staleIds, pivot.ID)); err != nil {
		tx.Rollback()
		return nil, err
	}
	if len(staleIds) > 0 {
		if err := tx.WithContext(ctx).Where("id IN ?", staleIds).Delete(&BudgetPeriod{}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	// Shrink the pivot to end at the advanced boundary and move it onto the
	// new cadence.
	if err := tx.WithContext(ctx).Model(&pivot).Updates(map[string]interface{}{
		"end_date":    plan.PivotEndDate,
		"period_type": cadence.Type,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	pivot.EndDate = plan.PivotEndDate
	pivot.PeriodType = cadence.Type

	var user User
	if err := tx.WithContext(ctx).First(&user, userId).Error; err != nil {
		tx.Rollback()
		return nil, utils.ErrorRecordNotFound
	}
	fixedTotal, err := sumFixedExpenses(ctx, tx, userId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	totalBudget := CalculateTotalBudget(user.Income, fixedTotal, user.Savings)

	if err := insertPeriods(ctx, tx, userId, cadence, plan.NewPeriods, totalBudget); err != nil {
		tx.Rollback()
		return nil, err
	}

	unchangedCadence := cadence.Type == previousCadence

	for _, goal := range goals {
		progress, err := GoalProgress(ctx, tx, goal.ID, anchor)
		if err != nil {
			tx.Rollback()
			return nil, err
		}

		// Candidate periods run from the shrunk pivot (its end sits exactly on
		// the anchor) out to the goal's deadline.
		var candidates []*BudgetPeriod
		if err := tx.WithContext(ctx).
			Where("user_id = ? AND end_date >= ? AND end_date <= ?", userId, anchor, goal.EndDate).
			Order("end_date ASC").
			Find(&candidates).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		in := AmortizeInput{
			Remaining:         goal.Amount.Sub(progress),
			PeriodCount:       len(candidates),
			Deadline:          goal.EndDate,
			Cadence:           cadence,
			UnchangedCadence:  unchangedCadence,
			PreviousPerPeriod: priorAmounts[goal.ID],
		}
		periodIds := []int{pivot.ID}
		if len(candidates) > 0 {
			in.LastPeriodEnd = candidates[len(candidates)-1].EndDate
			periodIds = periodIds[:0]
			for _, candidate := range candidates {
				periodIds = append(periodIds, candidate.ID)
			}
		}
		perPeriod := AmortizeGoal(in)

		if err := insertGoalLinks(ctx, tx, goal.ID, perPeriod, periodIds); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &pivot, nil
}

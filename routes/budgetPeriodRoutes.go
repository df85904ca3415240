package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/piggibank/piggibank_backend/models"
)

func createBudgetPeriodsHandler(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}
	var input models.NewBudgetPeriods
	if err := c.ShouldBindJSON(&input); err != nil {
		renderBindError(c, err)
		return
	}

	period, err := models.CreateRecurringPeriods(c.Request.Context(), userId, &input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"current_budget_period": period})
}

func reconcileBudgetPeriodsHandler(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}
	var input models.ReconcileBudgetPeriods
	if err := c.ShouldBindJSON(&input); err != nil {
		renderBindError(c, err)
		return
	}

	period, err := models.ChangeBudgetCadence(c.Request.Context(), userId, &input, time.Now())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"current_budget_period": period})
}

// getCurrentBudgetPeriodHandler returns the active period together with its
// linked goals and transactions.
func getCurrentBudgetPeriodHandler(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}
	now := time.Now()

	period, err := models.GetCurrentBudgetPeriod(c.Request.Context(), userId, now)
	if err != nil {
		renderError(c, err)
		return
	}

	goals, err := models.GetGoalsForPeriod(c.Request.Context(), userId, period.ID, now)
	if err != nil {
		renderError(c, err)
		return
	}
	transactions, err := models.GetTransactionsForPeriod(c.Request.Context(), userId, period.ID)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"current_budget_period": period,
		"goals":                 goals,
		"transactions":          transactions,
	})
}

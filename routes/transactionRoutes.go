package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/piggibank/piggibank_backend/models"
)

func createTransactionHandler(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}
	var input models.NewTransaction
	if err := c.ShouldBindJSON(&input); err != nil {
		renderBindError(c, err)
		return
	}

	transactions, err := models.CreateTransaction(c.Request.Context(), userId, &input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"transactions": transactions})
}

func deleteTransactionHandler(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}
	transactionId, err := strconv.Atoi(c.Param("transactionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}
	budgetPeriodId, err := strconv.Atoi(c.Query("budget_period_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid budget period id"})
		return
	}

	transactions, err := models.DeleteTransaction(c.Request.Context(), userId, transactionId, budgetPeriodId)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

func periodHabitsHandler(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}
	budgetPeriodId, err := strconv.Atoi(c.Param("budgetPeriodId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid budget period id"})
		return
	}

	habits, err := models.GetPeriodHabits(c.Request.Context(), userId, budgetPeriodId)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, habits)
}

func categoryTrendHandler(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}
	budgetPeriodId, err := strconv.Atoi(c.Param("budgetPeriodId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid budget period id"})
		return
	}
	category := c.Param("category")

	trend, err := models.GetCategoryTrend(c.Request.Context(), userId, budgetPeriodId, category)
	if err != nil {
		renderError(c, err)
		return
	}

	percentChange := "N/A"
	if trend.PercentChange != nil {
		percentChange = trend.PercentChange.Round(2).String()
	}
	c.JSON(http.StatusOK, gin.H{
		"transactions":              trend.Transactions,
		"current_budget_period":     trend.CurrentBudgetPeriod,
		"previous_budget_period_id": trend.PreviousBudgetPeriodId,
		"next_budget_period_id":     trend.NextBudgetPeriodId,
		"percent_change":            percentChange,
	})
}

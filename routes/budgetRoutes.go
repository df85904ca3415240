package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/piggibank/piggibank_backend/models"
)

func getFixedExpensesHandler(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	expenses, err := models.GetFixedExpenses(c.Request.Context(), userId)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fixed_spending_list": expenses})
}

func replaceFixedExpensesHandler(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}
	var input models.ReplaceFixedExpensesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		renderBindError(c, err)
		return
	}

	expenses, total, period, err := models.ReplaceFixedExpenses(c.Request.Context(), userId, &input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"fixed_spending_list":   expenses,
		"fixed_spending_total":  total,
		"current_budget_period": period,
	})
}

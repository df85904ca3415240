package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/piggibank/piggibank_backend/models"
)

func getProfileHandler(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	profile, err := models.GetUserProfile(c.Request.Context(), userId)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func setIncomeHandler(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}
	var input models.SetIncomeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		renderBindError(c, err)
		return
	}

	period, income, err := models.SetIncome(c.Request.Context(), userId, &input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"income": income, "current_budget_period": period})
}

func setSavingsHandler(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}
	var input models.SetSavingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		renderBindError(c, err)
		return
	}

	period, savings, err := models.SetSavings(c.Request.Context(), userId, &input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"savings": savings, "current_budget_period": period})
}

func markBudgetCreatedHandler(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	user, err := models.MarkBudgetCreated(c.Request.Context(), userId)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created_budget": user.CreatedBudget})
}

package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/piggibank/piggibank_backend/models"
	"github.com/piggibank/piggibank_backend/utils"
)

func averageGoalAmountHandler(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	amount, err := utils.ParseDecimal(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}
	numUnits, err := strconv.Atoi(c.Query("num_units"))
	if err != nil || numUnits <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid num_units"})
		return
	}
	unitOfTime := c.Query("unit_of_time")

	perPeriod, deadline, err := models.AverageGoalAmount(c.Request.Context(), userId, amount, numUnits, unitOfTime, time.Now())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"average_amount": perPeriod, "end_date": deadline})
}

func createGoalHandler(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}
	var input models.NewGoal
	if err := c.ShouldBindJSON(&input); err != nil {
		renderBindError(c, err)
		return
	}

	goal, err := models.CreateGoal(c.Request.Context(), userId, &input, time.Now())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

func getGoalsForPeriodHandler(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}
	budgetPeriodId, err := strconv.Atoi(c.Param("budgetPeriodId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid budget period id"})
		return
	}

	goals, err := models.GetGoalsForPeriod(c.Request.Context(), userId, budgetPeriodId, time.Now())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

func deleteGoalHandler(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}
	goalId, err := strconv.Atoi(c.Param("goalId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal id"})
		return
	}

	goal, err := models.DeleteGoal(c.Request.Context(), userId, goalId)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

func getAchievementsHandler(c *gin.Context) {
	userId, ok := currentUserId(c)
	if !ok {
		return
	}

	achievements, err := models.GetAchievements(c.Request.Context(), userId, time.Now())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"achievements": achievements})
}

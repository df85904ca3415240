package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/piggibank/piggibank_backend/middlewares"
	"github.com/piggibank/piggibank_backend/utils"
)

// Register mounts every route group on the engine. Everything except the auth
// endpoints sits behind the bearer-token middleware.
func Register(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", signUpHandler)
		auth.POST("/signin", signInHandler)
	}

	user := r.Group("/user", middlewares.RequireAuth())
	{
		user.GET("/profile", getProfileHandler)
		user.PUT("/income", setIncomeHandler)
		user.PUT("/savings", setSavingsHandler)
		user.PUT("/budgetcreated", markBudgetCreatedHandler)
	}

	budget := r.Group("/budget", middlewares.RequireAuth())
	{
		budget.GET("/fixedexpenses", getFixedExpensesHandler)
		budget.PUT("/fixedexpenses", replaceFixedExpensesHandler)
	}

	periods := r.Group("/budgetperiods", middlewares.RequireAuth())
	{
		periods.POST("", createBudgetPeriodsHandler)
		periods.PUT("", reconcileBudgetPeriodsHandler)
		periods.GET("/current", getCurrentBudgetPeriodHandler)
	}

	goals := r.Group("/goals", middlewares.RequireAuth())
	{
		goals.GET("/averageamount", averageGoalAmountHandler)
		goals.GET("/achievements", getAchievementsHandler)
		goals.GET("/:budgetPeriodId", getGoalsForPeriodHandler)
		goals.POST("", createGoalHandler)
		goals.DELETE("/:goalId", deleteGoalHandler)
	}

	transactions := r.Group("/transactions", middlewares.RequireAuth())
	{
		transactions.POST("", createTransactionHandler)
		transactions.DELETE("/:transactionId", deleteTransactionHandler)
		transactions.GET("/habits/:budgetPeriodId", periodHabitsHandler)
		transactions.GET("/habits/:budgetPeriodId/category/:category", categoryTrendHandler)
	}
}

func currentUserId(c *gin.Context) (int, bool) {
	userId, ok := utils.GetUserIdFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
	return userId, true
}

// renderBindError distinguishes field-level validation failures from
// malformed payloads.
func renderBindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func renderError(c *gin.Context, err error) {
	if errors.Is(err, utils.ErrorRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/piggibank/piggibank_backend/models"
)

func signUpHandler(c *gin.Context) {
	var input models.SignUpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		renderBindError(c, err)
		return
	}

	payload, err := models.SignUp(c.Request.Context(), &input)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payload)
}

func signInHandler(c *gin.Context) {
	var input models.SignInInput
	if err := c.ShouldBindJSON(&input); err != nil {
		renderBindError(c, err)
		return
	}

	payload, err := models.SignIn(c.Request.Context(), &input)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, payload)
}

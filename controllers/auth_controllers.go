package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-dashboard/utils"
	"golang.org/x/crypto/bcrypt"
)

// AuthController signs in the single hardcoded demo user.
type AuthController struct {
	Email        string
	passwordHash []byte
	secret       []byte
}

func NewAuthController(email, password string, secret []byte) (*AuthController, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AuthController{Email: email, passwordHash: hashed, secret: secret}, nil
}

// Login -> returns a JWT for the demo user
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !strings.EqualFold(input.Email, ac.Email) {
		utils.RespondError(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword(ac.passwordHash, []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}

	token, err := utils.GenerateToken(ac.secret, ac.Email)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for %s", ac.Email)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{"token": token})
}

// GetProfile -> the signed-in user from the token
func (ac *AuthController) GetProfile(c *gin.Context) {
	email := c.GetString("user_email")
	if email == "" {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user not found in context"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", gin.H{
		"email": email,
		"name":  "Demo User",
	})
}

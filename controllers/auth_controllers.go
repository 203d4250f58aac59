package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/antonkhv/shop-app/middlewares"
	"github.com/antonkhv/shop-app/models"
	"github.com/antonkhv/shop-app/utils"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// Login -> verify admin credentials, return a session token
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var admin models.Admin
	if err := ac.DB.Where("username = ?", input.Username).First(&admin).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(admin.ID, admin.Username)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("admin %q logged in", admin.Username)

	// Cookie for the browser panel; API clients use the token directly.
	c.SetCookie("auth_token", token, 24*60*60, "/", "", false, true)

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":    token,
		"username": admin.Username,
	})
}

// CheckAuth -> reports whether the caller holds a live session
func (ac *AuthController) CheckAuth(c *gin.Context) {
	token := middlewares.AuthTokenFromRequest(c)

	isAuthenticated := false
	if token != "" {
		if _, err := utils.ValidateToken(token); err == nil {
			isAuthenticated = true
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Auth check", gin.H{
		"isAuthenticated": isAuthenticated,
	})
}

// Logout -> revoke the session server-side
func (ac *AuthController) Logout(c *gin.Context) {
	token := middlewares.AuthTokenFromRequest(c)
	if token != "" {
		utils.BlacklistToken(token)
	}

	c.SetCookie("auth_token", "", -1, "/", "", false, true)

	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

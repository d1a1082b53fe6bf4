package controllers

import (
	"net/http"

	"github.com/ABAKHAR721/sakane-be/config"
	"github.com/ABAKHAR721/sakane-be/middleware"
	"github.com/ABAKHAR721/sakane-be/models"
	"github.com/ABAKHAR721/sakane-be/services"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService   *services.AuthService
	ledgerService *services.LedgerService
}

func NewAuthController() *AuthController {
	return &AuthController{
		authService:   services.NewAuthService(),
		ledgerService: services.NewLedgerService(),
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := ac.authService.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	balance, err := ac.ledgerService.Balance(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"credits": balance,
		"token":   token,
	})
}

func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.authService.CreateUser(req.Email, req.Password, req.Name, models.RoleUser)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Phone != "" {
		user.Phone = req.Phone
		config.DB.Save(user)
	}

	token, err := ac.authService.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Compte créé avec succès",
		"user":    user,
		"credits": services.SignupBonus,
		"token":   token,
	})
}

// Me returns the authenticated user's profile and current balance.
func (ac *AuthController) Me(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	var user models.User
	if err := config.DB.First(&user, identity.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	balance, err := ac.ledgerService.Balance(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"credits": balance,
	})
}

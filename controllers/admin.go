package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ABAKHAR721/sakane-be/config"
	"github.com/ABAKHAR721/sakane-be/middleware"
	"github.com/ABAKHAR721/sakane-be/models"
	"github.com/ABAKHAR721/sakane-be/services"
	"github.com/gin-gonic/gin"
)

type AdminController struct {
	authService   *services.AuthService
	ledgerService *services.LedgerService
	leadService   *services.LeadService
	auditService  *services.AuditService
}

func NewAdminController() *AdminController {
	return &AdminController{
		authService:   services.NewAuthService(),
		ledgerService: services.NewLedgerService(),
		leadService:   services.NewLeadService(),
		auditService:  services.NewAuditService(),
	}
}

func (ac *AdminController) GetUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := config.DB.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("email LIKE ? OR name LIKE ?", pattern, pattern)
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des utilisateurs"})
		return
	}

	// Balances are recomputed from the ledger on every call.
	type userWithBalance struct {
		models.User
		Credits int `json:"credits"`
	}
	result := make([]userWithBalance, 0, len(users))
	for _, user := range users {
		balance, err := ac.ledgerService.Balance(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du calcul des soldes"})
			return
		}
		result = append(result, userWithBalance{User: user, Credits: balance})
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  result,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

type AdminCreateUserRequest struct {
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=6"`
	Name     string          `json:"name" binding:"required"`
	Phone    string          `json:"phone"`
	Role     models.UserRole `json:"role" binding:"required,oneof=user admin"`
}

func (ac *AdminController) CreateUser(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	var req AdminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.authService.CreateUser(req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Phone != "" {
		user.Phone = req.Phone
		config.DB.Save(user)
	}

	ac.auditService.Record(identity.UserID, "user_created", "user",
		strconv.FormatUint(uint64(user.ID), 10), fmt.Sprintf("Utilisateur %s créé (rôle %s)", user.Email, user.Role))

	c.JSON(http.StatusCreated, gin.H{
		"message": "Utilisateur créé avec succès",
		"user":    user,
	})
}

type AdminUpdateUserRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	IsActive *bool  `json:"is_active"`
}

func (ac *AdminController) UpdateUser(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID d'utilisateur invalide"})
		return
	}

	var req AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.First(&user, uint(userID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}

	ac.auditService.Record(identity.UserID, "user_updated", "user",
		strconv.FormatUint(userID, 10), fmt.Sprintf("Utilisateur %s mis à jour", user.Email))

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeactivateUser soft-disables an account. The ledger and purchases are
// never deleted.
func (ac *AdminController) DeactivateUser(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID d'utilisateur invalide"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, uint(userID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	user.IsActive = false
	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la désactivation"})
		return
	}

	ac.auditService.Record(identity.UserID, "user_deactivated", "user",
		strconv.FormatUint(userID, 10), fmt.Sprintf("Utilisateur %s désactivé", user.Email))

	c.JSON(http.StatusOK, gin.H{"message": "Utilisateur désactivé"})
}

type UpdateBalanceRequest struct {
	Balance *int `json:"balance" binding:"required"`
}

// UpdateUserBalance sets a user's balance through the ledger: the delta
// is recomputed server-side and appended as an admin_adjustment entry.
func (ac *AdminController) UpdateUserBalance(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID d'utilisateur invalide"})
		return
	}

	var req UpdateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := ac.ledgerService.SetBalance(identity, uint(userID), *req.Balance)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'ajustement du solde"})
		}
		return
	}

	ac.auditService.Record(identity.UserID, "balance_set", "user",
		strconv.FormatUint(userID, 10), fmt.Sprintf("Solde fixé à %d", *req.Balance))

	c.JSON(http.StatusOK, gin.H{
		"message": "Solde mis à jour",
		"entry":   entry,
		"balance": *req.Balance,
	})
}

func (ac *AdminController) GetTransactions(c *gin.Context) {
	filters, err := parseHistoryFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := ac.ledgerService.AllEntries(filters, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (ac *AdminController) GetLeads(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	leads, err := ac.leadService.AllLeads(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des leads"})
		return
	}

	type adminLead struct {
		models.Lead
		Status        models.LeadStatus `json:"status"`
		PurchaseCount int               `json:"purchase_count"`
	}
	result := make([]adminLead, 0, len(leads))
	for i := range leads {
		result = append(result, adminLead{
			Lead:          leads[i],
			Status:        leads[i].Status(),
			PurchaseCount: len(leads[i].Purchases),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (ac *AdminController) GetStats(c *gin.Context) {
	var totalUsers, totalLeads, totalPurchases int64
	config.DB.Model(&models.User{}).Where("role = ?", models.RoleUser).Count(&totalUsers)
	config.DB.Model(&models.Lead{}).Count(&totalLeads)
	config.DB.Model(&models.LeadPurchase{}).Count(&totalPurchases)

	today := time.Now().Truncate(24 * time.Hour)

	var purchasesToday int64
	config.DB.Model(&models.LeadPurchase{}).
		Where("created_at >= ?", today).
		Count(&purchasesToday)

	var creditsSpentToday int64
	config.DB.Model(&models.CreditLedgerEntry{}).
		Where("kind = ? AND created_at >= ?", models.KindLeadDebit, today).
		Select("COALESCE(SUM(-amount), 0)").
		Scan(&creditsSpentToday)

	var creditsInCirculation int64
	config.DB.Model(&models.CreditLedgerEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&creditsInCirculation)

	c.JSON(http.StatusOK, gin.H{
		"total_users":            totalUsers,
		"total_leads":            totalLeads,
		"total_purchases":        totalPurchases,
		"purchases_today":        purchasesToday,
		"credits_spent_today":    creditsSpentToday,
		"credits_in_circulation": creditsInCirculation,
	})
}

func (ac *AdminController) GetAuditLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	logs, err := ac.auditService.List(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des journaux"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": logs})
}

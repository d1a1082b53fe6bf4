package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/ABAKHAR721/sakane-be/middleware"
	"github.com/ABAKHAR721/sakane-be/models"
	"github.com/ABAKHAR721/sakane-be/services"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	ledgerService   *services.LedgerService
	leadService     *services.LeadService
	purchaseService *services.PurchaseService
}

func NewUserController() *UserController {
	return &UserController{
		ledgerService:   services.NewLedgerService(),
		leadService:     services.NewLeadService(),
		purchaseService: services.NewPurchaseService(),
	}
}

func (uc *UserController) GetCredits(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	balance, err := uc.ledgerService.Balance(identity.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération du solde"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"credits": balance})
}

func (uc *UserController) GetCreditHistory(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	filters, err := parseHistoryFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries, err := uc.ledgerService.History(identity.UserID, filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération de l'historique"})
		return
	}

	balance, err := uc.ledgerService.Balance(identity.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération du solde"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":            entries,
		"current_credits": balance,
	})
}

func parseHistoryFilters(c *gin.Context) (services.HistoryFilters, error) {
	var filters services.HistoryFilters

	if kind := c.Query("type"); kind != "" && kind != "all" {
		filters.Kind = models.EntryKind(kind)
	}
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filters, errors.New("Format de date invalide. Utilisez YYYY-MM-DD")
		}
		filters.From = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filters, errors.New("Format de date invalide. Utilisez YYYY-MM-DD")
		}
		// Inclusive end of day
		end := t.Add(24*time.Hour - time.Nanosecond)
		filters.To = &end
	}

	return filters, nil
}

func (uc *UserController) GetLeads(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	leads, err := uc.leadService.AvailableLeads(identity.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération des leads"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": leads})
}

func (uc *UserController) GetMyLeads(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	leads, err := uc.leadService.PurchasedLeads(identity.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la récupération de vos leads"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": leads})
}

func (uc *UserController) GetMyLead(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	lead, err := uc.leadService.GetPurchasedLead(identity.UserID, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrLeadNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": lead})
}

type PurchaseLeadRequest struct {
	LeadID string `json:"lead_id" binding:"required"`
}

func (uc *UserController) PurchaseLead(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	var req PurchaseLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID du lead manquant"})
		return
	}

	result, err := uc.purchaseService.PurchaseLead(identity, req.LeadID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLeadNotFound), errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAlreadyPurchased):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInsufficientCredits):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue lors de l'achat"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"purchase": gin.H{
			"id":           result.Purchase.ID,
			"purchased_at": result.Purchase.CreatedAt,
			"credits_paid": result.Purchase.CreditsPaid,
			"lead": gin.H{
				"id":            result.Lead.ID,
				"contact_name":  result.Lead.ContactName,
				"contact_email": result.Lead.ContactEmail,
				"contact_phone": result.Lead.ContactPhone,
			},
		},
		"remaining_credits": result.RemainingBalance,
	})
}

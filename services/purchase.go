package services

import (
	"errors"
	"fmt"

	"github.com/ABAKHAR721/sakane-be/config"
	"github.com/ABAKHAR721/sakane-be/middleware"
	"github.com/ABAKHAR721/sakane-be/models"
	"github.com/ABAKHAR721/sakane-be/websocket"
	"gorm.io/gorm"
)

// LeadCost is the flat price in credits to unlock a lead's contact details.
const LeadCost = 20

var (
	ErrLeadNotFound        = errors.New("Lead introuvable")
	ErrAlreadyPurchased    = errors.New("Vous avez déjà acheté ce lead")
	ErrInsufficientCredits = errors.New("Crédits insuffisants")
)

type PurchaseService struct {
	ledgerService *LedgerService
}

func NewPurchaseService() *PurchaseService {
	return &PurchaseService{
		ledgerService: NewLedgerService(),
	}
}

type PurchaseResult struct {
	Purchase         *models.LeadPurchase `json:"purchase"`
	Lead             *models.Lead         `json:"lead"`
	RemainingBalance int                  `json:"remaining_balance"`
}

// PurchaseLead unlocks a lead for a user: one debit entry and one
// purchase row, committed atomically or not at all.
//
// The user row is locked first so the balance check and the debit see a
// stable ledger even under concurrent purchases by the same user. The
// unique index on (user_id, lead_id) is what actually closes the
// double-purchase race: a second writer that slipped past the pre-read
// fails its insert and the whole transaction rolls back, which also
// makes client retries of a timed-out purchase idempotent.
func (s *PurchaseService) PurchaseLead(identity middleware.Identity, leadID string) (*PurchaseResult, error) {
	var result PurchaseResult

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := lockUser(tx, identity.UserID); err != nil {
			return err
		}

		var lead models.Lead
		if err := tx.First(&lead, "id = ?", leadID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLeadNotFound
			}
			return err
		}

		var existing int64
		if err := tx.Model(&models.LeadPurchase{}).
			Where("user_id = ? AND lead_id = ?", identity.UserID, leadID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyPurchased
		}

		balance, err := balanceTx(tx, identity.UserID)
		if err != nil {
			return err
		}
		if balance < LeadCost {
			return ErrInsufficientCredits
		}

		entry, err := s.ledgerService.Append(tx, identity.UserID, -LeadCost,
			models.KindLeadDebit, fmt.Sprintf("Achat du lead %s", leadID))
		if err != nil {
			return err
		}

		purchase := models.LeadPurchase{
			UserID:      identity.UserID,
			LeadID:      leadID,
			CreditsPaid: LeadCost,
		}
		if err := tx.Create(&purchase).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyPurchased
			}
			return err
		}

		result = PurchaseResult{
			Purchase:         &purchase,
			Lead:             &lead,
			RemainingBalance: balance + entry.Amount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if config.WSHub != nil {
		config.WSHub.BroadcastEvent(websocket.EventLeadPurchased, websocket.LeadPurchasedEvent{
			LeadID:      leadID,
			UserID:      identity.UserID,
			CreditsPaid: LeadCost,
		})
	}

	return &result, nil
}

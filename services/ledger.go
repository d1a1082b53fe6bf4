package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/ABAKHAR721/sakane-be/config"
	"github.com/ABAKHAR721/sakane-be/middleware"
	"github.com/ABAKHAR721/sakane-be/models"
	"github.com/ABAKHAR721/sakane-be/websocket"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrForbidden    = errors.New("Accès refusé")
	ErrUserNotFound = errors.New("Utilisateur introuvable")
)

// LedgerService owns the credit ledger. The entry log is the only source
// of truth: no balance column exists anywhere, Balance is always a sum.
type LedgerService struct{}

func NewLedgerService() *LedgerService {
	return &LedgerService{}
}

func (s *LedgerService) Balance(userID uint) (int, error) {
	return balanceTx(config.DB, userID)
}

func balanceTx(tx *gorm.DB, userID uint) (int, error) {
	var balance int64
	err := tx.Model(&models.CreditLedgerEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&balance).Error
	if err != nil {
		return 0, err
	}
	return int(balance), nil
}

// lockUser takes the per-user write lock all balance-affecting
// transactions serialize on. SQLite has a single-writer model and no
// FOR UPDATE syntax, so the clause is postgres-only.
func lockUser(tx *gorm.DB, userID uint) (*models.User, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var user models.User
	if err := q.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Append inserts a ledger entry. Pure insert: sufficiency and
// authorization rules belong to callers.
func (s *LedgerService) Append(tx *gorm.DB, userID uint, amount int, kind models.EntryKind, description string) (*models.CreditLedgerEntry, error) {
	entry := models.CreditLedgerEntry{
		UserID:      userID,
		Amount:      amount,
		Kind:        kind,
		Description: description,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

type HistoryFilters struct {
	Kind models.EntryKind
	From *time.Time
	To   *time.Time
}

// History returns the user's ledger entries newest first.
func (s *LedgerService) History(userID uint, filters HistoryFilters) ([]models.CreditLedgerEntry, error) {
	query := config.DB.Where("user_id = ?", userID)

	if filters.Kind != "" {
		query = query.Where("kind = ?", filters.Kind)
	}
	if filters.From != nil {
		query = query.Where("created_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("created_at <= ?", *filters.To)
	}

	var entries []models.CreditLedgerEntry
	err := query.Order("created_at DESC, id DESC").Find(&entries).Error
	return entries, err
}

// AllEntries returns ledger entries across all users (admin view).
func (s *LedgerService) AllEntries(filters HistoryFilters, limit int) ([]models.CreditLedgerEntry, error) {
	query := config.DB.Preload("User")

	if filters.Kind != "" {
		query = query.Where("kind = ?", filters.Kind)
	}
	if filters.From != nil {
		query = query.Where("created_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("created_at <= ?", *filters.To)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var entries []models.CreditLedgerEntry
	err := query.Order("created_at DESC, id DESC").Find(&entries).Error
	return entries, err
}

// SetBalance is the admin override: it recomputes the delta against the
// ledger inside the transaction and records it as a new entry. The
// stored history is never edited and client-supplied balances are never
// trusted beyond the target value itself. A zero delta succeeds without
// writing an entry.
func (s *LedgerService) SetBalance(admin middleware.Identity, targetUserID uint, newBalance int) (*models.CreditLedgerEntry, error) {
	if admin.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}

	var entry *models.CreditLedgerEntry
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := lockUser(tx, targetUserID); err != nil {
			return err
		}

		current, err := balanceTx(tx, targetUserID)
		if err != nil {
			return err
		}

		delta := newBalance - current
		if delta == 0 {
			return nil
		}

		entry, err = s.Append(tx, targetUserID, delta, models.KindAdminAdjustment,
			fmt.Sprintf("Solde ajusté de %d à %d par l'administrateur #%d", current, newBalance, admin.UserID))
		return err
	})
	if err != nil {
		return nil, err
	}

	if entry != nil && config.WSHub != nil {
		config.WSHub.BroadcastEvent(websocket.EventCreditsAdjusted, websocket.CreditsAdjustedEvent{
			UserID:     targetUserID,
			Amount:     entry.Amount,
			NewBalance: newBalance,
		})
	}

	return entry, nil
}

package migrations

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upBackfillSignupBonus, downBackfillSignupBonus)
}

// Accounts created before the ledger existed carried their balance in a
// users.credits column. That column is gone: seed each pre-ledger user
// with a signup_bonus entry so balances reconcile against the ledger
// alone.
func upBackfillSignupBonus(tx *sql.Tx) error {
	query := `
		INSERT INTO credit_ledger_entries (user_id, amount, kind, description, created_at)
		SELECT u.id, 100, 'signup_bonus', 'Bonus de bienvenue (reprise historique)', NOW()
		FROM users u
		WHERE u.role = 'user'
		  AND NOT EXISTS (
			SELECT 1 FROM credit_ledger_entries e WHERE e.user_id = u.id
		  )
	`
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to backfill signup bonuses: %w", err)
	}
	return nil
}

func downBackfillSignupBonus(tx *sql.Tx) error {
	query := `
		DELETE FROM credit_ledger_entries
		WHERE kind = 'signup_bonus' AND description = 'Bonus de bienvenue (reprise historique)'
	`
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to remove backfilled bonuses: %w", err)
	}
	return nil
}

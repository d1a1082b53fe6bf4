package services

import (
	"testing"

	"github.com/ABAKHAR721/sakane-be/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadService_Listings(t *testing.T) {
	setupTestDB(t)
	leads := NewLeadService()
	purchases := NewPurchaseService()

	user := createTestUser(t, "browser@example.com", models.RoleUser)
	other := createTestUser(t, "other@example.com", models.RoleUser)
	leadA := createTestLead(t)
	leadB := createTestLead(t)

	t.Run("Should list unpurchased leads without contact details", func(t *testing.T) {
		available, err := leads.AvailableLeads(user.ID)
		require.NoError(t, err)
		require.Len(t, available, 2)
		assert.Equal(t, models.LeadStatusNew, available[0].Status)
	})

	t.Run("Should hide a lead from its buyer but not from others", func(t *testing.T) {
		_, err := purchases.PurchaseLead(identityOf(user), leadA.ID)
		require.NoError(t, err)

		available, err := leads.AvailableLeads(user.ID)
		require.NoError(t, err)
		require.Len(t, available, 1)
		assert.Equal(t, leadB.ID, available[0].ID)

		otherAvailable, err := leads.AvailableLeads(other.ID)
		require.NoError(t, err)
		require.Len(t, otherAvailable, 2)

		// Purchased by someone, so it is no longer "new" in listings
		for _, summary := range otherAvailable {
			if summary.ID == leadA.ID {
				assert.Equal(t, models.LeadStatusPurchased, summary.Status)
				assert.Equal(t, 1, summary.PurchaseCount)
			}
		}
	})

	t.Run("Should expose contact details only on purchased leads", func(t *testing.T) {
		mine, err := leads.PurchasedLeads(user.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, leadA.ID, mine[0].Lead.ID)
		assert.Equal(t, "Ahmed B.", mine[0].Lead.ContactName)
		assert.Equal(t, "+212600000000", mine[0].Lead.ContactPhone)
		assert.Equal(t, LeadCost, mine[0].CreditsPaid)
	})

	t.Run("Should refuse the detail view for a lead the user does not own", func(t *testing.T) {
		_, err := leads.GetPurchasedLead(user.ID, leadB.ID)
		assert.ErrorIs(t, err, ErrLeadNotFound)

		detail, err := leads.GetPurchasedLead(user.ID, leadA.ID)
		require.NoError(t, err)
		assert.Equal(t, "ahmed@example.com", detail.Lead.ContactEmail)
	})
}

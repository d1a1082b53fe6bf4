package websocket

// Event types for WebSocket messages
const (
	// Lead events
	EventLeadCreated   = "lead:created"
	EventLeadPurchased = "lead:purchased"

	// Credit events
	EventCreditsAdjusted = "credits:adjusted"
)

// LeadEvent announces a new lead on the marketplace.
type LeadEvent struct {
	LeadID  string `json:"lead_id"`
	Mode    string `json:"mode"`
	Type    string `json:"type"`
	Address string `json:"address"`
}

// LeadPurchasedEvent announces an unlock so dashboards can refresh
// availability and activity feeds.
type LeadPurchasedEvent struct {
	LeadID      string `json:"lead_id"`
	UserID      uint   `json:"user_id"`
	CreditsPaid int    `json:"credits_paid"`
}

// CreditsAdjustedEvent announces an admin balance override.
type CreditsAdjustedEvent struct {
	UserID     uint `json:"user_id"`
	Amount     int  `json:"amount"`
	NewBalance int  `json:"new_balance"`
}

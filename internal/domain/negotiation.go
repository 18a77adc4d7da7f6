package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Terms are the five negotiated conditions of an offer.
type Terms struct {
	Price     decimal.Decimal `json:"price"`
	Date      string          `json:"date"`
	Time      string          `json:"time"`
	Materials string          `json:"materials"`
	Scope     string          `json:"scope"`
}

// Complete reports whether every term is set.
func (t Terms) Complete() bool {
	return t.Price.IsPositive() &&
		strings.TrimSpace(t.Date) != "" &&
		strings.TrimSpace(t.Time) != "" &&
		strings.TrimSpace(t.Materials) != "" &&
		strings.TrimSpace(t.Scope) != ""
}

// ConfirmationStatus records which sides agreed to the current terms.
type ConfirmationStatus struct {
	Seeker   bool `json:"seeker"`
	Provider bool `json:"provider"`
}

// Both reports whether seeker and provider confirmed.
func (c ConfirmationStatus) Both() bool {
	return c.Seeker && c.Provider
}

// Confirmed reports whether the given side confirmed.
func (c ConfirmationStatus) Confirmed(role Role) bool {
	if role == RoleSeeker {
		return c.Seeker
	}
	return c.Provider
}

// NegotiationEntry is one recorded change of terms.
type NegotiationEntry struct {
	Terms     Terms     `json:"terms"`
	Actor     string    `json:"user"`
	Action    string    `json:"action,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Negotiation is the per-offer negotiation snapshot.
type Negotiation struct {
	OfferID            string             `json:"offerId"`
	CurrentTerms       Terms              `json:"currentTerms"`
	ConfirmationStatus ConfirmationStatus `json:"confirmationStatus"`
	History            []NegotiationEntry `json:"negotiationHistory,omitempty"`
}

// CanAcceptOffer is true only when both sides confirmed and every term is set.
func (n *Negotiation) CanAcceptOffer() bool {
	if n == nil {
		return false
	}
	return n.ConfirmationStatus.Both() && n.CurrentTerms.Complete()
}

// Clone returns a deep copy safe to hand out of a store.
func (n Negotiation) Clone() Negotiation {
	if n.History != nil {
		n.History = append([]NegotiationEntry(nil), n.History...)
	}
	return n
}

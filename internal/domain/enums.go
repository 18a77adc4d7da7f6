// Package domain defines the marketplace models shared by the client packages.
package domain

// OfferStatus is the server-side lifecycle state of an offer.
type OfferStatus string

const (
	OfferStatusPending               OfferStatus = "pending"
	OfferStatusProposed              OfferStatus = "proposed"
	OfferStatusAccepted              OfferStatus = "accepted"
	OfferStatusInProgress            OfferStatus = "in_progress"
	OfferStatusCompleted             OfferStatus = "completed"
	OfferStatusCancelled             OfferStatus = "cancelled"
	OfferStatusCancellationRequested OfferStatus = "cancellation_requested"
)

// Terminal reports whether no further acceptance or payment may happen.
func (s OfferStatus) Terminal() bool {
	return s == OfferStatusCancelled || s == OfferStatusCancellationRequested
}

// PaymentStatus is the escrow state reported by the payment service.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusEscrowed  PaymentStatus = "escrowed"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusReleased  PaymentStatus = "released"
	PaymentStatusRefunded  PaymentStatus = "refunded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Settled reports whether the seeker's money is held or already paid out.
func (s PaymentStatus) Settled() bool {
	return s == PaymentStatusEscrowed || s == PaymentStatusCompleted
}

// Role is the side a user plays in a conversation.
type Role string

const (
	RoleSeeker   Role = "seeker"
	RoleProvider Role = "provider"
)

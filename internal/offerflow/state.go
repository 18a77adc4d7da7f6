package offerflow

import "github.com/Ahmed01061/Naafe/internal/domain"

// FlowState is the client-side stage of an offer.
type FlowState string

const (
	StateNoOffer                  FlowState = "no-offer"
	StateUnconfirmed              FlowState = "unconfirmed"
	StateConfirmedIncompleteTerms FlowState = "confirmed-incomplete-terms"
	StateAcceptable               FlowState = "acceptable"
	StateAccepted                 FlowState = "accepted"
	StatePaymentPending           FlowState = "payment-pending"
	StateInProgress               FlowState = "in-progress"
	StateCompleted                FlowState = "completed"
	StateCancellationRequested    FlowState = "cancellation-requested"
	StateCancelled                FlowState = "cancelled"
)

// StatusSnapshot is the reconciled service/payment status of an offer.
type StatusSnapshot struct {
	OfferStatus       domain.OfferStatus
	PaymentCompleted  bool
	ServiceInProgress bool
	// Version orders snapshots; only newer ones replace the held one.
	Version uint64
	// Authoritative is false for snapshots seeded from local storage.
	Authoritative bool
}

// deriveState computes the flow state from everything the client knows.
func deriveState(offerID string, status StatusSnapshot, paymentPending bool, neg *domain.Negotiation) FlowState {
	if offerID == "" {
		return StateNoOffer
	}

	switch status.OfferStatus {
	case domain.OfferStatusCancelled:
		return StateCancelled
	case domain.OfferStatusCancellationRequested:
		return StateCancellationRequested
	case domain.OfferStatusCompleted:
		return StateCompleted
	}

	if status.ServiceInProgress || status.OfferStatus == domain.OfferStatusInProgress {
		return StateInProgress
	}
	if status.PaymentCompleted {
		return StateInProgress
	}
	if paymentPending {
		return StatePaymentPending
	}
	if status.OfferStatus == domain.OfferStatusAccepted {
		return StateAccepted
	}

	if neg == nil || !neg.ConfirmationStatus.Both() {
		return StateUnconfirmed
	}
	if !neg.CurrentTerms.Complete() {
		return StateConfirmedIncompleteTerms
	}
	return StateAcceptable
}

package offerflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/Ahmed01061/Naafe/internal/domain"
	"github.com/Ahmed01061/Naafe/internal/notify"
)

// MaxCancellationReason is the longest accepted cancellation reason, in characters.
const MaxCancellationReason = 500

// AcceptOutcome tells the caller how an accept attempt ended.
type AcceptOutcome int

const (
	AcceptNone AcceptOutcome = iota
	Accepted
	AlreadyAccepted
)

// serverMessage prefers the message the server sent over fallback.
func serverMessage(err error, fallback string) string {
	if domain.IsKind(err, domain.KindRejected) {
		if msg := domain.MessageOf(err); msg != "" {
			return msg
		}
	}
	return fallback
}

// refresh refetches the negotiation and the status, logging failures.
func (f *Flow) refresh(ctx context.Context, offerID string) {
	if _, err := f.negotiations.Fetch(ctx, offerID); err != nil {
		f.log.Warn().Err(err).Str("offer_id", offerID).Msg("negotiation refresh failed")
	}
	if err := f.CheckStatus(ctx); err != nil {
		f.log.Warn().Err(err).Str("offer_id", offerID).Msg("status refresh failed")
	}
}

// openPaymentModal shows the payment dialog unless payment already went through.
func (f *Flow) openPaymentModal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || f.status.PaymentCompleted {
		return
	}
	f.paymentPending = true
	f.modalOpen = true
}

// currentNegotiation refetches the negotiation, falling back to the held copy.
func (f *Flow) currentNegotiation(ctx context.Context, offerID string) (domain.Negotiation, bool) {
	n, err := f.negotiations.Fetch(ctx, offerID)
	if err == nil {
		return n, true
	}
	f.log.Warn().Err(err).Str("offer_id", offerID).Msg("negotiation fetch before accept failed")
	return f.negotiations.Get(offerID)
}

// AcceptOffer accepts the bound offer once both sides confirmed complete terms.
func (f *Flow) AcceptOffer(ctx context.Context) (AcceptOutcome, error) {
	offerID := f.OfferID()
	if offerID == "" {
		f.notifier.Error(notify.TitleGenericError, notify.MsgNoOfferID)
		return AcceptNone, domain.ErrNoOffer
	}
	if f.Role() != domain.RoleSeeker {
		f.notifier.Error(notify.TitleAcceptFailed, notify.MsgOnlySeekerAccepts)
		return AcceptNone, domain.ErrNotSeeker
	}

	n, ok := f.currentNegotiation(ctx, offerID)
	if !ok || !n.ConfirmationStatus.Both() {
		f.notifier.Error(notify.TitleConfirmationRequired, notify.MsgConfirmationRequired)
		return AcceptNone, domain.ErrNotConfirmed
	}
	if !n.CurrentTerms.Complete() {
		f.notifier.Error(notify.TitleTermsIncomplete, notify.MsgTermsIncomplete)
		return AcceptNone, domain.ErrIncompleteTerms
	}

	if f.alreadyAccepted(ctx, offerID) {
		return AlreadyAccepted, nil
	}

	err := f.api.AcceptOffer(ctx, offerID)
	switch {
	case err == nil:
		f.log.Info().Str("offer_id", offerID).Msg("offer accepted")
		if f.offers != nil {
			f.offers.SetStatus(offerID, domain.OfferStatusAccepted)
		}
		f.notifier.Success(notify.TitleOfferAccepted, notify.MsgOfferAccepted)
		f.refresh(ctx, offerID)
		f.openPaymentModal()
		return Accepted, nil

	case domain.CodeOf(err) == domain.CodeAgreementIncomplete:
		f.notifier.Error(notify.TitleAcceptFailed, notify.MsgAgreementIncomplete)
		f.refresh(ctx, offerID)
		return AcceptNone, err

	case domain.IsKind(err, domain.KindRejected) && strings.Contains(strings.ToLower(domain.MessageOf(err)), "status"):
		f.notifier.Error(notify.TitleAcceptFailed, notify.MsgStatusDisallowsAccept)
		if cerr := f.CheckStatus(ctx); cerr != nil {
			f.log.Warn().Err(cerr).Msg("status refresh failed")
		}
		if f.alreadyAccepted(ctx, offerID) {
			return AlreadyAccepted, nil
		}
		return AcceptNone, err

	case domain.IsKind(err, domain.KindRejected):
		f.notifier.Error(notify.TitleAcceptFailed, serverMessage(err, notify.MsgAcceptError))
		return AcceptNone, err

	default:
		f.log.Error().Err(err).Str("offer_id", offerID).Msg("accept offer failed")
		f.notifier.Error(notify.TitleGenericError, notify.MsgAcceptError)
		f.refresh(ctx, offerID)
		return AcceptNone, err
	}
}

// alreadyAccepted reloads the offer and opens the payment dialog if the
// server already holds it as accepted.
func (f *Flow) alreadyAccepted(ctx context.Context, offerID string) bool {
	offer, err := f.api.GetOffer(ctx, offerID)
	if err != nil {
		f.log.Warn().Err(err).Str("offer_id", offerID).Msg("offer reload failed")
		return false
	}
	if f.offers != nil {
		f.offers.Put(*offer)
	}
	if offer.Status != domain.OfferStatusAccepted {
		return false
	}
	f.notifier.Success(notify.TitleOfferAlreadyAccepted, notify.MsgOfferAlreadyAccepted)
	f.openPaymentModal()
	return true
}

// Pay starts the escrow checkout and returns the hosted payment URL.
// A zero amount pays the negotiated price.
func (f *Flow) Pay(ctx context.Context, amount decimal.Decimal) (string, error) {
	offerID := f.OfferID()
	if offerID == "" {
		f.notifier.Error(notify.TitlePaymentFailed, notify.MsgNoOfferID)
		return "", domain.ErrNoOffer
	}
	if f.Role() != domain.RoleSeeker {
		f.notifier.Error(notify.TitlePaymentFailed, notify.MsgOnlySeekerPays)
		f.ClosePaymentModal()
		return "", domain.ErrNotSeeker
	}

	if amount.IsZero() {
		if n, ok := f.negotiations.Get(offerID); ok {
			amount = n.CurrentTerms.Price
		}
	}
	if !amount.IsPositive() {
		f.notifier.Error(notify.TitlePaymentFailed, notify.MsgPaymentFailed)
		return "", domain.NewValidationError("amount", "amount must be positive")
	}

	checkout, err := f.api.CreateEscrowPayment(ctx, offerID, amount)
	if err != nil {
		msg := serverMessage(err, notify.MsgPaymentFailed)
		if domain.IsKind(err, domain.KindTransport) {
			msg = notify.MsgNetworkError
		}
		f.log.Error().Err(err).Str("offer_id", offerID).Msg("create escrow payment failed")
		f.notifier.Error(notify.TitlePaymentFailed, msg)
		f.ClosePaymentModal()
		return "", err
	}

	f.log.Info().Str("offer_id", offerID).Str("amount", amount.String()).Msg("escrow checkout created")
	return checkout.URL, nil
}

// CompleteService confirms delivery and releases the escrow to the provider.
func (f *Flow) CompleteService(ctx context.Context) error {
	offerID := f.OfferID()
	if offerID == "" {
		f.notifier.Error(notify.TitleCompletionFailed, notify.MsgNoOfferID)
		return domain.ErrNoOffer
	}
	if f.Role() != domain.RoleSeeker {
		f.notifier.Error(notify.TitleCompletionFailed, notify.MsgOnlySeekerCompletes)
		return domain.ErrNotSeeker
	}

	if err := f.api.CompleteOffer(ctx, offerID); err != nil {
		f.log.Error().Err(err).Str("offer_id", offerID).Msg("complete offer failed")
		f.notifier.Error(notify.TitleCompletionFailed, serverMessage(err, notify.MsgCompletionFailed))
		return err
	}

	f.notifier.Success(notify.TitleCompletionOK, notify.MsgCompletionOK)
	f.ClosePaymentModal()
	if err := f.CheckStatus(ctx); err != nil {
		f.log.Warn().Err(err).Msg("status refresh after completion failed")
	}
	return nil
}

// RequestCancellation asks the server to cancel the service and returns
// the refund percentage exactly as the server sent it.
func (f *Flow) RequestCancellation(ctx context.Context, reason string) (json.Number, error) {
	offerID := f.OfferID()
	if offerID == "" {
		return "", domain.ErrNoOffer
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = notify.DefaultCancellationReason
	}
	if utf8.RuneCountInString(reason) > MaxCancellationReason {
		f.notifier.Error(notify.TitleCancellationFailed, notify.MsgCancellationReasonLong)
		return "", domain.NewValidationError("reason", notify.MsgCancellationReasonLong)
	}

	result, err := f.api.RequestCancellation(ctx, offerID, reason)
	if err != nil {
		f.log.Error().Err(err).Str("offer_id", offerID).Msg("cancellation request failed")
		f.notifier.Error(notify.TitleCancellationFailed, serverMessage(err, notify.MsgCancellationFailed))
		return "", err
	}

	f.notifier.Success(notify.TitleCancellationRequested,
		fmt.Sprintf(notify.MsgCancellationRequestedFmt, result.RefundPercentage.String()))
	if err := f.CheckStatus(ctx); err != nil {
		f.log.Warn().Err(err).Msg("status refresh after cancellation failed")
	}
	return result.RefundPercentage, nil
}

// EditTerms saves new terms and clears both confirmations.
func (f *Flow) EditTerms(ctx context.Context, terms domain.Terms) error {
	offerID := f.OfferID()
	if offerID == "" {
		f.notifier.Error(notify.TitleTermsUpdateFailed, notify.MsgNoOfferID)
		return domain.ErrNoOffer
	}

	if err := f.negotiations.Update(ctx, offerID, terms); err != nil {
		f.notifier.Error(notify.TitleTermsUpdateFailed, serverMessage(err, notify.MsgTermsUpdateFailed))
		return err
	}
	if err := f.negotiations.Reset(ctx, offerID); err != nil {
		f.log.Warn().Err(err).Str("offer_id", offerID).Msg("reset after terms update failed")
		f.notifier.Success(notify.TitleTermsUpdated, notify.MsgTermsUpdatedNoReset)
		return nil
	}
	f.notifier.Success(notify.TitleTermsUpdated, notify.MsgTermsUpdated)
	return nil
}

// ConfirmTerms records the viewer's confirmation of the current terms.
func (f *Flow) ConfirmTerms(ctx context.Context) error {
	offerID := f.OfferID()
	if offerID == "" {
		f.notifier.Error(notify.TitleConfirmFailed, notify.MsgNoOfferID)
		return domain.ErrNoOffer
	}

	if err := f.negotiations.Confirm(ctx, offerID); err != nil {
		f.notifier.Error(notify.TitleConfirmFailed, serverMessage(err, notify.MsgConfirmFailed))
		return err
	}
	f.notifier.Success(notify.TitleTermsConfirmed, notify.MsgTermsConfirmed)
	return nil
}

// ResetConfirmations clears both confirmations without changing terms.
func (f *Flow) ResetConfirmations(ctx context.Context) error {
	offerID := f.OfferID()
	if offerID == "" {
		f.notifier.Error(notify.TitleResetFailed, notify.MsgNoOfferID)
		return domain.ErrNoOffer
	}

	err := f.negotiations.Reset(ctx, offerID)
	if err != nil {
		f.notifier.Error(notify.TitleResetFailed, notify.MsgResetFailed)
	} else {
		f.notifier.Success(notify.TitleConfirmationsReset, notify.MsgConfirmationsReset)
	}
	f.refresh(ctx, offerID)
	return err
}

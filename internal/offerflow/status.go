package offerflow

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Ahmed01061/Naafe/internal/api"
	"github.com/Ahmed01061/Naafe/internal/domain"
	"github.com/Ahmed01061/Naafe/internal/metrics"
	"github.com/Ahmed01061/Naafe/internal/notify"
	"github.com/Ahmed01061/Naafe/internal/protocol"
	"github.com/Ahmed01061/Naafe/internal/store"
)

const storageTimeout = 2 * time.Second

func (f *Flow) nextVersion() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return f.seq
}

// apply replaces the held snapshot if snap is newer; f.mu must be held.
func (f *Flow) applyLocked(snap StatusSnapshot) bool {
	if f.closed || snap.Version <= f.status.Version {
		return false
	}
	if !snap.Authoritative && f.status.Authoritative {
		return false
	}
	f.status = snap
	if snap.PaymentCompleted {
		f.paymentPending = false
		f.modalOpen = false
	}
	return true
}

// seedFromCache loads the local storage shadow until the first authoritative status arrives.
func (f *Flow) seedFromCache(ctx context.Context) {
	f.mu.Lock()
	offerID, authoritative := f.offerID, f.status.Authoritative
	f.mu.Unlock()
	if f.storage == nil || offerID == "" || authoritative {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	version := f.nextVersion()
	snap := StatusSnapshot{Version: version}
	found := false

	if cached, ok, err := f.storage.GetItem(ctx, store.ServiceStatusKey(offerID)); err != nil {
		f.log.Warn().Err(err).Msg("read cached service status failed")
	} else if ok {
		found = true
		snap.OfferStatus = domain.OfferStatus(cached)
		snap.ServiceInProgress = cached == string(domain.OfferStatusInProgress)
		snap.PaymentCompleted = snap.ServiceInProgress || cached == string(domain.OfferStatusCompleted)
	}
	if cached, ok, err := f.storage.GetItem(ctx, store.PaymentCompletedKey(offerID)); err != nil {
		f.log.Warn().Err(err).Msg("read cached payment status failed")
	} else if ok && cached == "true" {
		found = true
		snap.PaymentCompleted = true
	}
	if !found {
		return
	}

	f.mu.Lock()
	f.applyLocked(snap)
	f.mu.Unlock()
}

// persist writes the local storage shadow; failures are logged only.
func (f *Flow) persist(offerID string, serviceStatus domain.OfferStatus, paid bool) {
	if f.storage == nil || offerID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	if serviceStatus != "" {
		if err := f.storage.SetItem(ctx, store.ServiceStatusKey(offerID), string(serviceStatus)); err != nil {
			f.log.Warn().Err(err).Msg("persist service status failed")
		}
	}
	if paid {
		if err := f.storage.SetItem(ctx, store.PaymentCompletedKey(offerID), "true"); err != nil {
			f.log.Warn().Err(err).Msg("persist payment status failed")
		}
	}
}

// CheckStatus reconciles service and payment status with the server.
// The offer and the payment status are fetched in parallel; a source that
// fails keeps its previous contribution and never downgrades payment.
func (f *Flow) CheckStatus(ctx context.Context) error {
	f.mu.Lock()
	offerID, chatID := f.offerID, f.chatID
	f.mu.Unlock()
	if offerID == "" {
		return domain.ErrNoOffer
	}

	version := f.nextVersion()

	var (
		offer    *domain.Offer
		offerErr error
		payment  *api.PaymentState
		payErr   error
	)
	var g errgroup.Group
	g.Go(func() error {
		offer, offerErr = f.api.GetOffer(ctx, offerID)
		return offerErr
	})
	g.Go(func() error {
		if chatID == "" {
			payErr = errors.New("no conversation id")
			return payErr
		}
		payment, payErr = f.api.CheckPaymentStatus(ctx, chatID)
		return payErr
	})
	_ = g.Wait()

	if offerErr != nil && payErr != nil {
		metrics.RecordStatusCheck("failed")
		f.log.Warn().Err(offerErr).AnErr("payment_err", payErr).Str("offer_id", offerID).Msg("status check failed")
		return fmt.Errorf("check status: %w", errors.Join(offerErr, payErr))
	}

	f.mu.Lock()
	prev := f.status
	snap := StatusSnapshot{
		OfferStatus:       prev.OfferStatus,
		ServiceInProgress: prev.ServiceInProgress,
		Version:           version,
		Authoritative:     true,
	}
	paid := false
	if offerErr == nil {
		snap.OfferStatus = offer.Status
		snap.ServiceInProgress = offer.Status == domain.OfferStatusInProgress
		paid = offer.Status == domain.OfferStatusInProgress || offer.Status == domain.OfferStatusCompleted
	}
	if payErr == nil && payment.Status.Settled() {
		paid = true
	}
	if offerErr != nil || payErr != nil {
		paid = paid || prev.PaymentCompleted
	}
	snap.PaymentCompleted = paid
	applied := f.applyLocked(snap)
	f.mu.Unlock()

	if !applied {
		metrics.RecordStatusCheck("stale")
		return nil
	}
	metrics.RecordStatusCheck("ok")

	if offerErr == nil {
		if f.offers != nil {
			if _, ok := f.offers.Get(offerID); ok {
				f.offers.SetStatus(offerID, offer.Status)
			} else {
				f.offers.Put(*offer)
			}
		}
		f.persist(offerID, offer.Status, paid)
	} else {
		f.persist(offerID, "", paid)
	}
	return nil
}

// converge applies a server-pushed or redirect-reported transition immediately.
// A completed service is never moved back, and terminal statuses are kept.
func (f *Flow) converge(offerID string, status domain.OfferStatus, inProgress bool) bool {
	f.mu.Lock()
	if f.closed || offerID == "" || offerID != f.offerID {
		f.mu.Unlock()
		return false
	}
	if f.status.OfferStatus == domain.OfferStatusCompleted && f.status.PaymentCompleted {
		f.mu.Unlock()
		return false
	}
	f.seq++
	snap := StatusSnapshot{
		OfferStatus:       status,
		PaymentCompleted:  true,
		ServiceInProgress: inProgress,
		Version:           f.seq,
		Authoritative:     true,
	}
	if f.status.OfferStatus.Terminal() {
		snap.OfferStatus = f.status.OfferStatus
	}
	applied := f.applyLocked(snap)
	f.mu.Unlock()

	if applied {
		if f.offers != nil {
			f.offers.SetStatus(offerID, snap.OfferStatus)
		}
		f.persist(offerID, snap.OfferStatus, true)
	}
	return applied
}

// HandlePaymentCompleted reacts to the escrow being funded.
func (f *Flow) HandlePaymentCompleted(ev protocol.PaymentCompleted) {
	if !f.converge(ev.OfferID, domain.OfferStatusInProgress, true) {
		return
	}
	f.notifier.Success(notify.TitleEscrowFunded, notify.MsgEscrowFunded)
	f.goCheck()
}

// HandleServiceCompleted reacts to the escrow being released.
func (f *Flow) HandleServiceCompleted(ev protocol.ServiceCompleted) {
	if !f.converge(ev.OfferID, domain.OfferStatusCompleted, false) {
		return
	}
	f.notifier.Success(notify.TitleServiceCompleted, notify.MsgServiceCompleted)
	f.goCheck()
}

// ReturnFromPayment handles the checkout redirect back to the chat.
// It reports whether query carried a successful payment return, in which
// case the caller strips the parameter.
func (f *Flow) ReturnFromPayment(ctx context.Context, query url.Values) bool {
	if query.Get("from_payment") != "success" {
		return false
	}
	f.converge(f.OfferID(), domain.OfferStatusInProgress, true)
	f.notifier.Success(notify.TitlePaymentReturned, notify.MsgPaymentReturned)
	if err := f.CheckStatus(ctx); err != nil {
		f.log.Warn().Err(err).Msg("status check after payment return failed")
	}
	return true
}

// Focus re-checks status when the user comes back to the view.
func (f *Flow) Focus(ctx context.Context) error {
	f.seedFromCache(ctx)
	return f.CheckStatus(ctx)
}

// RunPoller re-checks status every poll interval and returns once payment completed.
func (f *Flow) RunPoller(ctx context.Context) {
	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-f.ctx.Done():
			return
		case <-ticker.C:
			if f.Status().PaymentCompleted {
				return
			}
			if f.OfferID() == "" {
				continue
			}
			checkCtx, cancel := context.WithTimeout(ctx, f.pollInterval)
			if err := f.CheckStatus(checkCtx); err != nil {
				f.log.Warn().Err(err).Msg("status poll failed")
			}
			cancel()
			if f.Status().PaymentCompleted {
				return
			}
		}
	}
}

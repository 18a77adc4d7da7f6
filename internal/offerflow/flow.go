// Package offerflow drives an offer from negotiation to payment, delivery and cancellation.
package offerflow

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Ahmed01061/Naafe/internal/api"
	"github.com/Ahmed01061/Naafe/internal/domain"
	"github.com/Ahmed01061/Naafe/internal/notify"
	"github.com/Ahmed01061/Naafe/internal/policy"
	"github.com/Ahmed01061/Naafe/internal/protocol"
	"github.com/Ahmed01061/Naafe/internal/realtime"
	"github.com/Ahmed01061/Naafe/internal/store"
)

// API is the subset of the REST client the flow needs.
type API interface {
	GetOffer(ctx context.Context, offerID string) (*domain.Offer, error)
	AcceptOffer(ctx context.Context, offerID string) error
	CompleteOffer(ctx context.Context, offerID string) error
	RequestCancellation(ctx context.Context, offerID, reason string) (*api.CancellationResult, error)
	CreateEscrowPayment(ctx context.Context, offerID string, amount decimal.Decimal) (*api.Checkout, error)
	CheckPaymentStatus(ctx context.Context, conversationID string) (*api.PaymentState, error)
}

// Negotiations is the negotiation cache the flow reads and mutates.
type Negotiations interface {
	Fetch(ctx context.Context, offerID string) (domain.Negotiation, error)
	FetchHistory(ctx context.Context, offerID string) ([]domain.NegotiationEntry, error)
	Update(ctx context.Context, offerID string, terms domain.Terms) error
	Confirm(ctx context.Context, offerID string) error
	Reset(ctx context.Context, offerID string) error
	Get(offerID string) (domain.Negotiation, bool)
	History(offerID string) []domain.NegotiationEntry
}

// Subscriber is the socket surface the flow listens on.
type Subscriber interface {
	On(event string, h realtime.Handler) func()
}

// Deps are the collaborators of a Flow.
type Deps struct {
	API          API
	Negotiations Negotiations
	Offers       *OfferBook
	Storage      store.LocalStorage
	Notifier     notify.Notifier
	Policy       *policy.Engine
	Log          zerolog.Logger
}

// Options tune a Flow.
type Options struct {
	PollInterval time.Duration
}

// Flow owns the offer state of one open conversation.
type Flow struct {
	api          API
	negotiations Negotiations
	offers       *OfferBook
	storage      store.LocalStorage
	notifier     notify.Notifier
	policy       *policy.Engine
	log          zerolog.Logger
	pollInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu             sync.Mutex
	chatID         string
	offerID        string
	role           domain.Role
	title          string
	seq            uint64
	status         StatusSnapshot
	paymentPending bool
	modalOpen      bool
	closed         bool
}

// New creates a flow; Attach binds it to an offer.
func New(deps Deps, opts Options) *Flow {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 30 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Flow{
		api:          deps.API,
		negotiations: deps.Negotiations,
		offers:       deps.Offers,
		storage:      deps.Storage,
		notifier:     deps.Notifier,
		policy:       deps.Policy,
		log:          deps.Log.With().Str("component", "offerflow").Logger(),
		pollInterval: opts.PollInterval,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Attach binds the flow to a conversation's offer and loads its state.
// Failures are surfaced through the notifier and the returned error.
func (f *Flow) Attach(ctx context.Context, chatID, offerID string, role domain.Role) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return domain.ErrClosed
	}
	f.chatID = chatID
	f.offerID = offerID
	f.role = role
	f.mu.Unlock()

	if offerID == "" {
		return domain.ErrNoOffer
	}

	f.seedFromCache(ctx)

	if f.offers != nil {
		if _, ok := f.offers.Get(offerID); !ok {
			if offer, err := f.api.GetOffer(ctx, offerID); err != nil {
				f.log.Warn().Err(err).Str("offer_id", offerID).Msg("load offer details failed")
			} else {
				f.offers.Put(*offer)
			}
		}
	}

	if _, err := f.negotiations.Fetch(ctx, offerID); err != nil {
		f.log.Warn().Err(err).Str("offer_id", offerID).Msg("initial negotiation fetch failed")
	}
	if _, err := f.negotiations.FetchHistory(ctx, offerID); err != nil {
		f.log.Warn().Err(err).Str("offer_id", offerID).Msg("initial negotiation history fetch failed")
	}

	return f.CheckStatus(ctx)
}

// Bind subscribes the flow to payment and service socket events.
func (f *Flow) Bind(sub Subscriber) func() {
	offPayment := sub.On(protocol.EventPaymentCompleted, func(ev protocol.Inbound) {
		if e, ok := ev.(protocol.PaymentCompleted); ok {
			f.HandlePaymentCompleted(e)
		}
	})
	offService := sub.On(protocol.EventServiceCompleted, func(ev protocol.Inbound) {
		if e, ok := ev.(protocol.ServiceCompleted); ok {
			f.HandleServiceCompleted(e)
		}
	})
	return func() {
		offPayment()
		offService()
	}
}

// Close discards any result arriving later and waits for background checks.
func (f *Flow) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.cancel()
	f.wg.Wait()
}

// OfferID returns the bound offer id.
func (f *Flow) OfferID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offerID
}

// Role returns the viewer's role.
func (f *Flow) Role() domain.Role {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.role
}

// SetTitle names the job request the offer belongs to.
func (f *Flow) SetTitle(title string) {
	f.mu.Lock()
	f.title = title
	f.mu.Unlock()
}

// Status returns the held status snapshot.
func (f *Flow) Status() StatusSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Offer returns the cached offer details.
func (f *Flow) Offer() (domain.Offer, bool) {
	id := f.OfferID()
	if id == "" || f.offers == nil {
		return domain.Offer{}, false
	}
	return f.offers.Get(id)
}

// Negotiation returns the held negotiation snapshot.
func (f *Flow) Negotiation() (domain.Negotiation, bool) {
	id := f.OfferID()
	if id == "" {
		return domain.Negotiation{}, false
	}
	return f.negotiations.Get(id)
}

// History returns the held term change history, oldest first.
func (f *Flow) History() []domain.NegotiationEntry {
	id := f.OfferID()
	if id == "" {
		return nil
	}
	return f.negotiations.History(id)
}

// Reload refetches the negotiation, its history and the offer status.
func (f *Flow) Reload(ctx context.Context) error {
	offerID := f.OfferID()
	if offerID == "" {
		return domain.ErrNoOffer
	}
	if _, err := f.negotiations.Fetch(ctx, offerID); err != nil {
		return err
	}
	if _, err := f.negotiations.FetchHistory(ctx, offerID); err != nil {
		return err
	}
	return f.CheckStatus(ctx)
}

// State derives the current flow state.
func (f *Flow) State() FlowState {
	f.mu.Lock()
	offerID, status, pending := f.offerID, f.status, f.paymentPending
	f.mu.Unlock()

	var neg *domain.Negotiation
	if offerID != "" {
		if n, ok := f.negotiations.Get(offerID); ok {
			neg = &n
		}
	}
	return deriveState(offerID, status, pending, neg)
}

// PaymentModal describes the payment dialog when it is open.
type PaymentModal struct {
	Open     bool
	Title    string
	Provider string
	Amount   decimal.Decimal
	Date     string
	Time     string
}

// PaymentModal returns the payment dialog contents.
func (f *Flow) PaymentModal() PaymentModal {
	f.mu.Lock()
	open, title := f.modalOpen, f.title
	f.mu.Unlock()

	m := PaymentModal{Open: open, Title: title}
	if n, ok := f.Negotiation(); ok {
		m.Amount = n.CurrentTerms.Price
		m.Date = n.CurrentTerms.Date
		m.Time = n.CurrentTerms.Time
	}
	if o, ok := f.Offer(); ok {
		m.Provider = o.Provider.Name.String()
	}
	return m
}

// ClosePaymentModal dismisses the payment dialog.
func (f *Flow) ClosePaymentModal() {
	f.mu.Lock()
	f.modalOpen = false
	f.mu.Unlock()
}

// Actions evaluates the action policy for the current state.
func (f *Flow) Actions(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	offerID, role, status := f.offerID, f.role, f.status
	f.mu.Unlock()

	input := policy.Input{
		Role:              string(role),
		HasOffer:          offerID != "",
		OfferStatus:       string(status.OfferStatus),
		PaymentCompleted:  status.PaymentCompleted,
		ServiceInProgress: status.ServiceInProgress,
	}
	if n, ok := f.Negotiation(); ok {
		input.HasNegotiation = true
		input.CanAccept = n.CanAcceptOffer()
		input.SelfConfirmed = n.ConfirmationStatus.Confirmed(role)
	}
	if f.policy == nil {
		return nil, nil
	}
	return f.policy.Allowed(ctx, input)
}

// goCheck runs a status check bound to the flow's lifetime.
func (f *Flow) goCheck() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.wg.Add(1)
	f.mu.Unlock()

	go func() {
		defer f.wg.Done()
		if err := f.CheckStatus(f.ctx); err != nil {
			f.log.Warn().Err(err).Msg("background status check failed")
		}
	}()
}

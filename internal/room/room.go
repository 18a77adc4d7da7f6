// Package room composes the chat page: conversation, offer sidebar and problem reports.
package room

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Ahmed01061/Naafe/internal/chat"
	"github.com/Ahmed01061/Naafe/internal/complaints"
	"github.com/Ahmed01061/Naafe/internal/domain"
	"github.com/Ahmed01061/Naafe/internal/offerflow"
)

// Deps are the parts a room is built from.
type Deps struct {
	Session  *chat.Session
	Flow     *offerflow.Flow
	Reporter *complaints.Reporter
	Socket   offerflow.Subscriber
	Log      zerolog.Logger
}

type Options struct {
	// Poll starts the payment status poller once an offer is attached.
	Poll bool
}

// Room is one open chat page.
type Room struct {
	session  *chat.Session
	flow     *offerflow.Flow
	reporter *complaints.Reporter
	socket   offerflow.Subscriber
	log      zerolog.Logger
	opts     Options

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	unbind func()
	closed bool
}

func New(deps Deps, opts Options) *Room {
	ctx, cancel := context.WithCancel(context.Background())
	return &Room{
		session:  deps.Session,
		flow:     deps.Flow,
		reporter: deps.Reporter,
		socket:   deps.Socket,
		log:      deps.Log.With().Str("component", "room").Str("conversation_id", deps.Session.ConversationID()).Logger(),
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Open loads the conversation and, once its offer is known, the offer sidebar.
func (r *Room) Open(ctx context.Context) error {
	r.session.OnOfferResolved(r.attach)

	if r.socket != nil {
		unbind := r.flow.Bind(r.socket)
		r.mu.Lock()
		r.unbind = unbind
		r.mu.Unlock()
	}

	return r.session.Open(ctx)
}

func (r *Room) attach(offerID string) {
	role, ok := r.session.Role()
	if !ok {
		r.log.Warn().Str("user_id", r.session.UserID()).Msg("user is not a participant")
	}

	if conv, ok := r.session.Conversation(); ok {
		r.flow.SetTitle(conv.JobRequest.Title)
	}
	err := r.flow.Attach(r.ctx, r.session.ConversationID(), offerID, role)
	if err != nil && !errors.Is(err, domain.ErrClosed) {
		r.log.Warn().Err(err).Str("offer_id", offerID).Msg("attach offer failed")
	}

	if !r.opts.Poll {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.flow.RunPoller(r.ctx)
	}()
}

// Close tears the page down; nothing arriving afterwards changes it.
func (r *Room) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	unbind := r.unbind
	r.mu.Unlock()

	if unbind != nil {
		unbind()
	}
	r.cancel()
	r.session.Close()
	r.flow.Close()
	r.wg.Wait()
}

func (r *Room) Session() *chat.Session   { return r.session }
func (r *Room) Flow() *offerflow.Flow    { return r.flow }
func (r *Room) Context() context.Context { return r.ctx }

// ReportProblem files a complaint against the other participant.
func (r *Room) ReportProblem(ctx context.Context, problemType, description string) error {
	conv, ok := r.session.Conversation()
	if !ok {
		return chat.ErrNotLoaded
	}
	if r.reporter == nil {
		return fmt.Errorf("report problem: no reporter configured")
	}
	return r.reporter.Submit(ctx, conv, r.session.UserID(), complaints.Report{
		ProblemType: problemType,
		Description: description,
	})
}

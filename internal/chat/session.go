// Package chat keeps a conversation's history and live messages.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Ahmed01061/Naafe/internal/api"
	"github.com/Ahmed01061/Naafe/internal/domain"
	"github.com/Ahmed01061/Naafe/internal/notify"
	"github.com/Ahmed01061/Naafe/internal/protocol"
	"github.com/Ahmed01061/Naafe/internal/realtime"
)

var ErrNotLoaded = errors.New("conversation not loaded")

const defaultPageSize = 50

// API is the subset of the REST client a session needs.
type API interface {
	GetConversation(ctx context.Context, conversationID string) (*domain.Conversation, error)
	ListMessages(ctx context.Context, conversationID string, page, limit int) (*api.MessagePage, error)
	FindOffers(ctx context.Context, jobRequestID, providerID string) ([]domain.Offer, error)
}

// Socket is the real-time channel surface a session uses.
type Socket interface {
	Connected() bool
	On(event string, h realtime.Handler) func()
	OnConnect(fn func()) func()
	Emit(event string, payload interface{}) error
}

type Deps struct {
	API    API
	Socket Socket
	Log    zerolog.Logger
}

type Options struct {
	ConversationID string
	UserID         string
	PageSize       int
}

// Session is one open conversation view.
type Session struct {
	api      API
	socket   Socket
	log      zerolog.Logger
	opts     Options
	timeline *Timeline

	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	conversation  *domain.Conversation
	loadErr       error
	loaded        bool
	errMsg        string
	page          int
	hasMore       bool
	loadingPage   bool
	draft         string
	offerID       string
	offerResolved bool
	offerHooks    []func(offerID string)
	offs          []func()
	closed        bool
}

// NewSession creates a session; Open starts it.
func NewSession(deps Deps, opts Options) *Session {
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		api:      deps.API,
		socket:   deps.Socket,
		log:      deps.Log.With().Str("component", "chat").Str("conversation_id", opts.ConversationID).Logger(),
		opts:     opts,
		timeline: NewTimeline(),
		ctx:      ctx,
		cancel:   cancel,
		hasMore:  true,
	}
}

// Open loads the conversation, subscribes to the socket and loads the newest page.
// Only a failed conversation load is returned; later failures are held in Error.
func (s *Session) Open(ctx context.Context) error {
	ctx, stop := s.scope(ctx)
	defer stop()

	if err := s.Load(ctx); err != nil {
		return err
	}
	s.subscribe()

	if err := s.loadPage(ctx, 1); err != nil {
		s.log.Warn().Err(err).Msg("initial message page failed")
	}
	if _, err := s.ResolveOffer(ctx); err != nil {
		s.log.Warn().Err(err).Msg("offer resolution failed")
	}
	return nil
}

// scope ties ctx to the session lifetime.
func (s *Session) scope(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// Load fetches the conversation once.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.loaded {
		err := s.loadErr
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	conv, err := s.api.GetConversation(ctx, s.opts.ConversationID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrClosed
	}
	s.loaded = true
	if err != nil {
		s.loadErr = err
		if domain.IsKind(err, domain.KindTransport) {
			s.errMsg = notify.ErrConnectServer
		} else {
			s.errMsg = notify.ErrLoadConversation
		}
		s.log.Error().Err(err).Msg("load conversation failed")
		return err
	}
	s.conversation = conv
	return nil
}

// ResolveOffer finds the provider's offer on the conversation's job request.
// It returns an empty id when the provider has not made one.
func (s *Session) ResolveOffer(ctx context.Context) (string, error) {
	conv, ok := s.Conversation()
	if !ok {
		return "", ErrNotLoaded
	}

	offers, err := s.api.FindOffers(ctx, conv.JobRequest.ID, conv.Participants.Provider.ID)
	if err != nil {
		return "", fmt.Errorf("find offers: %w", err)
	}

	offerID := ""
	if len(offers) > 0 {
		offerID = offers[0].ID
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", domain.ErrClosed
	}
	s.offerID = offerID
	s.offerResolved = true
	hooks := append([]func(string){}, s.offerHooks...)
	s.mu.Unlock()

	if offerID == "" {
		s.log.Info().Msg("no offer found for conversation")
		return "", nil
	}
	for _, fn := range hooks {
		fn(offerID)
	}
	return offerID, nil
}

// OnOfferResolved registers fn to run when an offer id is found.
func (s *Session) OnOfferResolved(fn func(offerID string)) {
	s.mu.Lock()
	s.offerHooks = append(s.offerHooks, fn)
	s.mu.Unlock()
}

func (s *Session) subscribe() {
	offReceive := s.socket.On(protocol.EventReceiveMessage, func(ev protocol.Inbound) {
		if e, ok := ev.(protocol.ReceiveMessage); ok {
			s.handleIncoming(e.Message, true)
		}
	})
	offSent := s.socket.On(protocol.EventMessageSent, func(ev protocol.Inbound) {
		if e, ok := ev.(protocol.MessageSent); ok {
			s.handleIncoming(e.Message, false)
		}
	})
	offConnect := s.socket.OnConnect(s.join)

	s.mu.Lock()
	s.offs = append(s.offs, offReceive, offSent, offConnect)
	s.mu.Unlock()
}

// join enters the conversation room and marks it read.
func (s *Session) join() {
	ref := protocol.ConversationRef{ConversationID: s.opts.ConversationID}
	if err := s.socket.Emit(protocol.EventJoinConversation, ref); err != nil {
		s.log.Warn().Err(err).Msg("join conversation failed")
		return
	}
	if err := s.socket.Emit(protocol.EventMarkRead, ref); err != nil {
		s.log.Warn().Err(err).Msg("mark read failed")
	}
}

func (s *Session) handleIncoming(m domain.Message, markRead bool) {
	if m.ConversationID != s.opts.ConversationID {
		return
	}
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}

	if !s.timeline.Append(m) {
		return
	}
	if markRead {
		ref := protocol.ConversationRef{ConversationID: s.opts.ConversationID}
		if err := s.socket.Emit(protocol.EventMarkRead, ref); err != nil {
			s.log.Debug().Err(err).Msg("mark read failed")
		}
	}
}

// SetDraft replaces the text being composed.
func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	s.draft = text
	s.mu.Unlock()
}

// Draft returns the text being composed.
func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SendMessage emits the draft to the other participant.
// The draft is cleared before sending; the message appears once the server echoes it.
func (s *Session) SendMessage() error {
	s.mu.Lock()
	content := strings.TrimSpace(s.draft)
	conv := s.conversation
	closed := s.closed
	if content == "" {
		s.mu.Unlock()
		return domain.ErrEmptyMessage
	}
	if closed {
		s.mu.Unlock()
		return domain.ErrClosed
	}
	if conv == nil {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	s.draft = ""
	s.mu.Unlock()

	err := s.socket.Emit(protocol.EventSendMessage, protocol.OutgoingMessage{
		ConversationID: s.opts.ConversationID,
		ReceiverID:     conv.ReceiverFor(s.opts.UserID),
		Content:        content,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("send message failed")
		s.setError(notify.ErrSendMessage)
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// LoadMore fetches the next older page. It reports whether a page was requested.
func (s *Session) LoadMore(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if !s.hasMore || s.loadingPage || s.closed {
		s.mu.Unlock()
		return false, nil
	}
	next := s.page + 1
	s.mu.Unlock()

	ctx, stop := s.scope(ctx)
	defer stop()
	return true, s.loadPage(ctx, next)
}

// ReachedTop is called when the user scrolls to the oldest loaded message.
func (s *Session) ReachedTop(ctx context.Context) error {
	_, err := s.LoadMore(ctx)
	return err
}

func (s *Session) loadPage(ctx context.Context, page int) error {
	s.mu.Lock()
	if s.loadingPage {
		s.mu.Unlock()
		return nil
	}
	s.loadingPage = true
	s.mu.Unlock()

	result, err := s.api.ListMessages(ctx, s.opts.ConversationID, page, s.opts.PageSize)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingPage = false
	if s.closed {
		return domain.ErrClosed
	}
	if err != nil {
		s.errMsg = notify.ErrLoadMessages
		return fmt.Errorf("load messages page %d: %w", page, err)
	}

	if page == 1 {
		s.timeline.Reset(result.Messages)
	} else {
		s.timeline.Prepend(result.Messages)
	}
	s.page = page
	s.hasMore = result.Pagination.HasMore()
	return nil
}

func (s *Session) setError(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

// Close ends the session; results arriving later are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	offs := s.offs
	s.offs = nil
	s.mu.Unlock()

	for _, off := range offs {
		off()
	}
	s.cancel()
}

// Conversation returns the loaded conversation.
func (s *Session) Conversation() (domain.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conversation == nil {
		return domain.Conversation{}, false
	}
	return *s.conversation, true
}

// Role returns the viewer's role in the conversation.
func (s *Session) Role() (domain.Role, bool) {
	conv, ok := s.Conversation()
	if !ok {
		return "", false
	}
	return conv.RoleOf(s.opts.UserID)
}

// OtherParticipant returns who the viewer is talking to.
func (s *Session) OtherParticipant() (domain.Participant, bool) {
	conv, ok := s.Conversation()
	if !ok {
		return domain.Participant{}, false
	}
	return conv.OtherParticipant(s.opts.UserID), true
}

// OfferID returns the resolved offer id and whether resolution ran.
func (s *Session) OfferID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offerID, s.offerResolved
}

func (s *Session) ConversationID() string { return s.opts.ConversationID }
func (s *Session) UserID() string         { return s.opts.UserID }

// Messages returns the timeline, oldest first.
func (s *Session) Messages() []domain.Message {
	return s.timeline.Messages()
}

// HasMore reports whether older pages remain.
func (s *Session) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// Loaded reports whether at least one page of history arrived.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page > 0
}

// Connected reports whether the socket is up.
func (s *Session) Connected() bool {
	return s.socket.Connected()
}

// Error returns the last user-facing error, if any.
func (s *Session) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

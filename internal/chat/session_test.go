package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ahmed01061/Naafe/internal/api"
	"github.com/Ahmed01061/Naafe/internal/domain"
	"github.com/Ahmed01061/Naafe/internal/notify"
	"github.com/Ahmed01061/Naafe/internal/protocol"
	"github.com/Ahmed01061/Naafe/internal/realtime"
)

type fakeAPI struct {
	mu        sync.Mutex
	conv      *domain.Conversation
	convErr   error
	pages     map[int][]domain.Message
	pageCount int
	pageErr   error
	requested []int
	offers    []domain.Offer
	offerArgs [2]string
}

func (f *fakeAPI) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	if f.convErr != nil {
		return nil, f.convErr
	}
	c := *f.conv
	return &c, nil
}

func (f *fakeAPI) ListMessages(ctx context.Context, id string, page, limit int) (*api.MessagePage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested = append(f.requested, page)
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	return &api.MessagePage{
		Messages:   f.pages[page],
		Pagination: api.Pagination{Page: page, Pages: f.pageCount, Limit: limit},
	}, nil
}

func (f *fakeAPI) FindOffers(ctx context.Context, jobRequestID, providerID string) ([]domain.Offer, error) {
	f.offerArgs = [2]string{jobRequestID, providerID}
	return f.offers, nil
}

type emitted struct {
	event   string
	payload interface{}
}

type fakeSocket struct {
	mu        sync.Mutex
	connected bool
	handlers  map[string][]realtime.Handler
	hooks     []func()
	emits     []emitted
	emitErr   error
}

func newFakeSocket() *fakeSocket {
	return &fakeSocket{connected: true, handlers: make(map[string][]realtime.Handler)}
}

func (s *fakeSocket) Connected() bool { return s.connected }

func (s *fakeSocket) On(event string, h realtime.Handler) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[event] = append(s.handlers[event], h)
	idx := len(s.handlers[event]) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.handlers[event][idx] = nil
	}
}

func (s *fakeSocket) OnConnect(fn func()) func() {
	s.mu.Lock()
	s.hooks = append(s.hooks, fn)
	connected := s.connected
	s.mu.Unlock()
	if connected {
		fn()
	}
	return func() {}
}

func (s *fakeSocket) Emit(event string, payload interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emitErr != nil {
		return s.emitErr
	}
	s.emits = append(s.emits, emitted{event: event, payload: payload})
	return nil
}

func (s *fakeSocket) deliver(raw string) {
	ev, err := protocol.DecodeInbound([]byte(raw))
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	hs := append([]realtime.Handler(nil), s.handlers[ev.EventName()]...)
	s.mu.Unlock()
	for _, h := range hs {
		if h != nil {
			h(ev)
		}
	}
}

func (s *fakeSocket) events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var names []string
	for _, e := range s.emits {
		names = append(names, e.event)
	}
	return names
}

func testConversation() *domain.Conversation {
	return &domain.Conversation{
		ID:         "c1",
		JobRequest: domain.JobRequest{ID: "jr1", Title: "Fix the sink"},
		Participants: domain.Participants{
			Seeker:   domain.Participant{ID: "s1", Name: domain.PersonName{First: "Sara", Last: "Ali"}},
			Provider: domain.Participant{ID: "p1", Name: domain.PersonName{First: "Omar", Last: "Hassan"}},
		},
	}
}

func msg(id string) domain.Message {
	return domain.Message{ID: id, ConversationID: "c1", SenderID: "p1", Content: "msg " + id}
}

func ids(msgs []domain.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.ID)
	}
	return out
}

func openSession(t *testing.T, fake *fakeAPI, sock *fakeSocket) *Session {
	t.Helper()
	s := NewSession(Deps{API: fake, Socket: sock, Log: zerolog.Nop()}, Options{ConversationID: "c1", UserID: "s1", PageSize: 2})
	t.Cleanup(s.Close)
	require.NoError(t, s.Open(context.Background()))
	return s
}

func TestSessionOpen(t *testing.T) {
	fake := &fakeAPI{
		conv:      testConversation(),
		pages:     map[int][]domain.Message{1: {msg("m3"), msg("m4")}},
		pageCount: 2,
		offers:    []domain.Offer{{ID: "o1"}, {ID: "o2"}},
	}
	sock := newFakeSocket()
	s := NewSession(Deps{API: fake, Socket: sock, Log: zerolog.Nop()}, Options{ConversationID: "c1", UserID: "s1", PageSize: 2})
	defer s.Close()

	var resolved string
	s.OnOfferResolved(func(id string) { resolved = id })
	require.NoError(t, s.Open(context.Background()))

	assert.Equal(t, []string{"m3", "m4"}, ids(s.Messages()))
	assert.True(t, s.HasMore())
	assert.Equal(t, "o1", resolved)
	assert.Equal(t, [2]string{"jr1", "p1"}, fake.offerArgs)

	role, ok := s.Role()
	require.True(t, ok)
	assert.Equal(t, domain.RoleSeeker, role)

	assert.Equal(t, []string{protocol.EventJoinConversation, protocol.EventMarkRead}, sock.events())
}

func TestSessionLoadFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"rejected", domain.NewRejectedError(404, "", "not found"), notify.ErrLoadConversation},
		{"transport", domain.NewTransportError(errors.New("refused")), notify.ErrConnectServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAPI{convErr: tt.err}
			s := NewSession(Deps{API: fake, Socket: newFakeSocket(), Log: zerolog.Nop()}, Options{ConversationID: "c1"})
			defer s.Close()

			assert.Error(t, s.Open(context.Background()))
			assert.Equal(t, tt.want, s.Error())
			assert.Empty(t, fake.requested)
		})
	}
}

func TestSessionNoOffer(t *testing.T) {
	fake := &fakeAPI{conv: testConversation(), pageCount: 1}
	s := openSession(t, fake, newFakeSocket())

	id, resolved := s.OfferID()
	assert.True(t, resolved)
	assert.Empty(t, id)
	assert.False(t, s.HasMore())
}

func TestSessionLoadMorePrependsInOrder(t *testing.T) {
	fake := &fakeAPI{
		conv: testConversation(),
		pages: map[int][]domain.Message{
			1: {msg("m5"), msg("m6")},
			2: {msg("m3"), msg("m4")},
			3: {msg("m1"), msg("m2")},
		},
		pageCount: 3,
	}
	s := openSession(t, fake, newFakeSocket())
	ctx := context.Background()

	requested, err := s.LoadMore(ctx)
	require.NoError(t, err)
	assert.True(t, requested)
	assert.Equal(t, []string{"m3", "m4", "m5", "m6"}, ids(s.Messages()))

	require.NoError(t, s.ReachedTop(ctx))
	assert.Equal(t, []string{"m1", "m2", "m3", "m4", "m5", "m6"}, ids(s.Messages()))
	assert.False(t, s.HasMore())

	requested, err = s.LoadMore(ctx)
	require.NoError(t, err)
	assert.False(t, requested)
	assert.Equal(t, []int{1, 2, 3}, fake.requested)
}

func TestSessionLoadMoreFailureKeepsPage(t *testing.T) {
	fake := &fakeAPI{
		conv:      testConversation(),
		pages:     map[int][]domain.Message{1: {msg("m3")}, 2: {msg("m1")}},
		pageCount: 2,
	}
	s := openSession(t, fake, newFakeSocket())

	fake.pageErr = domain.NewTransportError(errors.New("reset"))
	_, err := s.LoadMore(context.Background())
	assert.Error(t, err)
	assert.Equal(t, notify.ErrLoadMessages, s.Error())

	fake.pageErr = nil
	_, err = s.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 2}, fake.requested)
	assert.Equal(t, []string{"m1", "m3"}, ids(s.Messages()))
}

func TestSessionIgnoresForeignConversation(t *testing.T) {
	fake := &fakeAPI{conv: testConversation(), pages: map[int][]domain.Message{1: {msg("m1")}}, pageCount: 1}
	sock := newFakeSocket()
	s := openSession(t, fake, sock)
	before := len(sock.events())

	sock.deliver(`{"event":"receive-message","data":{"_id":"x1","conversationId":"c2","senderId":"p9","content":"hi"}}`)
	assert.Equal(t, []string{"m1"}, ids(s.Messages()))
	assert.Len(t, sock.events(), before)

	sock.deliver(`{"event":"receive-message","data":{"_id":"m2","conversationId":"c1","senderId":"p1","content":"hi"}}`)
	assert.Equal(t, []string{"m1", "m2"}, ids(s.Messages()))
	assert.Equal(t, protocol.EventMarkRead, sock.events()[len(sock.events())-1])

	sock.deliver(`{"event":"receive-message","data":{"_id":"m2","conversationId":"c1","senderId":"p1","content":"hi"}}`)
	assert.Len(t, s.Messages(), 2)
}

func TestSessionSendMessage(t *testing.T) {
	fake := &fakeAPI{conv: testConversation(), pageCount: 1}
	sock := newFakeSocket()
	s := openSession(t, fake, sock)

	assert.ErrorIs(t, s.SendMessage(), domain.ErrEmptyMessage)

	s.SetDraft("  hello  ")
	require.NoError(t, s.SendMessage())
	assert.Empty(t, s.Draft())
	assert.Empty(t, s.Messages())

	last := sock.emits[len(sock.emits)-1]
	assert.Equal(t, protocol.EventSendMessage, last.event)
	raw, err := json.Marshal(last.payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"conversationId":"c1","receiverId":"p1","content":"hello"}`, string(raw))

	sock.deliver(`{"event":"message-sent","data":{"_id":"m9","conversationId":"c1","senderId":"s1","content":"hello"}}`)
	assert.Equal(t, []string{"m9"}, ids(s.Messages()))

	sock.emitErr = realtime.ErrNotConnected
	s.SetDraft("again")
	assert.ErrorIs(t, s.SendMessage(), realtime.ErrNotConnected)
	assert.Empty(t, s.Draft())
	assert.Equal(t, notify.ErrSendMessage, s.Error())
}

func TestSessionCloseDiscardsLateEvents(t *testing.T) {
	fake := &fakeAPI{conv: testConversation(), pageCount: 1}
	sock := newFakeSocket()
	s := openSession(t, fake, sock)
	s.Close()

	sock.deliver(`{"event":"receive-message","data":{"_id":"m1","conversationId":"c1","senderId":"p1","content":"late"}}`)
	assert.Empty(t, s.Messages())

	requested, err := s.LoadMore(context.Background())
	assert.NoError(t, err)
	assert.False(t, requested)
}

package negotiation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ahmed01061/Naafe/internal/domain"
)

type fakeAPI struct {
	mu        sync.Mutex
	current   domain.Negotiation
	getHook   func(call int) (*domain.Negotiation, error)
	getCalls  int
	updates   []domain.Terms
	confirms  int
	resets    int
	updateErr error
	history   []domain.NegotiationEntry
}

func (f *fakeAPI) GetNegotiation(ctx context.Context, offerID string) (*domain.Negotiation, error) {
	f.mu.Lock()
	f.getCalls++
	call := f.getCalls
	hook := f.getHook
	n := f.current
	f.mu.Unlock()
	if hook != nil {
		return hook(call)
	}
	return &n, nil
}

func (f *fakeAPI) UpdateNegotiation(ctx context.Context, offerID string, terms domain.Terms) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, terms)
	f.current.CurrentTerms = terms
	return nil
}

func (f *fakeAPI) ConfirmNegotiation(ctx context.Context, offerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirms++
	f.current.ConfirmationStatus.Seeker = true
	return nil
}

func (f *fakeAPI) ResetNegotiation(ctx context.Context, offerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	f.current.ConfirmationStatus = domain.ConfirmationStatus{}
	return nil
}

func (f *fakeAPI) GetNegotiationHistory(ctx context.Context, offerID string) ([]domain.NegotiationEntry, error) {
	return f.history, nil
}

func fullTerms() domain.Terms {
	return domain.Terms{
		Price:     decimal.NewFromInt(300),
		Date:      "2025-04-01",
		Time:      "09:00",
		Materials: "provider",
		Scope:     "fix sink",
	}
}

func TestStoreFetchAndCanAccept(t *testing.T) {
	api := &fakeAPI{current: domain.Negotiation{
		CurrentTerms:       fullTerms(),
		ConfirmationStatus: domain.ConfirmationStatus{Seeker: true, Provider: false},
	}}
	s := NewStore(api, zerolog.Nop())
	ctx := context.Background()

	assert.False(t, s.CanAcceptOffer("o1"))
	_, ok := s.Get("o1")
	assert.False(t, ok)

	n, err := s.Fetch(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", n.OfferID)
	assert.False(t, s.CanAcceptOffer("o1"))

	api.current.ConfirmationStatus.Provider = true
	_, err = s.Fetch(ctx, "o1")
	require.NoError(t, err)
	assert.True(t, s.CanAcceptOffer("o1"))
}

func TestStoreDiscardsStaleFetch(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	api := &fakeAPI{}
	api.getHook = func(call int) (*domain.Negotiation, error) {
		if call == 1 {
			close(started)
			<-release
			return &domain.Negotiation{CurrentTerms: domain.Terms{Scope: "old"}}, nil
		}
		return &domain.Negotiation{CurrentTerms: domain.Terms{Scope: "new"}}, nil
	}
	s := NewStore(api, zerolog.Nop())
	ctx := context.Background()

	done := make(chan domain.Negotiation)
	go func() {
		n, _ := s.Fetch(ctx, "o1")
		done <- n
	}()
	<-started

	n, err := s.Fetch(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "new", n.CurrentTerms.Scope)

	close(release)
	late := <-done
	assert.Equal(t, "new", late.CurrentTerms.Scope)

	held, ok := s.Get("o1")
	require.True(t, ok)
	assert.Equal(t, "new", held.CurrentTerms.Scope)
}

func TestStoreMutationsRefetch(t *testing.T) {
	api := &fakeAPI{}
	s := NewStore(api, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, "o1", fullTerms()))
	held, ok := s.Get("o1")
	require.True(t, ok)
	assert.Equal(t, "fix sink", held.CurrentTerms.Scope)

	require.NoError(t, s.Confirm(ctx, "o1"))
	held, _ = s.Get("o1")
	assert.True(t, held.ConfirmationStatus.Seeker)

	require.NoError(t, s.Reset(ctx, "o1"))
	held, _ = s.Get("o1")
	assert.False(t, held.ConfirmationStatus.Seeker)
	assert.Equal(t, 1, api.resets)
}

func TestStoreSurfacesFailures(t *testing.T) {
	api := &fakeAPI{updateErr: domain.NewRejectedError(400, "", "bad terms")}
	api.getHook = func(int) (*domain.Negotiation, error) {
		return nil, domain.NewTransportError(errors.New("connection refused"))
	}
	s := NewStore(api, zerolog.Nop())
	ctx := context.Background()

	_, err := s.Fetch(ctx, "o1")
	assert.True(t, domain.IsKind(err, domain.KindTransport))

	err = s.Update(ctx, "o1", fullTerms())
	assert.True(t, domain.IsKind(err, domain.KindRejected))
}

func TestStoreHistory(t *testing.T) {
	api := &fakeAPI{history: []domain.NegotiationEntry{{Actor: "p1"}, {Actor: "s1"}}}
	s := NewStore(api, zerolog.Nop())

	history, err := s.FetchHistory(context.Background(), "o1")
	require.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, "s1", s.History("o1")[1].Actor)
}

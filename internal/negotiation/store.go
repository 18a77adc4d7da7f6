// Package negotiation caches per-offer negotiation snapshots.
package negotiation

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Ahmed01061/Naafe/internal/domain"
)

// API is the subset of the REST client the store needs.
type API interface {
	GetNegotiation(ctx context.Context, offerID string) (*domain.Negotiation, error)
	UpdateNegotiation(ctx context.Context, offerID string, terms domain.Terms) error
	ConfirmNegotiation(ctx context.Context, offerID string) error
	ResetNegotiation(ctx context.Context, offerID string) error
	GetNegotiationHistory(ctx context.Context, offerID string) ([]domain.NegotiationEntry, error)
}

type entry struct {
	snapshot       domain.Negotiation
	version        uint64
	history        []domain.NegotiationEntry
	historyVersion uint64
}

// Store maps offer ids to the latest fetched negotiation.
// A response is applied only if its request was issued after the one
// that produced the held snapshot.
type Store struct {
	api API
	log zerolog.Logger

	mu      sync.Mutex
	seq     uint64
	entries map[string]*entry
}

// NewStore creates an empty store.
func NewStore(api API, log zerolog.Logger) *Store {
	return &Store{
		api:     api,
		log:     log.With().Str("component", "negotiation").Logger(),
		entries: make(map[string]*entry),
	}
}

func (s *Store) issue() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// entryLocked returns the entry for offerID; s.mu must be held.
func (s *Store) entryLocked(offerID string) *entry {
	e, ok := s.entries[offerID]
	if !ok {
		e = &entry{}
		s.entries[offerID] = e
	}
	return e
}

// Fetch refreshes the snapshot for offerID and returns the newest one held.
func (s *Store) Fetch(ctx context.Context, offerID string) (domain.Negotiation, error) {
	version := s.issue()
	n, err := s.api.GetNegotiation(ctx, offerID)
	if err != nil {
		s.log.Error().Err(err).Str("offer_id", offerID).Msg("fetch negotiation failed")
		return domain.Negotiation{}, fmt.Errorf("fetch negotiation: %w", err)
	}
	if n.OfferID == "" {
		n.OfferID = offerID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entryLocked(offerID)
	if version > e.version {
		e.snapshot = n.Clone()
		e.version = version
	}
	return e.snapshot.Clone(), nil
}

// Update proposes new terms and refreshes the snapshot once acknowledged.
func (s *Store) Update(ctx context.Context, offerID string, terms domain.Terms) error {
	if err := s.api.UpdateNegotiation(ctx, offerID, terms); err != nil {
		s.log.Error().Err(err).Str("offer_id", offerID).Msg("update negotiation failed")
		return fmt.Errorf("update negotiation: %w", err)
	}
	_, err := s.Fetch(ctx, offerID)
	return err
}

// Confirm records the caller's confirmation and refreshes the snapshot.
func (s *Store) Confirm(ctx context.Context, offerID string) error {
	if err := s.api.ConfirmNegotiation(ctx, offerID); err != nil {
		s.log.Error().Err(err).Str("offer_id", offerID).Msg("confirm negotiation failed")
		return fmt.Errorf("confirm negotiation: %w", err)
	}
	_, err := s.Fetch(ctx, offerID)
	return err
}

// Reset clears both confirmations and refreshes the snapshot.
func (s *Store) Reset(ctx context.Context, offerID string) error {
	if err := s.api.ResetNegotiation(ctx, offerID); err != nil {
		s.log.Error().Err(err).Str("offer_id", offerID).Msg("reset negotiation failed")
		return fmt.Errorf("reset negotiation: %w", err)
	}
	_, err := s.Fetch(ctx, offerID)
	return err
}

// FetchHistory refreshes the term change history for offerID.
func (s *Store) FetchHistory(ctx context.Context, offerID string) ([]domain.NegotiationEntry, error) {
	version := s.issue()
	history, err := s.api.GetNegotiationHistory(ctx, offerID)
	if err != nil {
		s.log.Error().Err(err).Str("offer_id", offerID).Msg("fetch negotiation history failed")
		return nil, fmt.Errorf("fetch negotiation history: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entryLocked(offerID)
	if version > e.historyVersion {
		e.history = append([]domain.NegotiationEntry(nil), history...)
		e.historyVersion = version
	}
	return append([]domain.NegotiationEntry(nil), e.history...), nil
}

// Get returns a copy of the held snapshot.
func (s *Store) Get(offerID string) (domain.Negotiation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[offerID]
	if !ok || e.version == 0 {
		return domain.Negotiation{}, false
	}
	return e.snapshot.Clone(), true
}

// History returns a copy of the held history.
func (s *Store) History(offerID string) []domain.NegotiationEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[offerID]
	if !ok {
		return nil
	}
	return append([]domain.NegotiationEntry(nil), e.history...)
}

// CanAcceptOffer evaluates the held snapshot; false when none is held.
func (s *Store) CanAcceptOffer(offerID string) bool {
	n, ok := s.Get(offerID)
	return ok && n.CanAcceptOffer()
}

package offerflow

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/shopspring/decimal"

	"github.com/Ahmed01061/Naafe/internal/domain"
)

// OfferBook caches offers seen by the client, most recently used first out.
type OfferBook struct {
	cache *lru.Cache
}

// NewOfferBook creates a book holding at most size offers.
func NewOfferBook(size int) (*OfferBook, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("create offer cache: %w", err)
	}
	return &OfferBook{cache: cache}, nil
}

// Get returns a cached offer.
func (b *OfferBook) Get(offerID string) (domain.Offer, bool) {
	v, ok := b.cache.Get(offerID)
	if !ok {
		return domain.Offer{}, false
	}
	return v.(domain.Offer), true
}

// Put stores or replaces an offer.
func (b *OfferBook) Put(offer domain.Offer) {
	if offer.ID == "" {
		return
	}
	b.cache.Add(offer.ID, offer)
}

// SetStatus updates the status of a cached offer.
func (b *OfferBook) SetStatus(offerID string, status domain.OfferStatus) {
	if offer, ok := b.Get(offerID); ok {
		offer.Status = status
		b.cache.Add(offerID, offer)
	}
}

// Summary is the display form of an offer.
type Summary struct {
	ID              string
	Name            string
	Avatar          string
	Rating          float64
	Price           decimal.Decimal
	Specialties     []string
	Verified        bool
	Message         string
	EstimatedDays   int
	AvailableDates  []string
	TimePreferences []string
	Status          domain.OfferStatus
}

// Summarize maps a backend offer to its display form.
func Summarize(o domain.Offer) Summary {
	return Summary{
		ID:              o.ID,
		Name:            o.Provider.Name.String(),
		Avatar:          o.Provider.AvatarURL,
		Rating:          o.Provider.ProviderProfile.Rating,
		Price:           o.Budget.Min,
		Specialties:     o.Provider.ProviderProfile.Skills,
		Verified:        o.Provider.IsVerified,
		Message:         o.Message,
		EstimatedDays:   o.EstimatedDays(),
		AvailableDates:  o.AvailableDates,
		TimePreferences: o.TimePreferences,
		Status:          o.Status,
	}
}

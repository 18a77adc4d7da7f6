// Package providers lists the marketplace's featured providers.
package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Ahmed01061/Naafe/internal/domain"
	"github.com/Ahmed01061/Naafe/internal/notify"
)

const Heading = "مقدمو الخدمات المميزون"

// ErrLoad is returned when the featured list could not be loaded.
var ErrLoad = errors.New(notify.ErrLoadFeatured)

// Lister fetches the featured providers.
type Lister interface {
	FeaturedProviders(ctx context.Context) ([]domain.Provider, error)
}

// Card is a provider as shown in the featured section.
type Card struct {
	ID          string
	Name        string
	Avatar      string
	Rating      float64
	ReviewCount int
	Specialties []string
	Location    string
	Verified    bool
	ProfilePath string
}

type Service struct {
	api Lister
	log zerolog.Logger
}

func NewService(api Lister, log zerolog.Logger) *Service {
	return &Service{api: api, log: log.With().Str("component", "providers").Logger()}
}

// Featured returns the featured provider cards.
func (s *Service) Featured(ctx context.Context) ([]Card, error) {
	list, err := s.api.FeaturedProviders(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("load featured providers failed")
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	cards := make([]Card, 0, len(list))
	for _, p := range list {
		id := p.Key()
		cards = append(cards, Card{
			ID:          id,
			Name:        p.Name.String(),
			Avatar:      p.Avatar,
			Rating:      p.Rating,
			ReviewCount: p.ReviewCount,
			Specialties: p.Specialties,
			Location:    p.Location,
			Verified:    p.Verified,
			ProfilePath: "/provider/" + id,
		})
	}
	return cards, nil
}

// Render writes the featured section as text.
func Render(w io.Writer, cards []Card, err error) error {
	if _, werr := fmt.Fprintln(w, Heading); werr != nil {
		return werr
	}
	switch {
	case err != nil:
		_, werr := fmt.Fprintln(w, notify.ErrLoadFeatured)
		return werr
	case len(cards) == 0:
		_, werr := fmt.Fprintln(w, notify.EmptyFeatured)
		return werr
	}

	for _, c := range cards {
		badge := ""
		if c.Verified {
			badge = " ✓"
		}
		line := fmt.Sprintf("★ %s%s  %.1f", c.Name, badge, c.Rating)
		if c.ReviewCount > 0 {
			line += fmt.Sprintf(" (%d)", c.ReviewCount)
		}
		if len(c.Specialties) > 0 {
			line += "  " + strings.Join(c.Specialties, "، ")
		}
		line += "  " + c.ProfilePath
		if _, werr := fmt.Fprintln(w, line); werr != nil {
			return werr
		}
	}
	return nil
}

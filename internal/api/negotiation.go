package api

import (
	"context"
	"net/http"

	"github.com/Ahmed01061/Naafe/internal/domain"
)

// GetNegotiation fetches the current negotiation snapshot of an offer.
func (c *Client) GetNegotiation(ctx context.Context, offerID string) (*domain.Negotiation, error) {
	var n domain.Negotiation
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/api/offers/:id/negotiation",
		path:   offerPath(offerID) + "/negotiation",
		auth:   true,
	}, &n)
	if err != nil {
		return nil, err
	}
	if n.OfferID == "" {
		n.OfferID = offerID
	}
	return &n, nil
}

// UpdateNegotiation proposes new terms.
func (c *Client) UpdateNegotiation(ctx context.Context, offerID string, terms domain.Terms) error {
	return c.do(ctx, call{
		method: http.MethodPut,
		route:  "/api/offers/:id/negotiation",
		path:   offerPath(offerID) + "/negotiation",
		auth:   true,
		body:   terms,
	}, nil)
}

// ConfirmNegotiation records the caller's agreement to the current terms.
func (c *Client) ConfirmNegotiation(ctx context.Context, offerID string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		route:  "/api/offers/:id/negotiation/confirm",
		path:   offerPath(offerID) + "/negotiation/confirm",
		auth:   true,
	}, nil)
}

// ResetNegotiation clears both confirmation flags.
func (c *Client) ResetNegotiation(ctx context.Context, offerID string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		route:  "/api/offers/:id/negotiation/reset",
		path:   offerPath(offerID) + "/negotiation/reset",
		auth:   true,
	}, nil)
}

// GetNegotiationHistory lists past term changes, oldest first.
func (c *Client) GetNegotiationHistory(ctx context.Context, offerID string) ([]domain.NegotiationEntry, error) {
	var history []domain.NegotiationEntry
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/api/offers/:id/negotiation/history",
		path:   offerPath(offerID) + "/negotiation/history",
		auth:   true,
	}, &history)
	if err != nil {
		return nil, err
	}
	return history, nil
}

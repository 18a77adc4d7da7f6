package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/Ahmed01061/Naafe/internal/domain"
)

// CancellationResult is returned when a cancellation request is accepted.
type CancellationResult struct {
	// RefundPercentage is computed by the server and shown as sent.
	RefundPercentage json.Number `json:"refundPercentage"`
}

// FindOffers lists offers a provider made on a job request.
func (c *Client) FindOffers(ctx context.Context, jobRequestID, providerID string) ([]domain.Offer, error) {
	var offers []domain.Offer
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/api/offers",
		path:   "/api/offers",
		auth:   true,
		query: map[string]string{
			"jobRequest": jobRequestID,
			"provider":   providerID,
		},
	}, &offers)
	if err != nil {
		return nil, err
	}
	return offers, nil
}

// GetOffer fetches a single offer.
func (c *Client) GetOffer(ctx context.Context, offerID string) (*domain.Offer, error) {
	var offer domain.Offer
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/api/offers/:id",
		path:   offerPath(offerID),
		auth:   true,
	}, &offer)
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// AcceptOffer accepts an offer on behalf of the seeker.
func (c *Client) AcceptOffer(ctx context.Context, offerID string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		route:  "/api/offers/:id/accept",
		path:   offerPath(offerID) + "/accept",
		auth:   true,
	}, nil)
}

// CompleteOffer confirms the service was delivered and releases the escrow.
func (c *Client) CompleteOffer(ctx context.Context, offerID string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		route:  "/api/offers/:id/complete",
		path:   offerPath(offerID) + "/complete",
		auth:   true,
	}, nil)
}

// RequestCancellation asks the server to cancel a paid or running service.
func (c *Client) RequestCancellation(ctx context.Context, offerID, reason string) (*CancellationResult, error) {
	var result CancellationResult
	err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "/api/offers/:id/cancel-request",
		path:   offerPath(offerID) + "/cancel-request",
		auth:   true,
		body:   map[string]string{"reason": reason},
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func offerPath(offerID string) string {
	return "/api/offers/" + url.PathEscape(offerID)
}

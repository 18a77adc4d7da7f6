package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/Ahmed01061/Naafe/internal/domain"
)

// Checkout is a hosted payment page the user must be sent to.
type Checkout struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId,omitempty"`
}

// PaymentState is the escrow status of a conversation's offer.
type PaymentState struct {
	Status domain.PaymentStatus `json:"status"`
}

// CreateEscrowPayment starts the escrow checkout for an accepted offer.
func (c *Client) CreateEscrowPayment(ctx context.Context, offerID string, amount decimal.Decimal) (*Checkout, error) {
	var checkout Checkout
	err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "/api/payment/create-escrow-payment",
		path:   "/api/payment/create-escrow-payment",
		auth:   true,
		body: map[string]interface{}{
			"offerId": offerID,
			"amount":  amount,
		},
	}, &checkout)
	if err != nil {
		return nil, err
	}
	if checkout.URL == "" {
		return nil, domain.NewRejectedError(http.StatusOK, "", "checkout url missing")
	}
	return &checkout, nil
}

// CheckPaymentStatus reports the escrow status for a conversation.
func (c *Client) CheckPaymentStatus(ctx context.Context, conversationID string) (*PaymentState, error) {
	var state PaymentState
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/api/payment/check-status/:chatId",
		path:   "/api/payment/check-status/" + url.PathEscape(conversationID),
		auth:   true,
	}, &state)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// PromotionCheckout starts the checkout for a created ad.
func (c *Client) PromotionCheckout(ctx context.Context, adID string) (*Checkout, error) {
	var checkout Checkout
	err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "/api/payment/promotion-checkout/:adId",
		path:   "/api/payment/promotion-checkout/" + url.PathEscape(adID),
		auth:   true,
	}, &checkout)
	if err != nil {
		return nil, err
	}
	if checkout.URL == "" {
		return nil, domain.NewRejectedError(http.StatusOK, "", "checkout url missing")
	}
	return &checkout, nil
}

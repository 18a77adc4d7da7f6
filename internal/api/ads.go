package api

import (
	"context"
	"net/http"
)

// AdTargeting narrows who sees an ad.
type AdTargeting struct {
	Locations  []string `json:"locations"`
	Categories []string `json:"categories"`
	Keywords   []string `json:"keywords"`
}

// AdRequest is the body of POST /api/ads.
type AdRequest struct {
	Type        string      `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	ImageURL    string      `json:"imageUrl"`
	TargetURL   string      `json:"targetUrl"`
	Duration    string      `json:"duration"`
	Targeting   AdTargeting `json:"targeting"`
}

// Ad is a created, not yet paid, advertisement.
type Ad struct {
	ID     string `json:"_id"`
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status string `json:"status,omitempty"`
}

// CreateAd registers an ad ahead of its promotion checkout.
func (c *Client) CreateAd(ctx context.Context, req AdRequest) (*Ad, error) {
	var ad Ad
	err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "/api/ads",
		path:   "/api/ads",
		auth:   true,
		body:   req,
	}, &ad)
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

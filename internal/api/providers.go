package api

import (
	"context"
	"net/http"

	"github.com/Ahmed01061/Naafe/internal/domain"
)

// FeaturedProviders lists the promoted providers; the endpoint is public.
func (c *Client) FeaturedProviders(ctx context.Context) ([]domain.Provider, error) {
	var data struct {
		Providers *[]domain.Provider `json:"providers"`
	}
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/api/providers/featured",
		path:   "/api/providers/featured",
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.Providers == nil {
		return nil, domain.NewRejectedError(http.StatusOK, "", "providers missing from response")
	}
	return *data.Providers, nil
}

package providers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ahmed01061/Naafe/internal/api"
	"github.com/Ahmed01061/Naafe/internal/notify"
)

func newService(t *testing.T, body string, status int) *Service {
	t.Helper()
	e := echo.New()
	e.GET("/api/providers/featured", func(c echo.Context) error {
		return c.Blob(status, echo.MIMEApplicationJSON, []byte(body))
	})
	server := httptest.NewServer(e)
	t.Cleanup(server.Close)
	return NewService(api.NewClient(api.Config{BaseURL: server.URL}, zerolog.Nop()), zerolog.Nop())
}

func TestFeatured(t *testing.T) {
	s := newService(t, `{"success":true,"data":{"providers":[{"_id":"p1","name":{"first":"Karim","last":"Hassan"},"rating":4.8,"reviewCount":12,"specialties":["سباكة"],"isVerified":true},{"id":"p2","name":""}]}}`, http.StatusOK)

	cards, err := s.Featured(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "Karim Hassan", cards[0].Name)
	assert.Equal(t, "/provider/p1", cards[0].ProfilePath)
	assert.Equal(t, "/provider/p2", cards[1].ProfilePath)

	var out bytes.Buffer
	require.NoError(t, Render(&out, cards, nil))
	assert.Contains(t, out.String(), "Karim Hassan ✓  4.8 (12)  سباكة")
}

func TestFeaturedEmpty(t *testing.T) {
	s := newService(t, `{"success":true,"data":{"providers":[]}}`, http.StatusOK)

	cards, err := s.Featured(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cards)

	var out bytes.Buffer
	require.NoError(t, Render(&out, cards, nil))
	assert.Contains(t, out.String(), notify.EmptyFeatured)
}

func TestFeaturedFailure(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"server error", `{"success":false,"error":{"message":"boom"}}`, http.StatusInternalServerError},
		{"missing list", `{"success":true,"data":{}}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newService(t, tt.body, tt.status)

			_, err := s.Featured(context.Background())
			assert.ErrorIs(t, err, ErrLoad)

			var out bytes.Buffer
			require.NoError(t, Render(&out, nil, err))
			assert.Contains(t, out.String(), notify.ErrLoadFeatured)
		})
	}
}

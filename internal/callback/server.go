// Package callback serves the local listener the checkout redirects back to.
package callback

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Ahmed01061/Naafe/internal/metrics"
)

// PaymentReturnFunc handles a checkout return for chatID; it reports whether
// the query was a successful payment return.
type PaymentReturnFunc func(ctx context.Context, chatID string, query url.Values) bool

// Status reports liveness details for /health.
type Status interface {
	Connected() bool
}

// Server is the checkout return listener.
type Server struct {
	echo   *echo.Echo
	status Status
	log    zerolog.Logger

	mu       sync.RWMutex
	onReturn PaymentReturnFunc
}

// NewServer creates the listener; status may be nil.
func NewServer(status Status, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		status: status,
		log:    log.With().Str("component", "callback").Logger(),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.log.Debug().Str("method", v.Method).Str("uri", v.URI).Int("status", v.Status).Msg("request")
			return nil
		},
	}))

	e.GET("/health", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	e.GET("/chat/:chatId", s.handleChat)

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// OnPaymentReturn registers the checkout return handler, replacing any previous one.
func (s *Server) OnPaymentReturn(fn PaymentReturnFunc) {
	s.mu.Lock()
	s.onReturn = fn
	s.mu.Unlock()
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	connected := false
	if s.status != nil {
		connected = s.status.Connected()
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":           "healthy",
		"socket_connected": connected,
	})
}

// ChatResponse is returned once the return has been handled.
type ChatResponse struct {
	ChatID   string `json:"chat_id"`
	Returned bool   `json:"payment_returned"`
}

// handleChat accepts /chat/:chatId?from_payment=success, hands it to the
// registered handler and replaces the URL with the bare chat path.
func (s *Server) handleChat(c echo.Context) error {
	chatID := c.Param("chatId")
	query := c.QueryParams()
	if len(query) == 0 {
		return c.JSON(http.StatusOK, ChatResponse{ChatID: chatID})
	}

	s.mu.RLock()
	fn := s.onReturn
	s.mu.RUnlock()

	returned := false
	if fn != nil {
		returned = fn(c.Request().Context(), chatID, query)
	}
	s.log.Info().Str("chat_id", chatID).Bool("payment_returned", returned).Msg("checkout return")

	return c.Redirect(http.StatusSeeOther, "/chat/"+url.PathEscape(chatID))
}

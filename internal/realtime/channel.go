// Package realtime provides the socket channel to the chat server.
package realtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Ahmed01061/Naafe/internal/metrics"
	"github.com/Ahmed01061/Naafe/internal/protocol"
)

var (
	ErrNotConnected = errors.New("socket not connected")
	ErrBufferFull   = errors.New("socket send buffer full")
)

const sendBufferSize = 64

// Config configures the channel.
type Config struct {
	URL               string
	Token             string
	PingInterval      time.Duration
	WriteTimeout      time.Duration
	ReadTimeout       time.Duration
	ReconnectDelay    time.Duration
	MaxReconnectDelay time.Duration
	MaxMessageSize    int64
}

func (c *Config) setDefaults() {
	if c.PingInterval <= 0 {
		c.PingInterval = 25 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 60 * time.Second
	}
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = time.Second
	}
	if c.MaxReconnectDelay < c.ReconnectDelay {
		c.MaxReconnectDelay = 30 * time.Second
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = 1 << 20
	}
}

// Handler receives a validated inbound event.
type Handler func(ev protocol.Inbound)

type handlerEntry struct {
	id uint64
	fn Handler
}

type hookEntry struct {
	id uint64
	fn func()
}

// Channel is a reconnecting socket client.
// Handlers run sequentially on the read goroutine.
type Channel struct {
	cfg    Config
	dialer *websocket.Dialer
	log    zerolog.Logger

	mu        sync.Mutex
	send      chan []byte
	connected bool
	handlers  map[string][]handlerEntry
	hooks     []hookEntry
	nextID    uint64
	cancel    context.CancelFunc
}

// New creates a channel; call Run to connect.
func New(cfg Config, log zerolog.Logger) *Channel {
	cfg.setDefaults()
	return &Channel{
		cfg: cfg,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
		log:      log.With().Str("component", "realtime").Logger(),
		handlers: make(map[string][]handlerEntry),
	}
}

// Connected reports whether a connection is currently up.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// On registers a handler for an event and returns a function removing it.
func (c *Channel) On(event string, h Handler) func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.handlers[event] = append(c.handlers[event], handlerEntry{id: id, fn: h})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		entries := c.handlers[event]
		for i, e := range entries {
			if e.id == id {
				c.handlers[event] = append(entries[:i:i], entries[i+1:]...)
				return
			}
		}
	}
}

// OnConnect registers fn to run after every successful connect.
// If the channel is already connected fn runs immediately.
func (c *Channel) OnConnect(fn func()) func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.hooks = append(c.hooks, hookEntry{id: id, fn: fn})
	connected := c.connected
	c.mu.Unlock()

	if connected {
		fn()
	}

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, h := range c.hooks {
			if h.id == id {
				c.hooks = append(c.hooks[:i:i], c.hooks[i+1:]...)
				return
			}
		}
	}
}

// Emit queues an outbound event.
func (c *Channel) Emit(event string, payload interface{}) error {
	frame, err := protocol.Encode(event, payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return ErrNotConnected
	}
	select {
	case c.send <- frame:
		return nil
	default:
		return ErrBufferFull
	}
}

// Close stops Run.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// Run connects and reconnects with backoff until ctx ends or Close is called.
func (c *Channel) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()
	defer cancel()

	delay := c.cfg.ReconnectDelay
	for {
		wasUp, err := c.connectOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if wasUp {
			delay = c.cfg.ReconnectDelay
		}
		c.log.Warn().Err(err).Dur("retry_in", delay).Msg("socket disconnected")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
		if delay > c.cfg.MaxReconnectDelay {
			delay = c.cfg.MaxReconnectDelay
		}
	}
}

// connectOnce dials and serves one connection until it drops.
func (c *Channel) connectOnce(ctx context.Context) (bool, error) {
	header := http.Header{}
	if c.cfg.Token != "" {
		header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL, header)
	if err != nil {
		return false, fmt.Errorf("dial: %w", err)
	}

	connID := "conn_" + uuid.NewString()[:8]
	log := c.log.With().Str("conn_id", connID).Logger()
	log.Info().Str("url", c.cfg.URL).Msg("socket connected")

	send := make(chan []byte, sendBufferSize)
	c.mu.Lock()
	c.send = send
	c.connected = true
	hooks := append([]hookEntry(nil), c.hooks...)
	c.mu.Unlock()
	metrics.SocketConnected.Set(1)

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(c.cfg.WriteTimeout))
			conn.Close()
		case <-stop:
		}
	}()

	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		c.writePump(conn, send, log)
	}()

	for _, h := range hooks {
		h.fn()
	}

	err = c.readPump(conn, log)

	close(stop)
	c.mu.Lock()
	c.connected = false
	close(send)
	c.mu.Unlock()
	metrics.SocketConnected.Set(0)
	<-writeDone
	conn.Close()

	return true, err
}

// readPump reads frames and dispatches them until the connection fails.
func (c *Channel) readPump(conn *websocket.Conn, log zerolog.Logger) error {
	conn.SetReadLimit(c.cfg.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Msg("socket read failed")
			}
			return err
		}
		conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
		c.dispatch(message, log)
	}
}

// writePump drains the send queue and keeps the connection alive.
func (c *Channel) writePump(conn *websocket.Conn, send <-chan []byte, log zerolog.Logger) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().Err(err).Msg("socket write failed")
				conn.Close()
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		}
	}
}

func (c *Channel) dispatch(raw []byte, log zerolog.Logger) {
	ev, err := protocol.DecodeInbound(raw)
	if err != nil {
		if errors.Is(err, protocol.ErrUnknownEvent) {
			log.Debug().Err(err).Msg("ignoring socket event")
		} else {
			log.Warn().Err(err).Msg("dropping malformed socket event")
		}
		return
	}
	metrics.SocketEvents.WithLabelValues(ev.EventName()).Inc()

	c.mu.Lock()
	entries := append([]handlerEntry(nil), c.handlers[ev.EventName()]...)
	c.mu.Unlock()

	for _, e := range entries {
		e.fn(ev)
	}
}

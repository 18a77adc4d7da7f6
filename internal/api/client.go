// Package api provides the HTTP client for the marketplace backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Ahmed01061/Naafe/internal/domain"
	"github.com/Ahmed01061/Naafe/internal/metrics"
)

// Config configures the REST client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client is the HTTP client for the marketplace REST API.
type Client struct {
	http  *resty.Client
	token string
	log   zerolog.Logger
}

// NewClient creates a new REST client.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "naafe-client/1.0").
		SetTimeout(timeout)

	return &Client{
		http:  httpClient,
		token: cfg.Token,
		log:   log.With().Str("component", "api").Logger(),
	}
}

// HasToken reports whether the client is logged in.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// envelope is the backend's standard response wrapper.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// failure extracts the error code and message; error may be an object or a string.
func (e *envelope) failure() (string, string) {
	raw := bytes.TrimSpace(e.Error)
	if len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		if raw[0] == '"' {
			var msg string
			if json.Unmarshal(raw, &msg) == nil {
				return "", msg
			}
		}
		var body errorBody
		if json.Unmarshal(raw, &body) == nil && (body.Code != "" || body.Message != "") {
			return body.Code, body.Message
		}
	}
	return "", e.Message
}

// call describes one REST request.
type call struct {
	method string
	route  string // Path template used as the metrics label
	path   string
	auth   bool
	query  map[string]string
	body   interface{}
}

// do executes a call and decodes the envelope's data into out.
func (c *Client) do(ctx context.Context, rc call, out interface{}) error {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString())
	if rc.auth && c.token != "" {
		req.SetAuthToken(c.token)
	}
	if len(rc.query) > 0 {
		req.SetQueryParams(rc.query)
	}
	if rc.body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(rc.body)
	}

	start := time.Now()
	resp, err := req.Execute(rc.method, rc.path)
	if err != nil {
		metrics.RecordAPIRequest(rc.route, "transport_error", time.Since(start).Seconds())
		c.log.Error().Err(err).Str("method", rc.method).Str("path", rc.path).Msg("request failed")
		return domain.NewTransportError(fmt.Errorf("%s %s: %w", rc.method, rc.path, err))
	}

	var env envelope
	body := resp.Body()
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &env); err != nil {
			if resp.IsError() {
				metrics.RecordAPIRequest(rc.route, "rejected", time.Since(start).Seconds())
				return domain.NewRejectedError(resp.StatusCode(), "", http.StatusText(resp.StatusCode()))
			}
			metrics.RecordAPIRequest(rc.route, "decode_error", time.Since(start).Seconds())
			return domain.NewTransportError(fmt.Errorf("decode %s %s: %w", rc.method, rc.path, err))
		}
	}

	if resp.IsError() || (env.Success != nil && !*env.Success) {
		code, msg := env.failure()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		metrics.RecordAPIRequest(rc.route, "rejected", time.Since(start).Seconds())
		c.log.Warn().
			Str("method", rc.method).
			Str("path", rc.path).
			Int("status", resp.StatusCode()).
			Str("code", code).
			Msg(msg)
		return domain.NewRejectedError(resp.StatusCode(), code, msg)
	}

	metrics.RecordAPIRequest(rc.route, "ok", time.Since(start).Seconds())
	if out == nil || len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return domain.NewTransportError(fmt.Errorf("decode %s %s data: %w", rc.method, rc.path, err))
	}
	return nil
}

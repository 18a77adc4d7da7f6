package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Ahmed01061/Naafe/internal/domain"
)

// Pagination is the server's page descriptor; pages are 1-based.
type Pagination struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Total int `json:"total"`
	Limit int `json:"limit"`
}

// HasMore reports whether older pages remain.
func (p Pagination) HasMore() bool {
	return p.Page < p.Pages
}

// MessagePage is one page of conversation history, oldest first.
type MessagePage struct {
	Messages   []domain.Message `json:"messages"`
	Pagination Pagination       `json:"pagination"`
}

// GetConversation fetches a conversation with its job request and participants.
func (c *Client) GetConversation(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	var data struct {
		Conversation domain.Conversation `json:"conversation"`
	}
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/api/chat/conversations/:id",
		path:   "/api/chat/conversations/" + url.PathEscape(conversationID),
		auth:   true,
	}, &data)
	if err != nil {
		return nil, err
	}
	return &data.Conversation, nil
}

// ListMessages fetches one page of a conversation's messages.
func (c *Client) ListMessages(ctx context.Context, conversationID string, page, limit int) (*MessagePage, error) {
	var data MessagePage
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/api/chat/conversations/:id/messages",
		path:   "/api/chat/conversations/" + url.PathEscape(conversationID) + "/messages",
		auth:   true,
		query: map[string]string{
			"page":  strconv.Itoa(page),
			"limit": strconv.Itoa(limit),
		},
	}, &data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

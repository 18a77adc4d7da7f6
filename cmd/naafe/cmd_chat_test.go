package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ahmed01061/Naafe/internal/chat"
	"github.com/Ahmed01061/Naafe/internal/domain"
	"github.com/Ahmed01061/Naafe/internal/notify"
	"github.com/Ahmed01061/Naafe/internal/offerflow"
	"github.com/Ahmed01061/Naafe/internal/room"
)

func TestParseTerms(t *testing.T) {
	base := domain.Terms{Price: decimal.NewFromInt(400), Date: "2026-11-01", Time: "10:00", Materials: "seeker", Scope: "sink"}

	terms, err := parseTerms(base, "price=450.50 scope=fix the kitchen sink time=12:30")
	require.NoError(t, err)
	assert.Equal(t, "450.5", terms.Price.String())
	assert.Equal(t, "fix the kitchen sink", terms.Scope)
	assert.Equal(t, "12:30", terms.Time)
	assert.Equal(t, "2026-11-01", terms.Date)
	assert.Equal(t, "seeker", terms.Materials)
}

func TestParseTermsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no key", "hello"},
		{"bad price", "price=cheap"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTerms(domain.Terms{}, tt.input)
			assert.Error(t, err)
		})
	}
}

func TestAskConfirm(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"yes", true},
		{" YES ", true},
		{"نعم", true},
		{"y", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			lines := make(chan string, 1)
			lines <- tt.answer
			var out bytes.Buffer
			assert.Equal(t, tt.want, askConfirm(context.Background(), &out, lines, notify.MsgConfirmCompletion))
			assert.Contains(t, out.String(), "type yes to confirm")
		})
	}

	lines := make(chan string)
	close(lines)
	assert.False(t, askConfirm(context.Background(), &bytes.Buffer{}, lines, "?"))
}

func newIdleRoom() *room.Room {
	session := chat.NewSession(chat.Deps{Log: zerolog.Nop()}, chat.Options{ConversationID: "c1", UserID: "s1"})
	flow := offerflow.New(offerflow.Deps{Log: zerolog.Nop()}, offerflow.Options{})
	return room.New(room.Deps{Session: session, Flow: flow, Log: zerolog.Nop()}, room.Options{})
}

func TestCompleteNeedsConfirmation(t *testing.T) {
	r := newIdleRoom()
	var prompt string
	var out bytes.Buffer

	quit, redraw := runChatCommand(context.Background(), r, &out, "/complete", func(p string) bool {
		prompt = p
		return false
	})
	assert.False(t, quit)
	assert.False(t, redraw)
	assert.Equal(t, notify.MsgConfirmCompletion, prompt)
	assert.Contains(t, out.String(), "cancelled")
}

func TestReportPrintsError(t *testing.T) {
	r := newIdleRoom()
	var out bytes.Buffer

	_, redraw := runChatCommand(context.Background(), r, &out, "/report no_show late", nil)
	assert.True(t, redraw)
	assert.Contains(t, out.String(), chat.ErrNotLoaded.Error())
}

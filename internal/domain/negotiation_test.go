package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeTerms() Terms {
	return Terms{
		Price:     decimal.NewFromInt(500),
		Date:      "2025-03-01",
		Time:      "10:00",
		Materials: "provided by seeker",
		Scope:     "paint two rooms",
	}
}

func TestCanAcceptOffer(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(n *Negotiation)
		want   bool
	}{
		{name: "all set", mutate: func(n *Negotiation) {}, want: true},
		{name: "seeker unconfirmed", mutate: func(n *Negotiation) { n.ConfirmationStatus.Seeker = false }},
		{name: "provider unconfirmed", mutate: func(n *Negotiation) { n.ConfirmationStatus.Provider = false }},
		{name: "zero price", mutate: func(n *Negotiation) { n.CurrentTerms.Price = decimal.Zero }},
		{name: "negative price", mutate: func(n *Negotiation) { n.CurrentTerms.Price = decimal.NewFromInt(-1) }},
		{name: "missing date", mutate: func(n *Negotiation) { n.CurrentTerms.Date = "" }},
		{name: "blank time", mutate: func(n *Negotiation) { n.CurrentTerms.Time = "   " }},
		{name: "missing materials", mutate: func(n *Negotiation) { n.CurrentTerms.Materials = "" }},
		{name: "missing scope", mutate: func(n *Negotiation) { n.CurrentTerms.Scope = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Negotiation{
				CurrentTerms:       completeTerms(),
				ConfirmationStatus: ConfirmationStatus{Seeker: true, Provider: true},
			}
			tt.mutate(n)
			assert.Equal(t, tt.want, n.CanAcceptOffer())
		})
	}

	var nilNeg *Negotiation
	assert.False(t, nilNeg.CanAcceptOffer())
}

func TestDisplayNameDecoding(t *testing.T) {
	var p OfferProvider
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"p1","name":{"first":"Sara","last":"Adel"}}`), &p))
	assert.Equal(t, "Sara Adel", p.Name.String())

	p = OfferProvider{}
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"p1","name":"Omar"}`), &p))
	assert.Equal(t, "Omar", p.Name.String())

	p = OfferProvider{}
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"p1"}`), &p))
	assert.Equal(t, UnknownUserName, p.Name.String())
}

func TestErrorHelpers(t *testing.T) {
	err := fmt.Errorf("accept: %w", NewRejectedError(400, CodeAgreementIncomplete, "terms missing"))
	assert.True(t, IsKind(err, KindRejected))
	assert.False(t, IsKind(err, KindTransport))
	assert.Equal(t, CodeAgreementIncomplete, CodeOf(err))
	assert.Equal(t, "terms missing", MessageOf(err))

	wrapped := fmt.Errorf("flow: %w", ErrNotConfirmed)
	assert.True(t, errors.Is(wrapped, ErrNotConfirmed))
	assert.False(t, errors.Is(wrapped, ErrIncompleteTerms))
}

func TestConversationRoles(t *testing.T) {
	c := &Conversation{Participants: Participants{
		Seeker:   Participant{ID: "s1", Name: PersonName{First: "Mona", Last: "Ali"}},
		Provider: Participant{ID: "p1", Name: PersonName{First: "Karim", Last: "Hassan"}},
	}}

	role, ok := c.RoleOf("s1")
	assert.True(t, ok)
	assert.Equal(t, RoleSeeker, role)
	assert.Equal(t, "p1", c.OtherParticipant("s1").ID)
	assert.Equal(t, "s1", c.OtherParticipant("p1").ID)

	_, ok = c.RoleOf("x")
	assert.False(t, ok)
}

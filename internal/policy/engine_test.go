package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(context.Background(), DefaultPolicy)
	require.NoError(t, err)
	return engine
}

func TestDefaultPolicy(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name    string
		input   Input
		allowed []string
		denied  []string
	}{
		{
			name:    "seeker can accept acceptable offer",
			input:   Input{Role: "seeker", HasOffer: true, HasNegotiation: true, OfferStatus: "proposed", CanAccept: true, SelfConfirmed: true},
			allowed: []string{ActionAcceptOffer, ActionEditTerms, ActionResetConfirmations, ActionReportProblem},
			denied:  []string{ActionConfirmTerms, ActionConfirmCompletion, ActionRequestCancellation},
		},
		{
			name:    "provider never accepts",
			input:   Input{Role: "provider", HasOffer: true, HasNegotiation: true, OfferStatus: "proposed", CanAccept: true},
			allowed: []string{ActionConfirmTerms},
			denied:  []string{ActionAcceptOffer},
		},
		{
			name:   "no accept without agreement",
			input:  Input{Role: "seeker", HasOffer: true, HasNegotiation: true, OfferStatus: "proposed"},
			denied: []string{ActionAcceptOffer},
		},
		{
			name:    "in progress",
			input:   Input{Role: "seeker", HasOffer: true, HasNegotiation: true, OfferStatus: "in_progress", CanAccept: true, PaymentCompleted: true, ServiceInProgress: true},
			allowed: []string{ActionConfirmCompletion, ActionRequestCancellation},
			denied:  []string{ActionAcceptOffer, ActionEditTerms},
		},
		{
			name:    "provider may request cancellation once paid",
			input:   Input{Role: "provider", HasOffer: true, OfferStatus: "accepted", PaymentCompleted: true},
			allowed: []string{ActionRequestCancellation},
			denied:  []string{ActionConfirmCompletion},
		},
		{
			name:    "cancelled offers only allow reporting",
			input:   Input{Role: "seeker", HasOffer: true, HasNegotiation: true, OfferStatus: "cancelled", CanAccept: true, ServiceInProgress: true},
			allowed: []string{ActionReportProblem},
			denied:  []string{ActionAcceptOffer, ActionConfirmCompletion, ActionRequestCancellation, ActionEditTerms},
		},
		{
			name:   "cancellation requested blocks accept",
			input:  Input{Role: "seeker", HasOffer: true, OfferStatus: "cancellation_requested", CanAccept: true},
			denied: []string{ActionAcceptOffer, ActionRequestCancellation},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions, err := engine.Allowed(context.Background(), tt.input)
			require.NoError(t, err)
			for _, a := range tt.allowed {
				assert.True(t, Has(actions, a), "expected %s in %v", a, actions)
			}
			for _, a := range tt.denied {
				assert.False(t, Has(actions, a), "did not expect %s in %v", a, actions)
			}
		})
	}
}

func TestNewEngineRejectsBadPolicy(t *testing.T) {
	_, err := NewEngine(context.Background(), "package broken\nallowed[ {")
	assert.Error(t, err)
}

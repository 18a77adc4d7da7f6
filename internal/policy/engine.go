// Package policy decides which chat page actions are available.
package policy

import (
	"context"
	"fmt"
	"sort"

	"github.com/open-policy-agent/opa/rego"
)

// Actions a user can take from the chat page.
const (
	ActionAcceptOffer         = "accept_offer"
	ActionConfirmCompletion   = "confirm_completion"
	ActionRequestCancellation = "request_cancellation"
	ActionEditTerms           = "edit_terms"
	ActionConfirmTerms        = "confirm_terms"
	ActionResetConfirmations  = "reset_confirmations"
	ActionReportProblem       = "report_problem"
)

// Input is the state the policy is evaluated against.
type Input struct {
	Role              string `json:"role"`
	HasOffer          bool   `json:"has_offer"`
	HasNegotiation    bool   `json:"has_negotiation"`
	OfferStatus       string `json:"offer_status"`
	CanAccept         bool   `json:"can_accept"`
	SelfConfirmed     bool   `json:"self_confirmed"`
	PaymentCompleted  bool   `json:"payment_completed"`
	ServiceInProgress bool   `json:"service_in_progress"`
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.chat_actions.allowed"),
		rego.Module("chat_actions.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Allowed returns the sorted list of available actions.
func (e *Engine) Allowed(ctx context.Context, input Input) ([]string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return nil, nil
	}

	raw, ok := results[0].Expressions[0].Value.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected policy result type %T", results[0].Expressions[0].Value)
	}

	actions := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			actions = append(actions, s)
		}
	}
	sort.Strings(actions)
	return actions, nil
}

// Has reports whether action is in actions.
func Has(actions []string, action string) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

// DefaultPolicy mirrors the chat page's button rules.
const DefaultPolicy = `
package chat_actions

default terminal = false

terminal {
	input.offer_status == "cancelled"
}

terminal {
	input.offer_status == "cancellation_requested"
}

seeker {
	input.role == "seeker"
}

allowed["report_problem"] {
	input.role != ""
}

allowed["accept_offer"] {
	seeker
	input.has_offer
	input.can_accept
	not input.payment_completed
	not terminal
}

allowed["confirm_completion"] {
	seeker
	input.service_in_progress
	not terminal
}

allowed["request_cancellation"] {
	input.has_offer
	input.service_in_progress
	not terminal
}

allowed["request_cancellation"] {
	input.has_offer
	input.payment_completed
	not terminal
}

negotiable {
	input.has_negotiation
	not input.payment_completed
	not terminal
}

allowed["edit_terms"] {
	negotiable
}

allowed["confirm_terms"] {
	negotiable
	not input.self_confirmed
}

allowed["reset_confirmations"] {
	negotiable
}
`

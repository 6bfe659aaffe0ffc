package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome labels recorded on auth instruments.
const (
	OutcomeSuccess   = "success"
	OutcomeRejected  = "rejected"
	OutcomeConflict  = "conflict"
	OutcomePublic    = "public"
	OutcomeForbidden = "forbidden"
)

// AuthMetrics holds the counters recorded by the auth core.
type AuthMetrics struct {
	registrations metric.Int64Counter
	signIns       metric.Int64Counter
	tokensIssued  metric.Int64Counter
	revocations   metric.Int64Counter
	gateDecisions metric.Int64Counter
}

// NewAuthMetrics creates auth instruments on meter. A nil meter uses the
// global provider.
func NewAuthMetrics(meter metric.Meter) (*AuthMetrics, error) {
	if meter == nil {
		meter = otel.Meter(InstrumentationName)
	}
	m := &AuthMetrics{}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.registrations, "auth.registrations", "Registration attempts by outcome"},
		{&m.signIns, "auth.sign_ins", "Sign-in attempts by outcome"},
		{&m.tokensIssued, "auth.tokens.issued", "Session tokens issued"},
		{&m.revocations, "auth.revocations", "Session tokens revoked by logout"},
		{&m.gateDecisions, "auth.gate.decisions", "Access and role gate decisions by outcome"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("creating %s counter: %w", c.name, err)
		}
		*c.dst = counter
	}
	return m, nil
}

func outcome(o string) metric.AddOption {
	return metric.WithAttributes(attribute.String("outcome", o))
}

// RecordRegistration counts a registration attempt.
func (m *AuthMetrics) RecordRegistration(ctx context.Context, o string) {
	if m == nil {
		return
	}
	m.registrations.Add(ctx, 1, outcome(o))
}

// RecordSignIn counts a sign-in attempt.
func (m *AuthMetrics) RecordSignIn(ctx context.Context, o string) {
	if m == nil {
		return
	}
	m.signIns.Add(ctx, 1, outcome(o))
}

// RecordTokenIssued counts an issued session token.
func (m *AuthMetrics) RecordTokenIssued(ctx context.Context) {
	if m == nil {
		return
	}
	m.tokensIssued.Add(ctx, 1)
}

// RecordRevocation counts a logout.
func (m *AuthMetrics) RecordRevocation(ctx context.Context) {
	if m == nil {
		return
	}
	m.revocations.Add(ctx, 1)
}

// RecordGateDecision counts a gate decision.
func (m *AuthMetrics) RecordGateDecision(ctx context.Context, o string) {
	if m == nil {
		return
	}
	m.gateDecisions.Add(ctx, 1, outcome(o))
}

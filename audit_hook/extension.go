// Package audithook bridges coin ledger events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xraph/coin"
	"github.com/xraph/coin/event"
	"github.com/xraph/coin/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin           = (*Extension)(nil)
	_ plugin.OnAccountCreated = (*Extension)(nil)
	_ plugin.OnAccountKilled  = (*Extension)(nil)
	_ plugin.OnMinted         = (*Extension)(nil)
	_ plugin.OnBurned         = (*Extension)(nil)
	_ plugin.OnRejected       = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly. Callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges coin ledger events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Account lifecycle hooks
// ──────────────────────────────────────────────────

// OnAccountCreated implements plugin.OnAccountCreated.
func (e *Extension) OnAccountCreated(ctx context.Context, ev event.Created) error {
	return e.record(ctx, ActionAccountCreated, SeverityInfo, OutcomeSuccess,
		ResourceAccount, ev.Account.String(), CategoryAccount, nil,
		"account", ev.Account.String(),
	)
}

// OnAccountKilled implements plugin.OnAccountKilled.
func (e *Extension) OnAccountKilled(ctx context.Context, ev event.Killed) error {
	return e.record(ctx, ActionAccountKilled, SeverityWarning, OutcomeSuccess,
		ResourceAccount, ev.Account.String(), CategoryAccount, nil,
		"account", ev.Account.String(),
	)
}

// ──────────────────────────────────────────────────
// Issuance hooks
// ──────────────────────────────────────────────────

// OnMinted implements plugin.OnMinted.
func (e *Extension) OnMinted(ctx context.Context, ev event.Minted) error {
	return e.record(ctx, ActionMinted, SeverityInfo, OutcomeSuccess,
		ResourceIssuance, ev.Account.String(), CategoryIssuance, nil,
		"account", ev.Account.String(),
		"amount", ev.Amount.String(),
	)
}

// OnBurned implements plugin.OnBurned.
func (e *Extension) OnBurned(ctx context.Context, ev event.Burned) error {
	return e.record(ctx, ActionBurned, SeverityInfo, OutcomeSuccess,
		ResourceIssuance, ev.Account.String(), CategoryIssuance, nil,
		"account", ev.Account.String(),
		"amount", ev.Amount.String(),
	)
}

// OnRejected implements plugin.OnRejected.
func (e *Extension) OnRejected(ctx context.Context, op string, err error) error {
	severity := SeverityWarning
	category := CategoryIssuance
	switch {
	case errors.Is(err, coin.ErrNoPermission):
		category = CategoryAccess
	case errors.Is(err, coin.ErrOverflow), errors.Is(err, coin.ErrUnderflow):
		// Only reachable with a corrupted issuance counter.
		severity = SeverityCritical
	}

	return e.record(ctx, ActionRejected, severity, OutcomeFailure,
		ResourceIssuance, "", category, err,
		"op", op,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}

package notify

import (
	"context"

	"github.com/goliatone/go-leadform/pkg/handoff"
)

// Notifier is the black-box confirmation sender. It either succeeds or
// fails; there is no cancellation of an in-flight send.
type Notifier interface {
	Send(ctx context.Context, templateID string, params Params) error
}

// NotifierFunc adapts a function into a Notifier.
type NotifierFunc func(ctx context.Context, templateID string, params Params) error

// Send delegates to the underlying function.
func (fn NotifierFunc) Send(ctx context.Context, templateID string, params Params) error {
	return fn(ctx, templateID, params)
}

// Outcome reports how a dispatch resolved and which terminal status message
// the confirmation flow shows.
type Outcome struct {
	// Sent is true when the notifier accepted the message on this dispatch.
	Sent bool
	// AlreadySent is true when the per-template guard was set by an earlier
	// dispatch and no send was attempted.
	AlreadySent bool
	// SkippedNoEmail is true when the payload carried no recipient address;
	// the flow proceeds without a send.
	SkippedNoEmail bool
	// ManualContinue is true when the send failed and the user must be left a
	// manual affordance that still carries the payload forward.
	ManualContinue bool
	// Status is the user-facing message for the terminal state.
	Status string
}

// Dispatcher coordinates a single guarded send per template and session.
type Dispatcher struct {
	notifier   Notifier
	guards     handoff.Store
	templateID string
	logf       func(format string, args ...any)
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger installs a diagnostic sink for send failures; the default
// discards.
func WithLogger(logf func(format string, args ...any)) DispatcherOption {
	return func(d *Dispatcher) { d.logf = logf }
}

// NewDispatcher creates a Dispatcher. The guard store records which templates
// already went out this session so repeat visits do not re-trigger a send.
func NewDispatcher(notifier Notifier, guards handoff.Store, templateID string, options ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		notifier:   notifier,
		guards:     guards,
		templateID: templateID,
		logf:       func(string, ...any) {},
	}
	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Dispatch runs the guarded send flow for a payload. The guard is set only
// after a successful send; a failed send leaves it unset and surfaces the
// manual-continue affordance.
func (d *Dispatcher) Dispatch(ctx context.Context, payload handoff.Payload) Outcome {
	guardKey := handoff.GuardKey(d.templateID)

	if flag, ok := d.guards.Get(guardKey); ok && flag == "1" {
		return Outcome{AlreadySent: true, Status: "Taking you to your results..."}
	}
	if payload.Empty() {
		return Outcome{SkippedNoEmail: true, Status: "We couldn't find your answers. Taking you to your results..."}
	}
	if payload.Email == "" {
		// The result page renders without an email; keep going.
		return Outcome{SkippedNoEmail: true, Status: "Missing email address. Taking you to your results..."}
	}

	if err := d.notifier.Send(ctx, d.templateID, TemplateParams(payload)); err != nil {
		d.logf("notify: send failed: %v", err)
		return Outcome{
			ManualContinue: true,
			Status:         "Sorry, there was a problem sending your email.",
		}
	}

	d.guards.Set(guardKey, "1")
	return Outcome{Sent: true, Status: "Email sent! Redirecting to your results..."}
}

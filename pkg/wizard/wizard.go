// Package wizard advances and retreats between ordered form steps, gating
// advancement on the current step's validity and owning the process-wide
// submission state.
package wizard

import (
	"math"

	"github.com/goliatone/go-leadform/pkg/binder"
	"github.com/goliatone/go-leadform/pkg/groups"
	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/validation"
)

// Option configures a Controller.
type Option func(*Controller)

// WithFocusHook registers a presentation callback invoked with the first
// invalid control or group identifier after a failed gate. Nil hooks are
// skipped.
func WithFocusHook(hook func(id string)) Option {
	return func(c *Controller) { c.focus = hook }
}

// WithEnterHook registers a presentation callback invoked when a step is
// revealed (entrance replay, focus move). Nil hooks are skipped.
func WithEnterHook(hook func(step int)) Option {
	return func(c *Controller) { c.enter = hook }
}

// Controller is the step state machine. It owns the SubmissionState and
// passes it into the field validator and group constraint engine rather than
// letting them read ambient state.
type Controller struct {
	reg       *model.Registry
	validator *validation.Validator
	groups    *groups.Engine
	binder    *binder.Binder
	state     model.SubmissionState

	focus func(id string)
	enter func(step int)
}

// New creates a Controller starting at step 0.
func New(reg *model.Registry, validator *validation.Validator, groupEngine *groups.Engine, bind *binder.Binder, options ...Option) *Controller {
	c := &Controller{
		reg:       reg,
		validator: validator,
		groups:    groupEngine,
		binder:    bind,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// State exposes the shared submission state for injection into the other
// engines.
func (c *Controller) State() *model.SubmissionState {
	return &c.state
}

// Index returns the current step index.
func (c *Controller) Index() int {
	return c.state.StepIndex
}

// Last reports whether the current step is the terminal one.
func (c *Controller) Last() bool {
	return c.state.StepIndex >= c.reg.StepCount()-1
}

// Next validates the current step with errors shown. On failure it sets the
// attempted-submit flag, surfaces errors, focuses the first invalid control
// or group, and does not advance. On success the index advances by one,
// clamped to the last step, and the new step is revealed exclusively.
func (c *Controller) Next() bool {
	valid, firstInvalid := c.ValidateStep(c.state.StepIndex, true)
	if !valid {
		c.state.AttemptedSubmit = true
		if c.focus != nil && firstInvalid != "" {
			c.focus(firstInvalid)
		}
		return false
	}
	if c.Last() {
		return false
	}
	c.state.StepIndex++
	c.reveal()
	return true
}

// Prev is always permitted; it decrements the index clamped to zero with no
// validation.
func (c *Controller) Prev() {
	if c.state.StepIndex == 0 {
		return
	}
	c.state.StepIndex--
	c.reveal()
}

// ValidateStep validates every required non-checkbox control and every
// checkbox group in the step. It returns overall validity and the identifier
// of the first invalid control or group.
func (c *Controller) ValidateStep(index int, showErrors bool) (bool, string) {
	if c.binder != nil {
		// Late trigger toggles must be reflected before gating. A failed
		// sync gates the step; validating against stale binding state
		// could let an unanswered detail through.
		if err := c.binder.SyncAll(&c.state); err != nil {
			return false, ""
		}
	}

	valid := true
	firstInvalid := ""

	trigger := model.TriggerSubmit
	if !showErrors {
		trigger = model.TriggerInput
	}
	for _, ctrl := range c.reg.StepControls(index) {
		if ctrl.Kind == model.ControlCheckbox || ctrl.Hidden || ctrl.Disabled {
			continue
		}
		result := c.validator.Validate(ctrl, trigger, &c.state)
		if result.Violation != "" {
			valid = false
			if firstInvalid == "" {
				firstInvalid = ctrl.ID
			}
		}
	}

	for _, group := range c.reg.StepGroups(index) {
		ok, err := c.groups.Evaluate(group.Key, showErrors)
		if err != nil {
			continue
		}
		if !ok {
			valid = false
			if firstInvalid == "" {
				firstInvalid = group.Key
			}
		}
	}

	return valid, firstInvalid
}

// Submit gates the final step exactly like Next but never advances; callers
// run the scoring and handoff flow on success.
func (c *Controller) Submit() bool {
	valid, firstInvalid := c.ValidateStep(c.state.StepIndex, true)
	if !valid {
		c.state.AttemptedSubmit = true
		if c.focus != nil && firstInvalid != "" {
			c.focus(firstInvalid)
		}
	}
	return valid
}

// Progress returns the progress percentage and whether the indicator is
// shown. It is hidden on step 0 and floored at 5% thereafter.
func (c *Controller) Progress() (int, bool) {
	if c.state.StepIndex == 0 {
		return 0, false
	}
	total := c.reg.StepCount() - 1
	if total <= 0 {
		return 0, false
	}
	percent := int(math.Round(float64(c.state.StepIndex) / float64(total) * 100))
	if percent < 5 {
		percent = 5
	}
	return percent, true
}

// reveal fires the step-entry hook. Step visibility itself is derived state:
// the step whose index matches StepIndex is the one shown, so there is
// nothing to mutate here; entrance replay and focus moves are presentation
// concerns that must not break when no hook is registered.
func (c *Controller) reveal() {
	if c.enter != nil {
		c.enter(c.state.StepIndex)
	}
}

// Package binder attaches a required free-text elaboration control to trigger
// controls whose active option matches a declarative vocabulary ("Other",
// "Not sure", and variants). Bindings are table-driven: one rule per trigger
// control, materialised lazily and reused across toggles.
package binder

import (
	"fmt"
	"regexp"

	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/validation"
)

// DefaultVocabulary matches the option texts that historically carried an
// elaboration field: "other"/"others" and the "not sure" family.
var DefaultVocabulary = regexp.MustCompile(`(?i)\b(others?|not\s+sure|unsure)\b`)

// Rule binds one trigger control to a lazily created free-text control.
type Rule struct {
	// ControlID names the trigger control: a select whose chosen option, or a
	// choice/checkbox whose value or label, is matched against Pattern.
	ControlID string `json:"control" yaml:"control"`
	// Pattern is a case-insensitive regular expression; empty falls back to
	// the default vocabulary.
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	// DetailID is the id of the materialised control; defaults to
	// ControlID + "_detail".
	DetailID    string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

func (r Rule) detailID() string {
	if r.DetailID != "" {
		return r.DetailID
	}
	return r.ControlID + "_detail"
}

// Binder owns the binding table and the created-once lifecycle of detail
// controls.
type Binder struct {
	reg       *model.Registry
	validator *validation.Validator
	rules     map[string]Rule
	patterns  map[string]*regexp.Regexp
	created   map[string]string
}

// New creates a Binder for the registry with the supplied rules. Rules with an
// invalid pattern are rejected up front rather than silently never matching.
func New(reg *model.Registry, validator *validation.Validator, rules []Rule) (*Binder, error) {
	b := &Binder{
		reg:       reg,
		validator: validator,
		rules:     make(map[string]Rule, len(rules)),
		patterns:  make(map[string]*regexp.Regexp, len(rules)),
		created:   make(map[string]string),
	}
	for _, rule := range rules {
		if rule.ControlID == "" {
			return nil, fmt.Errorf("binder: rule missing control id")
		}
		if _, exists := b.rules[rule.ControlID]; exists {
			return nil, fmt.Errorf("binder: duplicate rule for control %q", rule.ControlID)
		}
		pattern := DefaultVocabulary
		if rule.Pattern != "" {
			compiled, err := regexp.Compile("(?i)" + rule.Pattern)
			if err != nil {
				return nil, fmt.Errorf("binder: rule %q: %w", rule.ControlID, err)
			}
			pattern = compiled
		}
		b.rules[rule.ControlID] = rule
		b.patterns[rule.ControlID] = pattern
	}
	return b, nil
}

// Bound reports whether a rule exists for the control.
func (b *Binder) Bound(controlID string) bool {
	_, ok := b.rules[controlID]
	return ok
}

// Detail returns the materialised detail control for a trigger, when one has
// been created.
func (b *Binder) Detail(controlID string) (*model.Control, bool) {
	detailID, ok := b.created[controlID]
	if !ok {
		return nil, false
	}
	return b.reg.Control(detailID)
}

// Sync aligns the bound detail control with the trigger's current state:
// active means visible and required, inactive means hidden, cleared, and not
// required. The detail control is created on first activation and reused
// thereafter. Once a submit attempt has been made, toggling a trigger
// re-validates the detail immediately instead of waiting for its own blur.
func (b *Binder) Sync(controlID string, state *model.SubmissionState) error {
	rule, ok := b.rules[controlID]
	if !ok {
		return nil
	}
	trigger, ok := b.reg.Control(controlID)
	if !ok {
		return fmt.Errorf("binder: unknown control %q", controlID)
	}

	if !b.active(trigger, b.patterns[controlID]) {
		if detail, ok := b.Detail(controlID); ok {
			detail.Hidden = true
			detail.Constraints.Required = false
			detail.Value = ""
			detail.Validity = model.ValidityNeutral
			detail.Message = ""
		}
		return nil
	}

	detail, err := b.ensure(rule, trigger)
	if err != nil {
		return err
	}
	detail.Hidden = false
	detail.Constraints.Required = true
	if state != nil && state.AttemptedSubmit {
		b.validator.Validate(detail, model.TriggerChange, state)
	}
	return nil
}

// SyncAll runs Sync for every rule; used on submit passes so late changes to
// trigger controls are reflected before gating.
func (b *Binder) SyncAll(state *model.SubmissionState) error {
	for controlID := range b.rules {
		if err := b.Sync(controlID, state); err != nil {
			return err
		}
	}
	return nil
}

func (b *Binder) active(trigger *model.Control, pattern *regexp.Regexp) bool {
	switch trigger.Kind {
	case model.ControlSelect:
		return pattern.MatchString(trigger.Value)
	case model.ControlChoice, model.ControlCheckbox:
		if !trigger.Checked {
			return false
		}
		return pattern.MatchString(trigger.Value) || pattern.MatchString(trigger.Label)
	}
	return false
}

func (b *Binder) ensure(rule Rule, trigger *model.Control) (*model.Control, error) {
	if detail, ok := b.Detail(rule.ControlID); ok {
		return detail, nil
	}
	detailID := rule.detailID()
	if existing, ok := b.reg.Control(detailID); ok {
		// Declared up front in the form definition; adopt it.
		b.created[rule.ControlID] = detailID
		return existing, nil
	}
	label := rule.Label
	if label == "" {
		label = "Please tell us more"
	}
	detail, err := b.reg.AddControl(model.Control{
		ID:          detailID,
		Kind:        model.ControlText,
		Label:       label,
		Placeholder: rule.Placeholder,
		Step:        trigger.Step,
		Hidden:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("binder: materialise detail for %q: %w", rule.ControlID, err)
	}
	b.created[rule.ControlID] = detailID
	return detail, nil
}

// RuleFor exposes the configured rule for a control id, mainly for
// diagnostics and tests.
func (b *Binder) RuleFor(controlID string) (Rule, bool) {
	rule, ok := b.rules[controlID]
	return rule, ok
}

// TriggerIDs returns the control ids that carry rules, in no particular
// order.
func (b *Binder) TriggerIDs() []string {
	out := make([]string, 0, len(b.rules))
	for id := range b.rules {
		out = append(out, id)
	}
	return out
}

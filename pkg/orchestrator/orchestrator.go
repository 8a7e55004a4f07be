// Package orchestrator runs a full intake session: it owns the control
// registry, routes edit and navigation events through validation, and turns a
// completed wizard into a scored, persisted, optionally mailed lead.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/goliatone/go-leadform/pkg/binder"
	"github.com/goliatone/go-leadform/pkg/formdef"
	"github.com/goliatone/go-leadform/pkg/groups"
	"github.com/goliatone/go-leadform/pkg/handoff"
	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/notify"
	"github.com/goliatone/go-leadform/pkg/plan"
	"github.com/goliatone/go-leadform/pkg/sanitize"
	"github.com/goliatone/go-leadform/pkg/scoring"
	"github.com/goliatone/go-leadform/pkg/validation"
	"github.com/goliatone/go-leadform/pkg/wizard"
)

// FieldMap names the control and group identifiers the session reads answers
// from at submit time. Identifiers that do not exist in the form resolve to
// empty answers rather than errors, so a trimmed-down form still submits.
type FieldMap struct {
	FirstName      string
	LastName       string
	Email          string
	RiskWindow     string
	NightLighting  string
	PriorityAreas  string // checkbox group key
	Timeline       string
	DecisionMakers string
	PriorIncident  string
	Elaboration    string
}

// DefaultFieldMap matches the identifiers in the embedded intake form.
func DefaultFieldMap() FieldMap {
	return FieldMap{
		FirstName:      "first_name",
		LastName:       "last_name",
		Email:          "email",
		RiskWindow:     "risk_window",
		NightLighting:  "night_lighting",
		PriorityAreas:  "priority_areas",
		Timeline:       "timeline",
		DecisionMakers: "decision_makers",
		PriorIncident:  "prior_incident",
		Elaboration:    "elaboration",
	}
}

// Submission is the outcome of a Submit call.
type Submission struct {
	Valid        bool
	FirstInvalid string
	Payload      handoff.Payload
	Score        scoring.Result
	Plan         plan.Summary
	RedirectURL  string
	Notified     *notify.Outcome
}

type Option func(*Session)

// WithScorer overrides the default scoring configuration.
func WithScorer(s *scoring.Scorer) Option {
	return func(sess *Session) { sess.scorer = s }
}

// WithChannels supplies the session and durable stores payloads are written
// to. Without it the session keeps everything in memory.
func WithChannels(c handoff.Channels) Option {
	return func(sess *Session) { sess.channels = c }
}

// WithDispatcher enables the confirmation email step of Submit.
func WithDispatcher(d *notify.Dispatcher) Option {
	return func(sess *Session) { sess.dispatcher = d }
}

// WithFieldMap overrides the identifiers answers are collected from.
func WithFieldMap(m FieldMap) Option {
	return func(sess *Session) { sess.fields = m }
}

// WithDestination sets the results URL the encoded payload fragment is
// appended to.
func WithDestination(url string) Option {
	return func(sess *Session) { sess.destination = url }
}

// WithWizardOptions forwards options to the step controller, typically focus
// and step-enter hooks.
func WithWizardOptions(options ...wizard.Option) Option {
	return func(sess *Session) { sess.wizardOptions = options }
}

// Session drives one lead through the form. It is not safe for concurrent
// use; a session belongs to a single respondent.
type Session struct {
	reg        *model.Registry
	validator  *validation.Validator
	groups     *groups.Engine
	binder     *binder.Binder
	wizard     *wizard.Controller
	scorer     *scoring.Scorer
	channels   handoff.Channels
	dispatcher *notify.Dispatcher

	fields        FieldMap
	destination   string
	wizardOptions []wizard.Option
}

// New materialises the definition into a registry and wires the engines
// around it.
func New(def formdef.Definition, options ...Option) (*Session, error) {
	reg, err := def.Registry()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build registry: %w", err)
	}

	sess := &Session{
		reg:         reg,
		validator:   validation.New(),
		scorer:      scoring.New(),
		channels:    handoff.NewChannels(nil, nil),
		fields:      DefaultFieldMap(),
		destination: "results.html",
	}
	for _, opt := range options {
		opt(sess)
	}

	sess.groups = groups.New(reg)
	sess.binder, err = binder.New(reg, sess.validator, def.Bindings)
	if err != nil {
		return nil, err
	}
	sess.wizard = wizard.New(reg, sess.validator, sess.groups, sess.binder, sess.wizardOptions...)
	return sess, nil
}

// Registry exposes the live control state, mostly for rendering.
func (s *Session) Registry() *model.Registry { return s.reg }

// Wizard exposes the step controller.
func (s *Session) Wizard() *wizard.Controller { return s.wizard }

// Channels returns the handoff stores the session writes to.
func (s *Session) Channels() handoff.Channels { return s.channels }

// AcceptKeystroke reports whether a single keystroke may be inserted into the
// control. Only name fields filter keystrokes.
func (s *Session) AcceptKeystroke(id, data string) bool {
	ctrl, ok := s.reg.Control(id)
	if !ok || !ctrl.NameField {
		return true
	}
	return sanitize.AcceptKeystroke(data)
}

// Input records an edit in progress. Name fields are sanitised as they are
// typed; errors only surface here after a failed submit attempt.
func (s *Session) Input(id, value string) error {
	ctrl, ok := s.reg.Control(id)
	if !ok {
		return fmt.Errorf("orchestrator: unknown control %q", id)
	}
	if ctrl.NameField {
		value = sanitize.Clean(value)
	}
	ctrl.Value = value
	s.validator.Validate(ctrl, model.TriggerInput, s.wizard.State())
	return s.syncBinding(id)
}

// Paste splices pasted or dropped text into the control at the rune offsets
// [start, end) and returns the caret position after the insert. Name fields
// have markup and disallowed characters stripped first.
func (s *Session) Paste(id, text string, start, end int) (int, error) {
	ctrl, ok := s.reg.Control(id)
	if !ok {
		return 0, fmt.Errorf("orchestrator: unknown control %q", id)
	}
	var caret int
	if ctrl.NameField {
		ctrl.Value, caret = sanitize.InsertAt(ctrl.Value, text, start, end)
	} else {
		ctrl.Value, caret = spliceAt(ctrl.Value, text, start, end)
	}
	s.validator.Validate(ctrl, model.TriggerInput, s.wizard.State())
	if err := s.syncBinding(id); err != nil {
		return caret, err
	}
	return caret, nil
}

// Change commits a value, typically from a select. Validation messages show
// immediately.
func (s *Session) Change(id, value string) error {
	ctrl, ok := s.reg.Control(id)
	if !ok {
		return fmt.Errorf("orchestrator: unknown control %q", id)
	}
	if ctrl.NameField {
		value = sanitize.Clean(value)
	}
	ctrl.Value = value
	s.validator.Validate(ctrl, model.TriggerChange, s.wizard.State())
	return s.syncBinding(id)
}

// Blur finalises an edit and shows any pending validation message.
func (s *Session) Blur(id string) error {
	ctrl, ok := s.reg.Control(id)
	if !ok {
		return fmt.Errorf("orchestrator: unknown control %q", id)
	}
	s.validator.Validate(ctrl, model.TriggerBlur, s.wizard.State())
	return nil
}

// Toggle flips a checkbox group member, applying cardinality lockout and
// mutual exclusivity, and re-evaluates the group when errors are visible.
func (s *Session) Toggle(memberID string, checked bool) error {
	if err := s.groups.Toggle(memberID, checked); err != nil {
		return err
	}
	ctrl, ok := s.reg.Control(memberID)
	if ok && ctrl.Group != "" {
		show := s.wizard.State().AttemptedSubmit
		if _, err := s.groups.Evaluate(ctrl.Group, show); err != nil {
			return err
		}
		// Exclusivity can uncheck a member other than the one toggled, so
		// every member's binding has to track the new state.
		for _, member := range s.reg.Members(ctrl.Group) {
			if err := s.syncBinding(member.ID); err != nil {
				return err
			}
		}
		return nil
	}
	return s.syncBinding(memberID)
}

// Next advances the wizard when the current step validates.
func (s *Session) Next() bool { return s.wizard.Next() }

// Prev steps back without validation.
func (s *Session) Prev() { s.wizard.Prev() }

// Progress reports the wizard progress percentage and its visibility.
func (s *Session) Progress() (int, bool) { return s.wizard.Progress() }

// Submit gates the final step, scores the answers, builds the camera plan,
// persists the handoff payload, and dispatches the confirmation email when a
// dispatcher is configured. A failed gate returns Valid false with the first
// invalid control identifier.
func (s *Session) Submit(ctx context.Context) (Submission, error) {
	if !s.wizard.Submit() {
		_, firstInvalid := s.wizard.ValidateStep(s.wizard.Index(), true)
		return Submission{FirstInvalid: firstInvalid}, nil
	}

	answers := s.collectAnswers()
	score := s.scorer.Evaluate(answers)
	summary := plan.Build(answers.PriorityAreas)

	payload := handoff.Payload{
		First:           s.value(s.fields.FirstName),
		Last:            s.value(s.fields.LastName),
		Email:           s.value(s.fields.Email),
		LeadScore:       score.Score,
		LeadTier:        score.Tier,
		AutoNotes:       score.Notes,
		CameraCount:     summary.CameraCount,
		NVRChannel:      summary.NVRChannel,
		CameraLocations: summary.Locations,
	}
	payload.ToName = payload.DisplayName()

	url, err := s.channels.Write(payload, s.destination)
	if err != nil {
		return Submission{}, fmt.Errorf("orchestrator: persist payload: %w", err)
	}

	sub := Submission{
		Valid:       true,
		Payload:     payload,
		Score:       score,
		Plan:        summary,
		RedirectURL: url,
	}
	if s.dispatcher != nil {
		outcome := s.dispatcher.Dispatch(ctx, payload)
		sub.Notified = &outcome
	}
	return sub, nil
}

func (s *Session) collectAnswers() scoring.Answers {
	return scoring.Answers{
		RiskWindow:     s.value(s.fields.RiskWindow),
		NightLighting:  s.value(s.fields.NightLighting),
		PriorityAreas:  s.checkedAreas(),
		Timeline:       s.value(s.fields.Timeline),
		DecisionMakers: s.value(s.fields.DecisionMakers),
		PriorIncident:  s.value(s.fields.PriorIncident),
		Elaboration:    s.value(s.fields.Elaboration),
	}
}

// checkedAreas returns the checked priority-area values minus the group's
// uncertain member; "Not sure" is not a camera location.
func (s *Session) checkedAreas() []string {
	key := s.fields.PriorityAreas
	if key == "" {
		return nil
	}
	group, ok := s.reg.Group(key)
	if !ok || group.Uncertain == "" {
		return s.reg.CheckedValues(key)
	}
	var out []string
	for _, member := range s.reg.Members(key) {
		if !member.Checked || member.ID == group.Uncertain {
			continue
		}
		value := member.Value
		if value == "" {
			value = member.Label
		}
		out = append(out, value)
	}
	return out
}

func (s *Session) value(id string) string {
	if id == "" {
		return ""
	}
	ctrl, ok := s.reg.Control(id)
	if !ok {
		return ""
	}
	return ctrl.Value
}

func (s *Session) syncBinding(id string) error {
	if !s.binder.Bound(id) {
		return nil
	}
	return s.binder.Sync(id, s.wizard.State())
}

// spliceAt replaces the rune range [start, end) of value with text and
// returns the new value and caret offset.
func spliceAt(value, text string, start, end int) (string, int) {
	runes := []rune(value)
	if start < 0 {
		start = 0
	}
	if start > len(runes) {
		start = len(runes)
	}
	if end < start {
		end = start
	}
	if end > len(runes) {
		end = len(runes)
	}
	inserted := []rune(text)
	out := make([]rune, 0, len(runes)-(end-start)+len(inserted))
	out = append(out, runes[:start]...)
	out = append(out, inserted...)
	out = append(out, runes[end:]...)
	return string(out), start + len(inserted)
}

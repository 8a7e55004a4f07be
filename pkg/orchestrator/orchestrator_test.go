package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadform/pkg/binder"
	"github.com/goliatone/go-leadform/pkg/formdef"
	"github.com/goliatone/go-leadform/pkg/handoff"
	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/notify"
	"github.com/goliatone/go-leadform/pkg/plan"
)

func testDefinition() formdef.Definition {
	required := model.Constraints{Required: true}
	return formdef.Definition{
		Title: "Assessment",
		Steps: []formdef.Step{{Title: "Contact"}, {Title: "Property"}},
		Groups: []model.CheckboxGroup{
			{Key: "priority_areas", Label: "Areas", Min: 1, Max: 4, Uncertain: "priority_areas_unsure", Step: 1},
		},
		Controls: []model.Control{
			{ID: "first_name", Kind: model.ControlText, NameField: true, Constraints: required},
			{ID: "last_name", Kind: model.ControlText, NameField: true},
			{ID: "email", Kind: model.ControlEmail, Constraints: required},
			{ID: "risk_window", Kind: model.ControlSelect, Options: []string{"24/7", "Not sure"}, Step: 1, Constraints: required},
			{ID: "night_lighting", Kind: model.ControlSelect, Options: []string{"Well lit", "Very dark"}, Step: 1},
			{ID: "priority_areas_front", Kind: model.ControlCheckbox, Label: "Front door", Group: "priority_areas", Step: 1},
			{ID: "priority_areas_drive", Kind: model.ControlCheckbox, Label: "Driveway", Group: "priority_areas", Step: 1},
			{ID: "priority_areas_back", Kind: model.ControlCheckbox, Label: "Back door", Group: "priority_areas", Step: 1},
			{ID: "priority_areas_unsure", Kind: model.ControlCheckbox, Label: "Not sure", Group: "priority_areas", Step: 1},
			{ID: "timeline", Kind: model.ControlSelect, Options: []string{"ASAP", "Just researching"}, Step: 1},
			{ID: "decision_makers", Kind: model.ControlSelect, Options: []string{"Me", "Someone else"}, Step: 1},
			{ID: "prior_incident", Kind: model.ControlSelect, Options: []string{"Yes", "No"}, Step: 1},
			{ID: "elaboration", Kind: model.ControlTextarea, Step: 1},
		},
		Bindings: []binder.Rule{{ControlID: "priority_areas_unsure", DetailID: "elaboration"}},
	}
}

func fillHotLead(t *testing.T, sess *Session) {
	t.Helper()
	steps := []struct {
		id    string
		value string
	}{
		{"first_name", "Ana"},
		{"last_name", "García"},
		{"email", "ana@example.com"},
	}
	for _, s := range steps {
		if err := sess.Change(s.id, s.value); err != nil {
			t.Fatalf("Change(%q): %v", s.id, err)
		}
	}
	if !sess.Next() {
		t.Fatalf("contact step did not validate")
	}

	for _, s := range []struct{ id, value string }{
		{"risk_window", "24/7"},
		{"night_lighting", "Very dark"},
		{"timeline", "ASAP"},
		{"decision_makers", "Me"},
		{"prior_incident", "No"},
	} {
		if err := sess.Change(s.id, s.value); err != nil {
			t.Fatalf("Change(%q): %v", s.id, err)
		}
	}
	for _, id := range []string{"priority_areas_front", "priority_areas_drive", "priority_areas_back"} {
		if err := sess.Toggle(id, true); err != nil {
			t.Fatalf("Toggle(%q): %v", id, err)
		}
	}
}

func TestSubmitScoresAndPersists(t *testing.T) {
	session := handoff.NewMemoryStore()
	durable := handoff.NewMemoryStore()
	sess, err := New(testDefinition(),
		WithChannels(handoff.NewChannels(session, durable)),
		WithDestination("results.html"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	fillHotLead(t, sess)

	sub, err := sess.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !sub.Valid {
		t.Fatalf("submission invalid, first invalid %q", sub.FirstInvalid)
	}

	// 24/7 + dark + three areas + ASAP + sole decision maker.
	if sub.Score.Score != 12 || sub.Score.Tier != "Hot" {
		t.Fatalf("score = %d tier %q, want 12 Hot", sub.Score.Score, sub.Score.Tier)
	}
	if sub.Plan.CameraCount != 4 || sub.Plan.NVRChannel != 4 {
		t.Fatalf("plan = %+v", sub.Plan)
	}
	if diff := cmp.Diff([]string{"Front door", "Driveway", "Back door"}, sub.Plan.Locations); diff != "" {
		t.Fatalf("locations (-want +got):\n%s", diff)
	}

	if sub.Payload.ToName != "Ana García" || sub.Payload.Email != "ana@example.com" {
		t.Fatalf("payload identity = %+v", sub.Payload)
	}
	if !strings.Contains(sub.RedirectURL, "#p=") {
		t.Fatalf("redirect URL = %q", sub.RedirectURL)
	}
	if tier, _ := durable.Get(handoff.LastTierKey); tier != "Hot" {
		t.Fatalf("durable tier = %q", tier)
	}
	if got := sess.Channels().Read(""); got.LeadScore != 12 {
		t.Fatalf("persisted payload = %+v", got)
	}
}

func TestSubmitGatesIncompleteForm(t *testing.T) {
	sess, err := New(testDefinition())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	sub, err := sess.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Valid {
		t.Fatalf("empty form submitted")
	}
	if sub.FirstInvalid != "first_name" {
		t.Fatalf("first invalid = %q, want first_name", sub.FirstInvalid)
	}
	if !sess.Wizard().State().AttemptedSubmit {
		t.Fatalf("failed submit should set the attempted flag")
	}
}

func TestNextGatesGroupAndBinding(t *testing.T) {
	sess, err := New(testDefinition())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, s := range []struct{ id, value string }{
		{"first_name", "Ana"}, {"email", "ana@example.com"},
	} {
		if err := sess.Change(s.id, s.value); err != nil {
			t.Fatalf("Change: %v", err)
		}
	}
	if !sess.Next() {
		t.Fatalf("contact step did not validate")
	}
	if err := sess.Change("risk_window", "24/7"); err != nil {
		t.Fatalf("Change: %v", err)
	}

	// The group minimum blocks the gate.
	sub, err := sess.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Valid || sub.FirstInvalid != "priority_areas" {
		t.Fatalf("group gate: valid %v first invalid %q", sub.Valid, sub.FirstInvalid)
	}

	// Checking the uncertain member reveals its required elaboration control,
	// which now blocks the gate in turn.
	if err := sess.Toggle("priority_areas_unsure", true); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	sub, err = sess.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Valid || sub.FirstInvalid != "elaboration" {
		t.Fatalf("detail gate: valid %v first invalid %q", sub.Valid, sub.FirstInvalid)
	}
	elaboration, _ := sess.Registry().Control("elaboration")
	if elaboration.Hidden || !elaboration.Constraints.Required {
		t.Fatalf("elaboration state = hidden %v required %v", elaboration.Hidden, elaboration.Constraints.Required)
	}

	if err := sess.Change("elaboration", "not sure where to start"); err != nil {
		t.Fatalf("Change: %v", err)
	}
	sub, err = sess.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !sub.Valid {
		t.Fatalf("submission invalid, first invalid %q", sub.FirstInvalid)
	}
	// Uncertain selection plus elaboration: 4 + 1 = 5.
	if sub.Score.Score != 5 || sub.Score.Tier != "Nurture" {
		t.Fatalf("score = %d tier %q", sub.Score.Score, sub.Score.Tier)
	}
	// "Not sure" is not a camera location; the plan falls back to the
	// default recommendation.
	if sub.Plan.CameraCount != 2 {
		t.Fatalf("plan cameras = %d, want fallback 2", sub.Plan.CameraCount)
	}
	if diff := cmp.Diff(plan.Fallback(2), sub.Plan.Locations); diff != "" {
		t.Fatalf("fallback locations (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(plan.Fallback(2), sub.Payload.CameraLocations); diff != "" {
		t.Fatalf("payload locations (-want +got):\n%s", diff)
	}
}

func TestNormalCheckRetiresElaboration(t *testing.T) {
	sess, err := New(testDefinition())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := sess.Toggle("priority_areas_unsure", true); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if err := sess.Change("elaboration", "unsure about coverage"); err != nil {
		t.Fatalf("Change: %v", err)
	}

	// Checking a normal member unchecks the uncertain one; its bound
	// elaboration must retire with it, without waiting for a gate pass.
	if err := sess.Toggle("priority_areas_front", true); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	unsure, _ := sess.Registry().Control("priority_areas_unsure")
	if unsure.Checked {
		t.Fatalf("uncertain member still checked")
	}
	front, _ := sess.Registry().Control("priority_areas_front")
	if !front.Checked {
		t.Fatalf("normal member not checked")
	}
	elaboration, _ := sess.Registry().Control("elaboration")
	if !elaboration.Hidden || elaboration.Constraints.Required || elaboration.Value != "" {
		t.Fatalf("elaboration after exclusivity = hidden %v required %v value %q",
			elaboration.Hidden, elaboration.Constraints.Required, elaboration.Value)
	}
	if elaboration.Validity != model.ValidityNeutral || elaboration.Message != "" {
		t.Fatalf("elaboration state = %q message %q", elaboration.Validity, elaboration.Message)
	}
}

func TestInputSanitizesNameFields(t *testing.T) {
	sess, err := New(testDefinition())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := sess.Input("first_name", "An4a!"); err != nil {
		t.Fatalf("Input: %v", err)
	}
	ctrl, _ := sess.Registry().Control("first_name")
	if ctrl.Value != "Ana" {
		t.Fatalf("sanitised value = %q", ctrl.Value)
	}

	if sess.AcceptKeystroke("first_name", "4") {
		t.Fatalf("digit keystroke accepted on a name field")
	}
	if !sess.AcceptKeystroke("first_name", "é") {
		t.Fatalf("letter keystroke rejected")
	}
	if !sess.AcceptKeystroke("email", "4") {
		t.Fatalf("non-name field should accept any keystroke")
	}

	caret, err := sess.Paste("first_name", " <b>María</b>2", 3, 3)
	if err != nil {
		t.Fatalf("Paste: %v", err)
	}
	if ctrl.Value != "Ana María" {
		t.Fatalf("pasted value = %q", ctrl.Value)
	}
	if caret != 9 {
		t.Fatalf("caret = %d, want 9", caret)
	}
}

func TestUnknownControlErrors(t *testing.T) {
	sess, err := New(testDefinition())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := sess.Input("ghost", "x"); err == nil {
		t.Fatalf("Input on unknown control succeeded")
	}
	if err := sess.Blur("ghost"); err == nil {
		t.Fatalf("Blur on unknown control succeeded")
	}
	if err := sess.Toggle("ghost", true); err == nil {
		t.Fatalf("Toggle on unknown control succeeded")
	}
}

func TestSubmitDispatchesConfirmation(t *testing.T) {
	guards := handoff.NewMemoryStore()
	sendErr := errors.New("postmark down")
	fail := true
	notifier := notify.NotifierFunc(func(_ context.Context, _ string, params notify.Params) error {
		if fail {
			return sendErr
		}
		if params["to_email"] != "ana@example.com" {
			return errors.New("wrong recipient")
		}
		return nil
	})
	sess, err := New(testDefinition(),
		WithDispatcher(notify.NewDispatcher(notifier, guards, "confirmation")),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	fillHotLead(t, sess)

	sub, err := sess.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Notified == nil || !sub.Notified.ManualContinue {
		t.Fatalf("failed send outcome = %+v", sub.Notified)
	}
	if _, ok := guards.Get(handoff.GuardKey("confirmation")); ok {
		t.Fatalf("guard set after failed send")
	}

	// The flow may be retried; the wizard is still on the final step.
	fail = false
	sub, err = sess.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit retry: %v", err)
	}
	if sub.Notified == nil || !sub.Notified.Sent {
		t.Fatalf("retry outcome = %+v", sub.Notified)
	}
}

package groups

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadform/pkg/model"
)

func buildGroup(t *testing.T, min, max int, uncertain string, members ...string) (*model.Registry, *Engine) {
	t.Helper()
	reg := model.NewRegistry()
	reg.AddStep("areas")
	if _, err := reg.AddGroup(model.CheckboxGroup{Key: "areas", Min: min, Max: max, Uncertain: uncertain}); err != nil {
		t.Fatalf("AddGroup: %v", err)
	}
	for _, id := range members {
		_, err := reg.AddControl(model.Control{ID: id, Kind: model.ControlCheckbox, Label: id, Group: "areas"})
		if err != nil {
			t.Fatalf("AddControl(%q): %v", id, err)
		}
	}
	return reg, New(reg)
}

func checkedIDs(reg *model.Registry) []string {
	var out []string
	for _, member := range reg.Members("areas") {
		if member.Checked {
			out = append(out, member.ID)
		}
	}
	return out
}

func TestToggleLockoutAtMax(t *testing.T) {
	reg, eng := buildGroup(t, 2, 4, "", "a", "b", "c", "d", "e")

	for _, id := range []string{"a", "b", "c", "d"} {
		if err := eng.Toggle(id, true); err != nil {
			t.Fatalf("Toggle(%q): %v", id, err)
		}
	}

	// At max, the remaining member is locked out.
	e, _ := reg.Control("e")
	if !e.Disabled {
		t.Fatalf("member e should be disabled at maximum")
	}
	if err := eng.Toggle("e", true); err != nil {
		t.Fatalf("Toggle(e): %v", err)
	}
	if e.Checked {
		t.Fatalf("locked-out member was checked")
	}

	// Unchecking one re-enables the rest immediately.
	if err := eng.Toggle("d", false); err != nil {
		t.Fatalf("Toggle(d, false): %v", err)
	}
	if e.Disabled {
		t.Fatalf("member e should be re-enabled below maximum")
	}
	if err := eng.Toggle("e", true); err != nil {
		t.Fatalf("Toggle(e) after unlock: %v", err)
	}
	want := []string{"a", "b", "c", "e"}
	if diff := cmp.Diff(want, checkedIDs(reg)); diff != "" {
		t.Fatalf("checked members mismatch (-want +got):\n%s", diff)
	}
}

func TestToggleUncertainExclusivity(t *testing.T) {
	reg, eng := buildGroup(t, 1, 4, "unsure", "a", "b", "unsure")

	if err := eng.Toggle("a", true); err != nil {
		t.Fatalf("Toggle(a): %v", err)
	}
	if err := eng.Toggle("b", true); err != nil {
		t.Fatalf("Toggle(b): %v", err)
	}

	// Checking the uncertain member clears everything else.
	if err := eng.Toggle("unsure", true); err != nil {
		t.Fatalf("Toggle(unsure): %v", err)
	}
	if diff := cmp.Diff([]string{"unsure"}, checkedIDs(reg)); diff != "" {
		t.Fatalf("after uncertain check (-want +got):\n%s", diff)
	}

	// Checking a normal member clears the uncertain one.
	if err := eng.Toggle("a", true); err != nil {
		t.Fatalf("Toggle(a) again: %v", err)
	}
	if diff := cmp.Diff([]string{"a"}, checkedIDs(reg)); diff != "" {
		t.Fatalf("after normal check (-want +got):\n%s", diff)
	}
}

func TestEvaluateBounds(t *testing.T) {
	cases := []struct {
		name      string
		check     []string
		valid     bool
		wantMsg   string
	}{
		{name: "under minimum", check: nil, valid: false, wantMsg: "Please select at least 2."},
		{name: "at minimum", check: []string{"a", "b"}, valid: true, wantMsg: ""},
		{name: "at maximum", check: []string{"a", "b", "c", "d"}, valid: true, wantMsg: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg, eng := buildGroup(t, 2, 4, "", "a", "b", "c", "d", "e")
			for _, id := range tc.check {
				if err := eng.Toggle(id, true); err != nil {
					t.Fatalf("Toggle(%q): %v", id, err)
				}
			}
			valid, err := eng.Evaluate("areas", true)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if valid != tc.valid {
				t.Fatalf("valid = %v, want %v", valid, tc.valid)
			}
			group, _ := reg.Group("areas")
			if group.Message != tc.wantMsg {
				t.Fatalf("message = %q, want %q", group.Message, tc.wantMsg)
			}
			if group.Invalid == tc.valid {
				t.Fatalf("invalid flag = %v with valid = %v", group.Invalid, tc.valid)
			}
		})
	}
}

func TestEvaluateQuietBeforeGate(t *testing.T) {
	reg, eng := buildGroup(t, 2, 4, "", "a", "b", "c")

	valid, err := eng.Evaluate("areas", false)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if valid {
		t.Fatalf("empty group evaluated valid against min 2")
	}
	group, _ := reg.Group("areas")
	if group.Invalid {
		t.Fatalf("group went red before the gate")
	}
	if group.Message != "Select between 2 and 4." {
		t.Fatalf("requirement text = %q", group.Message)
	}
}

func TestEvaluateMemberValidity(t *testing.T) {
	reg, eng := buildGroup(t, 1, 3, "", "a", "b", "c")

	if err := eng.Toggle("a", true); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if _, err := eng.Evaluate("areas", true); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	a, _ := reg.Control("a")
	b, _ := reg.Control("b")
	if a.Validity != model.ValidityValid {
		t.Fatalf("checked member validity = %q, want valid", a.Validity)
	}
	if b.Validity != model.ValidityNeutral {
		t.Fatalf("unchecked member validity = %q, want neutral", b.Validity)
	}
}

// Package groups enforces checkbox-group cardinality: minimum and maximum
// selection counts, an at-maximum lockout of further selection, and mutual
// exclusivity with a designated "uncertain" member.
package groups

import (
	"fmt"

	"github.com/goliatone/go-leadform/pkg/model"
)

// Engine evaluates checkbox groups against their declared bounds and keeps
// member disabled flags in sync with the at-maximum lockout.
type Engine struct {
	reg *model.Registry
}

// New creates an Engine operating on the supplied registry.
func New(reg *model.Registry) *Engine {
	return &Engine{reg: reg}
}

// Toggle applies a member check/uncheck, resolves mutual exclusivity with the
// group's uncertain member before anything else, then recomputes the lockout.
// A check that would push the group past a finite maximum is rejected: the
// member stays unchecked and no other state changes.
func (e *Engine) Toggle(memberID string, checked bool) error {
	member, ok := e.reg.Control(memberID)
	if !ok {
		return fmt.Errorf("groups: unknown control %q", memberID)
	}
	if member.Kind != model.ControlCheckbox || member.Group == "" {
		return fmt.Errorf("groups: control %q is not a group member", memberID)
	}
	group, ok := e.reg.Group(member.Group)
	if !ok {
		return fmt.Errorf("groups: control %q references unknown group %q", memberID, member.Group)
	}

	if checked && member.Disabled {
		// Locked out at maximum; the interaction is a no-op.
		return nil
	}
	if checked && group.Bounded() && !member.Checked && e.reg.CheckedCount(group.Key) >= group.Max && !e.isUncertain(group, memberID) {
		return nil
	}

	member.Checked = checked

	// Exclusivity runs before the cardinality recomputation on every change
	// within the group.
	if checked {
		e.resolveUncertain(group, member)
	}
	e.applyLockout(group)
	return nil
}

func (e *Engine) isUncertain(group *model.CheckboxGroup, memberID string) bool {
	return group.Uncertain != "" && group.Uncertain == memberID
}

// resolveUncertain unchecks every other member when the uncertain member was
// just checked, and unchecks the uncertain member when a normal member was.
func (e *Engine) resolveUncertain(group *model.CheckboxGroup, checked *model.Control) {
	if group.Uncertain == "" {
		return
	}
	if checked.ID == group.Uncertain {
		for _, member := range e.reg.Members(group.Key) {
			if member.ID != checked.ID {
				member.Checked = false
			}
		}
		return
	}
	if uncertain, ok := e.reg.Control(group.Uncertain); ok {
		uncertain.Checked = false
	}
}

// applyLockout disables every unchecked member while the group sits at a
// finite maximum and re-enables them the instant the count drops below it.
// Checked members are never disabled by this rule.
func (e *Engine) applyLockout(group *model.CheckboxGroup) {
	atMax := group.Bounded() && e.reg.CheckedCount(group.Key) >= group.Max
	for _, member := range e.reg.Members(group.Key) {
		if member.Checked {
			member.Disabled = false
			continue
		}
		member.Disabled = atMax
	}
}

// Evaluate reports whether the group satisfies min <= checked <= max and
// renders the group-level message. With showErrors false the message is a
// neutral helper describing the requirement; groups never go red until an
// explicit validation gate has failed at least once.
func (e *Engine) Evaluate(key string, showErrors bool) (bool, error) {
	group, ok := e.reg.Group(key)
	if !ok {
		return false, fmt.Errorf("groups: unknown group %q", key)
	}

	count := e.reg.CheckedCount(key)
	valid := count >= group.Min && (!group.Bounded() || count <= group.Max)

	switch {
	case !showErrors:
		group.Invalid = false
		group.Message = requirementText(group)
	case valid:
		group.Invalid = false
		group.Message = ""
	case group.Bounded() && count > group.Max:
		// Overflow wording wins when both bounds could apply.
		group.Invalid = true
		group.Message = fmt.Sprintf("Please select no more than %d.", group.Max)
	default:
		group.Invalid = true
		group.Message = fmt.Sprintf("Please select at least %d.", group.Min)
	}

	// Checked members surface a positive indicator once the group as a whole
	// satisfies its bounds; unchecked members are never marked invalid
	// individually.
	for _, member := range e.reg.Members(key) {
		if member.Checked && valid {
			member.Validity = model.ValidityValid
		} else {
			member.Validity = model.ValidityNeutral
		}
		member.Message = ""
	}

	return valid, nil
}

func requirementText(group *model.CheckboxGroup) string {
	switch {
	case group.Min > 0 && group.Bounded():
		if group.Min == group.Max {
			return fmt.Sprintf("Select %d.", group.Min)
		}
		return fmt.Sprintf("Select between %d and %d.", group.Min, group.Max)
	case group.Min > 0:
		return fmt.Sprintf("Select at least %d.", group.Min)
	case group.Bounded():
		return fmt.Sprintf("Select up to %d.", group.Max)
	}
	return ""
}

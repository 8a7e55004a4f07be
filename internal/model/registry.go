package model

import "fmt"

// Registry is the identifier-keyed store of controls, groups, and steps the
// engines operate on. Markup binding lives outside the core: an adapter maps
// registry entries onto on-screen elements, so entity identity is the stable
// key rather than a rendered node.
type Registry struct {
	controls map[string]*Control
	order    []string
	groups   map[string]*CheckboxGroup
	groupIDs []string
	steps    []WizardStep
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		controls: make(map[string]*Control),
		groups:   make(map[string]*CheckboxGroup),
	}
}

// AddControl registers a control. IDs must be unique; runtime state is
// initialised to the neutral defaults.
func (r *Registry) AddControl(ctrl Control) (*Control, error) {
	if ctrl.ID == "" {
		return nil, fmt.Errorf("model: control id is required")
	}
	if _, exists := r.controls[ctrl.ID]; exists {
		return nil, fmt.Errorf("model: duplicate control %q", ctrl.ID)
	}
	if ctrl.Validity == "" {
		ctrl.Validity = ValidityNeutral
	}
	stored := ctrl
	r.controls[ctrl.ID] = &stored
	r.order = append(r.order, ctrl.ID)
	return &stored, nil
}

// AddGroup registers a checkbox group keyed by its group key.
func (r *Registry) AddGroup(group CheckboxGroup) (*CheckboxGroup, error) {
	if group.Key == "" {
		return nil, fmt.Errorf("model: group key is required")
	}
	if _, exists := r.groups[group.Key]; exists {
		return nil, fmt.Errorf("model: duplicate group %q", group.Key)
	}
	stored := group
	r.groups[group.Key] = &stored
	r.groupIDs = append(r.groupIDs, group.Key)
	return &stored, nil
}

// AddStep appends a wizard step. Steps are ordered by insertion; the index is
// assigned by the registry.
func (r *Registry) AddStep(title string) WizardStep {
	step := WizardStep{Index: len(r.steps), Title: title}
	r.steps = append(r.steps, step)
	return step
}

// Control returns the registered control for an id.
func (r *Registry) Control(id string) (*Control, bool) {
	ctrl, ok := r.controls[id]
	return ctrl, ok
}

// Group returns the registered group for a key.
func (r *Registry) Group(key string) (*CheckboxGroup, bool) {
	group, ok := r.groups[key]
	return group, ok
}

// Controls returns every control in registration order.
func (r *Registry) Controls() []*Control {
	out := make([]*Control, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.controls[id])
	}
	return out
}

// Groups returns every group in registration order.
func (r *Registry) Groups() []*CheckboxGroup {
	out := make([]*CheckboxGroup, 0, len(r.groupIDs))
	for _, key := range r.groupIDs {
		out = append(out, r.groups[key])
	}
	return out
}

// Steps returns the ordered wizard steps.
func (r *Registry) Steps() []WizardStep {
	return append([]WizardStep(nil), r.steps...)
}

// StepCount reports how many steps are registered.
func (r *Registry) StepCount() int {
	return len(r.steps)
}

// StepControls returns the controls belonging to a step, in registration
// order.
func (r *Registry) StepControls(index int) []*Control {
	var out []*Control
	for _, id := range r.order {
		if ctrl := r.controls[id]; ctrl.Step == index {
			out = append(out, ctrl)
		}
	}
	return out
}

// StepGroups returns the groups belonging to a step.
func (r *Registry) StepGroups(index int) []*CheckboxGroup {
	var out []*CheckboxGroup
	for _, key := range r.groupIDs {
		if group := r.groups[key]; group.Step == index {
			out = append(out, group)
		}
	}
	return out
}

// Members returns a group's member controls in registration order.
func (r *Registry) Members(key string) []*Control {
	var out []*Control
	for _, id := range r.order {
		if ctrl := r.controls[id]; ctrl.Group == key && ctrl.Kind == ControlCheckbox {
			out = append(out, ctrl)
		}
	}
	return out
}

// CheckedCount reports how many members of a group are currently checked.
func (r *Registry) CheckedCount(key string) int {
	count := 0
	for _, member := range r.Members(key) {
		if member.Checked {
			count++
		}
	}
	return count
}

// CheckedValues returns the values (or labels when no value is set) of a
// group's checked members in registration order.
func (r *Registry) CheckedValues(key string) []string {
	var out []string
	for _, member := range r.Members(key) {
		if !member.Checked {
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

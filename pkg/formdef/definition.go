// Package formdef loads declarative form definitions: the ordered steps,
// controls, checkbox groups, and conditional-binding rules a form session is
// built from. Definitions are authored as YAML (or JSON) documents, or
// derived from an OpenAPI operation.
package formdef

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-leadform/pkg/binder"
	"github.com/goliatone/go-leadform/pkg/model"
)

// Step declares one wizard page section.
type Step struct {
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Definition is the full declarative form description.
type Definition struct {
	Title    string                `json:"title,omitempty" yaml:"title,omitempty"`
	Steps    []Step                `json:"steps" yaml:"steps"`
	Controls []model.Control       `json:"controls" yaml:"controls"`
	Groups   []model.CheckboxGroup `json:"groups,omitempty" yaml:"groups,omitempty"`
	Bindings []binder.Rule         `json:"bindings,omitempty" yaml:"bindings,omitempty"`
}

// Parse decodes a YAML document into a Definition and validates its internal
// references.
func Parse(data []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("formdef: parse definition: %w", err)
	}
	if err := def.validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// LoadFS reads and parses a definition file from the provided filesystem.
func LoadFS(fsys fs.FS, path string) (Definition, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Definition{}, fmt.Errorf("formdef: read %s: %w", path, err)
	}
	return Parse(data)
}

func (d Definition) validate() error {
	if len(d.Steps) == 0 {
		return fmt.Errorf("formdef: definition declares no steps")
	}
	if len(d.Controls) == 0 {
		return fmt.Errorf("formdef: definition declares no controls")
	}

	groupKeys := make(map[string]model.CheckboxGroup, len(d.Groups))
	for _, group := range d.Groups {
		if group.Key == "" {
			return fmt.Errorf("formdef: group missing key")
		}
		if _, dup := groupKeys[group.Key]; dup {
			return fmt.Errorf("formdef: duplicate group %q", group.Key)
		}
		if group.Step < 0 || group.Step >= len(d.Steps) {
			return fmt.Errorf("formdef: group %q references step %d of %d", group.Key, group.Step, len(d.Steps))
		}
		if group.Min < 0 || (group.Max > 0 && group.Max < group.Min) {
			return fmt.Errorf("formdef: group %q bounds %d..%d are inverted", group.Key, group.Min, group.Max)
		}
		groupKeys[group.Key] = group
	}

	controlIDs := make(map[string]struct{}, len(d.Controls))
	for _, ctrl := range d.Controls {
		if ctrl.ID == "" {
			return fmt.Errorf("formdef: control missing id")
		}
		if _, dup := controlIDs[ctrl.ID]; dup {
			return fmt.Errorf("formdef: duplicate control %q", ctrl.ID)
		}
		controlIDs[ctrl.ID] = struct{}{}
		if ctrl.Step < 0 || ctrl.Step >= len(d.Steps) {
			return fmt.Errorf("formdef: control %q references step %d of %d", ctrl.ID, ctrl.Step, len(d.Steps))
		}
		if ctrl.Group != "" {
			if _, ok := groupKeys[ctrl.Group]; !ok {
				return fmt.Errorf("formdef: control %q references unknown group %q", ctrl.ID, ctrl.Group)
			}
			if ctrl.Kind != model.ControlCheckbox {
				return fmt.Errorf("formdef: control %q joins group %q but is %q, not a checkbox", ctrl.ID, ctrl.Group, ctrl.Kind)
			}
		}
	}

	for _, group := range d.Groups {
		if group.Uncertain == "" {
			continue
		}
		if _, ok := controlIDs[group.Uncertain]; !ok {
			return fmt.Errorf("formdef: group %q names unknown uncertain member %q", group.Key, group.Uncertain)
		}
	}

	for _, rule := range d.Bindings {
		if rule.ControlID == "" {
			return fmt.Errorf("formdef: binding missing control id")
		}
		if _, ok := controlIDs[rule.ControlID]; !ok {
			return fmt.Errorf("formdef: binding references unknown control %q", rule.ControlID)
		}
	}

	return nil
}

// Registry materialises the definition into a fresh control registry.
func (d Definition) Registry() (*model.Registry, error) {
	reg := model.NewRegistry()
	for _, step := range d.Steps {
		reg.AddStep(step.Title)
	}
	for _, group := range d.Groups {
		if _, err := reg.AddGroup(group); err != nil {
			return nil, err
		}
	}
	for _, ctrl := range d.Controls {
		if _, err := reg.AddControl(ctrl); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

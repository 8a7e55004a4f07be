package formdef

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-leadform/pkg/binder"
	"github.com/goliatone/go-leadform/pkg/model"
)

// The x-leadform extension namespace carries the form-specific hints an
// OpenAPI property cannot express natively: wizard step, name-field
// designation, group membership, and binding rules.
const extensionNamespace = "x-leadform"

// BuildFromOpenAPI loads an OpenAPI document and converts the request body of
// the named operation into a form definition. Scalar properties become
// controls, enum strings become selects, and string arrays with enum items
// become checkbox groups.
func BuildFromOpenAPI(ctx context.Context, data []byte, operationID string) (Definition, error) {
	if len(data) == 0 {
		return Definition{}, fmt.Errorf("formdef: openapi document is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return Definition{}, fmt.Errorf("formdef: load openapi document: %w", err)
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return Definition{}, fmt.Errorf("formdef: operation %q not found", operationID)
	}

	schema := requestSchema(operation)
	if schema == nil {
		return Definition{}, fmt.Errorf("formdef: operation %q has no request schema", operationID)
	}

	def := Definition{Title: operation.Summary}
	if err := convertObject(&def, schema); err != nil {
		return Definition{}, err
	}
	if len(def.Steps) == 0 {
		def.Steps = []Step{{Title: def.Title}}
	}
	if err := def.validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func convertObject(def *Definition, schema *openapi3.Schema) error {
	requiredSet := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		requiredSet[name] = struct{}{}
	}

	maxStep := 0
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		property := ref.Value
		hints := leadformHints(property.Extensions)
		_, required := requiredSet[name]

		if isEnumArray(property) {
			group, members := convertGroup(name, property, hints)
			def.Groups = append(def.Groups, group)
			def.Controls = append(def.Controls, members...)
			if group.Step > maxStep {
				maxStep = group.Step
			}
			continue
		}

		ctrl, err := convertControl(name, property, required, hints)
		if err != nil {
			return err
		}
		def.Controls = append(def.Controls, ctrl)
		if ctrl.Step > maxStep {
			maxStep = ctrl.Step
		}
		if pattern := hints.binding; pattern != "" {
			def.Bindings = append(def.Bindings, binder.Rule{ControlID: ctrl.ID, Pattern: pattern})
		}
	}

	for len(def.Steps) <= maxStep {
		def.Steps = append(def.Steps, Step{})
	}
	return nil
}

func isEnumArray(schema *openapi3.Schema) bool {
	if firstType(schema) != "array" || schema.Items == nil || schema.Items.Value == nil {
		return false
	}
	items := schema.Items.Value
	return firstType(items) == "string" && len(items.Enum) > 0
}

func convertGroup(name string, schema *openapi3.Schema, hints hints) (model.CheckboxGroup, []model.Control) {
	group := model.CheckboxGroup{
		Key:   name,
		Label: labelFor(name, schema.Title),
		Min:   int(schema.MinItems),
		Step:  hints.step,
	}
	if schema.MaxItems != nil {
		group.Max = int(*schema.MaxItems)
	}

	items := schema.Items.Value
	members := make([]model.Control, 0, len(items.Enum))
	for idx, raw := range items.Enum {
		value, ok := raw.(string)
		if !ok {
			continue
		}
		id := fmt.Sprintf("%s_%d", name, idx)
		members = append(members, model.Control{
			ID:    id,
			Kind:  model.ControlCheckbox,
			Label: value,
			Value: value,
			Group: name,
			Step:  hints.step,
		})
		if hints.uncertain != "" && strings.EqualFold(value, hints.uncertain) {
			group.Uncertain = id
		}
	}
	return group, members
}

func convertControl(name string, schema *openapi3.Schema, required bool, hints hints) (model.Control, error) {
	ctrl := model.Control{
		ID:    name,
		Label: labelFor(name, schema.Title),
		Step:  hints.step,
	}
	ctrl.Constraints.Required = required
	ctrl.NameField = hints.nameField

	switch firstType(schema) {
	case "string":
		switch {
		case len(schema.Enum) > 0:
			ctrl.Kind = model.ControlSelect
			for _, raw := range schema.Enum {
				if value, ok := raw.(string); ok {
					ctrl.Options = append(ctrl.Options, value)
				}
			}
		case schema.Format == "email":
			ctrl.Kind = model.ControlEmail
		default:
			ctrl.Kind = model.ControlText
		}
		ctrl.Constraints.MinLength = int(schema.MinLength)
		if schema.MaxLength != nil {
			ctrl.Constraints.MaxLength = int(*schema.MaxLength)
		}
		ctrl.Constraints.Pattern = schema.Pattern
	case "integer", "number":
		ctrl.Kind = model.ControlNumber
		ctrl.Constraints.Min = schema.Min
		ctrl.Constraints.Max = schema.Max
		ctrl.Constraints.Step = schema.MultipleOf
	case "boolean":
		ctrl.Kind = model.ControlChoice
	default:
		return model.Control{}, fmt.Errorf("formdef: property %q has unsupported type %q", name, firstType(schema))
	}
	return ctrl, nil
}

func firstType(schema *openapi3.Schema) string {
	if schema == nil || schema.Type == nil {
		return ""
	}
	values := schema.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func labelFor(name, title string) string {
	if title != "" {
		return title
	}
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' })
	for idx, word := range words {
		if word == "" {
			continue
		}
		words[idx] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

type hints struct {
	step      int
	nameField bool
	uncertain string
	binding   string
}

func leadformHints(extensions map[string]any) hints {
	var out hints
	raw, ok := extensions[extensionNamespace].(map[string]any)
	if !ok {
		return out
	}
	if step, ok := raw["step"].(float64); ok {
		out.step = int(step)
	}
	if step, ok := raw["step"].(int); ok {
		out.step = step
	}
	if name, ok := raw["nameField"].(bool); ok {
		out.nameField = name
	}
	if uncertain, ok := raw["uncertain"].(string); ok {
		out.uncertain = uncertain
	}
	if binding, ok := raw["binding"].(string); ok {
		out.binding = binding
	}
	return out
}

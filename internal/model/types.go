package model

// ControlKind is the simplified enum for intake-form control kinds.
type ControlKind string

const (
	ControlText     ControlKind = "text"
	ControlEmail    ControlKind = "email"
	ControlNumber   ControlKind = "number"
	ControlTextarea ControlKind = "textarea"
	ControlSelect   ControlKind = "select"
	ControlChoice   ControlKind = "choice"
	ControlCheckbox ControlKind = "checkbox"
)

// Validity is the three-state validity marker a control carries. Neutral means
// "not judged yet": empty controls stay neutral until the first submit attempt
// so users are not punished mid-keystroke.
type Validity string

const (
	ValidityNeutral Validity = "neutral"
	ValidityValid   Validity = "valid"
	ValidityInvalid Validity = "invalid"
)

// Trigger identifies the interaction that caused a control to be (re)validated.
type Trigger string

const (
	TriggerInput  Trigger = "input"
	TriggerChange Trigger = "change"
	TriggerBlur   Trigger = "blur"
	TriggerFocus  Trigger = "focus"
	TriggerSubmit Trigger = "submit"
)

// Violation names a single constraint predicate. The constants double as keys
// into a control's message overrides.
type Violation string

const (
	ViolationRequired  Violation = "required"
	ViolationTooShort  Violation = "minlength"
	ViolationTooLong   Violation = "maxlength"
	ViolationPattern   Violation = "pattern"
	ViolationEmail     Violation = "email"
	ViolationNumber    Violation = "number"
	ViolationUnderflow Violation = "min"
	ViolationOverflow  Violation = "max"
	ViolationStep      Violation = "step"
	ViolationName      Violation = "name"
)

// Constraints holds the declarative validation rules attached to a control.
// Zero values mean "not constrained"; numeric bounds use pointers so zero
// remains a legal bound.
type Constraints struct {
	Required  bool     `json:"required,omitempty" yaml:"required,omitempty"`
	MinLength int      `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength int      `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Step      *float64 `json:"step,omitempty" yaml:"step,omitempty"`
}

// Empty reports whether no rule is set.
func (c Constraints) Empty() bool {
	return !c.Required && c.MinLength == 0 && c.MaxLength == 0 &&
		c.Pattern == "" && c.Min == nil && c.Max == nil && c.Step == nil
}

// Control models a single input, select, or text area inside the form. The
// validity state is owned by the field validator; other engines toggle value,
// checked, disabled, and visibility but never write Validity directly.
type Control struct {
	ID          string            `json:"id" yaml:"id"`
	Kind        ControlKind       `json:"kind" yaml:"kind"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	NameField   bool              `json:"nameField,omitempty" yaml:"nameField,omitempty"`
	Options     []string          `json:"options,omitempty" yaml:"options,omitempty"`
	Constraints Constraints       `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Messages    map[string]string `json:"messages,omitempty" yaml:"messages,omitempty"`
	Step        int               `json:"step" yaml:"step"`
	Group       string            `json:"group,omitempty" yaml:"group,omitempty"`

	// Runtime state.
	Value    string   `json:"value,omitempty" yaml:"-"`
	Checked  bool     `json:"checked,omitempty" yaml:"-"`
	Disabled bool     `json:"disabled,omitempty" yaml:"-"`
	ReadOnly bool     `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	Hidden   bool     `json:"hidden,omitempty" yaml:"-"`
	Validity Validity `json:"validity,omitempty" yaml:"-"`
	Message  string   `json:"message,omitempty" yaml:"-"`
}

// MessageFor returns the configured override for a violation, or empty when
// the caller should fall back to the default wording.
func (c *Control) MessageFor(v Violation) string {
	if c == nil || len(c.Messages) == 0 {
		return ""
	}
	return c.Messages[string(v)]
}

// CheckboxGroup is a named set of checkbox controls validated together.
// Max == 0 means unbounded. Uncertain names the member that is mutually
// exclusive with every other member ("Not sure" and variants).
type CheckboxGroup struct {
	Key       string `json:"key" yaml:"key"`
	Label     string `json:"label,omitempty" yaml:"label,omitempty"`
	Min       int    `json:"min,omitempty" yaml:"min,omitempty"`
	Max       int    `json:"max,omitempty" yaml:"max,omitempty"`
	Uncertain string `json:"uncertain,omitempty" yaml:"uncertain,omitempty"`
	Step      int    `json:"step" yaml:"step"`

	// Runtime state.
	Message string `json:"message,omitempty" yaml:"-"`
	Invalid bool   `json:"invalid,omitempty" yaml:"-"`
}

// Bounded reports whether the group enforces a finite maximum.
func (g *CheckboxGroup) Bounded() bool {
	return g != nil && g.Max > 0
}

// WizardStep is an ordered page section. Controls claim membership through
// their Step index; exactly one step is visible at a time.
type WizardStep struct {
	Index int    `json:"index" yaml:"index"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// SubmissionState is the per-form-lifetime shared state. AttemptedSubmit is
// set by the first failed validation gate and never reset; every validation
// callback reads it to decide whether invalid marking may be shown.
type SubmissionState struct {
	AttemptedSubmit bool
	StepIndex       int
}

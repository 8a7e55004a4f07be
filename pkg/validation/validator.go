// Package validation computes and records a single control's validity state
// from its declared constraints and the interaction that triggered the check.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/goliatone/go-leadform/pkg/model"
)

// Options configures validator behaviour. The defaults mirror the production
// form: empty fields stay quiet until the first submit attempt, and invalid
// marking appears on blur rather than mid-keystroke.
type Options struct {
	// QuietWhenEmpty suppresses constraint violations for empty values until
	// the first submit attempt.
	QuietWhenEmpty bool
}

// Validator evaluates native constraint predicates in fixed precedence and
// writes the outcome onto the control.
type Validator struct {
	opts Options

	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

// New creates a Validator with the supplied options.
func New(options ...Options) *Validator {
	opts := Options{QuietWhenEmpty: true}
	if len(options) > 0 {
		opts = options[0]
	}
	return &Validator{
		opts:     opts,
		patterns: make(map[string]*regexp.Regexp),
	}
}

// Result reports the outcome of a single validation pass.
type Result struct {
	// Violation is empty when the control passed every predicate.
	Violation model.Violation
	// Message is the human-readable text written to the control's feedback
	// slot, empty when valid or neutral.
	Message string
	// Shown reports whether invalid marking is displayed for this pass.
	// Violations can be detected but visually suppressed before the first
	// submit attempt.
	Shown bool
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// typeChecked reports whether a control kind carries an implicit format check
// even without declared constraints (email, number, and selects).
func typeChecked(kind model.ControlKind) bool {
	switch kind {
	case model.ControlEmail, model.ControlNumber, model.ControlSelect:
		return true
	}
	return false
}

// Validate evaluates ctrl against its constraints for the given trigger and
// mutates the control's validity state and message. Disabled, read-only, and
// hidden controls are never validated; their state is left untouched.
// Checkbox members are excluded here: group cardinality is the group
// constraint engine's concern.
func (v *Validator) Validate(ctrl *model.Control, trigger model.Trigger, state *model.SubmissionState) Result {
	if ctrl == nil || state == nil {
		return Result{}
	}
	if ctrl.Disabled || ctrl.ReadOnly || ctrl.Hidden || ctrl.Kind == model.ControlCheckbox {
		return Result{}
	}
	if ctrl.Constraints.Empty() && !typeChecked(ctrl.Kind) && !ctrl.NameField {
		return Result{}
	}

	empty := strings.TrimSpace(ctrl.Value) == ""
	if empty && v.opts.QuietWhenEmpty && trigger != model.TriggerSubmit && !state.AttemptedSubmit {
		ctrl.Validity = model.ValidityNeutral
		ctrl.Message = ""
		return Result{}
	}

	violation := v.firstViolation(ctrl, empty)
	if violation == "" {
		ctrl.Validity = model.ValidityValid
		ctrl.Message = ""
		return Result{}
	}

	message := v.message(ctrl, violation)
	shown := state.AttemptedSubmit ||
		trigger == model.TriggerBlur || trigger == model.TriggerChange || trigger == model.TriggerSubmit

	if shown {
		ctrl.Validity = model.ValidityInvalid
	} else {
		// Detected but not punished mid-keystroke: clear any green state
		// without going red.
		ctrl.Validity = model.ValidityNeutral
	}
	ctrl.Message = message
	return Result{Violation: violation, Message: message, Shown: shown}
}

// firstViolation walks the predicates in fixed precedence: required, too
// short, too long, pattern mismatch, type mismatch, range underflow, range
// overflow, step mismatch.
func (v *Validator) firstViolation(ctrl *model.Control, empty bool) model.Violation {
	cons := ctrl.Constraints
	if empty {
		if cons.Required {
			return model.ViolationRequired
		}
		return ""
	}

	length := len([]rune(ctrl.Value))
	if cons.MinLength > 0 && length < cons.MinLength {
		return model.ViolationTooShort
	}
	if cons.MaxLength > 0 && length > cons.MaxLength {
		return model.ViolationTooLong
	}
	if cons.Pattern != "" {
		if re := v.compile(cons.Pattern); re != nil && !re.MatchString(ctrl.Value) {
			return model.ViolationPattern
		}
	}
	if ctrl.NameField && containsDigit(ctrl.Value) {
		return model.ViolationName
	}

	switch ctrl.Kind {
	case model.ControlEmail:
		if !emailPattern.MatchString(strings.TrimSpace(ctrl.Value)) {
			return model.ViolationEmail
		}
	case model.ControlNumber:
		value, err := strconv.ParseFloat(strings.TrimSpace(ctrl.Value), 64)
		if err != nil {
			return model.ViolationNumber
		}
		if cons.Min != nil && value < *cons.Min {
			return model.ViolationUnderflow
		}
		if cons.Max != nil && value > *cons.Max {
			return model.ViolationOverflow
		}
		if cons.Step != nil && stepMismatch(value, cons) {
			return model.ViolationStep
		}
	}
	return ""
}

func stepMismatch(value float64, cons model.Constraints) bool {
	step := *cons.Step
	if step <= 0 {
		return false
	}
	base := 0.0
	if cons.Min != nil {
		base = *cons.Min
	}
	offset := (value - base) / step
	const epsilon = 1e-9
	_, frac := modf(offset)
	return frac > epsilon && frac < 1-epsilon
}

func modf(f float64) (int64, float64) {
	whole := int64(f)
	frac := f - float64(whole)
	if frac < 0 {
		frac = -frac
	}
	return whole, frac
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func (v *Validator) compile(pattern string) *regexp.Regexp {
	v.mu.Lock()
	defer v.mu.Unlock()
	if re, ok := v.patterns[pattern]; ok {
		return re
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		// An uncompilable pattern never fails the control; it is a form
		// definition bug, not user input.
		v.patterns[pattern] = nil
		return nil
	}
	v.patterns[pattern] = re
	return re
}

func (v *Validator) message(ctrl *model.Control, violation model.Violation) string {
	if override := ctrl.MessageFor(violation); override != "" {
		return override
	}
	cons := ctrl.Constraints
	switch violation {
	case model.ViolationRequired:
		return "This field is required."
	case model.ViolationTooShort:
		return fmt.Sprintf("Please enter at least %d characters.", cons.MinLength)
	case model.ViolationTooLong:
		return fmt.Sprintf("Please enter no more than %d characters.", cons.MaxLength)
	case model.ViolationPattern:
		return "Please match the requested format."
	case model.ViolationEmail:
		return "Please enter a valid email address."
	case model.ViolationNumber:
		return "Please enter a valid number."
	case model.ViolationUnderflow:
		return fmt.Sprintf("Value must be at least %s.", formatBound(cons.Min))
	case model.ViolationOverflow:
		return fmt.Sprintf("Value must be at most %s.", formatBound(cons.Max))
	case model.ViolationStep:
		return "Please select a valid step value."
	case model.ViolationName:
		return "Name cannot contain numbers."
	}
	return "Please enter a valid value."
}

func formatBound(bound *float64) string {
	if bound == nil {
		return ""
	}
	return strconv.FormatFloat(*bound, 'f', -1, 64)
}

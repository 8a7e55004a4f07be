package model

import internalmodel "github.com/goliatone/go-leadform/internal/model"

// ControlKind re-exports the internal ControlKind enumeration.
type ControlKind = internalmodel.ControlKind

const (
	ControlText     = internalmodel.ControlText
	ControlEmail    = internalmodel.ControlEmail
	ControlNumber   = internalmodel.ControlNumber
	ControlTextarea = internalmodel.ControlTextarea
	ControlSelect   = internalmodel.ControlSelect
	ControlChoice   = internalmodel.ControlChoice
	ControlCheckbox = internalmodel.ControlCheckbox
)

// Validity re-exports the three-state control validity marker.
type Validity = internalmodel.Validity

const (
	ValidityNeutral = internalmodel.ValidityNeutral
	ValidityValid   = internalmodel.ValidityValid
	ValidityInvalid = internalmodel.ValidityInvalid
)

// Trigger re-exports the validation trigger enumeration.
type Trigger = internalmodel.Trigger

const (
	TriggerInput  = internalmodel.TriggerInput
	TriggerChange = internalmodel.TriggerChange
	TriggerBlur   = internalmodel.TriggerBlur
	TriggerFocus  = internalmodel.TriggerFocus
	TriggerSubmit = internalmodel.TriggerSubmit
)

// Violation re-exports the constraint predicate names.
type Violation = internalmodel.Violation

const (
	ViolationRequired  = internalmodel.ViolationRequired
	ViolationTooShort  = internalmodel.ViolationTooShort
	ViolationTooLong   = internalmodel.ViolationTooLong
	ViolationPattern   = internalmodel.ViolationPattern
	ViolationEmail     = internalmodel.ViolationEmail
	ViolationNumber    = internalmodel.ViolationNumber
	ViolationUnderflow = internalmodel.ViolationUnderflow
	ViolationOverflow  = internalmodel.ViolationOverflow
	ViolationStep      = internalmodel.ViolationStep
	ViolationName      = internalmodel.ViolationName
)

type Constraints = internalmodel.Constraints
type Control = internalmodel.Control
type CheckboxGroup = internalmodel.CheckboxGroup
type WizardStep = internalmodel.WizardStep
type SubmissionState = internalmodel.SubmissionState
type Registry = internalmodel.Registry

// NewRegistry constructs an empty control registry.
func NewRegistry() *Registry { return internalmodel.NewRegistry() }

// Package leadform builds and runs multi-step lead-intake forms: declarative
// definitions, per-field validity state, checkbox-group constraints,
// conditional free-text details, lead scoring, and the handoff payload the
// results flow consumes.
package leadform

import (
	"context"
	"embed"
	"io/fs"

	"github.com/goliatone/go-leadform/pkg/formdef"
	"github.com/goliatone/go-leadform/pkg/handoff"
	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/orchestrator"
	"github.com/goliatone/go-leadform/pkg/scoring"
)

//go:embed assets/intake.yaml assets/scoring.yaml
var embeddedAssets embed.FS

// AssetsFS exposes the embedded default form and scoring configuration so
// applications can serve or inspect them without shipping separate files.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

// DefaultDefinition returns the embedded home-security intake form.
func DefaultDefinition() (formdef.Definition, error) {
	return formdef.LoadFS(AssetsFS(), "intake.yaml")
}

// DefaultScorer returns a scorer built from the embedded weight table.
func DefaultScorer() (*scoring.Scorer, error) {
	cfg, err := scoring.LoadConfigFS(AssetsFS(), "scoring.yaml")
	if err != nil {
		return nil, err
	}
	return scoring.NewFromConfig(cfg), nil
}

// Session aliases the orchestrator session for callers that only import the
// root package.
type Session = orchestrator.Session

// Option configures a Session.
type Option = orchestrator.Option

// FieldMap names the controls answers are read from.
type FieldMap = orchestrator.FieldMap

// Submission is the outcome of Session.Submit.
type Submission = orchestrator.Submission

// Payload is the flat handoff payload written at submit time.
type Payload = handoff.Payload

// Definition is the declarative form description.
type Definition = formdef.Definition

// NewSession wires a session around the supplied definition.
func NewSession(def formdef.Definition, options ...Option) (*Session, error) {
	return orchestrator.New(def, options...)
}

// NewDefaultSession builds a session for the embedded intake form and weight
// table. It is the simplest entry point for callers that want the stock
// assessment flow.
func NewDefaultSession(options ...Option) (*Session, error) {
	def, err := DefaultDefinition()
	if err != nil {
		return nil, err
	}
	scorer, err := DefaultScorer()
	if err != nil {
		return nil, err
	}
	merged := append([]Option{orchestrator.WithScorer(scorer)}, options...)
	return orchestrator.New(def, merged...)
}

// BuildFromOpenAPI converts the request schema of an OpenAPI operation into a
// form definition.
func BuildFromOpenAPI(ctx context.Context, data []byte, operationID string) (formdef.Definition, error) {
	return formdef.BuildFromOpenAPI(ctx, data, operationID)
}

// NewRegistry exposes the control registry constructor.
func NewRegistry() *model.Registry {
	return model.NewRegistry()
}

// WithChannels, WithDispatcher and friends are re-exported so root-package
// callers can configure sessions without importing pkg/orchestrator.
var (
	WithScorer        = orchestrator.WithScorer
	WithChannels      = orchestrator.WithChannels
	WithDispatcher    = orchestrator.WithDispatcher
	WithFieldMap      = orchestrator.WithFieldMap
	WithDestination   = orchestrator.WithDestination
	WithWizardOptions = orchestrator.WithWizardOptions
)

// Package scoring maps completed-form answers to a numeric lead score, a tier
// label, and a short set of advisory notes. Predicates are additive and
// independent. The weight table is configuration data; leads scored by
// earlier versions keep their tiers only while the default literals hold.
package scoring

import (
	"strings"
)

// Tier labels, coarsest lead-priority classification first.
const (
	TierHot     = "Hot"
	TierWarm    = "Warm"
	TierNurture = "Nurture"
)

// Answers is the completed answer set the predicates evaluate against.
type Answers struct {
	RiskWindow     string   `json:"risk_window,omitempty" yaml:"risk_window,omitempty"`
	NightLighting  string   `json:"night_lighting,omitempty" yaml:"night_lighting,omitempty"`
	PriorityAreas  []string `json:"priority_areas,omitempty" yaml:"priority_areas,omitempty"`
	Timeline       string   `json:"timeline,omitempty" yaml:"timeline,omitempty"`
	DecisionMakers string   `json:"decision_makers,omitempty" yaml:"decision_makers,omitempty"`
	PriorIncident  string   `json:"prior_incident,omitempty" yaml:"prior_incident,omitempty"`
	Elaboration    string   `json:"elaboration,omitempty" yaml:"elaboration,omitempty"`
}

// Weights carries the fixed weight each predicate adds when it fires.
type Weights struct {
	RiskWindowAllDay  int `json:"risk_window_all_day" yaml:"risk_window_all_day"`
	RiskWindowAway    int `json:"risk_window_away" yaml:"risk_window_away"`
	DarkAtNight       int `json:"dark_at_night" yaml:"dark_at_night"`
	ManyPriorityAreas int `json:"many_priority_areas" yaml:"many_priority_areas"`
	TimelineASAP      int `json:"timeline_asap" yaml:"timeline_asap"`
	TimelineMonth     int `json:"timeline_month" yaml:"timeline_month"`
	SoleDecisionMaker int `json:"sole_decision_maker" yaml:"sole_decision_maker"`
	PriorIncident     int `json:"prior_incident" yaml:"prior_incident"`
	Elaboration       int `json:"elaboration" yaml:"elaboration"`
}

// Thresholds are the closed, ordered tier cut-offs: score >= Hot is Hot,
// score >= Warm is Warm, anything below is Nurture.
type Thresholds struct {
	Hot  int `json:"hot" yaml:"hot"`
	Warm int `json:"warm" yaml:"warm"`
}

// DefaultWeights returns the observed production weight table.
func DefaultWeights() Weights {
	return Weights{
		RiskWindowAllDay:  4,
		RiskWindowAway:    2,
		DarkAtNight:       2,
		ManyPriorityAreas: 2,
		TimelineASAP:      3,
		TimelineMonth:     1,
		SoleDecisionMaker: 1,
		PriorIncident:     3,
		Elaboration:       1,
	}
}

// DefaultThresholds returns the observed production tier cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{Hot: 12, Warm: 8}
}

// Scorer evaluates the predicate table against an answer set.
type Scorer struct {
	weights    Weights
	thresholds Thresholds
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights overrides the default weight table.
func WithWeights(w Weights) Option {
	return func(s *Scorer) { s.weights = w }
}

// WithThresholds overrides the default tier cut-offs.
func WithThresholds(t Thresholds) Option {
	return func(s *Scorer) { s.thresholds = t }
}

// New creates a Scorer with the default weight table and thresholds.
func New(options ...Option) *Scorer {
	s := &Scorer{
		weights:    DefaultWeights(),
		thresholds: DefaultThresholds(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// predicate pairs an independent boolean test with its weight and advisory
// note. Evaluation order is fixed: it is significant for the reproducibility
// of the generated notes text, though not for the score itself.
type predicate struct {
	fires  func(Answers) bool
	weight func(Weights) int
	note   string
}

func (s *Scorer) predicates() []predicate {
	return []predicate{
		{
			fires:  func(a Answers) bool { return a.RiskWindow == "24/7" },
			weight: func(w Weights) int { return w.RiskWindowAllDay },
			note:   "Requested round-the-clock coverage.",
		},
		{
			fires:  func(a Answers) bool { return a.RiskWindow == "While away at work" },
			weight: func(w Weights) int { return w.RiskWindowAway },
			note:   "Coverage focused on hours away from home.",
		},
		{
			fires: func(a Answers) bool {
				return a.NightLighting == "Pretty dark" || a.NightLighting == "Very dark"
			},
			weight: func(w Weights) int { return w.DarkAtNight },
			note:   "Property is dark at night; night-vision capable cameras recommended.",
		},
		{
			fires:  func(a Answers) bool { return len(a.PriorityAreas) >= 3 },
			weight: func(w Weights) int { return w.ManyPriorityAreas },
			note:   "Multiple priority areas selected.",
		},
		{
			fires:  func(a Answers) bool { return a.Timeline == "ASAP" },
			weight: func(w Weights) int { return w.TimelineASAP },
			note:   "Wants installation as soon as possible.",
		},
		{
			fires:  func(a Answers) bool { return a.Timeline == "Within 1 month" },
			weight: func(w Weights) int { return w.TimelineMonth },
			note:   "Planning installation within a month.",
		},
		{
			fires:  func(a Answers) bool { return a.DecisionMakers == "Me" },
			weight: func(w Weights) int { return w.SoleDecisionMaker },
			note:   "Sole decision maker.",
		},
		{
			fires:  func(a Answers) bool { return a.PriorIncident == "Yes" },
			weight: func(w Weights) int { return w.PriorIncident },
			note:   "Reported a prior security incident.",
		},
		{
			fires:  func(a Answers) bool { return strings.TrimSpace(a.Elaboration) != "" },
			weight: func(w Weights) int { return w.Elaboration },
			note:   "Left additional details.",
		},
	}
}

// Score returns the weighted sum over the fired predicates.
func (s *Scorer) Score(answers Answers) int {
	total := 0
	for _, p := range s.predicates() {
		if p.fires(answers) {
			total += p.weight(s.weights)
		}
	}
	return total
}

// Tier maps a score to its tier label.
func (s *Scorer) Tier(score int) string {
	switch {
	case score >= s.thresholds.Hot:
		return TierHot
	case score >= s.thresholds.Warm:
		return TierWarm
	default:
		return TierNurture
	}
}

// Notes concatenates the advisory strings of every fired predicate with
// single spaces, in fixed evaluation order.
func (s *Scorer) Notes(answers Answers) string {
	var notes []string
	for _, p := range s.predicates() {
		if p.fires(answers) && p.note != "" {
			notes = append(notes, p.note)
		}
	}
	return strings.Join(notes, " ")
}

// Result bundles a completed scoring pass: the numeric score, its tier label,
// and the advisory notes. Created once at successful submission and immutable
// thereafter.
type Result struct {
	Score int    `json:"lead_score"`
	Tier  string `json:"lead_tier"`
	Notes string `json:"auto_notes,omitempty"`
}

// Evaluate runs the full pass over an answer set.
func (s *Scorer) Evaluate(answers Answers) Result {
	score := s.Score(answers)
	return Result{
		Score: score,
		Tier:  s.Tier(score),
		Notes: s.Notes(answers),
	}
}

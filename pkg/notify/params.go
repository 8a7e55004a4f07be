// Package notify invokes the external confirmation notifier with a flat
// template-parameter mapping and guards against duplicate sends. The notifier
// itself is a black box; failure never blocks the user from reaching the
// result page.
package notify

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-leadform/pkg/handoff"
	"github.com/goliatone/go-leadform/pkg/plan"
)

// Params is the flat string-keyed mapping handed to the notifier template.
type Params map[string]string

// TemplateParams builds a robust parameter object from the handoff payload.
// First and last name are published under several aliasing keys so differing
// template token conventions all resolve, and the plan locations are rendered
// both as raw text and as a bullet-per-line variant.
func TemplateParams(p handoff.Payload) Params {
	name := strings.TrimSpace(p.DisplayName())
	first := strings.TrimSpace(p.First)
	if first == "" && name != "" {
		first = strings.Fields(name)[0]
	}
	last := strings.TrimSpace(p.Last)
	if last == "" && name != "" {
		last = strings.TrimSpace(strings.TrimPrefix(name, first))
	}

	locations := strings.Join(p.CameraLocations, "\n")

	return Params{
		"to_email": p.Email,
		"email":    p.Email,
		"to_name":  name,

		"first":      first,
		"last":       last,
		"firstname":  first,
		"first_name": first,
		"firstName":  first,
		"lastname":   last,
		"last_name":  last,
		"lastName":   last,

		"lead_tier":  p.LeadTier,
		"lead_score": p.ScoreString(),
		"auto_notes": p.AutoNotes,

		"camera_count":        strconv.Itoa(p.CameraCount),
		"camera_locations":    locations,
		"camera_locations_md": BulletList(locations),
		"nvr_channel":         strconv.Itoa(p.NVRChannel),
	}
}

// BulletList renders a newline, comma, or semicolon delimited list as one
// bullet per line.
func BulletList(value string) string {
	items := plan.SplitList(value)
	if len(items) == 0 {
		return ""
	}
	bullets := make([]string, 0, len(items))
	for _, item := range items {
		bullets = append(bullets, "• "+item)
	}
	return strings.Join(bullets, "\n")
}

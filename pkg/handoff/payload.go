// Package handoff serializes the scoring result and identity fields into a
// transport payload and moves it to the next navigation context through three
// redundant channels: a URL fragment, a session-scoped store, and a durable
// device-scoped store.
package handoff

import (
	"strconv"
	"strings"
)

// Payload is the flat record carried from the form to the confirmation and
// result flow. Every field is optional; a missing email degrades gracefully
// downstream.
type Payload struct {
	First           string   `json:"first,omitempty"`
	Last            string   `json:"last,omitempty"`
	ToName          string   `json:"to_name,omitempty"`
	Email           string   `json:"email,omitempty"`
	LeadScore       int      `json:"lead_score,omitempty"`
	LeadTier        string   `json:"lead_tier,omitempty"`
	AutoNotes       string   `json:"auto_notes,omitempty"`
	CameraCount     int      `json:"cameraCount,omitempty"`
	NVRChannel      int      `json:"nvrChannel,omitempty"`
	CameraLocations []string `json:"cameraRecommendedLocations,omitempty"`
}

// Empty reports whether the payload carries nothing at all.
func (p Payload) Empty() bool {
	return p.First == "" && p.Last == "" && p.ToName == "" &&
		p.Email == "" && p.LeadScore == 0 && p.LeadTier == "" && p.AutoNotes == "" &&
		p.CameraCount == 0 && p.NVRChannel == 0 && len(p.CameraLocations) == 0
}

// DisplayName returns to_name when set, otherwise first and last joined.
func (p Payload) DisplayName() string {
	if name := strings.TrimSpace(p.ToName); name != "" {
		return name
	}
	parts := make([]string, 0, 2)
	if p.First != "" {
		parts = append(parts, p.First)
	}
	if p.Last != "" {
		parts = append(parts, p.Last)
	}
	return strings.Join(parts, " ")
}

// FirstName picks the best available first name: the explicit field, then the
// first word of the display name.
func (p Payload) FirstName() string {
	if first := strings.TrimSpace(p.First); first != "" {
		return first
	}
	name := strings.TrimSpace(p.ToName)
	if name == "" {
		return ""
	}
	return strings.Fields(name)[0]
}

// ScoreString renders the score for template parameters; an unscored payload
// renders empty rather than "0".
func (p Payload) ScoreString() string {
	if p.LeadScore == 0 {
		return ""
	}
	return strconv.Itoa(p.LeadScore)
}

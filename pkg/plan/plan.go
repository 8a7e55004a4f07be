// Package plan derives the recommended camera plan summary (camera count,
// recorder channel capacity, recommended locations) from the selected
// priority areas.
package plan

import (
	"regexp"
	"strings"
)

// DefaultLocations is the fallback recommendation list used when no priority
// areas were selected.
var DefaultLocations = []string{
	"Front door / porch",
	"Back door / patio",
	"Driveway / garage",
	"Side gate / alley",
	"Living room (main entry view)",
	"Stair landing / hallway",
}

// nvrSizes are the channel capacities recorders ship with.
var nvrSizes = []int{4, 8, 16, 32}

const maxCameras = 16

// Summary is the plan portion of the handoff payload.
type Summary struct {
	CameraCount int      `json:"cameraCount"`
	NVRChannel  int      `json:"nvrChannel"`
	Locations   []string `json:"cameraRecommendedLocations,omitempty"`
}

// Build derives a Summary from the selected priority areas. One camera per
// area plus a spare, never fewer than two, capped at the largest kit; the
// recorder is the smallest standard capacity that fits.
func Build(areas []string) Summary {
	locations := Tidy(areas)

	count := len(locations) + 1
	if count < 2 {
		count = 2
	}
	if count > maxCameras {
		count = maxCameras
	}

	if len(locations) == 0 {
		locations = Fallback(count)
	}

	return Summary{
		CameraCount: count,
		NVRChannel:  channelFor(count),
		Locations:   locations,
	}
}

func channelFor(cameras int) int {
	for _, size := range nvrSizes {
		if cameras <= size {
			return size
		}
	}
	return nvrSizes[len(nvrSizes)-1]
}

// Fallback returns between two and six default locations, sized to the
// camera count.
func Fallback(cameraCount int) []string {
	take := cameraCount
	if take < 2 {
		take = 2
	}
	if take > len(DefaultLocations) {
		take = len(DefaultLocations)
	}
	return append([]string(nil), DefaultLocations[:take]...)
}

var listSeparators = regexp.MustCompile(`[\n,;]+`)

// SplitList splits a newline, comma, or semicolon delimited string into its
// items.
func SplitList(raw string) []string {
	return Tidy(listSeparators.Split(raw, -1))
}

// Tidy trims every item, drops empties, and removes duplicates while
// preserving order.
func Tidy(items []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

package result

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leadform/pkg/handoff"
	"github.com/goliatone/go-leadform/pkg/plan"
)

func TestCopyFor(t *testing.T) {
	hot := CopyFor("Hot")
	if hot.CTA != nil {
		t.Fatalf("Hot tier should not carry a CTA")
	}
	if !strings.Contains(hot.Subtitle, "24 hours") {
		t.Fatalf("Hot subtitle = %q", hot.Subtitle)
	}

	warm := CopyFor("warm")
	if warm.CTA == nil || warm.CTA.Text != "Book a 15-min Discovery Call" {
		t.Fatalf("Warm CTA = %+v", warm.CTA)
	}
	if warm.CTA.URL != BookingURL {
		t.Fatalf("Warm CTA URL = %q", warm.CTA.URL)
	}

	nurture := CopyFor("Nurture")
	if nurture.CTA != nil {
		t.Fatalf("Nurture tier should not carry a CTA")
	}

	// Unknown tiers resolve to the Warm copy.
	if got := CopyFor("mystery"); got.CTA == nil {
		t.Fatalf("unknown tier copy = %+v, want Warm", got)
	}
}

func TestPersonalizeFromSession(t *testing.T) {
	session := handoff.NewMemoryStore()
	channels := handoff.NewChannels(session, nil)
	payload := handoff.Payload{
		First:           "Ana",
		LeadTier:        "Hot",
		LeadScore:       12,
		CameraCount:     4,
		NVRChannel:      4,
		CameraLocations: []string{"Front door / porch"},
	}
	if _, err := channels.Write(payload, "results.html"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	view := Personalize(channels, "", "")
	if view.Tier != "Hot" {
		t.Fatalf("tier = %q, want Hot", view.Tier)
	}
	if view.FirstName != "Ana" {
		t.Fatalf("first name = %q", view.FirstName)
	}
	if view.CameraCount != 4 || view.NVRChannel != 4 {
		t.Fatalf("plan numbers = %d/%d", view.CameraCount, view.NVRChannel)
	}
	if diff := cmp.Diff([]string{"Front door / porch"}, view.Locations); diff != "" {
		t.Fatalf("locations mismatch (-want +got):\n%s", diff)
	}
	if view.Accent.SurfaceClass != "bg-success-subtle" {
		t.Fatalf("accent = %+v", view.Accent)
	}
}

func TestPersonalizeDefaults(t *testing.T) {
	channels := handoff.NewChannels(nil, nil)
	view := Personalize(channels, "", "")

	if view.FirstName != "there" {
		t.Fatalf("first name default = %q", view.FirstName)
	}
	if view.Tier != handoff.DefaultTier {
		t.Fatalf("tier default = %q", view.Tier)
	}
	if diff := cmp.Diff(plan.Fallback(4), view.Locations); diff != "" {
		t.Fatalf("fallback locations mismatch (-want +got):\n%s", diff)
	}
	if view.Copy.CTA == nil {
		t.Fatalf("default tier should carry the Warm CTA")
	}
}

func TestPersonalizeQueryTierWins(t *testing.T) {
	session := handoff.NewMemoryStore()
	channels := handoff.NewChannels(session, nil)
	if _, err := channels.Write(handoff.Payload{LeadTier: "Hot"}, "results.html"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	view := Personalize(channels, "", "nurture")
	if view.Tier != "Nurture" {
		t.Fatalf("tier = %q, want Nurture from query", view.Tier)
	}
	if view.Accent.Variant != "nurture" {
		t.Fatalf("accent variant = %q", view.Accent.Variant)
	}
}

func TestAccentFor(t *testing.T) {
	cases := []struct {
		tier        string
		wantVariant string
		wantSurface string
	}{
		{"Hot", "hot", "bg-success-subtle"},
		{"Warm", "warm", "bg-warning-subtle"},
		{"Nurture", "nurture", "bg-secondary-subtle"},
		{"??", "warm", "bg-warning-subtle"},
	}
	for _, tc := range cases {
		got := AccentFor(tc.tier)
		if got.Variant != tc.wantVariant || got.SurfaceClass != tc.wantSurface {
			t.Fatalf("AccentFor(%q) = %+v, want %s/%s", tc.tier, got, tc.wantVariant, tc.wantSurface)
		}
		// Base tokens survive the variant merge.
		if got.Tokens["radius"] != "rounded-4" {
			t.Fatalf("AccentFor(%q) lost base tokens: %v", tc.tier, got.Tokens)
		}
	}
}

func TestProviderRegistersManifest(t *testing.T) {
	provider, err := Provider()
	if err != nil {
		t.Fatalf("Provider: %v", err)
	}
	if provider == nil {
		t.Fatalf("Provider returned nil registry")
	}
}

func TestDisplayNumber(t *testing.T) {
	if got := DisplayNumber(0); got != "—" {
		t.Fatalf("DisplayNumber(0) = %q", got)
	}
	if got := DisplayNumber(8); got != "8" {
		t.Fatalf("DisplayNumber(8) = %q", got)
	}
}

func TestParseLocations(t *testing.T) {
	got := ParseLocations(" Front door, Driveway; Garage ")
	want := []string{"Front door", "Driveway", "Garage"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParseLocations mismatch (-want +got):\n%s", diff)
	}
}

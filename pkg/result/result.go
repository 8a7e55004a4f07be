// Package result personalizes the confirmation and result views from the
// handoff payload: per-tier copy, a per-tier theme variant, and the plan
// numbers with graceful defaults. Nothing in this package ever fails toward
// the user; every missing field degrades to a placeholder.
package result

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-leadform/pkg/handoff"
	"github.com/goliatone/go-leadform/pkg/plan"
)

// CTA is the optional call-to-action rendered for a tier.
type CTA struct {
	Text  string
	URL   string
	Track string
}

// Copy is the tier-dependent page copy.
type Copy struct {
	Title    string
	Subtitle string
	CTA      *CTA
}

// BookingURL is the discovery-call scheduling link offered to Warm leads.
var BookingURL = "https://calendly.com/vallarta-troy/30min"

// CopyFor returns the copy block for a tier. Only Warm leads get a CTA; Hot
// leads are called within a day and Nurture leads are left to explore.
func CopyFor(tier string) Copy {
	switch handoff.NormalizeTier(tier) {
	case "Hot":
		return Copy{
			Title:    "Congratulations",
			Subtitle: "You are an excellent fit for our services! Our team is excited to assist you in achieving your goals. Expect a call from us within the next 24 hours to discuss the next steps.",
		}
	case "Nurture":
		return Copy{
			Title:    "Thank You for Your Interest!",
			Subtitle: "Check your inbox for your plan and quick-win tips. Explore when you're ready, we're here to help.",
		}
	}
	return Copy{
		Title:    "Congratulations on taking the next step!",
		Subtitle: "A short discovery call will speed things up and avoid guesswork. Pick a time that works for you.",
		CTA:      &CTA{Text: "Book a 15-min Discovery Call", URL: BookingURL, Track: "cta_warm"},
	}
}

// View is the fully resolved result page state.
type View struct {
	Tier        string
	Copy        Copy
	FirstName   string
	CameraCount int
	NVRChannel  int
	Locations   []string
	Accent      Accent
}

// Personalize resolves the payload through the fallback chain (fragment,
// session, durable), applies the tier precedence (query parameter first), and
// fills every gap with a usable default.
func Personalize(channels handoff.Channels, fragment, queryTier string) View {
	payload := channels.Read(fragment)
	tier := channels.ResolveTier(queryTier)

	first := payload.FirstName()
	if first == "" {
		first = "there"
	}

	locations := plan.Tidy(payload.CameraLocations)
	if len(locations) == 0 {
		fallbackCount := payload.CameraCount
		if fallbackCount == 0 {
			fallbackCount = 4
		}
		locations = plan.Fallback(fallbackCount)
	}

	return View{
		Tier:        tier,
		Copy:        CopyFor(tier),
		FirstName:   first,
		CameraCount: payload.CameraCount,
		NVRChannel:  payload.NVRChannel,
		Locations:   locations,
		Accent:      AccentFor(tier),
	}
}

// DisplayNumber renders a plan number with a dash placeholder when the
// payload did not carry it.
func DisplayNumber(n int) string {
	if n <= 0 {
		return "—"
	}
	return strconv.Itoa(n)
}

// ParseLocations accepts either the payload's list form or a delimited string
// from older payload shapes.
func ParseLocations(raw string) []string {
	return plan.SplitList(strings.TrimSpace(raw))
}

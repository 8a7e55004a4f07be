package handoff

import (
	"strings"
)

// DefaultTier is the hard fallback when no channel yields a tier.
const DefaultTier = "Warm"

// NormalizeTier canonicalises a raw tier string; anything unrecognised
// resolves to the default.
func NormalizeTier(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "hot":
		return "Hot"
	case "warm":
		return "Warm"
	case "nurture":
		return "Nurture"
	}
	return DefaultTier
}

// ResolveTier applies the tier resolution precedence: URL query parameter,
// then session payload field, then the durable last-known-tier, then the
// default. The resolved tier (and the payload score, when present) is
// persisted back to the durable store for later visits.
func (c Channels) ResolveTier(queryTier string) string {
	raw := strings.TrimSpace(queryTier)

	var payload Payload
	if p, ok := c.readStore(c.Session); ok {
		payload = p
	}
	if raw == "" {
		raw = payload.LeadTier
	}
	if raw == "" {
		if last, ok := c.Durable.Get(LastTierKey); ok {
			raw = last
		}
	}

	tier := NormalizeTier(raw)
	c.Durable.Set(LastTierKey, tier)
	if score := payload.ScoreString(); score != "" {
		c.Durable.Set(LastScoreKey, score)
	}
	return tier
}

package handoff

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// The fragment transport is JSON, then percent-encoding (encodeURIComponent
// semantics, so non-ASCII survives base64), then standard base64, placed as
// a `p=` fragment parameter. Any consumer applying the same chain in reverse
// can read it.

// EncodeFragment serializes the payload onto destination's fragment and
// returns the full URL.
func EncodeFragment(p Payload, destination string) (string, error) {
	target, err := url.Parse(destination)
	if err != nil {
		return "", fmt.Errorf("handoff: parse destination: %w", err)
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("handoff: marshal payload: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(percentEncode(string(raw))))
	target.Fragment = "p=" + encoded
	return target.String(), nil
}

var fragmentParam = regexp.MustCompile(`(?i)(?:^|#|&)\s*p=([^&]+)`)

// DecodeFragment reverses EncodeFragment given a URL fragment (with or
// without the leading '#'). It returns false when the parameter is absent or
// unparsable; callers fall through to the next channel.
func DecodeFragment(fragment string) (Payload, bool) {
	match := fragmentParam.FindStringSubmatch(fragment)
	if match == nil {
		return Payload{}, false
	}
	decoded, err := base64.StdEncoding.DecodeString(match[1])
	if err != nil {
		return Payload{}, false
	}
	unescaped, err := url.PathUnescape(string(decoded))
	if err != nil {
		return Payload{}, false
	}
	var p Payload
	if err := json.Unmarshal([]byte(unescaped), &p); err != nil {
		return Payload{}, false
	}
	return p, true
}

// percentEncode reproduces encodeURIComponent: unreserved ASCII passes
// through, everything else becomes UTF-8 percent escapes.
func percentEncode(s string) string {
	const unreserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_.!~*'()"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(unreserved, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

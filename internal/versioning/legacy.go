package versioning

import "strings"

const (
	legacyPrefix    = "0.0."
	rewrittenPrefix = "0.1."
)

// rewriteLegacy maps the portal's historical "0.0.x" versions onto "0.1.x".
// Early mods were published with a 0.0 major/minor pair that the portal does not
// order consistently with the rest of the 0.x series, so both sides of a
// comparison involving such a version are shifted the same way.
//
// Raw text from the portal is also tidied on the way: surrounding spaces and a
// "v" prefix are dropped and leading zeros are stripped from the numeric
// segments, so "0.0.07" becomes "0.1.7".
//
// It is the only place that knows about the quirk; matching and ordering call it
// and treat ok == false as "no known rule applies".
func rewriteLegacy(value string) (string, bool) {
	text := strings.TrimPrefix(strings.TrimSpace(value), "v")
	if !strings.HasPrefix(text, legacyPrefix) {
		return value, false
	}

	rest := strings.TrimPrefix(text, legacyPrefix)
	core, suffix := rest, ""
	if i := strings.IndexAny(rest, "-+"); i >= 0 {
		core, suffix = rest[:i], rest[i:]
	}

	segments := strings.Split(core, ".")
	for i, segment := range segments {
		segments[i] = trimLeadingZeros(segment)
	}
	return rewrittenPrefix + strings.Join(segments, ".") + suffix, true
}

// trimLeadingZeros leaves non-numeric segments untouched.
func trimLeadingZeros(segment string) string {
	if segment == "" || strings.Trim(segment, "0123456789") != "" {
		return segment
	}
	trimmed := strings.TrimLeft(segment, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

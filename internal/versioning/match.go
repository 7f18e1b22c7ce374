package versioning

import (
	"github.com/Masterminds/semver/v3"
)

// Matches reports whether the token satisfies the range. Raw tokens are only
// comparable through the legacy rewrite; any other raw text is a *VersionError.
func Matches(r Range, token Token) (bool, error) {
	if r.IsZero() {
		return false, &RangeError{Expression: r.String(), Reason: "empty range"}
	}

	switch token.Kind() {
	case Parsed:
		return r.constraint.Check(token.version), nil
	case Raw:
		version, err := legacyVersion(token, r.String())
		if err != nil {
			return false, err
		}
		rewritten, _ := rewriteLegacy(r.version)
		legacyRange, err := NewRange(r.op, rewritten)
		if err != nil {
			return false, &VersionError{Version: token.raw, Range: r.String(), Err: err}
		}
		return legacyRange.constraint.Check(version), nil
	default:
		return false, &VersionError{Version: token.String(), Range: r.String()}
	}
}

// Compare orders two tokens. Parsed tokens compare by semantic version; raw
// tokens take part only after the legacy rewrite.
func Compare(a Token, b Token) (int, error) {
	left, err := orderingKey(a)
	if err != nil {
		return 0, err
	}
	right, err := orderingKey(b)
	if err != nil {
		return 0, err
	}
	return left.Compare(right), nil
}

func orderingKey(token Token) (*semver.Version, error) {
	switch token.Kind() {
	case Parsed:
		return token.version, nil
	case Raw:
		return legacyVersion(token, "")
	default:
		return nil, &VersionError{Version: token.String()}
	}
}

func legacyVersion(token Token, rangeText string) (*semver.Version, error) {
	rewritten, ok := rewriteLegacy(token.raw)
	if !ok {
		return nil, &VersionError{Version: token.raw, Range: rangeText}
	}
	version, err := semver.NewVersion(rewritten)
	if err != nil {
		return nil, &VersionError{Version: token.raw, Range: rangeText, Err: err}
	}
	return version, nil
}

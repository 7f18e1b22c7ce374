// Package versioning holds the version token and range types shared by the
// dependency parser and the release selector.
package versioning

import (
	"github.com/Masterminds/semver/v3"
)

// TokenKind tells a strict semantic version apart from raw portal text.
type TokenKind int

const (
	Parsed TokenKind = iota + 1
	Raw
)

func (kind TokenKind) String() string {
	switch kind {
	case Parsed:
		return "parsed"
	case Raw:
		return "raw"
	default:
		return "invalid"
	}
}

// Token is a release version as published by the portal. It is either a strict
// semantic version or the original text when the portal sent something else.
type Token struct {
	kind    TokenKind
	version *semver.Version
	raw     string
}

// ParseToken keeps value as a Parsed token when it is a strict semantic
// version and as a Raw token otherwise. It never fails.
func ParseToken(value string) Token {
	version, err := semver.StrictNewVersion(value)
	if err != nil {
		return NewRawToken(value)
	}
	return Token{kind: Parsed, version: version}
}

// NewParsedToken wraps an already parsed version.
func NewParsedToken(version *semver.Version) Token {
	return Token{kind: Parsed, version: version}
}

// NewRawToken keeps value verbatim. Raw tokens only compare through the
// legacy "0.0." rule.
func NewRawToken(value string) Token {
	return Token{kind: Raw, raw: value}
}

func (t Token) Kind() TokenKind {
	return t.kind
}

func (t Token) IsZero() bool {
	return t.kind == 0
}

// Version is nil unless the token is Parsed.
func (t Token) Version() *semver.Version {
	if t.kind != Parsed {
		return nil
	}
	return t.version
}

// Raw returns the unmodified text of a Raw token and "" otherwise.
func (t Token) Raw() string {
	if t.kind != Raw {
		return ""
	}
	return t.raw
}

func (t Token) String() string {
	switch t.kind {
	case Parsed:
		return t.version.Original()
	case Raw:
		return t.raw
	default:
		return ""
	}
}

func (t Token) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Token) UnmarshalText(text []byte) error {
	*t = ParseToken(string(text))
	return nil
}

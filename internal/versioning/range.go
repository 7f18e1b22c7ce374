package versioning

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// operators is ordered so that two-character operators are tried first.
var operators = []string{">=", "<=", ">", "<", "=", "~", "^"}

// Range is a single comparator such as ">=0.18.27". The operator and version
// text are kept apart because dependency lines serialize them as two tokens.
type Range struct {
	op         string
	version    string
	constraint *semver.Constraints
}

// NewRange builds a range from an operator and a plain numeric version such
// as "0.18.27" or "1.1". Both are kept as written for serialization.
func NewRange(op string, version string) (Range, error) {
	expression := op + version
	if !isOperator(op) {
		return Range{}, &RangeError{Expression: expression, Reason: "unknown operator"}
	}
	if version == "" {
		return Range{}, &RangeError{Expression: expression, Reason: "missing version"}
	}
	if strings.HasPrefix(version, "v") || strings.HasPrefix(version, "V") {
		return Range{}, &RangeError{Expression: expression, Reason: "version must not carry a v prefix"}
	}
	if _, err := semver.NewVersion(version); err != nil {
		return Range{}, &RangeError{Expression: expression, Reason: "malformed version", Err: err}
	}

	constraint, err := semver.NewConstraint(expression)
	if err != nil {
		return Range{}, &RangeError{Expression: expression, Reason: "malformed constraint", Err: err}
	}

	return Range{op: op, version: version, constraint: constraint}, nil
}

// ParseRange accepts the compact form, for example ">=0.18.27".
func ParseRange(expression string) (Range, error) {
	trimmed := strings.TrimSpace(expression)
	for _, op := range operators {
		if strings.HasPrefix(trimmed, op) {
			return NewRange(op, strings.TrimSpace(strings.TrimPrefix(trimmed, op)))
		}
	}
	return Range{}, &RangeError{Expression: expression, Reason: "missing operator"}
}

// MustParseRange is ParseRange for literals known to be valid. It panics on
// error.
func MustParseRange(expression string) Range {
	r, err := ParseRange(expression)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Range) Op() string {
	return r.op
}

func (r Range) VersionText() string {
	return r.version
}

func (r Range) IsZero() bool {
	return r.constraint == nil
}

func (r Range) String() string {
	return r.op + r.version
}

func (r Range) Equal(other Range) bool {
	return r.op == other.op && r.version == other.version
}

func (r Range) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Range) UnmarshalText(text []byte) error {
	parsed, err := ParseRange(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func isOperator(op string) bool {
	for _, known := range operators {
		if op == known {
			return true
		}
	}
	return false
}

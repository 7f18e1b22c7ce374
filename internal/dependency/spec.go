// Package dependency parses and serializes the dependency lines found in a
// release's info.json, for example "? helper_mod >= 0.5.0".
package dependency

import (
	"strings"

	"github.com/furrctorio/furrctorio/internal/versioning"
)

const (
	reasonInvalidFormat = "invalid dependency format"
	reasonInvalidPrefix = "invalid prefix"
)

type Spec struct {
	Name            string
	Prefix          Prefix
	RequiredVersion *versioning.Range
}

// Parse reads one dependency line. The accepted shapes are, by token count:
//
//	2: marker name
//	3: name operator version
//	4: marker name operator version
//
// Everything else is rejected.
func Parse(line string) (Spec, error) {
	tokens := strings.Fields(line)

	switch len(tokens) {
	case 2:
		return fromTokens(line, tokens[0], tokens[1], "", "")
	case 3:
		return fromTokens(line, "", tokens[0], tokens[1], tokens[2])
	case 4:
		return fromTokens(line, tokens[0], tokens[1], tokens[2], tokens[3])
	default:
		return Spec{}, &ParseError{Line: line, Reason: reasonInvalidFormat}
	}
}

func MustParse(line string) Spec {
	spec, err := Parse(line)
	if err != nil {
		panic(err)
	}
	return spec
}

func fromTokens(line string, marker string, name string, op string, version string) (Spec, error) {
	prefix, err := ParsePrefix(marker)
	if err != nil {
		return Spec{}, &ParseError{Line: line, Reason: reasonInvalidPrefix, Err: err}
	}

	spec := Spec{Name: name, Prefix: prefix}
	if op == "" && version == "" {
		return spec, nil
	}

	requiredVersion, err := versioning.NewRange(op, version)
	if err != nil {
		return Spec{}, &ParseError{Line: line, Reason: reasonInvalidFormat, Err: err}
	}
	spec.RequiredVersion = &requiredVersion

	return spec, nil
}

// String is the inverse of Parse.
func (s Spec) String() string {
	parts := make([]string, 0, 4)
	if s.Prefix != Required {
		parts = append(parts, s.Prefix.Marker())
	}
	parts = append(parts, s.Name)
	if s.RequiredVersion != nil {
		parts = append(parts, s.RequiredVersion.Op(), s.RequiredVersion.VersionText())
	}
	return strings.Join(parts, " ")
}

func (s Spec) Equal(other Spec) bool {
	if s.Name != other.Name || s.Prefix != other.Prefix {
		return false
	}
	if s.RequiredVersion == nil || other.RequiredVersion == nil {
		return s.RequiredVersion == nil && other.RequiredVersion == nil
	}
	return s.RequiredVersion.Equal(*other.RequiredVersion)
}

func (s Spec) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Spec) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Package modfilename validates the archive names the mod portal hands out
// before they are used as paths inside the mod folder.
package modfilename

import "strings"

const archiveExtension = ".zip"

type ErrorReason string

const (
	ReasonEmpty       ErrorReason = "empty"
	ReasonDriveLetter ErrorReason = "drive_letter"
	ReasonUNCPath     ErrorReason = "unc_path"
	ReasonSeparator   ErrorReason = "path_separator"
	ReasonDotName     ErrorReason = "dot_name"
	ReasonExtension   ErrorReason = "extension"
	ReasonModName     ErrorReason = "mod_name"
)

type Error struct {
	Value  string
	Reason ErrorReason
}

func (err Error) Error() string {
	if err.Value == "" {
		return "invalid archive name: " + string(err.Reason)
	}
	return "invalid archive name " + err.Value + ": " + string(err.Reason)
}

// Normalize trims value and accepts it only as a bare .zip file name. Both
// separators are refused on every platform since the name comes from the
// network.
func Normalize(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	switch {
	case trimmed == "":
		return "", Error{Value: trimmed, Reason: ReasonEmpty}
	case hasUNCPath(trimmed):
		return "", Error{Value: trimmed, Reason: ReasonUNCPath}
	case hasDriveLetter(trimmed):
		return "", Error{Value: trimmed, Reason: ReasonDriveLetter}
	case strings.ContainsAny(trimmed, `/\`):
		return "", Error{Value: trimmed, Reason: ReasonSeparator}
	case trimmed == "." || trimmed == "..":
		return "", Error{Value: trimmed, Reason: ReasonDotName}
	case !strings.EqualFold(extension(trimmed), archiveExtension):
		return "", Error{Value: trimmed, Reason: ReasonExtension}
	}
	return trimmed, nil
}

// ForMod is Normalize plus the portal's "<mod>_<version>.zip" naming.
func ForMod(modName string, value string) (string, error) {
	name, err := Normalize(value)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(name, modName+"_") {
		return "", Error{Value: name, Reason: ReasonModName}
	}
	return name, nil
}

func Display(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "(empty)"
	}
	return trimmed
}

func extension(value string) string {
	if i := strings.LastIndexByte(value, '.'); i >= 0 {
		return value[i:]
	}
	return ""
}

func hasUNCPath(value string) bool {
	return strings.HasPrefix(value, `\\`) || strings.HasPrefix(value, "//")
}

func hasDriveLetter(value string) bool {
	if len(value) < 2 {
		return false
	}
	return isASCIIAlpha(value[0]) && value[1] == ':'
}

func isASCIIAlpha(value byte) bool {
	return (value >= 'a' && value <= 'z') || (value >= 'A' && value <= 'Z')
}

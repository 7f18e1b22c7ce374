package perf

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const ExportFilename = "furr-perf.json"

// ExportToFile writes the spans as JSON to <outDir>/furr-perf.json. Absolute
// paths in path-like attributes are rewritten relative to baseDir so the file
// can be shared.
//
// The export is a diagnostic artifact; callers treat errors as non-fatal.
func ExportToFile(fs afero.Fs, outDir string, baseDir string, spans []SpanSnapshot) (string, error) {
	if outDir == "" {
		outDir = "."
	}

	normalized := make([]SpanSnapshot, 0, len(spans))
	for _, span := range spans {
		span.Attributes = normalizeAttributes(span.Attributes, baseDir)
		normalized = append(normalized, span)
	}

	if err := fs.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(normalized, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(outDir, ExportFilename)
	return path, afero.WriteFile(fs, path, data, 0644)
}

func normalizeAttributes(attrs map[string]interface{}, baseDir string) map[string]interface{} {
	if len(attrs) == 0 {
		return attrs
	}

	normalized := make(map[string]interface{}, len(attrs))
	for key, value := range attrs {
		normalized[key] = normalizeValue(key, value, baseDir)
	}
	return normalized
}

func normalizeValue(key string, value interface{}, baseDir string) interface{} {
	stringValue, ok := value.(string)
	if !ok || !looksLikePathKey(key) {
		return value
	}

	if baseDir != "" && filepath.IsAbs(stringValue) {
		if rel, err := filepath.Rel(baseDir, stringValue); err == nil {
			return exportPath(rel)
		}
	}
	return exportPath(stringValue)
}

func looksLikePathKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	return key == "path" || strings.HasSuffix(key, "_path") || strings.HasSuffix(key, "_folder")
}

func exportPath(value string) string {
	cleaned := filepath.Clean(value)
	if cleaned != "." {
		cleaned = strings.TrimPrefix(cleaned, "./")
	}
	return filepath.ToSlash(cleaned)
}

package release

import (
	"crypto/sha1" // #nosec G505 -- the portal publishes sha1 checksums only
	"encoding/hex"
	"strings"
)

// Checksum is the lowercase hex SHA-1 of data.
func Checksum(data []byte) string {
	sum := sha1.Sum(data) // #nosec G401
	return hex.EncodeToString(sum[:])
}

// Verify reports whether data hashes to the declared checksum. The declared
// value is compared case-insensitively.
func Verify(data []byte, declared string) bool {
	return Checksum(data) == normalize(declared)
}

// CheckIntegrity is Verify with a descriptive error for the caller to surface.
func CheckIntegrity(fileName string, data []byte, declared string) error {
	actual := Checksum(data)
	expected := normalize(declared)
	if actual != expected {
		return &IntegrityError{FileName: fileName, Expected: expected, Actual: actual}
	}
	return nil
}

func normalize(declared string) string {
	return strings.ToLower(strings.TrimSpace(declared))
}

package value

import (
	"regexp"
	"strings"
)

var unsafeIdentChars = regexp.MustCompile(`[^a-z0-9_]`)

// SanitizeColumnName derives a storage-safe column identifier from a
// user-supplied property name: lower-cased, spaces to underscores, every
// other character outside [a-z0-9_] stripped. Deterministic; two different
// names may sanitize to the same identifier, which the catalog rejects at
// property creation.
func SanitizeColumnName(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "_")
	return unsafeIdentChars.ReplaceAllString(s, "")
}

// TableName returns the physical table name for an entity class. Stable for
// the lifetime of the class.
func TableName(classID string) string {
	return "entity_" + strings.ReplaceAll(classID, "-", "_")
}

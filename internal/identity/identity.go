// Package identity derives stable identifiers for source files: the table
// name a file loads into and a deterministic UUID used for manifest rows.
package identity

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// NamespaceSourceIdentity is the fixed UUID namespace for generating
// deterministic source identities from relative paths.
//
// This constant ensures that:
//   - Relative paths always generate the same UUID across runs
//   - The namespace is unique to this tool (no collisions with other systems)
//   - Users can independently verify deterministic ID generation
var NamespaceSourceIdentity uuid.UUID

// init generates the namespace UUID from the canonical string on package load.
func init() {
	// uuid.NameSpaceURL is the standard UUID v5 namespace for URL identifiers
	NamespaceSourceIdentity = uuid.NewSHA1(uuid.NameSpaceURL, []byte("sanitize-csvs/source-identity/v1"))
}

// SourceID creates a deterministic UUID v5 from a normalized relative
// path. Manifest rows use it so that re-running a load over the same
// input keeps stable per-file identities.
//
// Path Normalization:
//  1. Convert to forward slashes
//  2. Convert to lowercase (case-insensitive identity)
//  3. Remove leading "./" prefix (consistent root reference)
func SourceID(relPath string) uuid.UUID {
	normalized := strings.ToLower(filepath.ToSlash(relPath))
	normalized = strings.TrimPrefix(normalized, "./")
	return uuid.NewSHA1(NamespaceSourceIdentity, []byte(normalized))
}

// TableName derives the table name for a source file from its base name:
// the final extension is removed and every character outside [A-Za-z0-9]
// becomes an underscore. Case is preserved; the store matches identifiers
// case-insensitively, so collision detection folds case separately.
//
// Examples:
//   - "products.csv"      → "products"
//   - "daily-report.csv"  → "daily_report"
//   - "export.v2.csv"     → "export_v2"
func TableName(filename string) string {
	base := path.Base(filepath.ToSlash(filename))
	stem := strings.TrimSuffix(base, path.Ext(base))

	var b strings.Builder
	b.Grow(len(stem))
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	name := b.String()
	if name == "" {
		// A file named exactly like the extension has no stem to work with
		name = "_"
	}
	return name
}

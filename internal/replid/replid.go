// Package replid generates the 40-hex-char replication id a primary reports
// over INFO and PSYNC, freshly at every startup.
package replid

import (
	"strings"

	"github.com/google/uuid"
)

// Generate returns a fresh 40-hex-char id. Two v4 UUIDs (32 hex chars each
// once hyphens are stripped) are concatenated and truncated to 40 — Redis's
// replid format has no internal structure to preserve, so there is nothing
// uuid-specific to leak here beyond a source of randomness already present
// in the dependency set.
func Generate() string {
	a := strings.ReplaceAll(uuid.New().String(), "-", "")
	b := strings.ReplaceAll(uuid.New().String(), "-", "")
	return (a + b)[:40]
}

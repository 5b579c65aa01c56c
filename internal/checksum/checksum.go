// Package checksum computes content digests used for ETags and catalog rows.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/starford/journal/internal/models"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Entry returns a digest identifying the rendered state of e: its eid,
// permalink, title and body.
func Entry(e *models.Entry) string {
	h := sha256.New()
	for _, part := range []string{e.Eid, e.Permalink(), e.Title, e.Content} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

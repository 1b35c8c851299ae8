// internal/daily/daily.go
//
// Daily dice: every daily game started on the same UTC date rolls the same
// sequence. The seed is HMAC-SHA256(salt, YYYY-MM-DD), so it cannot be
// predicted without the server's salt.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns the dice seed for the UTC date of t.
func Seed(t time.Time, salt string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(t)))
	sum := h.Sum(nil)
	// first 8 bytes are plenty for a PRNG seed
	return binary.BigEndian.Uint64(sum[:8])
}

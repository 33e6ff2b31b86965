// Package id generates render job identifiers.
package id

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prefix starts every render job ID.
const Prefix = "render-"

// Generate returns a new job ID of the form render-<unix seconds>-<12 hex>,
// for example render-1701432000-9f1c2e7ab044.
func Generate() string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return Prefix + strconv.FormatInt(time.Now().Unix(), 10) + "-" + random[:12]
}

// Valid reports whether s has the shape of a generated ID.
func Valid(s string) bool {
	rest, ok := strings.CutPrefix(s, Prefix)
	if !ok {
		return false
	}
	ts, random, ok := strings.Cut(rest, "-")
	if !ok || len(random) != 12 {
		return false
	}
	if _, err := strconv.ParseInt(ts, 10, 64); err != nil {
		return false
	}
	for _, c := range random {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return false
		}
	}
	return true
}

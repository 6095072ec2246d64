package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
)

// HashKey builds a short, order-independent key part for a list of names.
func HashKey(names []string) string {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	sum := sha256.Sum256([]byte(strings.Join(sorted, "\x00")))
	return hex.EncodeToString(sum[:])
}

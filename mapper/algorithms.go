package mapper

import "strings"

const algorithmSeparator = ","

// SplitAlgorithms decodes a stored algorithm list. Segments are trimmed,
// empty ones dropped and duplicates removed keeping the first occurrence.
func SplitAlgorithms(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(s, algorithmSeparator) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}

	return out
}

// JoinAlgorithms encodes an algorithm list for storage. It normalizes the
// same way SplitAlgorithms does, so encoding is idempotent.
func JoinAlgorithms(algs []string) string {
	if len(algs) == 0 {
		return ""
	}
	return strings.Join(SplitAlgorithms(strings.Join(algs, algorithmSeparator)), algorithmSeparator)
}

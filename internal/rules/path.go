package rules

import (
	"strings"

	"github.com/vendorsafe/kestrel/internal/domain"
)

// lookupPath resolves a dotted field path (e.g. "limits.general") against a
// record. Traversal through a nil or non-map intermediate yields nil rather
// than an error, so rules over sparse COI extractions stay total.
func lookupPath(rec domain.Record, path string) any {
	if rec == nil || path == "" {
		return nil
	}

	segments := strings.Split(path, ".")
	var current any = map[string]any(rec)

	for _, seg := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = m[seg]
		if !ok {
			return nil
		}
	}

	return current
}

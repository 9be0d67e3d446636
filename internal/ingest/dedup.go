package ingest

import "noticias.lat/hub/internal/content"

// FilterNew returns the candidates whose natural key is not in existing,
// preserving input order. Keys repeated within the batch itself are kept
// once, first occurrence wins. Equality is exact string match.
func FilterNew(candidates []content.Candidate, existing map[string]struct{}) []content.Candidate {
	fresh := make([]content.Candidate, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))

	for _, c := range candidates {
		if _, known := existing[c.Key]; known {
			continue
		}
		if _, dup := seen[c.Key]; dup {
			continue
		}
		seen[c.Key] = struct{}{}
		fresh = append(fresh, c)
	}

	return fresh
}

// Keys extracts the natural keys of a candidate batch for the batched
// existence query.
func Keys(candidates []content.Candidate) []string {
	keys := make([]string, 0, len(candidates))
	for _, c := range candidates {
		keys = append(keys, c.Key)
	}
	return keys
}

package feed

import "sort"

// TopFeatures returns up to k strictly positive features ordered by score
// descending, ties broken by feature ascending.
func TopFeatures(m map[string]int, k int) []string {
	if k <= 0 || len(m) == 0 {
		return []string{}
	}
	type entry struct {
		feature string
		score   int
	}
	entries := make([]entry, 0, len(m))
	for f, s := range m {
		if s > 0 {
			entries = append(entries, entry{feature: f, score: s})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].feature < entries[j].feature
	})
	if len(entries) > k {
		entries = entries[:k]
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.feature
	}
	return out
}

package diagnoser

import "sort"

// Rank orders missing services by number of dependents, most first. Dependents
// are sorted by name; groups with equal counts are ordered by service then
// reason so the output is deterministic. The input is not modified.
func Rank(missing []MissingService) []MissingService {
	out := make([]MissingService, len(missing))
	for i, ms := range missing {
		deps := append([]string(nil), ms.Dependents...)
		sort.Strings(deps)
		ms.Dependents = deps
		out[i] = ms
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if len(a.Dependents) != len(b.Dependents) {
			return len(a.Dependents) > len(b.Dependents)
		}
		if a.Service != b.Service {
			return a.Service < b.Service
		}
		return a.Reason < b.Reason
	})
	return out
}

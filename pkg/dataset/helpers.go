package dataset

import "sort"

func distinctSorted(records []TradeRecord, key func(TradeRecord) string) []string {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[key(r)] = struct{}{}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

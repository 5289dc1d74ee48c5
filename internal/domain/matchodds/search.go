package matchodds

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Filter returns, in document order, the records whose id, local team name or away team
// name contains query case-insensitively. An empty query yields no suggestions.
func Filter(query string, records []MatchRecord) []MatchRecord {
	if query == "" || len(records) == 0 {
		return []MatchRecord{}
	}

	lower := cases.Lower(language.Und)
	needle := lower.String(query)

	out := make([]MatchRecord, 0, len(records))
	for _, record := range records {
		if matches(record, needle, lower) {
			out = append(out, record)
		}
	}
	return out
}

func matches(record MatchRecord, needle string, lower cases.Caser) bool {
	if record.Detail == nil {
		return false
	}
	if record.ID.Present() && strings.Contains(lower.String(record.ID.String()), needle) {
		return true
	}
	if name, ok := record.LocalTeamName(); ok && strings.Contains(lower.String(name), needle) {
		return true
	}
	if name, ok := record.AwayTeamName(); ok && strings.Contains(lower.String(name), needle) {
		return true
	}
	return false
}

// Hints ranks the document's team names against query with fuzzy matching.
// It is meant for empty filter results and never influences Filter.
func Hints(query string, records []MatchRecord, limit int) []string {
	query = strings.TrimSpace(query)
	if query == "" || limit <= 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(records)*2)
	names := make([]string, 0, len(records)*2)
	for _, record := range records {
		for _, pick := range []func() (string, bool){record.LocalTeamName, record.AwayTeamName} {
			name, ok := pick()
			if !ok {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	ranks := fuzzy.RankFindFold(query, names)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	out := make([]string, 0, minInt(limit, len(ranks)))
	for _, rank := range ranks {
		if len(out) == limit {
			break
		}
		out = append(out, rank.Target)
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

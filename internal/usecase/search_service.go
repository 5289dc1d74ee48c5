package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/odds-board/internal/domain/matchodds"
)

const maxSuggestionLimit = 100

// Suggestion is one entry of the search dropdown.
type Suggestion struct {
	MatchID   matchodds.Identifier
	Label     string
	LocalTeam string
	AwayTeam  string
	Date      string
}

type SearchResult struct {
	Query       string
	Suggestions []Suggestion
	Total       int
	Hints       []string
}

type SearchOptions struct {
	SuggestionLimit int
	HintLimit       int
}

type SearchService struct {
	matches matchodds.Repository
	opts    SearchOptions
	metrics Metrics
}

func NewSearchService(matches matchodds.Repository, opts SearchOptions, metrics Metrics) *SearchService {
	if opts.SuggestionLimit <= 0 {
		opts.SuggestionLimit = 20
	}
	if opts.HintLimit < 0 {
		opts.HintLimit = 0
	}
	return &SearchService{
		matches: matches,
		opts:    opts,
		metrics: metricsOrNoop(metrics),
	}
}

// Search filters the document by query. Suggestions are capped at limit (or the
// configured default) while Total reports every match. Hints are only offered when
// nothing matched.
func (s *SearchService) Search(ctx context.Context, query string, limit int) (SearchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SearchService.Search")
	defer span.End()

	if limit < 0 {
		return SearchResult{}, fmt.Errorf("%w: limit must be >= 0", ErrInvalidInput)
	}
	if limit == 0 {
		limit = s.opts.SuggestionLimit
	}
	if limit > maxSuggestionLimit {
		limit = maxSuggestionLimit
	}

	records, err := s.matches.List(ctx)
	if err != nil {
		return SearchResult{}, fmt.Errorf("list matches: %w", err)
	}

	return s.searchRecords(query, records, limit), nil
}

func (s *SearchService) searchRecords(query string, records []matchodds.MatchRecord, limit int) SearchResult {
	start := time.Now()
	found := matchodds.Filter(query, records)
	s.metrics.SearchPerformed(len(found), time.Since(start))

	result := SearchResult{
		Query:       query,
		Total:       len(found),
		Suggestions: make([]Suggestion, 0, minInt(len(found), limit)),
		Hints:       []string{},
	}
	for i, record := range found {
		if i >= limit {
			break
		}
		result.Suggestions = append(result.Suggestions, suggestionFrom(record))
	}
	if len(found) == 0 && strings.TrimSpace(query) != "" && s.opts.HintLimit > 0 {
		if hints := matchodds.Hints(query, records, s.opts.HintLimit); hints != nil {
			result.Hints = hints
		}
	}
	return result
}

func suggestionFrom(record matchodds.MatchRecord) Suggestion {
	local, ok := record.LocalTeamName()
	if !ok {
		local = matchodds.UnknownTeamName
	}
	away, ok := record.AwayTeamName()
	if !ok {
		away = matchodds.UnknownTeamName
	}
	return Suggestion{
		MatchID:   record.ID,
		Label:     matchodds.SuggestionLabel(record),
		LocalTeam: local,
		AwayTeam:  away,
		Date:      record.DisplayDate(),
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/riskibarqy/odds-board/internal/domain/countdown"
	"github.com/riskibarqy/odds-board/internal/domain/matchodds"
	"github.com/riskibarqy/odds-board/internal/domain/session"
	"github.com/riskibarqy/odds-board/internal/platform/cache"
	"github.com/riskibarqy/odds-board/internal/platform/logging"
)

const (
	MessageNoMatchSelected = "No match selected"
	MessageNoOdds          = "No odds data available"
)

type TeamHeader struct {
	Name    string
	Initial string
}

type MatchHeader struct {
	ID        matchodds.Identifier
	LocalTeam TeamHeader
	AwayTeam  TeamHeader
	Date      string
}

// Section is one market type accordion. Table is only set while expanded.
type Section struct {
	ID       string
	Label    string
	Expanded bool
	Table    *matchodds.Table
}

// Board is everything a client needs to draw the page for one view state.
type Board struct {
	Document    matchodds.DocumentState
	Query       string
	Suggestions []Suggestion
	Hints       []string
	Match       *MatchHeader
	Message     string
	Sections    []Section
	Countdown   countdown.Value
}

type BoardService struct {
	matches matchodds.Repository
	search  *SearchService
	pivots  *cache.Store[[]matchodds.Table]
	logger  *logging.Logger
	metrics Metrics
}

// NewBoardService builds the board composer. A nil pivots store disables memoization.
func NewBoardService(matches matchodds.Repository, search *SearchService, pivots *cache.Store[[]matchodds.Table], logger *logging.Logger, metrics Metrics) *BoardService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BoardService{
		matches: matches,
		search:  search,
		pivots:  pivots,
		logger:  logger,
		metrics: metricsOrNoop(metrics),
	}
}

// MatchBoard renders one match with every section expanded.
func (s *BoardService) MatchBoard(ctx context.Context, matchID matchodds.Identifier) (Board, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.MatchBoard")
	defer span.End()

	if !matchID.Present() {
		return Board{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	record, exists, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return Board{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return Board{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	state, err := session.Select(session.New(), []matchodds.MatchRecord{record}, matchID)
	if err != nil {
		return Board{}, fmt.Errorf("%w: match=%s has no details", ErrInvalidSelection, matchID)
	}

	board := Board{
		Document:    s.matches.State(ctx),
		Query:       state.Query,
		Suggestions: []Suggestion{},
		Hints:       []string{},
		Countdown:   countdown.Initial,
	}
	s.fillMatch(ctx, &board, record, state)
	return board, nil
}

// Compose renders the board for a session state.
func (s *BoardService) Compose(ctx context.Context, state session.State, cd countdown.Value) (Board, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.Compose")
	defer span.End()

	board := Board{
		Document:    s.matches.State(ctx),
		Query:       state.Query,
		Suggestions: []Suggestion{},
		Hints:       []string{},
		Countdown:   cd,
		Sections:    []Section{},
		Message:     MessageNoMatchSelected,
	}

	// An unavailable document leaves the board empty; board.Document carries the status.
	if state.QueryLive {
		result, err := s.search.Search(ctx, state.Query, 0)
		switch {
		case documentUnavailable(err):
			return board, nil
		case err != nil:
			return Board{}, err
		}
		board.Suggestions = result.Suggestions
		board.Hints = result.Hints
	}

	if !state.HasSelection() {
		return board, nil
	}
	record, exists, err := s.matches.GetByID(ctx, state.SelectedMatchID)
	switch {
	case documentUnavailable(err):
		return board, nil
	case err != nil:
		return Board{}, fmt.Errorf("get selected match: %w", err)
	}
	if !exists || record.Detail == nil {
		s.logger.WarnContext(ctx, "selected match vanished from document", "match_id", state.SelectedMatchID)
		return board, nil
	}

	s.fillMatch(ctx, &board, record, state)
	return board, nil
}

func (s *BoardService) fillMatch(ctx context.Context, board *Board, record matchodds.MatchRecord, state session.State) {
	board.Match = matchHeader(record)
	board.Message = ""
	board.Sections = []Section{}
	if !record.HasOdds() {
		board.Message = MessageNoOdds
		return
	}

	for _, table := range s.tables(ctx, record) {
		table := table
		section := Section{
			ID:       table.SectionID,
			Label:    table.Label,
			Expanded: state.IsExpanded(table.SectionID),
		}
		if section.Expanded {
			section.Table = &table
		}
		board.Sections = append(board.Sections, section)
	}
}

// tables pivots every market of the record. The document never changes after load,
// so results are memoized per match id.
func (s *BoardService) tables(ctx context.Context, record matchodds.MatchRecord) []matchodds.Table {
	if s.pivots == nil || !record.ID.Present() {
		return matchodds.PivotAll(record.Detail.Odds)
	}

	if cached, ok := s.pivots.Get(ctx, record.ID.String()); ok {
		s.metrics.PivotCacheLookup(true)
		return cached
	}
	s.metrics.PivotCacheLookup(false)

	tables, err := s.pivots.GetOrLoad(ctx, record.ID.String(), func(context.Context) ([]matchodds.Table, error) {
		return matchodds.PivotAll(record.Detail.Odds), nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "pivot cache load failed", "match_id", record.ID, "error", err)
		return matchodds.PivotAll(record.Detail.Odds)
	}
	return tables
}

func matchHeader(record matchodds.MatchRecord) *MatchHeader {
	return &MatchHeader{
		ID:        record.ID,
		LocalTeam: teamHeader(record.LocalTeamName()),
		AwayTeam:  awayHeader(record.AwayTeamName()),
		Date:      record.DisplayDate(),
	}
}

func teamHeader(name string, ok bool) TeamHeader {
	if !ok {
		return TeamHeader{Name: matchodds.HomeTeamFallback, Initial: "H"}
	}
	return TeamHeader{Name: name, Initial: initial(name)}
}

func awayHeader(name string, ok bool) TeamHeader {
	if !ok {
		return TeamHeader{Name: matchodds.AwayTeamFallback, Initial: "A"}
	}
	return TeamHeader{Name: name, Initial: initial(name)}
}

func initial(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return ""
	}
	return string(r)
}

func documentUnavailable(err error) bool {
	return errors.Is(err, ErrDocumentLoading) || errors.Is(err, ErrDocumentLoadFailed)
}

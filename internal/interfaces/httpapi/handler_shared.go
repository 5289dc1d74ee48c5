package httpapi

import (
	"time"

	"github.com/riskibarqy/odds-board/internal/domain/countdown"
	"github.com/riskibarqy/odds-board/internal/domain/matchodds"
	"github.com/riskibarqy/odds-board/internal/usecase"
)

type searchRequest struct {
	Query string `validate:"max=200"`
	Limit int    `validate:"gte=0,lte=100"`
}

type setQueryRequest struct {
	Query *string `json:"query" validate:"required,max=200"`
}

// MatchID accepts a JSON string or number, matching the document's ids.
type selectMatchRequest struct {
	MatchID any `json:"match_id" validate:"required"`
}

type healthDTO struct {
	Status   string `json:"status"`
	Document string `json:"document"`
}

type documentDTO struct {
	Status   string     `json:"status"`
	Matches  int        `json:"matches"`
	Message  string     `json:"message,omitempty"`
	LoadedAt *time.Time `json:"loaded_at,omitempty"`
}

type suggestionDTO struct {
	MatchID   string `json:"match_id"`
	Label     string `json:"label"`
	LocalTeam string `json:"local_team"`
	AwayTeam  string `json:"away_team"`
	Date      string `json:"date"`
}

type searchResultDTO struct {
	Query       string          `json:"query"`
	Suggestions []suggestionDTO `json:"suggestions"`
	Total       int             `json:"total"`
	Hints       []string        `json:"hints"`
}

type teamHeaderDTO struct {
	Name    string `json:"name"`
	Initial string `json:"initial"`
}

type matchHeaderDTO struct {
	ID        string        `json:"id"`
	LocalTeam teamHeaderDTO `json:"local_team"`
	AwayTeam  teamHeaderDTO `json:"away_team"`
	Date      string        `json:"date"`
}

type cellDTO struct {
	Value   string `json:"value"`
	Present bool   `json:"present"`
	Best    bool   `json:"best,omitempty"`
}

type rowDTO struct {
	Key       string    `json:"key"`
	Bookmaker string    `json:"bookmaker"`
	Cells     []cellDTO `json:"cells"`
}

type tableDTO struct {
	Columns []string `json:"columns"`
	Rows    []rowDTO `json:"rows"`
}

type sectionDTO struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Expanded bool      `json:"expanded"`
	Table    *tableDTO `json:"table,omitempty"`
}

type countdownDTO struct {
	Hours   int    `json:"hours"`
	Minutes int    `json:"minutes"`
	Seconds int    `json:"seconds"`
	Display string `json:"display"`
}

type boardDTO struct {
	Document    documentDTO     `json:"document"`
	Query       string          `json:"query"`
	Suggestions []suggestionDTO `json:"suggestions"`
	Hints       []string        `json:"hints"`
	Match       *matchHeaderDTO `json:"match,omitempty"`
	Message     string          `json:"message,omitempty"`
	Sections    []sectionDTO    `json:"sections"`
	Countdown   countdownDTO    `json:"countdown"`
}

type sessionDTO struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	LastSeenAt       time.Time `json:"last_seen_at"`
	ExpandedSections []string  `json:"expanded_sections"`
	Board            boardDTO  `json:"board"`
}

func documentToDTO(state matchodds.DocumentState) documentDTO {
	out := documentDTO{
		Status:  string(state.Status),
		Matches: state.Matches,
		Message: state.Message,
	}
	if !state.LoadedAt.IsZero() {
		loadedAt := state.LoadedAt
		out.LoadedAt = &loadedAt
	}
	return out
}

func suggestionsToDTO(items []usecase.Suggestion) []suggestionDTO {
	out := make([]suggestionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, suggestionDTO{
			MatchID:   item.MatchID.String(),
			Label:     item.Label,
			LocalTeam: item.LocalTeam,
			AwayTeam:  item.AwayTeam,
			Date:      item.Date,
		})
	}
	return out
}

func searchResultToDTO(result usecase.SearchResult) searchResultDTO {
	return searchResultDTO{
		Query:       result.Query,
		Suggestions: suggestionsToDTO(result.Suggestions),
		Total:       result.Total,
		Hints:       nonNilStrings(result.Hints),
	}
}

func tableToDTO(table matchodds.Table) *tableDTO {
	rows := make([]rowDTO, 0, len(table.Rows))
	for _, row := range table.Rows {
		cells := make([]cellDTO, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, cellDTO{
				Value:   cell.Display(),
				Present: cell.Present,
				Best:    cell.Best,
			})
		}
		rows = append(rows, rowDTO{Key: row.Key, Bookmaker: row.Bookmaker, Cells: cells})
	}
	return &tableDTO{
		Columns: nonNilStrings(table.Columns),
		Rows:    rows,
	}
}

func countdownToDTO(v countdown.Value) countdownDTO {
	return countdownDTO{
		Hours:   v.Hours,
		Minutes: v.Minutes,
		Seconds: v.Seconds,
		Display: v.String(),
	}
}

func boardToDTO(board usecase.Board) boardDTO {
	out := boardDTO{
		Document:    documentToDTO(board.Document),
		Query:       board.Query,
		Suggestions: suggestionsToDTO(board.Suggestions),
		Hints:       nonNilStrings(board.Hints),
		Message:     board.Message,
		Sections:    make([]sectionDTO, 0, len(board.Sections)),
		Countdown:   countdownToDTO(board.Countdown),
	}
	if board.Match != nil {
		out.Match = &matchHeaderDTO{
			ID:        board.Match.ID.String(),
			LocalTeam: teamHeaderDTO(board.Match.LocalTeam),
			AwayTeam:  teamHeaderDTO(board.Match.AwayTeam),
			Date:      board.Match.Date,
		}
	}
	for _, section := range board.Sections {
		item := sectionDTO{
			ID:       section.ID,
			Label:    section.Label,
			Expanded: section.Expanded,
		}
		if section.Table != nil {
			item.Table = tableToDTO(*section.Table)
		}
		out.Sections = append(out.Sections, item)
	}
	return out
}

func sessionToDTO(view usecase.SessionView) sessionDTO {
	return sessionDTO{
		ID:               view.ID,
		CreatedAt:        view.CreatedAt,
		LastSeenAt:       view.LastSeenAt,
		ExpandedSections: nonNilStrings(view.Expanded),
		Board:            boardToDTO(view.Board),
	}
}

func nonNilStrings(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

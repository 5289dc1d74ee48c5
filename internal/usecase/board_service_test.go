package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/odds-board/internal/domain/countdown"
	"github.com/riskibarqy/odds-board/internal/domain/matchodds"
	"github.com/riskibarqy/odds-board/internal/domain/session"
	"github.com/riskibarqy/odds-board/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/odds-board/internal/platform/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMetrics struct {
	noopMetrics
	pivotHits   int
	pivotMisses int
	selections  map[string]int
	toggles     int
	active      int
	subscribers int
}

func (m *countingMetrics) PivotCacheLookup(hit bool) {
	if hit {
		m.pivotHits++
		return
	}
	m.pivotMisses++
}

func (m *countingMetrics) SelectionRecorded(outcome string) {
	if m.selections == nil {
		m.selections = map[string]int{}
	}
	m.selections[outcome]++
}

func (m *countingMetrics) SectionToggled(bool)            { m.toggles++ }
func (m *countingMetrics) SessionsActive(count int)       { m.active = count }
func (m *countingMetrics) CountdownSubscribers(delta int) { m.subscribers += delta }

func newBoardService(t *testing.T, metrics Metrics) (*BoardService, *memory.MatchRepository) {
	t.Helper()
	repo := memory.NewLoadedMatchRepository(boardFixture())
	search := NewSearchService(repo, SearchOptions{SuggestionLimit: 20, HintLimit: 3}, metrics)
	return NewBoardService(repo, search, cache.NewStore[[]matchodds.Table](0), nil, metrics), repo
}

func TestBoardService_MatchBoard_AllSectionsExpanded(t *testing.T) {
	service, _ := newBoardService(t, nil)

	board, err := service.MatchBoard(context.Background(), "7")
	require.NoError(t, err)

	require.NotNil(t, board.Match)
	assert.Equal(t, "Foo", board.Match.LocalTeam.Name)
	assert.Equal(t, "F", board.Match.LocalTeam.Initial)
	assert.Equal(t, "B", board.Match.AwayTeam.Initial)
	assert.Equal(t, "Mar 10", board.Match.Date)
	assert.Equal(t, "7 - Foo vs Bar", board.Query)
	assert.Empty(t, board.Message)

	require.Len(t, board.Sections, 2)
	winner := board.Sections[0]
	assert.Equal(t, "1", winner.ID)
	assert.Equal(t, "Match Winner", winner.Label)
	assert.True(t, winner.Expanded)
	require.NotNil(t, winner.Table)
	assert.Equal(t, []string{"1", "X", "2"}, winner.Table.Columns)
	require.Len(t, winner.Table.Rows, 2)
	assert.Equal(t, matchodds.MissingCell, winner.Table.Rows[1].Cells[0].Display())
	assert.True(t, winner.Table.Rows[1].Cells[1].Best)
	assert.True(t, winner.Table.Rows[0].Cells[2].Best)

	totals := board.Sections[1]
	assert.Equal(t, "~1", totals.ID)
	require.NotNil(t, totals.Table)
	assert.Equal(t, matchodds.MissingValue, totals.Table.Rows[0].Cells[1].Display())
}

func TestBoardService_MatchBoard_Errors(t *testing.T) {
	service, _ := newBoardService(t, nil)

	_, err := service.MatchBoard(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

	_, err = service.MatchBoard(context.Background(), "9")
	assert.True(t, errors.Is(err, ErrInvalidSelection), "got %v", err)

	_, err = service.MatchBoard(context.Background(), "")
	assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)

	loading := memory.NewMatchRepository()
	pending := NewBoardService(loading, NewSearchService(loading, SearchOptions{}, nil), nil, nil, nil)
	_, err = pending.MatchBoard(context.Background(), "7")
	assert.True(t, errors.Is(err, ErrDocumentLoading), "got %v", err)
}

func TestBoardService_Compose(t *testing.T) {
	metrics := &countingMetrics{}
	service, repo := newBoardService(t, metrics)
	ctx := context.Background()

	t.Run("no selection with live query", func(t *testing.T) {
		state := session.SetQuery(session.New(), "fo")
		board, err := service.Compose(ctx, state, countdown.Initial)
		require.NoError(t, err)
		assert.Equal(t, MessageNoMatchSelected, board.Message)
		assert.Nil(t, board.Match)
		require.Len(t, board.Suggestions, 1)
		assert.Equal(t, matchodds.Identifier("7"), board.Suggestions[0].MatchID)
		assert.Equal(t, "03:05:16", board.Countdown.String())
		assert.Equal(t, matchodds.LoadStatusReady, board.Document.Status)
	})

	t.Run("collapsed section hides its table", func(t *testing.T) {
		records, err := repo.List(ctx)
		require.NoError(t, err)
		state, err := session.Select(session.New(), records, "7")
		require.NoError(t, err)
		state = session.Toggle(state, "1")

		board, err := service.Compose(ctx, state, countdown.Initial)
		require.NoError(t, err)
		assert.Empty(t, board.Suggestions)
		require.Len(t, board.Sections, 2)
		assert.False(t, board.Sections[0].Expanded)
		assert.Nil(t, board.Sections[0].Table)
		assert.True(t, board.Sections[1].Expanded)
	})

	t.Run("match without odds", func(t *testing.T) {
		records, err := repo.List(ctx)
		require.NoError(t, err)
		state, err := session.Select(session.New(), records, "8")
		require.NoError(t, err)

		board, err := service.Compose(ctx, state, countdown.Initial)
		require.NoError(t, err)
		assert.Equal(t, MessageNoOdds, board.Message)
		assert.Equal(t, matchodds.HomeTeamFallback, board.Match.LocalTeam.Name)
		assert.Equal(t, "H", board.Match.LocalTeam.Initial)
		assert.Equal(t, matchodds.UnknownDate, board.Match.Date)
		assert.Empty(t, board.Sections)
	})

	assert.Equal(t, 1, metrics.pivotMisses)
	assert.Equal(t, 0, metrics.pivotHits)
}

func TestBoardService_PivotsAreMemoizedPerMatch(t *testing.T) {
	metrics := &countingMetrics{}
	service, _ := newBoardService(t, metrics)

	for i := 0; i < 3; i++ {
		_, err := service.MatchBoard(context.Background(), "7")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, metrics.pivotMisses)
	assert.Equal(t, 2, metrics.pivotHits)
}

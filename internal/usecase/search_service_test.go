package usecase

import (
	"context"
	"errors"
	"testing"

	matchoddsmock "github.com/riskibarqy/odds-board/internal/mocks/domain/matchodds"
	"github.com/stretchr/testify/mock"
)

func TestSearchService_Search_SuggestionsUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := matchoddsmock.NewRepository(t)
	repo.On("List", mock.Anything).Return(boardFixture(), nil).Once()

	service := NewSearchService(repo, SearchOptions{SuggestionLimit: 20, HintLimit: 3}, nil)
	got, err := service.Search(ctx, "ba", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got.Total != 3 || len(got.Suggestions) != 3 {
		t.Fatalf("unexpected result: total=%d suggestions=%d", got.Total, len(got.Suggestions))
	}
	first := got.Suggestions[0]
	if first.MatchID != "7" || first.Label != "7 - Foo vs Bar" || first.Date != "Mar 10" {
		t.Fatalf("unexpected first suggestion: %+v", first)
	}
	second := got.Suggestions[1]
	if second.LocalTeam != "Unknown" || second.Date != "Unknown date" || second.Label != "8 - Unknown vs Baz" {
		t.Fatalf("unexpected fallback suggestion: %+v", second)
	}
	if len(got.Hints) != 0 {
		t.Fatalf("expected no hints when matches exist, got %v", got.Hints)
	}
}

func TestSearchService_Search_LimitAndHints(t *testing.T) {
	t.Parallel()

	repo := matchoddsmock.NewRepository(t)
	repo.On("List", mock.Anything).Return(boardFixture(), nil)

	service := NewSearchService(repo, SearchOptions{SuggestionLimit: 20, HintLimit: 3}, nil)

	got, err := service.Search(context.Background(), "ba", 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got.Total != 3 || len(got.Suggestions) != 1 {
		t.Fatalf("expected truncated suggestions, got total=%d len=%d", got.Total, len(got.Suggestions))
	}

	got, err = service.Search(context.Background(), "rl mdrd", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got.Total != 0 {
		t.Fatalf("expected no filter matches, got %d", got.Total)
	}
	if len(got.Hints) == 0 || got.Hints[0] != "Real Madrid" {
		t.Fatalf("expected Real Madrid hint, got %v", got.Hints)
	}

	got, err = service.Search(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got.Total != 0 || len(got.Suggestions) != 0 || len(got.Hints) != 0 {
		t.Fatalf("expected empty result for empty query, got %+v", got)
	}
}

func TestSearchService_Search_Errors(t *testing.T) {
	t.Parallel()

	repo := matchoddsmock.NewRepository(t)
	service := NewSearchService(repo, SearchOptions{}, nil)
	if _, err := service.Search(context.Background(), "x", -1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	repo.On("List", mock.Anything).Return(nil, ErrDocumentLoading).Once()
	if _, err := service.Search(context.Background(), "x", 0); !errors.Is(err, ErrDocumentLoading) {
		t.Fatalf("expected ErrDocumentLoading, got %v", err)
	}
}

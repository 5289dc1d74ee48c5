package document

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/riskibarqy/odds-board/internal/domain/matchodds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
  "data": [
    {
      "id": 7,
      "matches": {"match": {
        "date": "Mar 10",
        "localteam": {"name": "Foo"},
        "awayteam": {"name": "Bar"},
        "odds": {"type": [
          {"id": "1", "value": "Match Winner", "bookmaker": [
            {"id": 10, "name": "b1", "odd": [{"name": "1", "value": "2.1"}, {"name": "X", "value": "3.2"}, {"name": "2"}]},
            {"name": "b2", "odd": "broken"},
            null
          ]},
          {"value": "Totals"},
          "garbage"
        ]}
      }}
    },
    {"id": "8", "matches": {}},
    null,
    {"id": "9", "matches": {"match": {"localteam": "nope", "awayteam": {"name": 3}}}}
  ]
}`

func TestDecoder_NormalizesTolerantly(t *testing.T) {
	records, err := NewDecoder(1).Decode(context.Background(), []byte(sampleDocument))
	require.NoError(t, err)
	require.Len(t, records, 4)

	first := records[0]
	assert.Equal(t, matchodds.Identifier("7"), first.ID)
	require.NotNil(t, first.Detail)
	assert.Equal(t, "Mar 10", first.Detail.Date)
	name, ok := first.LocalTeamName()
	assert.True(t, ok)
	assert.Equal(t, "Foo", name)

	odds := first.Detail.Odds
	require.True(t, odds.Valid)
	require.Len(t, odds.Markets, 3)

	winner := odds.Markets[0]
	assert.Equal(t, matchodds.Identifier("1"), winner.ID)
	assert.Equal(t, "Match Winner", winner.Label)
	require.True(t, winner.BookmakersValid)
	require.Len(t, winner.Bookmakers, 3)
	assert.Equal(t, matchodds.Identifier("10"), winner.Bookmakers[0].ID)
	assert.True(t, winner.Bookmakers[0].OddsValid)
	assert.False(t, winner.Bookmakers[0].Odds[2].HasValue)
	assert.False(t, winner.Bookmakers[1].OddsValid)
	assert.False(t, winner.Bookmakers[2].OddsValid)

	assert.False(t, odds.Markets[1].BookmakersValid)
	assert.Equal(t, matchodds.MarketType{}, odds.Markets[2])

	assert.Equal(t, matchodds.Identifier("8"), records[1].ID)
	assert.Nil(t, records[1].Detail)
	assert.Equal(t, matchodds.MatchRecord{}, records[2])

	require.NotNil(t, records[3].Detail)
	assert.Nil(t, records[3].Detail.LocalTeam)
	away, ok := records[3].AwayTeamName()
	assert.True(t, ok)
	assert.Equal(t, "3", away)
	assert.False(t, records[3].Detail.Odds.Valid)
}

func TestDecoder_TopLevelShapes(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		wantLen int
	}{
		{name: "null", raw: "null", wantErr: true},
		{name: "empty", raw: "  ", wantErr: true},
		{name: "unparseable", raw: "{data:", wantErr: true},
		{name: "array top level", raw: `[1,2]`, wantLen: 0},
		{name: "missing data", raw: `{"other": []}`, wantLen: 0},
		{name: "non array data", raw: `{"data": {"id": 1}}`, wantLen: 0},
		{name: "empty data", raw: `{"data": []}`, wantLen: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			records, err := NewDecoder(1).Decode(context.Background(), []byte(tc.raw))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if records == nil || len(records) != tc.wantLen {
				t.Fatalf("expected %d records, got %v", tc.wantLen, records)
			}
		})
	}
}

func TestDecoder_ParallelKeepsDocumentOrder(t *testing.T) {
	const n = 1000
	items := make([]string, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, fmt.Sprintf(`{"id": %d, "matches": {"match": {"localteam": {"name": "Team %d"}}}}`, i, i))
	}
	raw := `{"data": [` + strings.Join(items, ",") + `]}`

	records, err := NewDecoder(8).Decode(context.Background(), []byte(raw))
	require.NoError(t, err)
	require.Len(t, records, n)
	for i, record := range records {
		if record.ID != matchodds.Identifier(fmt.Sprint(i)) {
			t.Fatalf("record %d has id %q", i, record.ID)
		}
	}
}

func TestDecoder_PreservesLargeNumericIDs(t *testing.T) {
	records, err := NewDecoder(1).Decode(context.Background(), []byte(`{"data": [{"id": 90071992547409931}]}`))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, matchodds.Identifier("90071992547409931"), records[0].ID)
}

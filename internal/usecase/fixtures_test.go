package usecase

import (
	"github.com/riskibarqy/odds-board/internal/domain/matchodds"
)

func namedTeam(name string) *matchodds.Team {
	return &matchodds.Team{Name: name, HasName: true}
}

func odd(name, value string) matchodds.OddEntry {
	return matchodds.OddEntry{Name: name, HasName: true, Value: value, HasValue: true}
}

// boardFixture has one fully populated match, one without odds, one without details
// and one with a market lacking bookmakers.
func boardFixture() []matchodds.MatchRecord {
	return []matchodds.MatchRecord{
		{
			ID: "7",
			Detail: &matchodds.MatchDetail{
				LocalTeam: namedTeam("Foo"),
				AwayTeam:  namedTeam("Bar"),
				Date:      "Mar 10",
				Odds: matchodds.OddsSet{
					Valid: true,
					Markets: []matchodds.MarketType{
						{
							ID:              "1",
							Label:           "Match Winner",
							BookmakersValid: true,
							Bookmakers: []matchodds.Bookmaker{
								{ID: "b1", Name: "Book One", OddsValid: true, Odds: []matchodds.OddEntry{odd("1", "2.10"), odd("X", "3.2"), odd("2", "3.5")}},
								{ID: "b2", Name: "Book Two", OddsValid: true, Odds: []matchodds.OddEntry{odd("X", "3.4"), odd("2", "3.1")}},
							},
						},
						{
							Label:           "Totals",
							BookmakersValid: true,
							Bookmakers: []matchodds.Bookmaker{
								{Name: "Book One", OddsValid: true, Odds: []matchodds.OddEntry{odd("Over 2.5", "1.9"), {Name: "Under 2.5", HasName: true}}},
							},
						},
						{ID: "99", Label: "Broken"},
					},
				},
			},
		},
		{
			ID: "8",
			Detail: &matchodds.MatchDetail{
				AwayTeam: namedTeam("Baz"),
			},
		},
		{ID: "9"},
		{
			ID: "10",
			Detail: &matchodds.MatchDetail{
				LocalTeam: namedTeam("Real Madrid"),
				AwayTeam:  namedTeam("Barcelona"),
			},
		},
	}
}

package matchodds

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	UnknownTeamName  = "Unknown"
	UnknownBookmaker = "Unknown"
	UnknownDate      = "Unknown date"
	HomeTeamFallback = "Home Team"
	AwayTeamFallback = "Away Team"
	MissingCell      = "-"
	MissingValue     = "N/A"
)

// Identifier is an opaque id token from the source document.
// The zero value means the id was absent.
type Identifier string

func (id Identifier) Present() bool {
	return id != ""
}

func (id Identifier) String() string {
	return string(id)
}

// IdentifierFrom converts a decoded JSON value into an Identifier.
// Strings are kept verbatim, numbers are stringified, anything else is absent.
func IdentifierFrom(raw any) Identifier {
	switch typed := raw.(type) {
	case string:
		return Identifier(typed)
	case json.Number:
		return Identifier(typed.String())
	case float64:
		return Identifier(strconv.FormatFloat(typed, 'f', -1, 64))
	case int:
		return Identifier(strconv.Itoa(typed))
	case int64:
		return Identifier(strconv.FormatInt(typed, 10))
	default:
		return ""
	}
}

// MatchRecord is one entry of the document's data sequence.
type MatchRecord struct {
	ID     Identifier
	Detail *MatchDetail
}

// MatchDetail holds the teams, date and odds of a match. Any part may be absent.
type MatchDetail struct {
	LocalTeam *Team
	AwayTeam  *Team
	Date      string
	Odds      OddsSet
}

type Team struct {
	Name    string
	HasName bool
}

// OddsSet is the ordered market type list of a match.
// Valid is false when the source had no proper sequence.
type OddsSet struct {
	Markets []MarketType
	Valid   bool
}

type MarketType struct {
	ID              Identifier
	Label           string
	Bookmakers      []Bookmaker
	BookmakersValid bool
}

type Bookmaker struct {
	ID        Identifier
	Name      string
	Odds      []OddEntry
	OddsValid bool
}

type OddEntry struct {
	Name     string
	HasName  bool
	Value    string
	HasValue bool
}

func (r MatchRecord) LocalTeamName() (string, bool) {
	if r.Detail == nil {
		return "", false
	}
	return r.Detail.LocalTeam.name()
}

func (r MatchRecord) AwayTeamName() (string, bool) {
	if r.Detail == nil {
		return "", false
	}
	return r.Detail.AwayTeam.name()
}

func (t *Team) name() (string, bool) {
	if t == nil || !t.HasName || t.Name == "" {
		return "", false
	}
	return t.Name, true
}

// DisplayDate returns the match date or the unknown-date placeholder.
func (r MatchRecord) DisplayDate() string {
	if r.Detail == nil || strings.TrimSpace(r.Detail.Date) == "" {
		return UnknownDate
	}
	return r.Detail.Date
}

// HasOdds reports whether the match carries at least one market type.
func (r MatchRecord) HasOdds() bool {
	return r.Detail != nil && r.Detail.Odds.Valid && len(r.Detail.Odds.Markets) > 0
}

// SuggestionLabel renders "<id> - <local> vs <away>" with Unknown fallbacks.
func SuggestionLabel(r MatchRecord) string {
	local, ok := r.LocalTeamName()
	if !ok {
		local = UnknownTeamName
	}
	away, ok := r.AwayTeamName()
	if !ok {
		away = UnknownTeamName
	}
	return r.ID.String() + " - " + local + " vs " + away
}

// FindByID returns the first record with the given id that has details, falling back
// to the first record with that id.
func FindByID(records []MatchRecord, id Identifier) (MatchRecord, bool) {
	if !id.Present() {
		return MatchRecord{}, false
	}
	var (
		first MatchRecord
		found bool
	)
	for _, record := range records {
		if record.ID != id {
			continue
		}
		if record.Detail != nil {
			return record, true
		}
		if !found {
			first, found = record, true
		}
	}
	return first, found
}

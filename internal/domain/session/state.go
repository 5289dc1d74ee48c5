package session

import (
	"errors"
	"sort"

	"github.com/riskibarqy/odds-board/internal/domain/matchodds"
)

// ErrInvalidSelection is returned when a selection targets an unknown match or one
// without match details.
var ErrInvalidSelection = errors.New("invalid selection")

// SectionKey scopes a market section id to the match it belongs to.
type SectionKey struct {
	MatchID   matchodds.Identifier
	SectionID string
}

// State is the per-session view state. Transitions return a new value and never
// mutate their input.
type State struct {
	Query           string
	QueryLive       bool
	SelectedMatchID matchodds.Identifier
	expanded        map[SectionKey]struct{}
}

func New() State {
	return State{expanded: map[SectionKey]struct{}{}}
}

// SetQuery records a typed query; typing clears the current selection.
func SetQuery(s State, query string) State {
	next := s.clone()
	next.Query = query
	next.QueryLive = true
	next.SelectedMatchID = ""
	return next
}

// Select picks a match, clears live suggestions and expands every section of the match.
func Select(s State, records []matchodds.MatchRecord, matchID matchodds.Identifier) (State, error) {
	record, ok := matchodds.FindByID(records, matchID)
	if !ok || record.Detail == nil {
		return s, ErrInvalidSelection
	}

	next := State{
		Query:           matchodds.SuggestionLabel(record),
		QueryLive:       false,
		SelectedMatchID: record.ID,
		expanded:        map[SectionKey]struct{}{},
	}
	for _, sectionID := range matchodds.SectionIDs(record.Detail.Odds) {
		next.expanded[SectionKey{MatchID: record.ID, SectionID: sectionID}] = struct{}{}
	}
	return next, nil
}

// Toggle flips the expansion of sectionID for the selected match. Without a selection
// the state is returned unchanged.
func Toggle(s State, sectionID string) State {
	if !s.HasSelection() {
		return s
	}
	next := s.clone()
	key := SectionKey{MatchID: s.SelectedMatchID, SectionID: sectionID}
	if _, ok := next.expanded[key]; ok {
		delete(next.expanded, key)
	} else {
		next.expanded[key] = struct{}{}
	}
	return next
}

// IsExpanded reports whether sectionID of the selected match is expanded.
func (s State) IsExpanded(sectionID string) bool {
	_, ok := s.expanded[SectionKey{MatchID: s.SelectedMatchID, SectionID: sectionID}]
	return ok
}

// ExpandedSections lists the expanded section ids of the selected match, sorted.
func (s State) ExpandedSections() []string {
	out := make([]string, 0, len(s.expanded))
	for key := range s.expanded {
		if key.MatchID == s.SelectedMatchID {
			out = append(out, key.SectionID)
		}
	}
	sort.Strings(out)
	return out
}

func (s State) HasSelection() bool {
	return s.SelectedMatchID.Present()
}

func (s State) clone() State {
	next := s
	next.expanded = make(map[SectionKey]struct{}, len(s.expanded))
	for key := range s.expanded {
		next.expanded[key] = struct{}{}
	}
	return next
}

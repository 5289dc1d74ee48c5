package matchodds

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Table is the dense bookmaker x outcome grid of one market type.
type Table struct {
	SectionID string
	Label     string
	Columns   []string
	Rows      []Row
}

type Row struct {
	Key       string
	Bookmaker string
	Cells     []Cell
}

// Cell is aligned with Table.Columns.
type Cell struct {
	Present  bool
	Value    string
	HasValue bool
	Best     bool
}

// Display renders the cell, using placeholders for missing data.
func (c Cell) Display() string {
	if !c.Present {
		return MissingCell
	}
	if !c.HasValue || c.Value == "" {
		return MissingValue
	}
	return c.Value
}

// SectionID identifies a market type within its match: its id, or "~<index>".
func SectionID(market MarketType, index int) string {
	if market.ID.Present() {
		return market.ID.String()
	}
	return "~" + strconv.Itoa(index)
}

// SectionLabel is the market header text.
func SectionLabel(market MarketType, index int) string {
	if market.Label != "" {
		return market.Label
	}
	return "Odds Type " + strconv.Itoa(index+1)
}

// Pivot turns a market type into a Table. ok is false when the market has no proper
// bookmaker sequence; callers skip such markets.
func Pivot(market MarketType, index int) (Table, bool) {
	if !market.BookmakersValid {
		return Table{}, false
	}

	sectionID := SectionID(market, index)
	columns := newOrderedSet()
	for _, bm := range market.Bookmakers {
		if !bm.OddsValid {
			continue
		}
		for _, odd := range bm.Odds {
			if odd.HasName && odd.Name != "" {
				columns.Add(odd.Name)
			}
		}
	}

	names := columns.Values()
	rows := make([]Row, 0, len(market.Bookmakers))
	for bmIndex, bm := range market.Bookmakers {
		if !bm.OddsValid {
			continue
		}
		rows = append(rows, Row{
			Key:       rowKey(sectionID, bm, bmIndex),
			Bookmaker: bookmakerDisplayName(bm),
			Cells:     pivotCells(bm.Odds, names),
		})
	}

	markBest(rows, columns.Len())

	return Table{
		SectionID: sectionID,
		Label:     SectionLabel(market, index),
		Columns:   names,
		Rows:      rows,
	}, true
}

// PivotAll pivots every market of a match, skipping markets without bookmakers.
func PivotAll(odds OddsSet) []Table {
	if !odds.Valid {
		return nil
	}
	out := make([]Table, 0, len(odds.Markets))
	for i, market := range odds.Markets {
		table, ok := Pivot(market, i)
		if !ok {
			continue
		}
		out = append(out, table)
	}
	return out
}

// SectionIDs lists the section id of every market of a match in order.
func SectionIDs(odds OddsSet) []string {
	if !odds.Valid {
		return nil
	}
	out := make([]string, 0, len(odds.Markets))
	for i, market := range odds.Markets {
		out = append(out, SectionID(market, i))
	}
	return out
}

func pivotCells(odds []OddEntry, columns []string) []Cell {
	cells := make([]Cell, len(columns))
	for i, column := range columns {
		for _, odd := range odds {
			if odd.HasName && odd.Name == column {
				cells[i] = Cell{Present: true, Value: odd.Value, HasValue: odd.HasValue}
				break
			}
		}
	}
	return cells
}

// markBest flags, per column, the cells holding the highest decimal price.
func markBest(rows []Row, columns int) {
	for col := 0; col < columns; col++ {
		var best decimal.Decimal
		found := false
		for _, row := range rows {
			price, ok := cellPrice(row.Cells[col])
			if !ok {
				continue
			}
			if !found || price.GreaterThan(best) {
				best = price
				found = true
			}
		}
		if !found {
			continue
		}
		for _, row := range rows {
			if price, ok := cellPrice(row.Cells[col]); ok && price.Equal(best) {
				row.Cells[col].Best = true
			}
		}
	}
}

func cellPrice(cell Cell) (decimal.Decimal, bool) {
	if !cell.Present || !cell.HasValue || cell.Value == "" {
		return decimal.Decimal{}, false
	}
	price, err := decimal.NewFromString(cell.Value)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return price, true
}

func rowKey(sectionID string, bm Bookmaker, index int) string {
	label := bm.ID.String()
	if !bm.ID.Present() {
		label = bm.Name
	}
	return sectionID + "-" + label + "-" + strconv.Itoa(index)
}

func bookmakerDisplayName(bm Bookmaker) string {
	if bm.Name != "" {
		return bm.Name
	}
	if bm.ID.Present() {
		return bm.ID.String()
	}
	return UnknownBookmaker
}

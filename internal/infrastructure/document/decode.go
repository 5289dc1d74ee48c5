package document

import (
	"bytes"
	"context"
	"sync"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/odds-board/internal/domain/matchodds"
)

// numberPreserving keeps numeric ids verbatim instead of rounding them through float64.
var numberPreserving = sonic.Config{UseNumber: true}.Froze()

// minParallelRecords is the record count below which normalization stays inline.
const minParallelRecords = 256

var errNullDocument = crerr.New("document is null")

// Decoder turns a raw document into match records. Structural damage inside records
// degrades to absent fields; only an unreadable top level is an error.
type Decoder struct {
	workers int
}

func NewDecoder(workers int) *Decoder {
	if workers < 1 {
		workers = 1
	}
	return &Decoder{workers: workers}
}

func (d *Decoder) Decode(ctx context.Context, raw []byte) ([]matchodds.MatchRecord, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, crerr.New("document is empty")
	}

	var root any
	if err := numberPreserving.Unmarshal(raw, &root); err != nil {
		return nil, crerr.Wrap(err, "parse document")
	}
	if root == nil {
		return nil, errNullDocument
	}

	obj, ok := root.(map[string]any)
	if !ok {
		return []matchodds.MatchRecord{}, nil
	}
	items, ok := obj["data"].([]any)
	if !ok {
		return []matchodds.MatchRecord{}, nil
	}

	records := make([]matchodds.MatchRecord, len(items))
	if d.workers == 1 || len(items) < minParallelRecords {
		for i, item := range items {
			records[i] = normalizeRecord(item)
		}
		return records, nil
	}

	if err := d.normalizeParallel(ctx, items, records); err != nil {
		return nil, err
	}
	return records, nil
}

// normalizeParallel fills records in place; each worker owns a disjoint index range.
func (d *Decoder) normalizeParallel(ctx context.Context, items []any, records []matchodds.MatchRecord) error {
	pool, err := ants.NewPool(d.workers)
	if err != nil {
		return crerr.Wrap(err, "create normalize pool")
	}
	defer pool.Release()

	chunk := (len(items) + d.workers - 1) / d.workers
	var workers sync.WaitGroup
	for start := 0; start < len(items); start += chunk {
		if err := ctx.Err(); err != nil {
			workers.Wait()
			return err
		}
		end := start + chunk
		if end > len(items) {
			end = len(items)
		}
		lo, hi := start, end
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			for i := lo; i < hi; i++ {
				records[i] = normalizeRecord(items[i])
			}
		}); err != nil {
			workers.Done()
			workers.Wait()
			return crerr.Wrap(err, "submit normalize task")
		}
	}
	workers.Wait()
	return nil
}

func normalizeRecord(raw any) matchodds.MatchRecord {
	obj, ok := raw.(map[string]any)
	if !ok {
		return matchodds.MatchRecord{}
	}

	record := matchodds.MatchRecord{ID: matchodds.IdentifierFrom(obj["id"])}
	matches, ok := obj["matches"].(map[string]any)
	if !ok {
		return record
	}
	match, ok := matches["match"].(map[string]any)
	if !ok {
		return record
	}

	date, _ := getString(match, "date")
	record.Detail = &matchodds.MatchDetail{
		LocalTeam: normalizeTeam(match["localteam"]),
		AwayTeam:  normalizeTeam(match["awayteam"]),
		Date:      date,
		Odds:      normalizeOdds(match["odds"]),
	}
	return record
}

func normalizeTeam(raw any) *matchodds.Team {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	name, ok := getString(obj, "name")
	return &matchodds.Team{Name: name, HasName: ok}
}

func normalizeOdds(raw any) matchodds.OddsSet {
	obj, ok := raw.(map[string]any)
	if !ok {
		return matchodds.OddsSet{}
	}
	types, ok := obj["type"].([]any)
	if !ok {
		return matchodds.OddsSet{}
	}

	markets := make([]matchodds.MarketType, 0, len(types))
	for _, item := range types {
		markets = append(markets, normalizeMarket(item))
	}
	return matchodds.OddsSet{Markets: markets, Valid: true}
}

// normalizeMarket keeps a slot for every market, even a broken one, so ordinal
// section ids stay aligned with the source positions.
func normalizeMarket(raw any) matchodds.MarketType {
	obj, ok := raw.(map[string]any)
	if !ok {
		return matchodds.MarketType{}
	}

	label, _ := getString(obj, "value")
	market := matchodds.MarketType{
		ID:    matchodds.IdentifierFrom(obj["id"]),
		Label: label,
	}
	bookmakers, ok := obj["bookmaker"].([]any)
	if !ok {
		return market
	}

	market.BookmakersValid = true
	market.Bookmakers = make([]matchodds.Bookmaker, 0, len(bookmakers))
	for _, item := range bookmakers {
		market.Bookmakers = append(market.Bookmakers, normalizeBookmaker(item))
	}
	return market
}

func normalizeBookmaker(raw any) matchodds.Bookmaker {
	obj, ok := raw.(map[string]any)
	if !ok {
		return matchodds.Bookmaker{}
	}

	name, _ := getString(obj, "name")
	bookmaker := matchodds.Bookmaker{
		ID:   matchodds.IdentifierFrom(obj["id"]),
		Name: name,
	}
	odds, ok := obj["odd"].([]any)
	if !ok {
		return bookmaker
	}

	bookmaker.OddsValid = true
	bookmaker.Odds = make([]matchodds.OddEntry, 0, len(odds))
	for _, item := range odds {
		entry, ok := item.(map[string]any)
		if !ok {
			bookmaker.Odds = append(bookmaker.Odds, matchodds.OddEntry{})
			continue
		}
		oddName, hasName := getString(entry, "name")
		value, hasValue := getString(entry, "value")
		bookmaker.Odds = append(bookmaker.Odds, matchodds.OddEntry{
			Name:     oddName,
			HasName:  hasName,
			Value:    value,
			HasValue: hasValue,
		})
	}
	return bookmaker
}

// getString reads a string field; numbers are rendered verbatim since odd values are
// sometimes published unquoted.
func getString(obj map[string]any, key string) (string, bool) {
	switch typed := obj[key].(type) {
	case string:
		return typed, true
	case nil:
		return "", false
	default:
		id := matchodds.IdentifierFrom(typed)
		return id.String(), id.Present()
	}
}

package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/odds-board/internal/domain/matchodds"
)

// MatchRepository holds the loaded document. It starts in the loading state and is
// written exactly once by the document loader.
type MatchRepository struct {
	mu       sync.RWMutex
	status   matchodds.LoadStatus
	records  []matchodds.MatchRecord
	byID     map[matchodds.Identifier]int
	loadErr  error
	loadedAt time.Time
	now      func() time.Time
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{
		status: matchodds.LoadStatusLoading,
		byID:   map[matchodds.Identifier]int{},
		now:    time.Now,
	}
}

// NewLoadedMatchRepository is a ready repository over records, used by tests and tools.
func NewLoadedMatchRepository(records []matchodds.MatchRecord) *MatchRepository {
	repo := NewMatchRepository()
	repo.Publish(records)
	return repo
}

// Publish stores the records and moves to ready. Only the first settle counts.
func (r *MatchRepository) Publish(records []matchodds.MatchRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != matchodds.LoadStatusLoading {
		return
	}

	r.records = append([]matchodds.MatchRecord(nil), records...)
	r.byID = make(map[matchodds.Identifier]int, len(records))
	for i, record := range r.records {
		if !record.ID.Present() {
			continue
		}
		// The first record with details wins so that a suggested match stays selectable.
		idx, exists := r.byID[record.ID]
		if !exists || (r.records[idx].Detail == nil && record.Detail != nil) {
			r.byID[record.ID] = i
		}
	}
	r.status = matchodds.LoadStatusReady
	r.loadedAt = r.now()
}

// Fail records a terminal load failure.
func (r *MatchRepository) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != matchodds.LoadStatusLoading {
		return
	}
	switch {
	case err == nil:
		err = matchodds.ErrDocumentLoadFailed
	case !errors.Is(err, matchodds.ErrDocumentLoadFailed):
		err = fmt.Errorf("%w: %w", matchodds.ErrDocumentLoadFailed, err)
	}
	r.loadErr = err
	r.status = matchodds.LoadStatusFailed
	r.loadedAt = r.now()
}

func (r *MatchRepository) State(_ context.Context) matchodds.DocumentState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state := matchodds.DocumentState{
		Status:   r.status,
		Matches:  len(r.records),
		LoadedAt: r.loadedAt,
	}
	if r.loadErr != nil {
		state.Message = r.loadErr.Error()
	}
	return state
}

func (r *MatchRepository) List(_ context.Context) ([]matchodds.MatchRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.readableLocked(); err != nil {
		return nil, err
	}
	out := make([]matchodds.MatchRecord, 0, len(r.records))
	out = append(out, r.records...)
	return out, nil
}

func (r *MatchRepository) GetByID(_ context.Context, id matchodds.Identifier) (matchodds.MatchRecord, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.readableLocked(); err != nil {
		return matchodds.MatchRecord{}, false, err
	}
	idx, ok := r.byID[id]
	if !ok {
		return matchodds.MatchRecord{}, false, nil
	}
	return r.records[idx], true, nil
}

func (r *MatchRepository) readableLocked() error {
	switch r.status {
	case matchodds.LoadStatusReady:
		return nil
	case matchodds.LoadStatusFailed:
		return r.loadErr
	default:
		return matchodds.ErrDocumentLoading
	}
}

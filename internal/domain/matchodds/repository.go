package matchodds

import (
	"context"
	"errors"
	"time"
)

var (
	ErrDocumentLoading    = errors.New("document is still loading")
	ErrDocumentLoadFailed = errors.New("document load failed")
)

type LoadStatus string

const (
	LoadStatusLoading LoadStatus = "loading"
	LoadStatusReady   LoadStatus = "ready"
	LoadStatusFailed  LoadStatus = "failed"
)

// DocumentState describes where the one-time document load stands.
type DocumentState struct {
	Status   LoadStatus
	Matches  int
	Message  string
	LoadedAt time.Time
}

// Repository exposes read access to the loaded document. Reads fail while the
// document is loading or after the load failed.
type Repository interface {
	State(ctx context.Context) DocumentState
	List(ctx context.Context) ([]MatchRecord, error)
	GetByID(ctx context.Context, id Identifier) (MatchRecord, bool, error)
}

package document

import (
	"context"
	"fmt"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/odds-board/internal/domain/matchodds"
	"github.com/riskibarqy/odds-board/internal/platform/logging"
)

// Sink receives the outcome of the one-time load.
type Sink interface {
	Publish(records []matchodds.MatchRecord)
	Fail(err error)
}

// Observer is notified once the load settles.
type Observer interface {
	ObserveDocumentLoad(status string, matches int, elapsed time.Duration)
}

// Loader reads the document exactly once. A failed load is terminal.
type Loader struct {
	source   Source
	decoder  *Decoder
	sink     Sink
	logger   *logging.Logger
	observer Observer

	once sync.Once
	err  error
}

func NewLoader(source Source, decoder *Decoder, sink Sink, logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.Default()
	}
	if decoder == nil {
		decoder = NewDecoder(1)
	}
	return &Loader{
		source:  source,
		decoder: decoder,
		sink:    sink,
		logger:  logger.Named("document"),
	}
}

func (l *Loader) WithObserver(observer Observer) *Loader {
	l.observer = observer
	return l
}

// Load runs the fetch and decode on the first call; later calls return the first result.
func (l *Loader) Load(ctx context.Context) error {
	l.once.Do(func() {
		l.err = l.load(ctx)
	})
	return l.err
}

func (l *Loader) load(ctx context.Context) error {
	start := time.Now()
	source := l.source.Describe()

	records, err := l.fetchAndDecode(ctx)
	elapsed := time.Since(start)
	if err != nil {
		loadErr := fmt.Errorf("%w: %w", matchodds.ErrDocumentLoadFailed, err)
		l.sink.Fail(loadErr)
		l.observe("failed", 0, elapsed)
		l.logger.ErrorContext(ctx, "document load failed", "source", source, "duration", elapsed, "error", err)
		return loadErr
	}

	l.sink.Publish(records)
	l.observe("ready", len(records), elapsed)
	l.logger.InfoContext(ctx, "document loaded", "source", source, "matches", len(records), "duration", elapsed)
	return nil
}

func (l *Loader) fetchAndDecode(ctx context.Context) ([]matchodds.MatchRecord, error) {
	raw, err := l.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	records, err := l.decoder.Decode(ctx, raw)
	if err != nil {
		return nil, crerr.Wrapf(err, "decode %s", l.source.Describe())
	}
	return records, nil
}

func (l *Loader) observe(status string, matches int, elapsed time.Duration) {
	if l.observer == nil {
		return
	}
	l.observer.ObserveDocumentLoad(status, matches, elapsed)
}

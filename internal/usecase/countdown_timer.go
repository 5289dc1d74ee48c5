package usecase

import (
	"sync"
	"time"

	"github.com/riskibarqy/odds-board/internal/domain/countdown"
)

// TickerFunc starts a ticker and returns its channel and a stop function.
type TickerFunc func(interval time.Duration) (<-chan time.Time, func())

func realTicker(interval time.Duration) (<-chan time.Time, func()) {
	ticker := time.NewTicker(interval)
	return ticker.C, ticker.Stop
}

// CountdownTimer owns one goroutine that advances a countdown on every tick and fans
// the new value out to subscribers. Slow subscribers miss ticks instead of blocking.
type CountdownTimer struct {
	mu     sync.RWMutex
	value  countdown.Value
	subs   map[int]chan countdown.Value
	nextID int
	closed bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func StartCountdownTimer(interval time.Duration, newTicker TickerFunc) *CountdownTimer {
	if interval <= 0 {
		interval = time.Second
	}
	if newTicker == nil {
		newTicker = realTicker
	}

	t := &CountdownTimer{
		value: countdown.Initial,
		subs:  make(map[int]chan countdown.Value),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	ticks, stopTicker := newTicker(interval)
	go t.run(ticks, stopTicker)
	return t
}

func (t *CountdownTimer) run(ticks <-chan time.Time, stopTicker func()) {
	defer close(t.done)
	defer stopTicker()
	defer t.closeSubscribers()

	for {
		select {
		case <-t.stop:
			return
		case _, ok := <-ticks:
			if !ok {
				return
			}
			t.advance()
		}
	}
}

func (t *CountdownTimer) advance() {
	t.mu.Lock()
	t.value = t.value.Tick()
	value := t.value
	for _, ch := range t.subs {
		select {
		case ch <- value:
		default:
		}
	}
	t.mu.Unlock()
}

func (t *CountdownTimer) Value() countdown.Value {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.value
}

// Subscribe returns a channel of future values and a cancel func. The channel is
// closed on cancel or when the timer stops.
func (t *CountdownTimer) Subscribe() (<-chan countdown.Value, func()) {
	ch := make(chan countdown.Value, 1)

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := t.nextID
	t.nextID++
	t.subs[id] = ch
	t.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			t.mu.Lock()
			if existing, ok := t.subs[id]; ok {
				delete(t.subs, id)
				close(existing)
			}
			t.mu.Unlock()
		})
	}
	return ch, cancel
}

// Stop halts the timer and waits for its goroutine. Safe to call more than once.
func (t *CountdownTimer) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
	<-t.done
}

func (t *CountdownTimer) closeSubscribers() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	for id, ch := range t.subs {
		delete(t.subs, id)
		close(ch)
	}
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/odds-board/internal/domain/countdown"
	"github.com/riskibarqy/odds-board/internal/domain/matchodds"
	"github.com/riskibarqy/odds-board/internal/domain/session"
	"github.com/riskibarqy/odds-board/internal/platform/id"
	"github.com/riskibarqy/odds-board/internal/platform/logging"
)

type SessionOptions struct {
	IdleTimeout       time.Duration
	CountdownInterval time.Duration
	NewTicker         TickerFunc
	Now               func() time.Time
}

// SessionView is a session together with its rendered board.
type SessionView struct {
	ID         string
	CreatedAt  time.Time
	LastSeenAt time.Time
	Expanded   []string
	Board      Board
}

// SessionService owns per-viewer state and the countdown timer of each session.
type SessionService struct {
	repo    session.Repository
	matches matchodds.Repository
	board   *BoardService
	ids     id.Generator
	opts    SessionOptions
	logger  *logging.Logger
	metrics Metrics

	mu     sync.Mutex
	timers map[string]*CountdownTimer
}

func NewSessionService(
	repo session.Repository,
	matches matchodds.Repository,
	board *BoardService,
	ids id.Generator,
	opts SessionOptions,
	logger *logging.Logger,
	metrics Metrics,
) *SessionService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CountdownInterval <= 0 {
		opts.CountdownInterval = time.Second
	}
	return &SessionService{
		repo:    repo,
		matches: matches,
		board:   board,
		ids:     ids,
		opts:    opts,
		logger:  logger,
		metrics: metricsOrNoop(metrics),
		timers:  make(map[string]*CountdownTimer),
	}
}

func (s *SessionService) Create(ctx context.Context) (SessionView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Create")
	defer span.End()

	sessionID, err := s.ids.NewID()
	if err != nil {
		return SessionView{}, fmt.Errorf("generate session id: %w", err)
	}

	now := s.opts.Now()
	item := session.Session{
		ID:         sessionID,
		State:      session.New(),
		CreatedAt:  now,
		LastSeenAt: now,
	}
	// The timer is registered first so a concurrent Delete or sweep always finds it.
	timer := StartCountdownTimer(s.opts.CountdownInterval, s.opts.NewTicker)
	s.mu.Lock()
	s.timers[sessionID] = timer
	s.mu.Unlock()

	if err := s.repo.Create(ctx, item); err != nil {
		s.stopTimer(sessionID)
		return SessionView{}, fmt.Errorf("create session: %w", err)
	}
	s.reportActive(ctx)

	s.logger.InfoContext(ctx, "session created", "session_id", sessionID)
	return s.view(ctx, item)
}

func (s *SessionService) Get(ctx context.Context, sessionID string) (SessionView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Get")
	defer span.End()

	sessionID, err := requireSessionID(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	item, exists, err := s.repo.Touch(ctx, sessionID, s.opts.Now())
	if err != nil {
		return SessionView{}, fmt.Errorf("get session: %w", err)
	}
	if !exists {
		return SessionView{}, fmt.Errorf("%w: session=%s", ErrNotFound, sessionID)
	}
	return s.view(ctx, item)
}

// SetQuery records typed text; typing drops the current selection.
func (s *SessionService) SetQuery(ctx context.Context, sessionID, query string) (SessionView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.SetQuery")
	defer span.End()

	return s.update(ctx, sessionID, func(state session.State) (session.State, error) {
		return session.SetQuery(state, query), nil
	})
}

// Select picks a match. An unknown id or a match without details leaves the session
// unchanged and returns ErrInvalidSelection.
func (s *SessionService) Select(ctx context.Context, sessionID string, matchID matchodds.Identifier) (SessionView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Select")
	defer span.End()

	record, exists, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return SessionView{}, fmt.Errorf("get match: %w", err)
	}
	candidates := []matchodds.MatchRecord{}
	if exists {
		candidates = append(candidates, record)
	}

	view, err := s.update(ctx, sessionID, func(state session.State) (session.State, error) {
		return session.Select(state, candidates, matchID)
	})
	if errors.Is(err, session.ErrInvalidSelection) {
		s.metrics.SelectionRecorded(SelectionOutcomeInvalid)
		s.logger.WarnContext(ctx, "invalid match selection", "session_id", sessionID, "match_id", matchID)
		return SessionView{}, fmt.Errorf("%w: match=%s", ErrInvalidSelection, matchID)
	}
	if err != nil {
		return SessionView{}, err
	}
	s.metrics.SelectionRecorded(SelectionOutcomeSelected)
	return view, nil
}

func (s *SessionService) ToggleSection(ctx context.Context, sessionID, sectionID string) (SessionView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.ToggleSection")
	defer span.End()

	if strings.TrimSpace(sectionID) == "" {
		return SessionView{}, fmt.Errorf("%w: section id is required", ErrInvalidInput)
	}
	view, err := s.update(ctx, sessionID, func(state session.State) (session.State, error) {
		if !state.HasSelection() {
			return state, fmt.Errorf("%w: no match selected", ErrInvalidInput)
		}
		return session.Toggle(state, sectionID), nil
	})
	if err != nil {
		return SessionView{}, err
	}
	s.metrics.SectionToggled(containsString(view.Expanded, sectionID))
	return view, nil
}

func (s *SessionService) Countdown(ctx context.Context, sessionID string) (countdown.Value, error) {
	timer, err := s.timer(ctx, sessionID)
	if err != nil {
		return countdown.Value{}, err
	}
	return timer.Value(), nil
}

// Subscribe streams the session's countdown. The returned channel closes when the
// session is torn down or cancel is called.
func (s *SessionService) Subscribe(ctx context.Context, sessionID string) (countdown.Value, <-chan countdown.Value, func(), error) {
	timer, err := s.timer(ctx, sessionID)
	if err != nil {
		return countdown.Value{}, nil, nil, err
	}

	ch, cancel := timer.Subscribe()
	s.metrics.CountdownSubscribers(1)
	var once sync.Once
	return timer.Value(), ch, func() {
		once.Do(func() {
			cancel()
			s.metrics.CountdownSubscribers(-1)
		})
	}, nil
}

func (s *SessionService) Delete(ctx context.Context, sessionID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Delete")
	defer span.End()

	sessionID, err := requireSessionID(sessionID)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.stopTimer(sessionID)
	if !deleted {
		return fmt.Errorf("%w: session=%s", ErrNotFound, sessionID)
	}
	s.reportActive(ctx)
	s.logger.InfoContext(ctx, "session deleted", "session_id", sessionID)
	return nil
}

// SweepIdle tears down sessions not seen within the idle timeout and returns how many
// were removed.
func (s *SessionService) SweepIdle(ctx context.Context) (int, error) {
	if s.opts.IdleTimeout <= 0 {
		return 0, nil
	}

	cutoff := s.opts.Now().Add(-s.opts.IdleTimeout)
	ids, err := s.repo.ListIdleSince(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list idle sessions: %w", err)
	}

	removed := 0
	for _, sessionID := range ids {
		deleted, err := s.repo.Delete(ctx, sessionID)
		if err != nil {
			return removed, fmt.Errorf("delete idle session %s: %w", sessionID, err)
		}
		s.stopTimer(sessionID)
		if deleted {
			removed++
		}
	}
	if removed > 0 {
		s.reportActive(ctx)
		s.logger.InfoContext(ctx, "idle sessions swept", "removed", removed)
	}
	return removed, nil
}

// RunSweeper calls SweepIdle every interval until ctx is done.
func (s *SessionService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.opts.IdleTimeout <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepIdle(ctx); err != nil {
				s.logger.WarnContext(ctx, "idle session sweep failed", "error", err)
			}
		}
	}
}

// Shutdown stops every countdown timer.
func (s *SessionService) Shutdown() {
	s.mu.Lock()
	timers := s.timers
	s.timers = make(map[string]*CountdownTimer)
	s.mu.Unlock()

	for _, timer := range timers {
		timer.Stop()
	}
}

func (s *SessionService) update(ctx context.Context, sessionID string, fn func(session.State) (session.State, error)) (SessionView, error) {
	sessionID, err := requireSessionID(sessionID)
	if err != nil {
		return SessionView{}, err
	}
	item, exists, err := s.repo.Update(ctx, sessionID, s.opts.Now(), fn)
	if !exists && err == nil {
		return SessionView{}, fmt.Errorf("%w: session=%s", ErrNotFound, sessionID)
	}
	if err != nil {
		return SessionView{}, err
	}
	return s.view(ctx, item)
}

func (s *SessionService) view(ctx context.Context, item session.Session) (SessionView, error) {
	cd := countdown.Initial
	if timer, ok := s.lookupTimer(item.ID); ok {
		cd = timer.Value()
	}
	board, err := s.board.Compose(ctx, item.State, cd)
	if err != nil {
		return SessionView{}, err
	}
	return SessionView{
		ID:         item.ID,
		CreatedAt:  item.CreatedAt,
		LastSeenAt: item.LastSeenAt,
		Expanded:   item.State.ExpandedSections(),
		Board:      board,
	}, nil
}

func (s *SessionService) timer(ctx context.Context, sessionID string) (*CountdownTimer, error) {
	sessionID, err := requireSessionID(sessionID)
	if err != nil {
		return nil, err
	}
	if _, exists, err := s.repo.Touch(ctx, sessionID, s.opts.Now()); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: session=%s", ErrNotFound, sessionID)
	}
	timer, ok := s.lookupTimer(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: countdown for session=%s", ErrNotFound, sessionID)
	}
	return timer, nil
}

func (s *SessionService) lookupTimer(sessionID string) (*CountdownTimer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer, ok := s.timers[sessionID]
	return timer, ok
}

func (s *SessionService) stopTimer(sessionID string) {
	s.mu.Lock()
	timer, ok := s.timers[sessionID]
	delete(s.timers, sessionID)
	s.mu.Unlock()
	if ok {
		timer.Stop()
	}
}

func (s *SessionService) reportActive(ctx context.Context) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return
	}
	s.metrics.SessionsActive(count)
}

func requireSessionID(sessionID string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	return sessionID, nil
}

func containsString(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

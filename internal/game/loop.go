// internal/game/loop.go
//
// Loop is the single thread of control around a Session.
// Responsibilities:
//   - Serialize catalog delivery, user actions and timer ticks through one goroutine.
//   - Own the countdown ticker: created on entering playing, stopped on every exit
//     from playing and before every restart (at most one ticker at any time).
//   - Persist a new best score at game over.
//   - Publish a Snapshot to observers after every transition.

package game

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrStaleSession = errors.New("guess belongs to an earlier session")
	ErrLoopStopped  = errors.New("session loop stopped")
)

// ScoreStore persists the personal best.
type ScoreStore interface {
	Read(ctx context.Context) (int, error)
	Write(ctx context.Context, score int) error
}

// Observer receives snapshots. Publish must not block.
type Observer interface {
	Publish(Snapshot)
}

// Ticker is the subset of *time.Ticker the loop needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type stdTicker struct{ t *time.Ticker }

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

// NewStdTicker wraps time.NewTicker.
func NewStdTicker(d time.Duration) Ticker { return stdTicker{time.NewTicker(d)} }

// Option configures a Loop.
type Option func(*Loop)

// WithPicker overrides random country selection.
func WithPicker(p Picker) Option { return func(l *Loop) { l.pick = p } }

// WithTicker overrides the countdown ticker source.
func WithTicker(f TickerFunc) Option { return func(l *Loop) { l.newTicker = f } }

// WithObserver adds a snapshot observer.
func WithObserver(o Observer) Option {
	return func(l *Loop) { l.observers = append(l.observers, o) }
}

// WithLogger replaces the global zerolog logger.
func WithLogger(lg zerolog.Logger) Option { return func(l *Loop) { l.log = lg } }

type actionKind int

const (
	actSnapshot actionKind = iota
	actLoadCatalog
	actStart
	actGuess
)

type action struct {
	kind      actionKind
	countries []Country
	sessionID string
	text      string
	reply     chan result
}

type result struct {
	snap Snapshot
	ok   bool // false when the action was a no-op
	err  error
}

// Loop owns a Session and drives it from a single goroutine.
type Loop struct {
	store     ScoreStore
	observers []Observer
	pick      Picker
	newTicker TickerFunc
	log       zerolog.Logger

	actions chan action
	done    chan struct{}

	// Fields below are touched only by the Run goroutine.
	session *Session
	ticker  Ticker
}

// NewLoop reads the best score from store and prepares a not_started session.
// A failing read is logged and treated as 0.
func NewLoop(ctx context.Context, store ScoreStore, opts ...Option) *Loop {
	l := &Loop{
		store:     store,
		newTicker: NewStdTicker,
		log:       log.Logger,
		actions:   make(chan action),
		done:      make(chan struct{}),
	}
	for _, o := range opts {
		o(l)
	}

	best, err := store.Read(ctx)
	if err != nil {
		l.log.Warn().Err(err).Msg("read best score; starting from 0")
		best = 0
	}
	l.session = NewSession(best, l.pick)
	return l
}

// Run processes events until ctx is cancelled. It must be called exactly once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	defer l.stopTimer()

	l.publish()
	for {
		var tick <-chan time.Time
		if l.ticker != nil {
			tick = l.ticker.C()
		}
		select {
		case <-ctx.Done():
			return nil
		case a := <-l.actions:
			a.reply <- l.handle(ctx, a)
		case <-tick:
			l.onTick(ctx)
		}
	}
}

// handle applies one action and returns the post-transition snapshot.
func (l *Loop) handle(ctx context.Context, a action) result {
	s := l.session
	switch a.kind {
	case actLoadCatalog:
		if !s.SetCatalog(a.countries) {
			l.log.Warn().Int("countries", len(a.countries)).Msg("catalog reload ignored while playing")
			return result{snap: s.Snapshot(), ok: false}
		}
		l.log.Info().Int("countries", len(a.countries)).Msg("catalog installed")

	case actStart:
		if !s.Playable() {
			return result{snap: s.Snapshot(), ok: false}
		}
		// Cancel a running countdown before the reset.
		l.stopTimer()
		s.Start()
		l.ticker = l.newTicker(time.Second)
		l.log.Info().Str("session", s.ID()).Msg("session started")

	case actGuess:
		if a.sessionID != "" && a.sessionID != s.ID() {
			return result{snap: s.Snapshot(), err: ErrStaleSession}
		}
		if !s.Guess(a.text) {
			return result{snap: s.Snapshot(), ok: false}
		}

	case actSnapshot:
		return result{snap: s.Snapshot(), ok: true}
	}

	l.publish()
	return result{snap: s.Snapshot(), ok: true}
}

// onTick advances the countdown and handles expiry.
func (l *Loop) onTick(ctx context.Context) {
	s := l.session
	expired, newRecord := s.Tick()
	if expired {
		l.stopTimer()
		snap := s.Snapshot()
		l.log.Info().Str("session", snap.SessionID).Int("score", snap.Score).
			Int("best", snap.BestScore).Msg("session over")
		if newRecord {
			if err := l.store.Write(ctx, snap.BestScore); err != nil {
				l.log.Warn().Err(err).Int("best", snap.BestScore).Msg("persist best score")
			}
		}
	}
	l.publish()
}

func (l *Loop) stopTimer() {
	if l.ticker != nil {
		l.ticker.Stop()
		l.ticker = nil
	}
}

func (l *Loop) publish() {
	if len(l.observers) == 0 {
		return
	}
	snap := l.session.Snapshot()
	for _, o := range l.observers {
		o.Publish(snap)
	}
}

// send delivers an action and waits for its result.
func (l *Loop) send(ctx context.Context, a action) (result, error) {
	a.reply = make(chan result, 1)
	select {
	case l.actions <- a:
	case <-l.done:
		return result{}, ErrLoopStopped
	case <-ctx.Done():
		return result{}, ctx.Err()
	}
	select {
	case r := <-a.reply:
		return r, nil
	case <-ctx.Done():
		return result{}, ctx.Err()
	}
}

// LoadCatalog installs the catalog. Called once the startup fetch succeeds.
// A catalog delivered while a game is playing is ignored.
func (l *Loop) LoadCatalog(ctx context.Context, countries []Country) (Snapshot, error) {
	r, err := l.send(ctx, action{kind: actLoadCatalog, countries: countries})
	return r.snap, err
}

// Start begins (or restarts) a play-through.
// started is false when the catalog is still empty; nothing changes then.
func (l *Loop) Start(ctx context.Context) (snap Snapshot, started bool, err error) {
	r, err := l.send(ctx, action{kind: actStart})
	return r.snap, r.ok, err
}

// Guess submits text for the round of sessionID ("" skips the session check).
// accepted is false when no game is running. A sessionID of an earlier
// play-through yields ErrStaleSession.
func (l *Loop) Guess(ctx context.Context, sessionID, text string) (snap Snapshot, accepted bool, err error) {
	r, err := l.send(ctx, action{kind: actGuess, sessionID: sessionID, text: text})
	if err != nil {
		return Snapshot{}, false, err
	}
	return r.snap, r.ok, r.err
}

// Snapshot returns the current state.
func (l *Loop) Snapshot(ctx context.Context) (Snapshot, error) {
	r, err := l.send(ctx, action{kind: actSnapshot})
	return r.snap, err
}

// internal/game/engine.go
//
// Session state machine for the flag quiz.
// Responsibilities:
//   - Hold the catalog, the current target country, score, countdown and best score.
//   - Apply the three inputs: start, submit-guess, timer tick.
//   - Track state transitions: not_started → playing → game_over → playing ...
//
// Notes:
//   - Session is not safe for concurrent use; the Loop owns it and feeds it
//     one event at a time.
//   - Selection is uniform with replacement: the same country may come up twice in a row.
//   - Matching is exact after trimming and lowercasing both sides. No accent folding.
package game

import (
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// Picker returns a uniform index in [0, n). n is always > 0.
type Picker func(n int) int

// NewSession constructs a not_started session with the given best score.
// A nil pick uses math/rand/v2.
func NewSession(bestScore int, pick Picker) *Session {
	if pick == nil {
		pick = rand.IntN
	}
	if bestScore < 0 {
		bestScore = 0
	}
	return &Session{
		phase:     PhaseNotStarted,
		remaining: RoundSeconds,
		bestScore: bestScore,
		pick:      pick,
		newID:     uuid.NewString,
	}
}

// Session holds the mutable state of the quiz.
type Session struct {
	catalog []Country

	id        string
	phase     Phase
	current   *Country
	score     int
	remaining int
	bestScore int
	feedback  string
	verdict   Verdict

	pick  Picker
	newID func() string
}

// SetCatalog installs the loaded catalog. The slice is copied; callers may reuse theirs.
// It returns false and keeps the current catalog while a game is playing.
func (s *Session) SetCatalog(countries []Country) bool {
	if s.phase == PhasePlaying {
		return false
	}
	s.catalog = append([]Country(nil), countries...)
	return true
}

// Start begins a new play-through.
// Returns false (and changes nothing) when the catalog is empty.
//
// Valid from every phase: not_started (first game), game_over (play again) and
// playing (restart; the caller cancels the running countdown first).
func (s *Session) Start() bool {
	if !s.Playable() {
		return false
	}
	s.id = s.newID()
	s.score = 0
	s.feedback = ""
	s.verdict = VerdictNone
	s.remaining = RoundSeconds
	s.phase = PhasePlaying
	s.pickCountry()
	return true
}

// Guess checks text against the current country and advances to a new round.
// Returns false when no game is running; the guess is ignored then.
func (s *Session) Guess(text string) bool {
	if s.phase != PhasePlaying || s.current == nil {
		return false
	}
	name := s.current.Name
	if matches(text, name) {
		s.score++
		s.verdict = VerdictCorrect
		s.feedback = "✅ Correct! It was " + name
	} else {
		s.verdict = VerdictWrong
		s.feedback = "❌ Wrong! It was " + name
	}
	s.pickCountry()
	return true
}

// Tick consumes one elapsed second.
// expired reports the playing → game_over transition; newRecord reports that
// the best score was raised and must be persisted.
func (s *Session) Tick() (expired, newRecord bool) {
	if s.phase != PhasePlaying {
		return false, false
	}
	s.remaining--
	if s.remaining > 0 {
		return false, false
	}
	s.remaining = 0
	return true, s.finish()
}

// finish performs game over and reports whether a new best score was set.
func (s *Session) finish() bool {
	s.phase = PhaseGameOver
	s.current = nil
	if s.score > s.bestScore {
		s.bestScore = s.score
		return true
	}
	return false
}

// pickCountry selects the next target uniformly, with replacement.
func (s *Session) pickCountry() {
	c := s.catalog[s.pick(len(s.catalog))]
	s.current = &c
}

// Playable reports whether a start action would take effect.
func (s *Session) Playable() bool { return len(s.catalog) > 0 }

// Phase reports the current phase.
func (s *Session) Phase() Phase { return s.phase }

// ID reports the current play-through identifier ("" before the first start).
func (s *Session) ID() string { return s.id }

// BestScore reports the personal best.
func (s *Session) BestScore() int { return s.bestScore }

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID:        s.id,
		Phase:            s.phase,
		Score:            s.score,
		SecondsRemaining: s.remaining,
		BestScore:        s.bestScore,
		Feedback:         s.feedback,
		Verdict:          s.verdict,
		Ready:            s.Playable(),
		CatalogSize:      len(s.catalog),
	}
	if s.current != nil {
		c := *s.current
		snap.Current = &c
	}
	return snap
}

// matches compares a guess to a country name: trimmed, case-insensitive, exact.
func matches(guess, name string) bool {
	return strings.ToLower(strings.TrimSpace(guess)) == strings.ToLower(strings.TrimSpace(name))
}

// internal/game/types.go
//
// Core type definitions for the flag quiz session controller.
// Defines:
//   - Country:  one playable catalog entry (display name + flag image).
//   - Phase:    coarse session phase (not_started / playing / game_over).
//   - Verdict:  outcome of the last submitted guess.
//   - Snapshot: read-only copy of session state emitted after every transition.

package game

// RoundSeconds is the length of one play-through.
const RoundSeconds = 60

// Country is one catalog entry. Immutable once loaded.
type Country struct {
	Name    string `json:"name"`    // Canonical display name (e.g. "France").
	FlagURL string `json:"flagUrl"` // Flag image reference.
}

// Phase represents where the session is in its lifecycle.
// Possible values:
//   - "not_started": process started, no play-through yet.
//   - "playing":     countdown running, a flag is on screen.
//   - "game_over":   countdown expired; score is final.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhasePlaying    Phase = "playing"
	PhaseGameOver   Phase = "game_over"
)

// Verdict is the outcome of the most recent guess ("" before any guess).
type Verdict string

const (
	VerdictNone    Verdict = ""
	VerdictCorrect Verdict = "correct"
	VerdictWrong   Verdict = "wrong"
)

// Snapshot is an immutable copy of the session state.
type Snapshot struct {
	SessionID        string   // Empty until the first start action.
	Phase            Phase    // Current phase.
	Current          *Country // Non-nil iff Phase == PhasePlaying.
	Score            int      // Correct guesses in this play-through.
	SecondsRemaining int      // 0..RoundSeconds.
	BestScore        int      // Personal best across play-throughs.
	Feedback         string   // Message about the last guess.
	Verdict          Verdict  // Outcome of the last guess.
	Ready            bool     // True once a non-empty catalog is loaded.
	CatalogSize      int      // Number of playable countries.
}

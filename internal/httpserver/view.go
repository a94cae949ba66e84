package httpserver

import "github.com/robalobadob/flagquiz/internal/game"

// stateView is the snapshot as the page sees it. It carries the current flag
// but never the current country's name.
type stateView struct {
	SessionID        string `json:"sessionId,omitempty"`
	Phase            string `json:"phase"`             // not_started | playing | game_over
	FlagURL          string `json:"flagUrl,omitempty"` // set only while playing
	Score            int    `json:"score"`
	SecondsRemaining int    `json:"secondsRemaining"`
	BestScore        int    `json:"bestScore"`
	Feedback         string `json:"feedback"`
	Verdict          string `json:"verdict,omitempty"` // correct | wrong
	Ready            bool   `json:"ready"`             // catalog loaded and non-empty
	CatalogSize      int    `json:"catalogSize"`
}

func newStateView(s game.Snapshot) stateView {
	v := stateView{
		SessionID:        s.SessionID,
		Phase:            string(s.Phase),
		Score:            s.Score,
		SecondsRemaining: s.SecondsRemaining,
		BestScore:        s.BestScore,
		Feedback:         s.Feedback,
		Verdict:          string(s.Verdict),
		Ready:            s.Ready,
		CatalogSize:      s.CatalogSize,
	}
	if s.Current != nil {
		v.FlagURL = s.Current.FlagURL
	}
	return v
}

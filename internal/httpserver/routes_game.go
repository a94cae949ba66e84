// internal/httpserver/routes_game.go
//
// Game API handlers.
//
// Endpoints:
//   GET  /api/state   -> stateView
//   POST /api/start   -> {state, token}; sets the play cookie
//   POST /api/guess   -> stateView (requires play token)
//   GET  /api/events  -> text/event-stream of stateView ("event: state")

package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/flagquiz/internal/game"
)

// startResponse is returned by POST /api/start.
type startResponse struct {
	State stateView `json:"state"`
	Token string    `json:"token"`
}

// guessRequest is the body of POST /api/guess.
type guessRequest struct {
	Guess string `json:"guess"`
}

// handleState returns the current snapshot.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.game.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable")
		return
	}
	writeJSON(w, http.StatusOK, newStateView(snap))
}

// handleStart begins (or restarts) a play-through and issues its play token.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	snap, started, err := s.game.Start(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable")
		return
	}
	if !started {
		writeError(w, http.StatusConflict, "catalog_unavailable")
		return
	}

	token, exp, err := s.tokens.sign(snap.SessionID)
	if err != nil {
		log.Error().Err(err).Msg("sign play token")
		writeError(w, http.StatusInternalServerError, "token_error")
		return
	}
	setPlayCookie(w, token, exp, s.opts.CookieSecure)
	writeJSON(w, http.StatusOK, startResponse{State: newStateView(snap), Token: token})
}

// handleGuess submits a guess for the play-through named by the play token.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	sid, err := s.tokens.sessionFromRequest(r)
	switch {
	case errors.Is(err, errNoToken):
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	case err != nil:
		writeError(w, http.StatusUnauthorized, "invalid_token")
		return
	}

	snap, accepted, err := s.game.Guess(r.Context(), sid, req.Guess)
	switch {
	case errors.Is(err, game.ErrStaleSession):
		writeError(w, http.StatusConflict, "stale_session")
		return
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, "unavailable")
		return
	case !accepted:
		writeError(w, http.StatusConflict, "not_playing")
		return
	}
	writeJSON(w, http.StatusOK, newStateView(snap))
}

// handleEvents streams a stateView after every transition, starting with the current one.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported")
		return
	}

	// Subscribe before reading the current state so no transition slips between.
	ch := s.broker.Subscribe()
	defer s.broker.Unsubscribe(ch)

	snap, err := s.game.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	data, _ := encodeView(snap)
	fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
	flusher.Flush()

	ping := time.NewTicker(s.opts.PingInterval)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.closing:
			return
		case data := <-ch:
			fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
			flusher.Flush()
		case <-ping.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}

package httpserver

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Flag Quiz API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Single-player flag guessing game: 60 seconds, one point per correct country.")

	// GET /health
	getHealth, _ := r.NewOperationContext(http.MethodGet, "/health")
	getHealth.SetSummary("Health check")
	getHealth.AddRespStructure(healthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHealth)

	// GET /debug/catalog
	getCatalog, _ := r.NewOperationContext(http.MethodGet, "/debug/catalog")
	getCatalog.SetSummary("Catalog status")
	getCatalog.SetDescription("Number of playable countries loaded at startup.")
	getCatalog.AddRespStructure(catalogResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getCatalog)

	// GET /api/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/state")
	getState.SetSummary("Get game state")
	getState.SetDescription("Current phase, flag, score, countdown and best score. The country name is never included.")
	getState.AddRespStructure(stateView{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(errorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getState)

	// POST /api/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/start")
	postStart.SetSummary("Start a game")
	postStart.SetDescription("Starts or restarts a play-through. Returns a play token and sets the play cookie.")
	postStart.AddRespStructure(startResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(errorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postStart)

	// POST /api/guess
	postGuess, _ := r.NewOperationContext(http.MethodPost, "/api/guess")
	postGuess.SetSummary("Submit a guess")
	postGuess.SetDescription("Case-insensitive match against the current country. Requires the play token (Bearer or cookie).")
	postGuess.AddReqStructure(guessRequest{})
	postGuess.AddRespStructure(stateView{}, openapi.WithHTTPStatus(http.StatusOK))
	postGuess.AddRespStructure(errorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postGuess.AddRespStructure(errorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postGuess.AddRespStructure(errorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postGuess)

	// GET /api/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/events")
	getEvents.SetSummary("SSE state stream")
	getEvents.SetDescription("Server-Sent Events stream; one \"state\" event per transition, starting with the current state.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

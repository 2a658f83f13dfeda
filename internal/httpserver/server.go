// internal/httpserver/server.go
//
// HTTP surface for the score ledger.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Diagnostics: "/", "/health".
//   - Player lifecycle: POST/DELETE/PATCH /api/players.
//   - Scoring: POST /api/plays, POST /api/turn/end,
//     PATCH /api/players/{id}/turns/{round}/plays/{idx}.
//   - Views: GET /api/state, GET /api/rankings, SSE at GET /api/events.
//   - Advisory lookup: GET /api/define (503 when unconfigured).
//
// Handlers are thin: decode, call the ledger, return the fresh snapshot.
// Ledger mutations are silent no-ops on invalid input, so a rejected
// operation still answers 200 with the unchanged state and the caller
// re-prompts; only undecodable JSON earns a 400.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/lexiscore/go-server/internal/advisor"
	"github.com/lexiscore/go-server/internal/game"
)

// WordAdvisor is the optional external word checker consulted by the
// presentation routes. Never consumed by the ledger.
type WordAdvisor interface {
	Define(ctx context.Context, word string) (string, error)
}

// Server bundles router, ledger and the optional advisor.
type Server struct {
	r       *chi.Mux
	ledger  *game.Ledger
	advisor WordAdvisor
	sse     *Broadcaster
}

// New constructs a Server, installs middleware, and registers routes.
// adv may be nil when no checker is configured.
func New(ledger *game.Ledger, adv WordAdvisor) *Server {
	s := &Server{r: chi.NewRouter(), ledger: ledger, advisor: adv, sse: NewBroadcaster()}

	// Every committed mutation fans out to connected scoreboards.
	ledger.OnChange(func(st *game.State) {
		if data, err := json.Marshal(stateEvent(st)); err == nil {
			s.sse.Broadcast(string(data))
		}
	})

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(jsonContentType) // default JSON responses
	s.r.Use(corsFromEnv)     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"lexiscore-go","endpoints":["/health","/api/state","/api/rankings","POST /api/plays","POST /api/turn/end"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// The SSE stream stays outside the timeout group: it is long-lived.
	s.r.Get("/api/events", s.handleEvents)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time

		r.Get("/api/state", s.handleState)
		r.Get("/api/rankings", s.handleRankings)
		r.Get("/api/define", s.handleDefine)

		r.Post("/api/players", s.handleAddPlayer)
		r.Delete("/api/players/{id}", s.handleRemovePlayer)
		r.Patch("/api/players/{id}", s.handleRenamePlayer)

		r.Post("/api/plays", s.handleSubmitPlay)
		r.Post("/api/turn/end", s.handleEndTurn)
		r.Patch("/api/players/{id}/turns/{round}/plays/{idx}", s.handleModifyPlay)

		r.Post("/api/reset", s.handleReset)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- views -------------------------------------

// stateRes is the snapshot payload shared by /api/state, mutation responses
// and the SSE stream: the raw state plus derived stats keyed by player id.
type stateRes struct {
	State *game.State           `json:"state"`
	Stats map[string]game.Stats `json:"stats"`
}

func snapshotRes(st *game.State) stateRes {
	stats := make(map[string]game.Stats, len(st.Players))
	for _, p := range st.Players {
		stats[p.ID] = game.ComputeStats(p)
	}
	return stateRes{State: st, Stats: stats}
}

// stateEvent wraps a snapshot for the SSE stream.
func stateEvent(st *game.State) map[string]any {
	res := snapshotRes(st)
	return map[string]any{"type": "state", "state": res.State, "stats": res.Stats}
}

func (s *Server) writeSnapshot(w http.ResponseWriter) {
	_ = json.NewEncoder(w).Encode(snapshotRes(s.ledger.Snapshot()))
}

// handleState returns the current snapshot with per-player stats.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeSnapshot(w)
}

// handleRankings returns players ordered by total score descending.
func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(s.ledger.RankedPlayers())
}

// handleEvents streams state snapshots over SSE.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.sse.ServeSSE(w, r, func(c *client) {
		// Send the current state on connect.
		if data, err := json.Marshal(stateEvent(s.ledger.Snapshot())); err == nil {
			c.ch <- string(data)
		}
	})
}

// ------------------------------ players ------------------------------------

func (s *Server) handleAddPlayer(w http.ResponseWriter, r *http.Request) {
	s.ledger.AddPlayer(r.Context())
	s.writeSnapshot(w)
}

func (s *Server) handleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	s.ledger.RemovePlayer(r.Context(), chi.URLParam(r, "id"))
	s.writeSnapshot(w)
}

type renameReq struct {
	Name string `json:"name"`
}

func (s *Server) handleRenamePlayer(w http.ResponseWriter, r *http.Request) {
	var req renameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	s.ledger.RenamePlayer(r.Context(), chi.URLParam(r, "id"), req.Name)
	s.writeSnapshot(w)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.ledger.ResetGame(r.Context())
	s.writeSnapshot(w)
}

// ------------------------------ scoring ------------------------------------

// submitReq carries points as a JSON number kept raw so the ledger gets to
// apply its own must-parse-as-integer rule.
type submitReq struct {
	Word   string      `json:"word"`
	Points json.Number `json:"points"`
}

func (s *Server) handleSubmitPlay(w http.ResponseWriter, r *http.Request) {
	var req submitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	s.ledger.SubmitPlay(r.Context(), req.Word, req.Points.String())
	s.writeSnapshot(w)
}

func (s *Server) handleEndTurn(w http.ResponseWriter, r *http.Request) {
	s.ledger.EndTurn(r.Context())
	s.writeSnapshot(w)
}

func (s *Server) handleModifyPlay(w http.ResponseWriter, r *http.Request) {
	var upd game.PlayUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	// A malformed round/index addresses nothing; the ledger no-ops.
	round, err := strconv.Atoi(chi.URLParam(r, "round"))
	if err != nil {
		round = -1
	}
	idx, err := strconv.Atoi(chi.URLParam(r, "idx"))
	if err != nil {
		idx = -1
	}
	s.ledger.ModifyPlay(r.Context(), chi.URLParam(r, "id"), round, idx, upd)
	s.writeSnapshot(w)
}

// ------------------------------ advisory ------------------------------------

// defineRes is the advisory payload; Advice is null whenever the checker
// fails or has nothing to say — never an error to the client.
type defineRes struct {
	Word   string          `json:"word"`
	Advice *advisor.Advice `json:"advice"`
}

func (s *Server) handleDefine(w http.ResponseWriter, r *http.Request) {
	if s.advisor == nil {
		http.Error(w, `{"error":"advisor_unconfigured"}`, http.StatusServiceUnavailable)
		return
	}
	word := game.NormalizeWord(r.URL.Query().Get("word"))
	res := defineRes{Word: word}

	// The lookup runs fire-and-forget and is resolved against the word we
	// are answering for; a result for anything else is dropped.
	look := advisor.StartLookup(r.Context(), word, func(ctx context.Context, w string) (string, error) {
		text, err := s.advisor.Define(ctx, w)
		if err != nil {
			log.Warn().Err(err).Str("word", w).Msg("advisory lookup failed")
		}
		return text, err
	})
	if text, ok := look.Resolve(word); ok {
		adv := advisor.ParseAdvice(text)
		res.Advice = &adv
	}
	_ = json.NewEncoder(w).Encode(res)
}

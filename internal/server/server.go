package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/ChicagoDave/minidash/pkg/config"
	"github.com/ChicagoDave/minidash/pkg/level"
	"github.com/ChicagoDave/minidash/pkg/scene"
	"github.com/ChicagoDave/minidash/pkg/sim"
	"github.com/ChicagoDave/minidash/pkg/validation"
)

// Server is the local development server: a JSON API over the level
// catalog and a websocket that streams frames of one game per connection.
type Server struct {
	catalog        *level.Catalog
	cfg            config.Config
	port           int
	broadcastEvery int
}

// New creates a server for the given catalog and tuning.
func New(catalog *level.Catalog, cfg config.Config, port int) *Server {
	return &Server{
		catalog:        catalog,
		cfg:            cfg,
		port:           port,
		broadcastEvery: 2,
	}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/levels", s.handleLevels)
	mux.HandleFunc("GET /api/levels/{index}", s.handleLevel)
	mux.HandleFunc("GET /api/levels/{index}/validation", s.handleValidation)
	mux.HandleFunc("GET /api/levels/{index}/frame", s.handleFrame)
	mux.HandleFunc("POST /api/levels/{index}/simulate", s.handleSimulate)
	mux.HandleFunc("GET /api/config", s.handleConfig)
	mux.HandleFunc("GET /ws/play", s.handlePlay)
	mux.HandleFunc("GET /", s.handleIndex)
	return mux
}

// Start launches the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("minidash server starting on http://localhost%s", addr)
	log.Printf("Levels: %d", s.catalog.Len())

	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>minidash</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>minidash</h1>
<p>Frames stream on <code>/ws/play?level=N</code>. Level data lives under <code>/api/levels</code>.</p>
</div>
</body></html>`)
}

type levelSummary struct {
	Index     int     `json:"index"`
	Name      string  `json:"name"`
	Obstacles int     `json:"obstacles"`
	Finish    float64 `json:"finish"`
}

func (s *Server) handleLevels(w http.ResponseWriter, _ *http.Request) {
	out := make([]levelSummary, 0, s.catalog.Len())
	for i, lvl := range s.catalog.Levels {
		finish, _ := lvl.FinishX()
		out = append(out, levelSummary{
			Index:     i,
			Name:      lvl.Name,
			Obstacles: len(lvl.Obstacles),
			Finish:    finish,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	lvl, ok := s.level(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, lvl)
}

func (s *Server) handleValidation(w http.ResponseWriter, r *http.Request) {
	lvl, ok := s.level(w, r)
	if !ok {
		return
	}
	report := validation.ValidateLevel(lvl)
	report.Merge(validation.ValidatePlayability(lvl, s.cfg))
	writeJSON(w, http.StatusOK, report)
}

// handleFrame builds the level and steps it ?seconds=S of simulated time
// without input before capturing the frame.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	lvl, ok := s.level(w, r)
	if !ok {
		return
	}
	cfg := s.cfg
	if r.URL.Query().Get("debug") == "true" {
		cfg.Debug.Enabled = true
	}
	world, err := sim.Build(lvl, cfg)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if v := r.URL.Query().Get("seconds"); v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil || secs < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("seconds: invalid value %q", v))
			return
		}
		dt := world.Physics().NominalDelta
		for t := 0.0; t < secs && world.Outcome() == sim.Continue; t += dt {
			world.Step(dt)
		}
	}
	writeJSON(w, http.StatusOK, scene.Capture(world, "playing"))
}

type simulateRequest struct {
	Script     sim.Script `json:"script"`
	Delta      float64    `json:"delta"`
	MaxSeconds float64    `json:"max_seconds"`
	Debug      bool       `json:"debug"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	lvl, ok := s.level(w, r)
	if !ok {
		return
	}
	var req simulateRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
			return
		}
	}
	cfg := s.cfg
	cfg.Debug.Enabled = req.Debug
	world, err := sim.Build(lvl, cfg)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	res := sim.Run(world, req.Script, sim.RunOptions{Delta: req.Delta, MaxSeconds: req.MaxSeconds})
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"config":  s.cfg,
		"physics": s.cfg.Physics(),
	})
}

func (s *Server) level(w http.ResponseWriter, r *http.Request) (*level.File, bool) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("index: %w", err))
		return nil, false
	}
	lvl, err := s.catalog.Get(i)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, level.ErrInvalidIndex) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return nil, false
	}
	return lvl, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

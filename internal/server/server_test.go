package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ChicagoDave/minidash/pkg/config"
	"github.com/ChicagoDave/minidash/pkg/level"
)

func testCatalog() *level.Catalog {
	return &level.Catalog{Levels: []*level.File{
		{Name: "spike", Obstacles: []level.Record{
			{Type: "triangle", X: 10, Width: 0.9, Height: 0.9},
			{Type: "finish", X: 30, Width: 0.5},
		}},
		{Name: "open", Obstacles: []level.Record{
			{Type: "finish", X: 12, Width: 0.5},
		}},
		{Name: "broken", Obstacles: []level.Record{
			{Type: "hexagon", X: 5, Width: 1, Height: 1},
		}},
		{Name: "long", Obstacles: []level.Record{
			{Type: "finish", X: 400, Width: 0.5},
		}},
	}}
}

func testServer() *Server {
	return New(testCatalog(), config.Default(), 0)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	rec := do(t, testServer(), "GET", "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "minidash") {
		t.Error("index page missing title")
	}
	if rec := do(t, testServer(), "GET", "/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown path status = %d, want 404", rec.Code)
	}
}

func TestLevels(t *testing.T) {
	rec := do(t, testServer(), "GET", "/api/levels", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []levelSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("levels = %d, want 4", len(got))
	}
	if got[0].Name != "spike" || got[0].Obstacles != 2 || got[0].Finish != 30 {
		t.Errorf("level 0 = %+v", got[0])
	}
}

func TestLevelByIndex(t *testing.T) {
	s := testServer()
	rec := do(t, s, "GET", "/api/levels/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got level.File
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "open" {
		t.Errorf("name = %q, want open", got.Name)
	}

	if rec := do(t, s, "GET", "/api/levels/9", ""); rec.Code != http.StatusNotFound {
		t.Errorf("out of range status = %d, want 404", rec.Code)
	}
	if rec := do(t, s, "GET", "/api/levels/x", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric status = %d, want 400", rec.Code)
	}
}

func TestLevelValidation(t *testing.T) {
	s := testServer()
	var report struct {
		Valid  bool `json:"valid"`
		Errors []struct {
			Path string `json:"path"`
		} `json:"errors"`
	}

	rec := do(t, s, "GET", "/api/levels/0/validation", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !report.Valid {
		t.Errorf("spike level invalid: %s", rec.Body.String())
	}

	rec = do(t, s, "GET", "/api/levels/2/validation", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Valid || len(report.Errors) == 0 {
		t.Errorf("broken level valid, want errors")
	}
}

func TestLevelFrame(t *testing.T) {
	s := testServer()
	var frame struct {
		Metadata struct {
			Level    string `json:"level"`
			Tick     int    `json:"tick"`
			Distance int    `json:"distance"`
			Outcome  string `json:"outcome"`
			Debug    bool   `json:"debug"`
		} `json:"metadata"`
		Entities []struct {
			ID   string `json:"id"`
			Kind string `json:"kind"`
		} `json:"entities"`
	}

	rec := do(t, s, "GET", "/api/levels/0/frame", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &frame); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if frame.Metadata.Level != "spike" || frame.Metadata.Tick != 0 {
		t.Errorf("metadata = %+v", frame.Metadata)
	}
	if len(frame.Entities) != 2 || frame.Entities[0].Kind != "triangle" {
		t.Errorf("entities = %+v", frame.Entities)
	}

	rec = do(t, s, "GET", "/api/levels/0/frame?seconds=0.5&debug=true", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &frame); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if frame.Metadata.Tick == 0 || frame.Metadata.Distance == 0 {
		t.Errorf("stepped frame did not advance: %+v", frame.Metadata)
	}
	if !frame.Metadata.Debug {
		t.Error("debug = false, want true")
	}

	if rec := do(t, s, "GET", "/api/levels/0/frame?seconds=-1", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("negative seconds status = %d, want 400", rec.Code)
	}
	if rec := do(t, s, "GET", "/api/levels/2/frame", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("broken level status = %d, want 422", rec.Code)
	}
}

func TestSimulate(t *testing.T) {
	s := testServer()
	var res struct {
		Level    string `json:"level"`
		Outcome  string `json:"outcome"`
		Distance int    `json:"distance"`
		Blamed   int    `json:"blamed"`
	}

	rec := do(t, s, "POST", "/api/levels/0/simulate", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Outcome != "death" || res.Blamed != 0 {
		t.Errorf("no-input run = %+v, want death on obstacle 0", res)
	}

	rec = do(t, s, "POST", "/api/levels/1/simulate", `{"max_seconds": 10}`)
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Outcome != "level_complete" {
		t.Errorf("open level outcome = %q, want level_complete", res.Outcome)
	}

	if rec := do(t, s, "POST", "/api/levels/1/simulate", `{"script":`); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", rec.Code)
	}
	if rec := do(t, s, "GET", "/api/levels/1/simulate", ""); rec.Code != http.StatusNotFound {
		t.Errorf("GET simulate status = %d, want 404", rec.Code)
	}
}

func TestConfigEndpoint(t *testing.T) {
	rec := do(t, testServer(), "GET", "/api/config", "")
	var got struct {
		Config  config.Config  `json:"config"`
		Physics config.Physics `json:"physics"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Physics.Gravity != config.Default().Physics().Gravity {
		t.Errorf("gravity = %v, want %v", got.Physics.Gravity, config.Default().Physics().Gravity)
	}
	if got.Config.World.FPS != config.Default().World.FPS {
		t.Errorf("fps = %d, want %d", got.Config.World.FPS, config.Default().World.FPS)
	}
}

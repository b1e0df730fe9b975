// Package fixture serves stand-in candidate agents for local runs and tests.
// They hold no ranking or interview logic: each one echoes the last message
// behind a fixed specialist introduction.
package fixture

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kamusis/agent-scout/internal/agent"
	"github.com/kamusis/agent-scout/internal/transport"
)

// Specialist is one fixture agent.
type Specialist struct {
	Slug   string
	Label  string
	Intro  string
	Record agent.Record
}

// Specialists lists the fixture agents in route order.
var Specialists = []Specialist{
	{
		Slug:  "telemetry",
		Label: "TelemetryAgent",
		Intro: "I specialize in telemetry monitoring and performance optimization.",
		Record: agent.Record{
			"id":          "local-telemetry",
			"name":        "Local Telemetry Agent",
			"description": "Telemetry monitoring and performance optimization for cloud systems.",
			"skills": []any{
				map[string]any{"id": "latency-analysis", "description": "diagnose performance bottlenecks"},
				"telemetry",
			},
			"capabilities": map[string]any{"modalities": []any{"text"}},
			"telemetry": map[string]any{
				"metrics": map[string]any{"latency_p95_ms": 180, "availability": 0.995},
			},
		},
	},
	{
		Slug:  "math",
		Label: "MathAgent",
		Intro: "I specialize in math tutoring and problem solving.",
		Record: agent.Record{
			"id":          "local-math",
			"name":        "Local Math Tutor",
			"description": "Math tutoring and step by step problem solving.",
			"skills":      []any{"algebra", "calculus"},
		},
	},
}

// Reply is the fixture response body.
type Reply struct {
	Content string `json:"content"`
}

// NewRouter returns a chi router serving POST /agent/{slug} for every
// specialist and GET /agents with the matching catalog.
func NewRouter(logger *slog.Logger, baseURL string) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	for _, s := range Specialists {
		r.Post("/agent/"+s.Slug, s.handle)
	}
	r.Get("/agents", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, SampleCatalog(baseURL))
	})
	return r
}

func (s Specialist) handle(w http.ResponseWriter, r *http.Request) {
	var req transport.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusUnprocessableEntity)
		return
	}
	var msg string
	if n := len(req.Messages); n > 0 {
		msg = req.Messages[n-1].Content
	}
	writeJSON(w, http.StatusOK, Reply{Content: s.Answer(msg)})
}

// Answer is the text the specialist returns for msg.
func (s Specialist) Answer(msg string) string {
	return "[" + s.Label + "] " + s.Intro + " You asked: " + msg
}

// SampleCatalog returns catalog records whose endpoints point at a fixture
// server listening on baseURL.
func SampleCatalog(baseURL string) []agent.Record {
	base := strings.TrimRight(baseURL, "/")
	out := make([]agent.Record, 0, len(Specialists))
	for _, s := range Specialists {
		rec := make(agent.Record, len(s.Record)+1)
		for k, v := range s.Record {
			rec[k] = v
		}
		rec["endpoints"] = map[string]any{
			"static": []any{base + "/agent/" + s.Slug},
		}
		out = append(out, rec)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("fixture request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}

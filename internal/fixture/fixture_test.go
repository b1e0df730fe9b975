package fixture

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kamusis/agent-scout/internal/agent"
	"github.com/kamusis/agent-scout/internal/catalog"
	"github.com/kamusis/agent-scout/internal/selector"
	"github.com/kamusis/agent-scout/internal/transport"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		NewRouter(nil, srv.URL).ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSpecialistsEchoLastMessage(t *testing.T) {
	srv := newServer(t)
	client := transport.New()

	reply, err := client.Invoke(context.Background(), srv.URL+"/agent/telemetry", "Where is the p95 spike?")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	want := "[TelemetryAgent] I specialize in telemetry monitoring and performance optimization. You asked: Where is the p95 spike?"
	if got := reply.Fields["content"]; got != want {
		t.Fatalf("content = %v", got)
	}

	reply, err = client.Invoke(context.Background(), srv.URL+"/agent/math", "2+2?")
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if got, _ := reply.Fields["content"].(string); !strings.HasPrefix(got, "[MathAgent]") || !strings.HasSuffix(got, "You asked: 2+2?") {
		t.Fatalf("content = %q", got)
	}
}

func TestRejectsBadBody(t *testing.T) {
	srv := newServer(t)
	resp, err := http.Post(srv.URL+"/agent/math", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestUnknownRoute(t *testing.T) {
	srv := newServer(t)
	_, err := transport.New().Invoke(context.Background(), srv.URL+"/agent/chef", "hi")
	var te *transport.Error
	if err == nil || !errors.As(err, &te) || te.StatusCode != http.StatusNotFound {
		t.Fatalf("err = %v, want 404 transport error", err)
	}
}

func TestSampleCatalogResolvesToServer(t *testing.T) {
	recs := SampleCatalog("http://127.0.0.1:8000/")
	if len(recs) != len(Specialists) {
		t.Fatalf("len = %d", len(recs))
	}
	for i, rec := range recs {
		u, ok := agent.ResolveURL(rec)
		if !ok || u != "http://127.0.0.1:8000/agent/"+Specialists[i].Slug {
			t.Fatalf("record %d resolves to %q, %v", i, u, ok)
		}
	}
	if _, ok := Specialists[0].Record["endpoints"]; ok {
		t.Fatal("SampleCatalog mutated the specialist record")
	}

	urls, err := selector.Select(recs, "telemetry performance bottlenecks", 1)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(urls) != 1 || !strings.HasSuffix(urls[0], "/agent/telemetry") {
		t.Fatalf("urls = %v", urls)
	}
}

func TestAgentsEndpointServesCatalog(t *testing.T) {
	srv := newServer(t)
	resp, err := http.Get(srv.URL + "/agents")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var buf strings.Builder
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		t.Fatal(err)
	}
	recs, err := catalog.ParseJSON([]byte(buf.String()))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if u, _ := agent.ResolveURL(recs[1]); u != srv.URL+"/agent/math" {
		t.Fatalf("url = %q", u)
	}
}

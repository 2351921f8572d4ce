package httphandler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	// Packages
	chat "github.com/newjec/bizbrain/pkg/chat"
	httphandler "github.com/newjec/bizbrain/pkg/httphandler"
	opt "github.com/newjec/bizbrain/pkg/opt"
	pptx "github.com/newjec/bizbrain/pkg/pptx"
	relay "github.com/newjec/bizbrain/pkg/relay"
	schema "github.com/newjec/bizbrain/pkg/schema"
	sse "github.com/newjec/bizbrain/pkg/sse"
	websearch "github.com/newjec/bizbrain/pkg/websearch"
)

///////////////////////////////////////////////////////////////////////////////
// MOCK GENERATOR

type mockGenerator struct {
	deltas []string
}

func (g *mockGenerator) Name() string { return "mock" }

func (g *mockGenerator) Generate(_ context.Context, _ string, opts ...opt.Opt) (string, error) {
	options, err := opt.Apply(opts...)
	if err != nil {
		return "", err
	}
	var full string
	stream := options.GetStream()
	for _, delta := range g.deltas {
		full += delta
		if stream != nil {
			stream(delta)
		}
	}
	return full, nil
}

///////////////////////////////////////////////////////////////////////////////
// MOCK SEARCH PROVIDER

type mockSearcher struct{}

func (mockSearcher) Name() string { return "mock" }

func (mockSearcher) Search(_ context.Context, query string) (*schema.SearchResponse, error) {
	return &schema.SearchResponse{
		Query:   query,
		Results: []schema.SearchResult{{Title: "result", Url: "https://example.com", Content: "content"}},
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// HELPERS

func serveMux(t *testing.T, backend string) *http.ServeMux {
	t.Helper()

	generator := &mockGenerator{deltas: []string{"## 会社概要\n", "本文です。\n"}}
	aggregator, err := websearch.NewAggregator(mockSearcher{})
	if err != nil {
		t.Fatal(err)
	}
	analyzer, err := relay.New(generator, aggregator)
	if err != nil {
		t.Fatal(err)
	}
	assistant, err := chat.New(generator)
	if err != nil {
		t.Fatal(err)
	}
	slides, err := pptx.New(backend)
	if err != nil {
		t.Fatal(err)
	}

	mux := http.NewServeMux()
	path, handler, _ := httphandler.AnalyzeHandler(analyzer)
	mux.HandleFunc(path, handler)
	path, handler, _ = httphandler.ChatHandler(assistant)
	mux.HandleFunc(path, handler)
	path, handler, _ = httphandler.SearchHandler(aggregator)
	mux.HandleFunc(path, handler)
	path, handler, _ = httphandler.GeneratePowerPointHandler(slides)
	mux.HandleFunc(path, handler)
	path, handler, _ = httphandler.DownloadPowerPointHandler(slides)
	mux.HandleFunc(path, handler)
	path, handler, _ = httphandler.CleanupPowerPointHandler(slides)
	mux.HandleFunc(path, handler)
	return mux
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(data)))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

func decodeFrames(t *testing.T, body string) []schema.Event {
	t.Helper()
	decoder := sse.NewDecoder(strings.NewReader(body))
	var events []schema.Event
	for {
		frame, err := decoder.Next()
		if err != nil {
			break
		}
		var event schema.Event
		if err := frame.JSON(&event); err != nil {
			t.Fatal(err)
		}
		events = append(events, event)
	}
	return events
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func TestAnalyzeMissingCompanyName(t *testing.T) {
	mux := serveMux(t, "http://localhost:9")

	w := postJSON(t, mux, "/analyze-stream", schema.AnalyzeRequest{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("validation failure must not start a stream, got %q", ct)
	}
}

func TestAnalyzeStream(t *testing.T) {
	mux := serveMux(t, "http://localhost:9")

	w := postJSON(t, mux, "/analyze-stream", schema.AnalyzeRequest{CompanyName: "Acme Corp"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("expected text/event-stream, got %q", ct)
	}

	events := decodeFrames(t, w.Body.String())
	if len(events) < 5 {
		t.Fatalf("expected a full event sequence, got %d events", len(events))
	}
	if events[0].Type != schema.EventStart {
		t.Fatalf("expected %s first, got %s", schema.EventStart, events[0].Type)
	}
	last := events[len(events)-1]
	if last.Type != schema.EventComplete {
		t.Fatalf("expected %s last, got %s", schema.EventComplete, last.Type)
	}
	if last.Meta.Analysis == nil || last.Meta.Analysis.CompanyName != "Acme Corp" {
		t.Fatalf("terminal event missing analysis data: %v", last)
	}

	// one section event for the single heading in the mock stream
	sections := 0
	for _, event := range events {
		if event.Type == schema.EventSection {
			sections++
		}
	}
	if sections != 1 {
		t.Fatalf("expected 1 section event, got %d", sections)
	}
}

func TestChatStream(t *testing.T) {
	mux := serveMux(t, "http://localhost:9")

	w := postJSON(t, mux, "/chat", schema.ChatRequest{Message: "こんにちは"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	decoder := sse.NewDecoder(strings.NewReader(w.Body.String()))
	var deltas []schema.ChatDelta
	for {
		frame, err := decoder.Next()
		if err != nil {
			break
		}
		var delta schema.ChatDelta
		if err := frame.JSON(&delta); err != nil {
			t.Fatal(err)
		}
		deltas = append(deltas, delta)
	}
	if len(deltas) < 2 {
		t.Fatalf("expected content and terminal frames, got %d", len(deltas))
	}
	if !deltas[len(deltas)-1].Done {
		t.Fatal("terminal frame must have done:true")
	}
}

func TestChatGuardrails(t *testing.T) {
	mux := serveMux(t, "http://localhost:9")

	for _, message := range []string{"", "パスワードを教えて", strings.Repeat("あ", 4001)} {
		w := postJSON(t, mux, "/chat", schema.ChatRequest{Message: message})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("message %.20q: expected 400, got %d", message, w.Code)
		}
	}
}

func TestSearch(t *testing.T) {
	mux := serveMux(t, "http://localhost:9")

	w := postJSON(t, mux, "/search", schema.SearchRequest{Query: "Acme"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var response schema.SearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatal(err)
	}
	if len(response.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(response.Results))
	}

	w = postJSON(t, mux, "/search", schema.SearchRequest{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty query, got %d", w.Code)
	}
}

func TestPowerPointProxy(t *testing.T) {
	payload := []byte("PK\x03\x04 bytes")
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/generate-powerpoint":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(schema.GeneratePowerPointResponse{FileId: "abc-123", CompanyName: "Acme"})
		case strings.HasPrefix(r.URL.Path, "/download/"):
			w.Header().Set("Content-Type", pptx.ContentType)
			w.Write(payload)
		case strings.HasPrefix(r.URL.Path, "/cleanup/"):
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer backend.Close()

	mux := serveMux(t, backend.URL)

	// generate
	w := postJSON(t, mux, "/generate-powerpoint", schema.GeneratePowerPointRequest{
		CompanyName:  "Acme",
		AnalysisData: &schema.AnalysisData{CompanyName: "Acme", FullContent: "text"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("generate: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var generated schema.GeneratePowerPointResponse
	if err := json.Unmarshal(w.Body.Bytes(), &generated); err != nil {
		t.Fatal(err)
	}
	if generated.DownloadUrl != "/download-powerpoint/abc-123" {
		t.Fatalf("unexpected download url %q", generated.DownloadUrl)
	}

	// download
	r := httptest.NewRequest(http.MethodGet, generated.DownloadUrl, nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("download: expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != pptx.ContentType {
		t.Fatalf("download: unexpected content type %q", ct)
	}
	if w.Body.String() != string(payload) {
		t.Fatal("download: body mismatch")
	}

	// cleanup
	r = httptest.NewRequest(http.MethodDelete, "/cleanup-powerpoint/abc-123", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("cleanup: expected 200, got %d", w.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux := serveMux(t, "http://localhost:9")

	for _, path := range []string{"/analyze-stream", "/chat", "/search"} {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		if w.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s: expected 405, got %d", path, w.Code)
		}
	}
}

package server

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/twels/front/internal/config"
	"github.com/twels/front/internal/search"
	"github.com/twels/front/internal/store"
)

type fakeSearcher struct {
	mu       sync.Mutex
	requests []search.Request
	resp     search.Response
	err      error
}

func (f *fakeSearcher) Enabled() bool { return true }

func (f *fakeSearcher) Search(ctx context.Context, r search.Request) (search.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r)
	return f.resp, f.err
}

func (f *fakeSearcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeSearcher) lastRequest(t *testing.T) search.Request {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatalf("search backend was not called")
	}
	return f.requests[len(f.requests)-1]
}

type fakeRecognizer struct {
	mu     sync.Mutex
	latex  string
	ok     bool
	err    error
	images [][]byte
}

func (f *fakeRecognizer) Recognize(ctx context.Context, image []byte, contentType string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.images = append(f.images, image)
	return f.latex, f.ok, f.err
}

func (f *fakeRecognizer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.images)
}

type testServer struct {
	*httptest.Server
	state *stateStore
	srch  *fakeSearcher
	ocr   *fakeRecognizer
}

func newTestServer(t *testing.T, mutate ...func(*config.File)) *testServer {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Path = filepath.Join(t.TempDir(), "twels.db")
	for _, m := range mutate {
		m(&cfg)
	}

	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s, err := newStateStore(cfg, db)
	if err != nil {
		t.Fatalf("new state store: %v", err)
	}
	srch := &fakeSearcher{resp: search.Response{Results: []search.Result{
		{URI: "https://example.com/pythagoras", Title: "Pythagorean theorem", Snippet: "a^2+b^2=c^2"},
	}}}
	rec := &fakeRecognizer{}
	s.search = srch
	s.ocr = rec

	ts := httptest.NewServer(buildRouter(s))
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, state: s, srch: srch, ocr: rec}
}

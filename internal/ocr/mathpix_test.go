package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRecognizeSendsDataURL(t *testing.T) {
	var got latexRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("app_id") != "id" || r.Header.Get("app_key") != "key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"latex_styled":"\\frac{7x}{5x+15}","latex_confidence":0.96}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "id", "key", time.Second)
	latex, ok, err := c.Recognize(context.Background(), []byte("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("recognize: %v", err)
	}
	if !ok || latex != `\frac{7x}{5x+15}` {
		t.Fatalf("unexpected result: ok=%v latex=%q", ok, latex)
	}
	if !strings.HasPrefix(got.Src, "data:image/png;base64,") {
		t.Fatalf("src: %q", got.Src)
	}
	if len(got.Formats) != 1 || got.Formats[0] != "latex_styled" || !got.SkipRecrop {
		t.Fatalf("request options: %+v", got)
	}
}

func TestRecognizeNoFormula(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Content not found"}`))
	}))
	defer srv.Close()

	latex, ok, err := NewClient(srv.URL, "id", "key", time.Second).Recognize(context.Background(), []byte("x"), "")
	if err != nil || ok || latex != "" {
		t.Fatalf("expected not recognized, got latex=%q ok=%v err=%v", latex, ok, err)
	}
}

func TestRecognizeStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, _, err := NewClient(srv.URL, "id", "key", time.Second).Recognize(context.Background(), []byte("x"), "image/jpeg")
	if err == nil || !strings.Contains(err.Error(), "status=429") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestRecognizeRequiresCredentials(t *testing.T) {
	_, _, err := NewClient("", "", "", 0).Recognize(context.Background(), []byte("x"), "")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

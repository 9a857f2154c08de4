package mathrender

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/twels/front/internal/dom"
)

func TestMarkup(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", `<span>\(\)</span>`},
		{"x^2", `<span>\(x^2\)</span>`},
		{"a b  c", `<span>\(a b\)</span><span>\(c\)</span>`},
		{"a<b", `<span>\(a&lt;b\)</span>`},
	}
	for _, tc := range cases {
		if got := Markup(tc.in); got != tc.want {
			t.Fatalf("Markup(%q): got %q want %q", tc.in, got, tc.want)
		}
	}
}

type failingTypesetter struct{ err error }

func (f failingTypesetter) Typeset(context.Context, *Canvas) error { return f.err }

func TestRenderInputKeepsPriorContentOnFailure(t *testing.T) {
	canvas := &Canvas{ID: "canvas", HTML: "<span>old</span>"}
	boom := errors.New("typeset failed")
	r := &Renderer{Canvas: canvas, Typesetter: failingTypesetter{err: boom}}
	err := r.RenderInput(context.Background(), "x  y")
	if !errors.Is(err, boom) {
		t.Fatalf("expected typeset error, got %v", err)
	}
	if canvas.HTML != "<span>old</span>" {
		t.Fatalf("canvas changed: %q", canvas.HTML)
	}
}

func TestRenderInputDeferred(t *testing.T) {
	d := &Deferred{}
	canvas := &Canvas{ID: "canvas"}
	r := &Renderer{Canvas: canvas, Typesetter: d}
	for _, text := range []string{"x", "x  y"} {
		if err := r.RenderInput(context.Background(), text); err != nil {
			t.Fatalf("render %q: %v", text, err)
		}
	}
	if canvas.HTML != `<span>\(x\)</span><span>\(y\)</span>` {
		t.Fatalf("canvas: %q", canvas.HTML)
	}
	if diff := cmp.Diff([]string{"canvas"}, d.Pending()); diff != "" {
		t.Fatalf("pending (-want +got):\n%s", diff)
	}
}

func TestRenderInputMissingCanvas(t *testing.T) {
	var me *dom.MissingElementError
	if err := (&Renderer{}).RenderInput(context.Background(), "x"); !errors.As(err, &me) {
		t.Fatalf("expected MissingElementError, got %v", err)
	}
}

func TestDeferredHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := &Deferred{}
	if err := d.Typeset(ctx, &Canvas{ID: "canvas"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(d.Pending()) != 0 {
		t.Fatalf("cancelled typeset must not queue")
	}
}

// blockingTypesetter waits for release or ctx and records overlap.
type blockingTypesetter struct {
	mu      sync.Mutex
	running int
	overlap bool
	calls   []string
	release chan struct{}
}

func (b *blockingTypesetter) Typeset(ctx context.Context, c *Canvas) error {
	b.mu.Lock()
	b.running++
	if b.running > 1 {
		b.overlap = true
	}
	b.calls = append(b.calls, c.HTML)
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		b.running--
		b.mu.Unlock()
	}()
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestRenderInputTimeoutKeepsPriorContent(t *testing.T) {
	canvas := &Canvas{ID: "canvas", HTML: "<span>old</span>"}
	r := &Renderer{Canvas: canvas, Typesetter: &blockingTypesetter{release: make(chan struct{})}}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := r.RenderInput(ctx, "x")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if canvas.HTML != "<span>old</span>" {
		t.Fatalf("canvas changed: %q", canvas.HTML)
	}
}

func TestLoopSerializesRenders(t *testing.T) {
	ts := &blockingTypesetter{release: make(chan struct{})}
	var mu sync.Mutex
	text := "a"
	current := func() string {
		mu.Lock()
		defer mu.Unlock()
		return text
	}
	loop := NewLoop(&Renderer{Canvas: &Canvas{ID: "canvas"}, Typesetter: ts}, current, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	loop.Request()
	waitCalls(t, ts, 1)

	// Requests made during the first render collapse into one follow-up.
	mu.Lock()
	text = "b"
	mu.Unlock()
	loop.Request()
	loop.Request()
	loop.Request()
	ts.release <- struct{}{}
	waitCalls(t, ts, 2)
	ts.release <- struct{}{}

	cancel()
	<-done

	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.overlap {
		t.Fatalf("renders overlapped")
	}
	want := []string{`<span>\(a\)</span>`, `<span>\(b\)</span>`}
	if diff := cmp.Diff(want, ts.calls); diff != "" {
		t.Fatalf("typeset calls (-want +got):\n%s", diff)
	}
}

func waitCalls(t *testing.T, ts *blockingTypesetter, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ts.mu.Lock()
		got := len(ts.calls)
		ts.mu.Unlock()
		if got >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d typeset calls", n)
}

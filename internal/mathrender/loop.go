package mathrender

import (
	"context"
	"log/slog"
	"time"
)

// Loop runs renders one at a time on the goroutine that calls Run. Requests
// made while a render is in flight collapse into one follow-up render of the
// text current at that point.
type Loop struct {
	Renderer *Renderer
	Text     func() string
	Timeout  time.Duration

	wake chan struct{}
}

func NewLoop(r *Renderer, text func() string, timeout time.Duration) *Loop {
	return &Loop{Renderer: r, Text: text, Timeout: timeout, wake: make(chan struct{}, 1)}
}

// Request schedules a render without blocking.
func (l *Loop) Request() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run renders until ctx ends.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
			l.renderOnce(ctx)
		}
	}
}

func (l *Loop) renderOnce(ctx context.Context) {
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}
	if err := l.Renderer.RenderInput(ctx, l.Text()); err != nil {
		slog.Warn("render math input", "error", err)
	}
}

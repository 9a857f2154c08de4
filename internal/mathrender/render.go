// Package mathrender turns search text into per-query math spans and hands
// them to a typesetting library.
package mathrender

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/twels/front/internal/dom"
	"github.com/twels/front/internal/querycodec"
)

// Typesetter renders the math markup held by a canvas. Completion order is
// the library's business.
type Typesetter interface {
	Typeset(ctx context.Context, c *Canvas) error
}

// Canvas is the element holding one span per query.
type Canvas struct {
	ID   string
	HTML string
}

// Markup returns one inline-math span per query of text. Query content is
// HTML escaped.
func Markup(text string) string {
	var b strings.Builder
	for _, q := range querycodec.SplitQueries(text) {
		b.WriteString(`<span>\(`)
		b.WriteString(html.EscapeString(q))
		b.WriteString(`\)</span>`)
	}
	return b.String()
}

type Renderer struct {
	Canvas     *Canvas
	Typesetter Typesetter
}

// RenderInput replaces the canvas content with the spans for text and asks
// the typesetter to render it. When typesetting fails the previous content
// is put back.
func (r *Renderer) RenderInput(ctx context.Context, text string) error {
	if r.Canvas == nil {
		return &dom.MissingElementError{Selector: "#canvas"}
	}
	prev := r.Canvas.HTML
	r.Canvas.HTML = Markup(text)
	if r.Typesetter == nil {
		return nil
	}
	if err := r.Typesetter.Typeset(ctx, r.Canvas); err != nil {
		r.Canvas.HTML = prev
		return fmt.Errorf("typeset %s: %w", r.Canvas.ID, err)
	}
	return nil
}

// Deferred queues canvases for the browser to typeset once the page loads.
type Deferred struct {
	mu      sync.Mutex
	pending []string
}

func (d *Deferred) Typeset(ctx context.Context, c *Canvas) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range d.pending {
		if id == c.ID {
			return nil
		}
	}
	d.pending = append(d.pending, c.ID)
	return nil
}

// Pending returns the queued canvas IDs in order.
func (d *Deferred) Pending() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.pending...)
}

// Package page models the state of the search page: the input box and its
// caret, the rendered math canvas, the language checkboxes, the keyboard
// tabs and the upload trigger. The server renders it; the browser build
// drives the same model from DOM events.
package page

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/twels/front/internal/dom"
	"github.com/twels/front/internal/formstate"
	"github.com/twels/front/internal/keyboard"
	"github.com/twels/front/internal/mathrender"
	"github.com/twels/front/internal/querycodec"
	"github.com/twels/front/internal/tabs"
	"github.com/twels/front/internal/upload"
	"github.com/twels/front/internal/urlparam"
)

const (
	CanvasID   = "canvas"
	StartParam = "start"
)

type Page struct {
	Input     string
	Caret     int
	Start     int
	Canvas    *mathrender.Canvas
	Languages []*formstate.Option
	Keyboard  keyboard.Layout
	Tabs      []*dom.Element
	Panels    []*dom.Element
	Upload    *upload.Trigger

	renderer *mathrender.Renderer
	tabs     *tabs.Controller
	variant  querycodec.Variant
}

// Config holds the collaborators a page is built with. A nil Typesetter
// leaves typesetting to the browser. A zero Variant writes V2 URLs.
type Config struct {
	Variant    querycodec.Variant
	Languages  []formstate.Option
	Keyboard   keyboard.Layout
	Typesetter mathrender.Typesetter
	Upload     *upload.Trigger
}

// New builds the page for params: q fills the input and the canvas, lr is
// reflected onto the language checkboxes, start is the result offset.
func New(ctx context.Context, params urlparam.Params, cfg Config) (*Page, error) {
	p := &Page{
		Canvas:   &mathrender.Canvas{ID: CanvasID},
		Keyboard: cfg.Keyboard,
		Upload:   cfg.Upload,
		variant:  cfg.Variant,
	}
	if p.variant == 0 {
		p.variant = querycodec.V2
	}
	for _, o := range cfg.Languages {
		o := o
		if o.Name == "" {
			o.Name = formstate.LanguageParam
		}
		p.Languages = append(p.Languages, &o)
	}
	formstate.Reflect(params, formstate.LanguageParam, p.Languages)

	if v := params.Get(StartParam); v != "" {
		start, err := strconv.Atoi(v)
		if err != nil || start < 0 {
			return nil, fmt.Errorf("invalid %s parameter %q", StartParam, v)
		}
		p.Start = start
	}

	for i, panel := range cfg.Keyboard.Panels {
		tab := dom.NewElement("tab-"+panel.Name, "tab")
		pan := dom.NewElement("panel-"+panel.Name, "panel")
		if i == 0 {
			tab.AddClass(tabs.ActiveClass)
			pan.AddClass(tabs.ShownClass)
		}
		p.Tabs = append(p.Tabs, tab)
		p.Panels = append(p.Panels, pan)
	}
	if len(p.Tabs) > 0 {
		c, err := tabs.NewController(p.Tabs, p.Panels)
		if err != nil {
			return nil, err
		}
		p.tabs = c
	}

	p.renderer = &mathrender.Renderer{Canvas: p.Canvas, Typesetter: cfg.Typesetter}
	if err := p.SetInput(ctx, params.Get(urlparam.QueryParam)); err != nil {
		return nil, err
	}
	return p, nil
}

// SetInput replaces the input text, moves the caret to its end and
// re-renders the canvas. A render failure leaves the canvas as it was and
// is only logged.
func (p *Page) SetInput(ctx context.Context, text string) error {
	p.Input = text
	p.Caret = len([]rune(text))
	return p.render(ctx)
}

// InsertExpr inserts a keyboard expression at the caret.
func (p *Page) InsertExpr(ctx context.Context, expr string) error {
	p.Input, p.Caret = keyboard.Insert(p.Input, p.Caret, expr)
	return p.render(ctx)
}

func (p *Page) render(ctx context.Context) error {
	if err := p.renderer.RenderInput(ctx, p.Input); err != nil {
		var missing *dom.MissingElementError
		if errors.As(err, &missing) {
			return err
		}
		slog.Warn("render math input", "error", err)
	}
	return nil
}

// SelectTab shows keyboard panel i.
func (p *Page) SelectTab(i int) error {
	if p.tabs == nil {
		return &dom.MissingElementError{Selector: ".tab"}
	}
	return p.tabs.Select(i)
}

// ActiveTab returns the index of the shown keyboard panel, or -1.
func (p *Page) ActiveTab() int {
	if p.tabs == nil {
		return -1
	}
	return p.tabs.State().Active
}

// Queries returns the queries of the current input.
func (p *Page) Queries() []string {
	return querycodec.SplitQueries(p.Input)
}

// CheckedLanguages returns the checked language values in display order.
func (p *Page) CheckedLanguages() []string {
	return formstate.CheckedValues(p.Languages)
}

// NavigationURL is the GET URL a search submits to: q written with the
// page's codec variant followed by one lr pair per checked language.
func (p *Page) NavigationURL(base string) string {
	return base + "?" + urlparam.QueryParam + "=" + querycodec.URLValue(p.variant, p.Input) +
		formstate.AppendQuery(formstate.LanguageParam, p.CheckedLanguages())
}

// NextURL is the navigation URL for the following result page.
func (p *Page) NextURL(base string, pageSize int) string {
	return p.NavigationURL(base) + "&" + StartParam + "=" + strconv.Itoa(p.Start+pageSize)
}

// OpenUpload opens the image picker through the upload trigger.
func (p *Page) OpenUpload() error {
	if p.Upload == nil {
		return &dom.MissingElementError{Selector: "#uploadImage"}
	}
	return p.Upload.Open()
}

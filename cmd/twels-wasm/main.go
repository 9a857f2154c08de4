//go:build js && wasm

// Command twels-wasm drives the search page in the browser: it renders the
// input as math while typing, runs the keyboard tabs, opens the image
// picker and writes the search URL with the query codec.
package main

import (
	"context"
	"log/slog"
	"syscall/js"
	"time"

	"github.com/twels/front/internal/formstate"
	"github.com/twels/front/internal/keyboard"
	"github.com/twels/front/internal/mathrender"
	"github.com/twels/front/internal/page"
	"github.com/twels/front/internal/querycodec"
	"github.com/twels/front/internal/tabs"
	"github.com/twels/front/internal/upload"
	"github.com/twels/front/internal/urlparam"
)

const renderTimeout = 10 * time.Second

type app struct {
	input    js.Value
	variant  querycodec.Variant
	boxes    []checkbox
	renderer *mathrender.Renderer
	tabs     *tabs.Controller
	trigger  *upload.Trigger
	renders  *mathrender.Loop
}

func main() {
	a, err := newApp()
	if err != nil {
		slog.Error("start page", "error", err)
		return
	}
	a.bind()
	a.renders.Run(context.Background())
}

func newApp() (*app, error) {
	input, err := byID("input")
	if err != nil {
		return nil, err
	}
	searchForm, err := byID("searchForm")
	if err != nil {
		return nil, err
	}
	variant, err := querycodec.ParseVariant(searchForm.Get("dataset").Get("codec").String())
	if err != nil {
		variant = querycodec.V2
	}
	a := &app{
		input:    input,
		variant:  variant,
		renderer: &mathrender.Renderer{Canvas: &mathrender.Canvas{ID: page.CanvasID}, Typesetter: mathJax{}},
	}

	opts := urlparam.DefaultOptions
	if variant == querycodec.V1 {
		opts.Revision = urlparam.RevisionHiddenForm
	}
	params, err := urlparam.ParseWithOptions(js.Global().Get("location").Get("search").String(), opts)
	if err != nil {
		slog.Warn("parse page url", "error", err)
		params = urlparam.Params{}
	}
	for _, el := range queryAll(`input[name="` + formstate.LanguageParam + `"]`) {
		a.boxes = append(a.boxes, checkbox{el: el})
	}
	formstate.Reflect(params, formstate.LanguageParam, a.boxes)

	var tabEls, panelEls []classList
	for _, el := range queryAll(".tab") {
		tabEls = append(tabEls, classList{el: el})
	}
	for _, el := range queryAll(".panel") {
		panelEls = append(panelEls, classList{el: el})
	}
	if len(tabEls) > 0 {
		c, err := tabs.NewController(tabEls, panelEls)
		if err != nil {
			slog.Warn("keyboard tabs", "error", err)
		} else {
			a.tabs = c
		}
	}

	trigger := &upload.Trigger{OnError: func(err error) {
		js.Global().Call("alert", "The image could not be sent: "+err.Error())
	}}
	if el, err := byID("uploadImage"); err == nil {
		trigger.Input = fileInput{el: el}
	}
	if el, err := byID("imageForm"); err == nil {
		trigger.Form = form{el: el}
	}
	a.trigger = trigger
	a.renders = mathrender.NewLoop(a.renderer, func() string { return a.input.Get("value").String() }, renderTimeout)
	return a, nil
}

func (a *app) bind() {
	a.input.Call("addEventListener", "input", js.FuncOf(func(js.Value, []js.Value) any {
		a.renders.Request()
		return nil
	}))

	for i, el := range queryAll(".tab") {
		el.Call("addEventListener", "click", js.FuncOf(func(_ js.Value, args []js.Value) any {
			args[0].Call("preventDefault")
			if a.tabs == nil {
				return nil
			}
			if err := a.tabs.Select(i); err != nil {
				slog.Warn("select keyboard tab", "tab", i, "error", err)
			}
			return nil
		}))
	}

	for _, el := range queryAll(".key") {
		expr := el.Get("dataset").Get("expr").String()
		el.Call("addEventListener", "click", js.FuncOf(func(js.Value, []js.Value) any {
			a.insert(expr)
			a.renders.Request()
			return nil
		}))
	}

	if el, err := byID("camera"); err == nil {
		el.Call("addEventListener", "click", js.FuncOf(func(js.Value, []js.Value) any {
			if err := a.trigger.Open(); err != nil {
				slog.Warn("open image picker", "error", err)
			}
			return nil
		}))
	}

	if el, err := byID("searchForm"); err == nil {
		el.Call("addEventListener", "submit", js.FuncOf(func(_ js.Value, args []js.Value) any {
			args[0].Call("preventDefault")
			js.Global().Get("location").Set("href", a.navigationURL())
			return nil
		}))
	}
}

// insert puts expr at the caret and moves the caret behind it.
func (a *app) insert(expr string) {
	text := a.input.Get("value").String()
	caret := a.input.Get("selectionStart").Int()
	text, caret = keyboard.Insert(text, keyboard.UTF16ToRunes(text, caret), expr)
	a.input.Set("value", text)
	pos := keyboard.RunesToUTF16(text, caret)
	a.input.Call("setSelectionRange", pos, pos)
	a.input.Call("focus")
}

func (a *app) navigationURL() string {
	var checked []string
	for _, b := range a.boxes {
		if b.Checked() {
			checked = append(checked, b.Value())
		}
	}
	text := a.input.Get("value").String()
	return "/?" + urlparam.QueryParam + "=" + querycodec.URLValue(a.variant, text) +
		formstate.AppendQuery(formstate.LanguageParam, checked)
}

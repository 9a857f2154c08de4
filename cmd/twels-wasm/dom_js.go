//go:build js && wasm

package main

import (
	"context"
	"errors"
	"sync"
	"syscall/js"

	"github.com/twels/front/internal/dom"
	"github.com/twels/front/internal/mathrender"
)

var document = js.Global().Get("document")

func byID(id string) (js.Value, error) {
	v := document.Call("getElementById", id)
	if v.IsNull() || v.IsUndefined() {
		return js.Value{}, &dom.MissingElementError{Selector: "#" + id}
	}
	return v, nil
}

func queryAll(selector string) []js.Value {
	list := document.Call("querySelectorAll", selector)
	out := make([]js.Value, list.Length())
	for i := range out {
		out[i] = list.Index(i)
	}
	return out
}

// classList adapts an element's classList to the tab controller.
type classList struct{ el js.Value }

func (c classList) HasClass(s string) bool { return c.el.Get("classList").Call("contains", s).Bool() }
func (c classList) AddClass(s string)      { c.el.Get("classList").Call("add", s) }
func (c classList) RemoveClass(s string)   { c.el.Get("classList").Call("remove", s) }

// checkbox adapts an <input type=checkbox> to formstate.Checkbox.
type checkbox struct{ el js.Value }

func (c checkbox) Value() string      { return c.el.Get("value").String() }
func (c checkbox) SetChecked(on bool) { c.el.Set("checked", on) }
func (c checkbox) Checked() bool      { return c.el.Get("checked").Bool() }

type fileInput struct{ el js.Value }

func (f fileInput) OnChange(fn func()) {
	f.el.Call("addEventListener", "change", js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	}))
}

func (f fileInput) Click() { f.el.Call("click") }

type form struct{ el js.Value }

func (f form) Submit() error {
	if f.el.IsUndefined() || f.el.IsNull() {
		return errors.New("image form is gone")
	}
	f.el.Call("submit")
	return nil
}

// mathJax typesets a canvas with MathJax 3. The element content is put
// back when typesetting is rejected or ctx ends first. The promise callbacks
// release themselves once the promise settles, so an abandoned typeset can
// still complete safely.
type mathJax struct{}

func (mathJax) Typeset(ctx context.Context, c *mathrender.Canvas) error {
	el, err := byID(c.ID)
	if err != nil {
		return err
	}
	prev := el.Get("innerHTML")
	el.Set("innerHTML", c.HTML)

	mj := js.Global().Get("MathJax")
	if mj.IsUndefined() || mj.Get("typesetPromise").IsUndefined() {
		// Not loaded yet: MathJax typesets the page itself on startup.
		return nil
	}

	done := make(chan error, 1)
	var then, fail js.Func
	var release sync.Once
	settle := func(err error) {
		done <- err
		release.Do(func() {
			then.Release()
			fail.Release()
		})
	}
	then = js.FuncOf(func(js.Value, []js.Value) any {
		settle(nil)
		return nil
	})
	fail = js.FuncOf(func(_ js.Value, args []js.Value) any {
		msg := "typeset rejected"
		if len(args) > 0 {
			msg = args[0].Call("toString").String()
		}
		settle(errors.New(msg))
		return nil
	})
	mj.Call("typesetPromise", js.ValueOf([]any{el})).Call("then", then, fail)

	select {
	case err := <-done:
		if err != nil {
			el.Set("innerHTML", prev)
		}
		return err
	case <-ctx.Done():
		el.Set("innerHTML", prev)
		return ctx.Err()
	}
}

// Package keyboard holds the on-screen math keyboard: its panels of keys and
// insertion of a key's expression at the caret.
package keyboard

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type Key struct {
	Label string `yaml:"label" json:"label"`
	Expr  string `yaml:"expr" json:"expr"`
}

type Panel struct {
	Name string `yaml:"name" json:"name"`
	Keys []Key  `yaml:"keys" json:"keys"`
}

type Layout struct {
	Panels []Panel `yaml:"panels" json:"panels"`
}

// DefaultLayout is used when the config file defines no keyboard.
func DefaultLayout() Layout {
	return Layout{Panels: []Panel{
		{Name: "basic", Keys: []Key{
			{Label: "+", Expr: "+"}, {Label: "−", Expr: "-"}, {Label: "×", Expr: `\times `},
			{Label: "÷", Expr: `\div `}, {Label: "=", Expr: "="}, {Label: "( )", Expr: "()"},
			{Label: "x²", Expr: "^{2}"}, {Label: "xₙ", Expr: "_{n}"},
		}},
		{Name: "functions", Keys: []Key{
			{Label: "a/b", Expr: `\frac{}{}`}, {Label: "√", Expr: `\sqrt{}`},
			{Label: "sin", Expr: `\sin `}, {Label: "cos", Expr: `\cos `}, {Label: "log", Expr: `\log `},
			{Label: "exp", Expr: `\exp `},
		}},
		{Name: "calculus", Keys: []Key{
			{Label: "∫", Expr: `\int_{}^{}`}, {Label: "∑", Expr: `\sum_{}^{}`},
			{Label: "lim", Expr: `\lim_{ \to }`}, {Label: "∂", Expr: `\partial `},
			{Label: "∞", Expr: `\infty `},
		}},
		{Name: "greek", Keys: []Key{
			{Label: "α", Expr: `\alpha `}, {Label: "β", Expr: `\beta `}, {Label: "γ", Expr: `\gamma `},
			{Label: "θ", Expr: `\theta `}, {Label: "λ", Expr: `\lambda `}, {Label: "π", Expr: `\pi `},
		}},
	}}
}

func (l Layout) Validate() []string {
	var errs []string
	if len(l.Panels) == 0 {
		errs = append(errs, "keyboard.panels must contain at least one panel")
	}
	seen := map[string]struct{}{}
	for i, p := range l.Panels {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			errs = append(errs, fmt.Sprintf("keyboard.panels[%d].name is required", i))
		} else {
			if _, ok := seen[name]; ok {
				errs = append(errs, fmt.Sprintf("keyboard.panels[%d].name duplicate %q", i, name))
			}
			seen[name] = struct{}{}
		}
		for j, k := range p.Keys {
			if k.Expr == "" {
				errs = append(errs, fmt.Sprintf("keyboard.panels[%d].keys[%d].expr is required", i, j))
			}
		}
	}
	return errs
}

// Insert puts expr into text at caret, a rune offset clamped to the text,
// and returns the new text with the caret placed after expr.
func Insert(text string, caret int, expr string) (string, int) {
	n := utf8.RuneCountInString(text)
	if caret < 0 {
		caret = 0
	}
	if caret > n {
		caret = n
	}
	split := len(text)
	for i := range text {
		if caret == 0 {
			split = i
			break
		}
		caret--
	}
	head := text[:split] + expr
	return head + text[split:], utf8.RuneCountInString(head)
}

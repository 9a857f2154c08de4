// Package dom holds the small element model shared by the page components.
// Elements carry a class list only; the page template turns them into markup.
package dom

import (
	"fmt"
	"slices"
	"strings"
)

// MissingElementError reports an element the page expected but did not have.
type MissingElementError struct {
	Selector string
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("missing element %s", e.Selector)
}

type Element struct {
	ID      string
	classes []string
}

func NewElement(id string, classes ...string) *Element {
	e := &Element{ID: id}
	for _, c := range classes {
		e.AddClass(c)
	}
	return e
}

func (e *Element) HasClass(c string) bool {
	return slices.Contains(e.classes, c)
}

func (e *Element) AddClass(c string) {
	if c == "" || e.HasClass(c) {
		return
	}
	e.classes = append(e.classes, c)
}

func (e *Element) RemoveClass(c string) {
	e.classes = slices.DeleteFunc(e.classes, func(x string) bool { return x == c })
}

// ClassName renders the class attribute value.
func (e *Element) ClassName() string {
	return strings.Join(e.classes, " ")
}

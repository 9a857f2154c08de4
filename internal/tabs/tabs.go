// Package tabs switches the on-screen keyboard tabs and their panels.
//
// Exactly one tab carries ActiveClass and the panel at the same index carries
// ShownClass. Transition computes the class mutations for a selection without
// touching any element; Controller applies them.
package tabs

import (
	"fmt"

	"github.com/twels/front/internal/dom"
)

const (
	ActiveClass = "is-active"
	ShownClass  = "is-show"
)

type State struct {
	Active int
	Count  int
}

type Target int

const (
	TabTarget Target = iota
	PanelTarget
)

type Op int

const (
	RemoveClass Op = iota
	AddClass
)

type Mutation struct {
	Target Target
	Index  int
	Op     Op
	Class  string
}

// PreconditionError reports a tab set that does not have exactly one active
// tab with its panel shown.
type PreconditionError struct {
	ActiveTabs  []int
	ShownPanels []int
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("tabs: want exactly one active tab and matching shown panel, got active=%v shown=%v", e.ActiveTabs, e.ShownPanels)
}

// NewState validates active against count.
func NewState(count, active int) (State, error) {
	if count <= 0 {
		return State{}, &dom.MissingElementError{Selector: ".tab"}
	}
	if active < 0 || active >= count {
		return State{}, &dom.MissingElementError{Selector: fmt.Sprintf(".tab[%d]", active)}
	}
	return State{Active: active, Count: count}, nil
}

// Transition returns the state after selecting next and the mutations that
// move the active and shown marks. Selecting the active tab yields no
// mutations.
func Transition(s State, next int) (State, []Mutation, error) {
	if next < 0 || next >= s.Count {
		return s, nil, &dom.MissingElementError{Selector: fmt.Sprintf(".tab[%d]", next)}
	}
	if next == s.Active {
		return s, nil, nil
	}
	muts := []Mutation{
		{Target: TabTarget, Index: s.Active, Op: RemoveClass, Class: ActiveClass},
		{Target: TabTarget, Index: next, Op: AddClass, Class: ActiveClass},
		{Target: PanelTarget, Index: s.Active, Op: RemoveClass, Class: ShownClass},
		{Target: PanelTarget, Index: next, Op: AddClass, Class: ShownClass},
	}
	return State{Active: next, Count: s.Count}, muts, nil
}

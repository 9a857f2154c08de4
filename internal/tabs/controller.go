package tabs

import (
	"fmt"

	"github.com/twels/front/internal/dom"
)

// ClassList is the part of an element the controller needs.
type ClassList interface {
	HasClass(string) bool
	AddClass(string)
	RemoveClass(string)
}

// Controller keeps tab and panel elements, paired by index, in sync with a
// State.
type Controller struct {
	tabs   []ClassList
	panels []ClassList
	state  State
}

// NewController reads the current marks from the elements. The elements must
// already satisfy the one-active invariant.
func NewController[E ClassList](tabs, panels []E) (*Controller, error) {
	if len(tabs) == 0 {
		return nil, &dom.MissingElementError{Selector: ".tab"}
	}
	if len(panels) != len(tabs) {
		return nil, fmt.Errorf("tabs: %d tabs but %d panels", len(tabs), len(panels))
	}
	c := &Controller{tabs: classLists(tabs), panels: classLists(panels)}
	active, err := c.checkInvariant()
	if err != nil {
		return nil, err
	}
	c.state = State{Active: active, Count: len(tabs)}
	return c, nil
}

func (c *Controller) State() State {
	return c.state
}

// Select activates tab i and shows panel i. The current pair is read back
// from the elements, which may have been changed by someone else.
func (c *Controller) Select(i int) error {
	active, err := c.checkInvariant()
	if err != nil {
		return err
	}
	c.state.Active = active
	next, muts, err := Transition(c.state, i)
	if err != nil {
		return err
	}
	for _, m := range muts {
		c.apply(m)
	}
	c.state = next
	return nil
}

func (c *Controller) apply(m Mutation) {
	el := c.tabs[m.Index]
	if m.Target == PanelTarget {
		el = c.panels[m.Index]
	}
	switch m.Op {
	case AddClass:
		el.AddClass(m.Class)
	case RemoveClass:
		el.RemoveClass(m.Class)
	}
}

func (c *Controller) checkInvariant() (int, error) {
	var active, shown []int
	for i, t := range c.tabs {
		if t.HasClass(ActiveClass) {
			active = append(active, i)
		}
	}
	for i, p := range c.panels {
		if p.HasClass(ShownClass) {
			shown = append(shown, i)
		}
	}
	if len(active) != 1 || len(shown) != 1 || active[0] != shown[0] {
		return 0, &PreconditionError{ActiveTabs: active, ShownPanels: shown}
	}
	return active[0], nil
}

func classLists[E ClassList](els []E) []ClassList {
	out := make([]ClassList, len(els))
	for i, e := range els {
		out[i] = e
	}
	return out
}

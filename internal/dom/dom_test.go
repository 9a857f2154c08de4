package dom

import "testing"

func TestElementClassList(t *testing.T) {
	e := NewElement("tab-0", "tab", "is-active", "tab")
	if got := e.ClassName(); got != "tab is-active" {
		t.Fatalf("class name: got %q", got)
	}
	e.RemoveClass("is-active")
	if e.HasClass("is-active") {
		t.Fatalf("is-active should be removed")
	}
	e.RemoveClass("missing")
	e.AddClass("")
	if got := e.ClassName(); got != "tab" {
		t.Fatalf("class name: got %q", got)
	}
}

func TestMissingElementError(t *testing.T) {
	err := &MissingElementError{Selector: "#canvas"}
	if err.Error() != "missing element #canvas" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

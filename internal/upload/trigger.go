// Package upload wires the camera/file picker to the image form and checks
// uploaded file names.
package upload

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/twels/front/internal/dom"
)

// FileInput is the hidden file input behind the camera button.
type FileInput interface {
	OnChange(func())
	Click()
}

// Form is the image form posted when a file is chosen.
type Form interface {
	Submit() error
}

// Trigger opens the picker and submits Form once a file is chosen. The
// change listener is attached on the first Open only.
type Trigger struct {
	Input FileInput
	Form  Form

	// OnError receives submit failures. Nil only logs them.
	OnError func(error)

	once  sync.Once
	wired atomic.Bool
}

// Open attaches the change listener if needed and opens the picker.
func (t *Trigger) Open() error {
	if t.Input == nil {
		return &dom.MissingElementError{Selector: "#uploadImage"}
	}
	if t.Form == nil {
		return &dom.MissingElementError{Selector: "#imageForm"}
	}
	t.once.Do(func() {
		t.Input.OnChange(t.submit)
		t.wired.Store(true)
	})
	t.Input.Click()
	return nil
}

// Wired reports whether the change listener is attached.
func (t *Trigger) Wired() bool {
	return t.wired.Load()
}

func (t *Trigger) submit() {
	if err := t.Form.Submit(); err != nil {
		slog.Error("submit image form", "error", err)
		if t.OnError != nil {
			t.OnError(err)
		}
	}
}

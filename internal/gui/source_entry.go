package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// SourceEntry is a multi-line entry that submits on Ctrl+Enter and hands
// Escape to a callback. Plain Enter still inserts a newline.
type SourceEntry struct {
	widget.Entry
	onSubmit func()
	onEscape func()
}

// NewSourceEntry creates a new source text entry
func NewSourceEntry() *SourceEntry {
	entry := &SourceEntry{}
	entry.MultiLine = true
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedKey handles key events
func (e *SourceEntry) TypedKey(key *fyne.KeyEvent) {
	if key.Name == fyne.KeyEscape && e.onEscape != nil {
		e.onEscape()
		return
	}
	e.Entry.TypedKey(key)
}

// TypedShortcut catches Ctrl+Enter before the entry swallows it
func (e *SourceEntry) TypedShortcut(s fyne.Shortcut) {
	if isSubmitShortcut(s) && e.onSubmit != nil {
		e.onSubmit()
		return
	}
	e.Entry.TypedShortcut(s)
}

// SetOnSubmit sets the callback for Ctrl+Enter
func (e *SourceEntry) SetOnSubmit(f func()) {
	e.onSubmit = f
}

// SetOnEscape sets the callback for when Escape is pressed
func (e *SourceEntry) SetOnEscape(f func()) {
	e.onEscape = f
}

func isSubmitShortcut(s fyne.Shortcut) bool {
	custom, ok := s.(*desktop.CustomShortcut)
	if !ok {
		return false
	}
	if custom.KeyName != fyne.KeyReturn && custom.KeyName != fyne.KeyEnter {
		return false
	}
	return custom.Modifier == fyne.KeyModifierShortcutDefault || custom.Modifier == fyne.KeyModifierControl
}

package gui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"codeberg.org/snonux/babel/internal/checkpoint"
	"codeberg.org/snonux/babel/internal/translation"
)

type fakeEngine struct {
	mu sync.Mutex

	progress     []checkpoint.Progress
	prepareErr   error
	result       string
	translateErr error

	prepared int
	calls    []string // "target:text"
}

func (e *fakeEngine) Prepare(ctx context.Context, onProgress func(checkpoint.Progress)) error {
	e.mu.Lock()
	e.prepared++
	e.mu.Unlock()

	for _, p := range e.progress {
		onProgress(p)
	}
	return e.prepareErr
}

func (e *fakeEngine) Translate(ctx context.Context, text, target string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, target+":"+text)
	return e.result, e.translateErr
}

func (e *fakeEngine) BackendName() string {
	return "fake"
}

func (e *fakeEngine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// newTestApplication runs background work inline so effects are visible
// as soon as the triggering call returns.
func newTestApplication(t *testing.T, engine *fakeEngine, target string) *Application {
	t.Helper()

	a := NewWithApp(test.NewApp(), &Config{Engine: engine, DefaultTarget: target, PartsDir: "model"})
	a.runAsync = func(f func()) { f() }
	a.ui = func(f func()) { f() }
	t.Cleanup(func() { a.window.Close() })
	return a
}

func TestNewWithApp_InitialState(t *testing.T) {
	a := newTestApplication(t, &fakeEngine{}, "")

	if got, want := a.languageSelect.Options, translation.Names(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("options = %v, want %v", got, want)
	}
	if a.languageSelect.Selected != translation.Names()[0] {
		t.Errorf("selected = %q, want first language", a.languageSelect.Selected)
	}
	if !a.translateButton.Disabled() || !a.sourceEntry.Disabled() {
		t.Error("controls should be disabled before the model is loaded")
	}
	if a.sourceEntry.PlaceHolder != "Type here..." {
		t.Errorf("placeholder = %q", a.sourceEntry.PlaceHolder)
	}
	if !strings.HasPrefix(a.window.Title(), "AI Language Translator") {
		t.Errorf("title = %q", a.window.Title())
	}
}

func TestNewWithApp_DefaultTarget(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"French", "French"},
		{"es_XX", "Spanish"},
		{"klingon", translation.Names()[0]},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			a := newTestApplication(t, &fakeEngine{}, tt.target)
			if a.languageSelect.Selected != tt.want {
				t.Errorf("selected = %q, want %q", a.languageSelect.Selected, tt.want)
			}
		})
	}
}

func TestStartLoading_Success(t *testing.T) {
	engine := &fakeEngine{progress: []checkpoint.Progress{
		{Total: 2},
		{Done: 1, Total: 2, Fragment: "model.safetensors.part1", Bytes: 10, Fraction: 0.5},
		{Done: 2, Total: 2, Fragment: "model.safetensors.part2", Bytes: 20, Fraction: 1},
	}}
	a := newTestApplication(t, engine, "")

	a.startLoading()

	if engine.prepared != 1 {
		t.Fatalf("Prepare called %d times, want 1", engine.prepared)
	}
	if !a.ready {
		t.Fatal("application should be ready")
	}
	if a.translateButton.Disabled() || a.sourceEntry.Disabled() {
		t.Error("controls should be enabled after loading")
	}
	if a.progressBar.Value != 1 {
		t.Errorf("progress = %v, want 1", a.progressBar.Value)
	}
	if a.progressBar.Visible() || a.loadingBar.Visible() {
		t.Error("progress bars should be hidden after loading")
	}
	if !strings.Contains(a.statusLabel.Text, "Ready") || !strings.Contains(a.statusLabel.Text, "fake") {
		t.Errorf("status = %q", a.statusLabel.Text)
	}
}

func TestStartLoading_CombineMessages(t *testing.T) {
	a := newTestApplication(t, &fakeEngine{}, "")

	a.onCombineProgress(checkpoint.Progress{Total: 1})
	if a.messageLabel.Text != msgCombining {
		t.Errorf("message = %q, want %q", a.messageLabel.Text, msgCombining)
	}

	a.onCombineProgress(checkpoint.Progress{Done: 1, Total: 1, Fragment: "model.safetensors.part1", Fraction: 1})
	if a.messageLabel.Text != "Combination complete!" {
		t.Errorf("message = %q", a.messageLabel.Text)
	}
	if !strings.Contains(a.statusLabel.Text, "Processing model.safetensors.part1...") {
		t.Errorf("status = %q", a.statusLabel.Text)
	}
}

func TestStartLoading_Failure(t *testing.T) {
	engine := &fakeEngine{prepareErr: errors.New("no parts")}
	a := newTestApplication(t, engine, "")

	a.startLoading()

	if a.ready {
		t.Fatal("application should not be ready")
	}
	if a.messageLabel.Text != msgLoadFailed {
		t.Errorf("message = %q, want %q", a.messageLabel.Text, msgLoadFailed)
	}
	if !strings.Contains(a.statusLabel.Text, "no parts") {
		t.Errorf("status = %q", a.statusLabel.Text)
	}
	if !a.translateButton.Disabled() {
		t.Error("translate button should stay disabled")
	}

	a.sourceEntry.SetText("Hello")
	a.onTranslate()
	if calls := engine.Calls(); len(calls) != 0 {
		t.Errorf("Translate called without a model: %v", calls)
	}
}

func TestOnTranslate(t *testing.T) {
	engine := &fakeEngine{result: "Hola"}
	a := newTestApplication(t, engine, "Spanish")
	a.startLoading()

	a.sourceEntry.SetText("  Hello  ")
	a.onTranslate()

	calls := engine.Calls()
	if len(calls) != 1 || calls[0] != "Spanish:Hello" {
		t.Fatalf("calls = %v", calls)
	}
	if a.resultLabel.Text != "Hola" {
		t.Errorf("result = %q, want Hola", a.resultLabel.Text)
	}
	if a.translateButton.Disabled() {
		t.Error("translate button should be enabled again")
	}
	if a.copyButton.Disabled() {
		t.Error("copy button should be enabled after a translation")
	}
	if a.messageLabel.Visible() {
		t.Errorf("unexpected message %q", a.messageLabel.Text)
	}
}

func TestOnTranslate_EmptyText(t *testing.T) {
	engine := &fakeEngine{}
	a := newTestApplication(t, engine, "")
	a.startLoading()

	a.sourceEntry.SetText("   \n ")
	a.onTranslate()

	if calls := engine.Calls(); len(calls) != 0 {
		t.Errorf("calls = %v, want none", calls)
	}
	if a.messageLabel.Text != msgEmptyText {
		t.Errorf("message = %q, want %q", a.messageLabel.Text, msgEmptyText)
	}
}

func TestOnTranslate_Error(t *testing.T) {
	engine := &fakeEngine{translateErr: errors.New("boom")}
	a := newTestApplication(t, engine, "")
	a.startLoading()

	a.sourceEntry.SetText("Hello")
	a.onTranslate()

	if a.messageLabel.Text != "Translation error: boom" {
		t.Errorf("message = %q", a.messageLabel.Text)
	}
	if a.resultLabel.Text != resultPlaceHold {
		t.Errorf("result = %q", a.resultLabel.Text)
	}
	if !a.copyButton.Disabled() {
		t.Error("copy button should be disabled after a failure")
	}
}

func TestOnTranslate_IgnoredWhileInFlight(t *testing.T) {
	engine := &fakeEngine{}
	a := newTestApplication(t, engine, "")
	a.startLoading()

	a.translating = true
	a.sourceEntry.SetText("Hello")
	a.onTranslate()

	if calls := engine.Calls(); len(calls) != 0 {
		t.Errorf("calls = %v, want none", calls)
	}
}

func TestOnClear(t *testing.T) {
	engine := &fakeEngine{result: "Bonjour"}
	a := newTestApplication(t, engine, "French")
	a.startLoading()

	a.sourceEntry.SetText("Hello")
	a.onTranslate()
	a.onClear()

	if a.sourceEntry.Text != "" || a.resultLabel.Text != resultPlaceHold {
		t.Errorf("clear left text %q / %q", a.sourceEntry.Text, a.resultLabel.Text)
	}
	if !a.copyButton.Disabled() {
		t.Error("copy button should be disabled after clear")
	}
}

func TestSourceEntry_Shortcuts(t *testing.T) {
	test.NewApp()

	submitted, escaped := 0, 0
	entry := NewSourceEntry()
	entry.SetOnSubmit(func() { submitted++ })
	entry.SetOnEscape(func() { escaped++ })

	entry.TypedShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyReturn, Modifier: fyne.KeyModifierShortcutDefault})
	entry.TypedShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyEnter, Modifier: fyne.KeyModifierControl})
	entry.TypedShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyReturn, Modifier: fyne.KeyModifierShift})
	entry.TypedKey(&fyne.KeyEvent{Name: fyne.KeyEscape})

	if submitted != 2 {
		t.Errorf("submitted = %d, want 2", submitted)
	}
	if escaped != 1 {
		t.Errorf("escaped = %d, want 1", escaped)
	}
}

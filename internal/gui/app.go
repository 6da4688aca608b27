package gui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/babel/internal"
	"codeberg.org/snonux/babel/internal/checkpoint"
	"codeberg.org/snonux/babel/internal/logger"
	"codeberg.org/snonux/babel/internal/translation"
)

const (
	msgLoading      = "Loading model... This might take a minute."
	msgCombining    = "Combined model file not found. Starting combination process... This only happens once."
	msgLoadFailed   = "Model could not be loaded. Please ensure the model files are correctly placed."
	msgEmptyText    = "Please enter some text to translate."
	msgTranslating  = "Translating..."
	resultPlaceHold = "The translation will appear here."
)

// Engine is what the window needs from the model side.
type Engine interface {
	// Prepare combines the checkpoint if needed and loads the model
	Prepare(ctx context.Context, onProgress func(checkpoint.Progress)) error

	// Translate translates English text into target
	Translate(ctx context.Context, text, target string) (string, error)

	// BackendName names the translation backend for the status line
	BackendName() string
}

// Config holds GUI application configuration
type Config struct {
	Engine        Engine
	DefaultTarget string // language name or code, empty means the first
	PartsDir      string // shown while fragments are combined
}

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// UI elements
	sourceEntry     *SourceEntry
	languageSelect  *widget.Select
	translateButton *ttwidget.Button
	copyButton      *ttwidget.Button
	clearButton     *ttwidget.Button
	resultLabel     *widget.Label
	messageLabel    *widget.Label
	progressBar     *widget.ProgressBar
	loadingBar      *widget.ProgressBarInfinite
	statusLabel     *widget.Label
	logViewer       *LogViewer

	// State management
	ready       bool
	translating bool
	lastResult  string

	// Configuration
	config *Config

	// Background processing
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex

	// runAsync runs work off the UI goroutine, ui hands results back to it
	runAsync func(func())
	ui       func(func())
}

// New creates a new GUI application and sends log output to its log panel
func New(config *Config) *Application {
	myApp := app.NewWithID("org.codeberg.snonux.babel")
	myApp.SetIcon(GetAppIcon())

	a := NewWithApp(myApp, config)
	logger.AddOutput(a.logViewer)
	return a
}

// NewWithApp creates the window on an existing fyne app
func NewWithApp(fyneApp fyne.App, config *Config) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	a := &Application{
		app:    fyneApp,
		config: config,
		ctx:    ctx,
		cancel: cancel,
		ui:     fyne.Do,
	}
	a.runAsync = func(f func()) {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			f()
		}()
	}

	a.setupUI()
	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("AI Language Translator v%s", internal.Version))
	a.window.SetIcon(GetAppIcon())
	a.window.Resize(fyne.NewSize(900, 650))

	title := widget.NewLabelWithStyle("AI Language Translator", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	title.Importance = widget.HighImportance
	subtitle := widget.NewLabelWithStyle("Translate English to Multiple Languages", fyne.TextAlignCenter, fyne.TextStyle{})

	// Source column
	a.sourceEntry = NewSourceEntry()
	a.sourceEntry.SetPlaceHolder("Type here...")
	a.sourceEntry.Wrapping = fyne.TextWrapWord
	a.sourceEntry.SetMinRowsVisible(8)
	a.sourceEntry.SetOnSubmit(a.onTranslate)
	a.sourceEntry.SetOnEscape(func() {
		a.window.Canvas().Unfocus()
	})

	sourceColumn := container.NewBorder(
		widget.NewLabelWithStyle("Source Text (English)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		a.sourceEntry,
	)

	// Target column
	a.languageSelect = widget.NewSelect(translation.Names(), nil)
	a.languageSelect.SetSelected(a.defaultTarget())

	a.translateButton = ttwidget.NewButtonWithIcon("Translate", theme.ConfirmIcon(), a.onTranslate)
	a.translateButton.Importance = widget.HighImportance

	a.copyButton = ttwidget.NewButtonWithIcon("", theme.ContentCopyIcon(), a.onCopy)
	a.copyButton.Disable()
	a.clearButton = ttwidget.NewButtonWithIcon("", theme.ContentClearIcon(), a.onClear)

	a.resultLabel = widget.NewLabel(resultPlaceHold)
	a.resultLabel.Wrapping = fyne.TextWrapWord

	a.messageLabel = widget.NewLabel("")
	a.messageLabel.Wrapping = fyne.TextWrapWord
	a.messageLabel.Hide()

	targetColumn := container.NewVBox(
		widget.NewLabelWithStyle("Target Language", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		a.languageSelect,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Translation", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, nil, container.NewHBox(a.copyButton, a.clearButton), a.translateButton),
		a.resultLabel,
		a.messageLabel,
	)

	columns := container.New(layout.NewGridLayout(2), sourceColumn, container.NewVScroll(targetColumn))

	// Progress and status section
	a.progressBar = widget.NewProgressBar()
	a.progressBar.Hide()
	a.loadingBar = widget.NewProgressBarInfinite()
	a.loadingBar.Stop()
	a.loadingBar.Hide()
	a.statusLabel = widget.NewLabel("Starting...")
	a.statusLabel.TextStyle = fyne.TextStyle{Italic: true}
	a.logViewer = NewLogViewer()

	statusSection := container.NewVBox(
		a.progressBar,
		a.loadingBar,
		a.statusLabel,
		widget.NewSeparator(),
		a.logViewer,
	)

	content := container.NewBorder(
		container.NewVBox(title, subtitle, widget.NewSeparator()),
		statusSection,
		nil, nil,
		columns,
	)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
	a.setupTooltips()

	a.window.SetOnClosed(func() {
		a.cancel()
		a.wg.Wait()
	})

	a.setupKeyboardShortcuts()

	// Nothing can be translated before the model is loaded
	a.setUIEnabled(false)
}

// Run loads the model in the background and starts the GUI application
func (a *Application) Run() {
	a.startLoading()
	a.window.ShowAndRun()
}

func (a *Application) defaultTarget() string {
	if a.config.DefaultTarget != "" {
		if lang, err := translation.LookupLanguage(a.config.DefaultTarget); err == nil {
			return lang.Name
		}
	}
	return translation.Names()[0]
}

// startLoading combines and loads the model off the UI goroutine
func (a *Application) startLoading() {
	a.setUIEnabled(false)
	a.showProgress(msgLoading)

	a.runAsync(func() {
		err := a.config.Engine.Prepare(a.ctx, a.onCombineProgress)
		a.ui(func() {
			a.onLoaded(err)
		})
	})
}

func (a *Application) onCombineProgress(p checkpoint.Progress) {
	a.ui(func() {
		if p.Done == 0 {
			a.showMessage(msgCombining, widget.WarningImportance)
			a.progressBar.SetValue(0)
			a.progressBar.Show()
			a.updateStatus(fmt.Sprintf("Combining %d model files from %s...", p.Total, a.config.PartsDir))
			return
		}

		a.progressBar.SetValue(p.Fraction)
		a.updateStatus(fmt.Sprintf("Processing %s... (%d/%d, %s)", p.Fragment, p.Done, p.Total, internal.FormatBytes(p.Bytes)))
		if p.Done == p.Total {
			a.showMessage("Combination complete!", widget.SuccessImportance)
		}
	})
}

func (a *Application) onLoaded(err error) {
	a.hideProgress()
	a.progressBar.Hide()

	if err != nil {
		logger.Log.Error("Error loading model", "error", err)
		a.showMessage(msgLoadFailed, widget.WarningImportance)
		a.updateStatus("Error loading model: " + err.Error())
		return
	}

	a.mu.Lock()
	a.ready = true
	a.mu.Unlock()

	a.hideMessage()
	a.setUIEnabled(true)
	a.updateStatus(fmt.Sprintf("Ready (backend: %s)", a.config.Engine.BackendName()))
	a.window.Canvas().Focus(a.sourceEntry)
}

// onTranslate handles the translate button and Ctrl+Enter
func (a *Application) onTranslate() {
	a.mu.Lock()
	if !a.ready || a.translating {
		a.mu.Unlock()
		return
	}

	text := strings.TrimSpace(a.sourceEntry.Text)
	if text == "" {
		a.mu.Unlock()
		a.showMessage(msgEmptyText, widget.WarningImportance)
		return
	}
	a.translating = true
	a.mu.Unlock()

	target := a.languageSelect.Selected
	a.hideMessage()
	a.translateButton.Disable()
	a.languageSelect.Disable()
	a.showProgress(msgTranslating)

	a.runAsync(func() {
		result, err := a.config.Engine.Translate(a.ctx, text, target)
		a.ui(func() {
			a.onTranslated(target, result, err)
		})
	})
}

func (a *Application) onTranslated(target, result string, err error) {
	a.mu.Lock()
	a.translating = false
	a.mu.Unlock()

	a.hideProgress()
	a.translateButton.Enable()
	a.languageSelect.Enable()

	if err != nil {
		logger.Log.Error("Translation failed", "target", target, "error", err)
		a.lastResult = ""
		a.resultLabel.SetText(resultPlaceHold)
		a.copyButton.Disable()
		a.showMessage("Translation error: "+err.Error(), widget.DangerImportance)
		a.updateStatus("Translation failed")
		return
	}

	a.lastResult = result
	a.resultLabel.SetText(result)
	a.copyButton.Enable()
	a.updateStatus(fmt.Sprintf("Translated to %s", target))
}

func (a *Application) onCopy() {
	if a.lastResult == "" {
		return
	}
	a.window.Clipboard().SetContent(a.lastResult)
	a.updateStatus("Translation copied to clipboard")
}

func (a *Application) onClear() {
	a.sourceEntry.SetText("")
	a.lastResult = ""
	a.resultLabel.SetText(resultPlaceHold)
	a.copyButton.Disable()
	a.hideMessage()
}

func (a *Application) setUIEnabled(enabled bool) {
	if enabled {
		a.sourceEntry.Enable()
		a.languageSelect.Enable()
		a.translateButton.Enable()
		a.clearButton.Enable()
	} else {
		a.sourceEntry.Disable()
		a.languageSelect.Disable()
		a.translateButton.Disable()
		a.clearButton.Disable()
	}
}

func (a *Application) showProgress(message string) {
	a.loadingBar.Show()
	a.loadingBar.Start()
	a.updateStatus(message)
}

func (a *Application) hideProgress() {
	a.loadingBar.Stop()
	a.loadingBar.Hide()
}

func (a *Application) updateStatus(message string) {
	a.statusLabel.SetText(message)
}

func (a *Application) showMessage(message string, importance widget.Importance) {
	a.messageLabel.Importance = importance
	a.messageLabel.SetText(message)
	a.messageLabel.Show()
}

func (a *Application) hideMessage() {
	a.messageLabel.SetText("")
	a.messageLabel.Hide()
}

// setupTooltips sets up all tooltips after the tooltip layer has been created
func (a *Application) setupTooltips() {
	a.translateButton.SetToolTip("Translate (Ctrl+Enter)")
	a.copyButton.SetToolTip("Copy translation")
	a.clearButton.SetToolTip("Clear text")
}

func (a *Application) setupKeyboardShortcuts() {
	translate := &desktop.CustomShortcut{KeyName: fyne.KeyReturn, Modifier: fyne.KeyModifierShortcutDefault}
	a.window.Canvas().AddShortcut(translate, func(fyne.Shortcut) {
		a.onTranslate()
	})
}

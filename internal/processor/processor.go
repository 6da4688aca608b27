package processor

import (
	"context"
	"fmt"
	"io"
	"os"

	"codeberg.org/snonux/babel/internal"
	"codeberg.org/snonux/babel/internal/batch"
	"codeberg.org/snonux/babel/internal/checkpoint"
	"codeberg.org/snonux/babel/internal/config"
	"codeberg.org/snonux/babel/internal/gui"
	"codeberg.org/snonux/babel/internal/translation"
)

// Processor handles the command line modes
type Processor struct {
	config *config.Config
	engine *Engine
	out    io.Writer
	errOut io.Writer
}

// NewProcessor creates a processor with the configured backend
func NewProcessor(cfg *config.Config) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	backend, err := translation.NewBackend(&cfg.Backend)
	if err != nil {
		return nil, fmt.Errorf("failed to create translation backend: %w", err)
	}

	return newProcessor(cfg, backend), nil
}

func newProcessor(cfg *config.Config, backend translation.Backend) *Processor {
	return &Processor{
		config: cfg,
		engine: NewEngine(cfg, backend),
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

// SetOutput redirects what the processor prints
func (p *Processor) SetOutput(out, errOut io.Writer) {
	p.out = out
	p.errOut = errOut
}

// Engine returns the processor's engine
func (p *Processor) Engine() *Engine {
	return p.engine
}

// Combine only reassembles the checkpoint.
func (p *Processor) Combine(ctx context.Context) error {
	r := p.config.Reassembler()
	r.OnProgress = p.printProgress

	path, err := r.Combine(ctx)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Combined model file: %s (%s)\n", path, internal.FormatBytes(info.Size()))
	return nil
}

func (p *Processor) printProgress(prog checkpoint.Progress) {
	if prog.Done == 0 {
		fmt.Fprintf(p.errOut, "Combining %d model files...\n", prog.Total)
		return
	}
	fmt.Fprintf(p.errOut, "  [%d/%d] %s (%s)\n", prog.Done, prog.Total, prog.Fragment, internal.FormatBytes(prog.Bytes))
}

// TranslateText translates a single text from the command line
func (p *Processor) TranslateText(ctx context.Context, text, target string) error {
	if err := p.engine.Prepare(ctx, p.printProgress); err != nil {
		return err
	}

	result, err := p.engine.Translate(ctx, text, target)
	if err != nil {
		return err
	}

	fmt.Fprintln(p.out, result)
	return nil
}

// ProcessBatch translates every entry of batchFile. Entries without a
// language prefix go to target. Results are written to outFile, or to the
// processor's output when outFile is empty. A failed entry does not stop
// the batch.
func (p *Processor) ProcessBatch(ctx context.Context, batchFile, outFile, target string) error {
	defaultLang, err := translation.LookupLanguage(target)
	if err != nil {
		return err
	}

	entries, err := batch.ReadBatchFile(batchFile)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no texts found in %s", batchFile)
	}

	if err := p.engine.Prepare(ctx, p.printProgress); err != nil {
		return err
	}

	results := make([]batch.Result, 0, len(entries))
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		lang := defaultLang.Name
		if entry.Target != "" {
			lang = entry.Target
		}

		fmt.Fprintf(p.errOut, "Translating %d/%d to %s: %s\n", i+1, len(entries), lang, internal.Preview(entry.Text, 40))

		translated, err := p.engine.Translate(ctx, entry.Text, lang)
		if err != nil {
			fmt.Fprintf(p.errOut, "Error translating line %d: %v\n", entry.Line, err)
		}
		results = append(results, batch.Result{Entry: entry, Language: lang, Translation: translated, Err: err})
	}

	if err := p.writeResults(outFile, results); err != nil {
		return err
	}

	// Print summary
	failed := batch.Failed(results)
	fmt.Fprintf(p.errOut, "\n=== Batch Translation Summary ===\n")
	fmt.Fprintf(p.errOut, "Total texts: %d\n", len(results))
	fmt.Fprintf(p.errOut, "Translated: %d\n", len(results)-failed)
	if failed > 0 {
		fmt.Fprintf(p.errOut, "Errors: %d\n", failed)
	}
	fmt.Fprintf(p.errOut, "=================================\n")

	return nil
}

func (p *Processor) writeResults(outFile string, results []batch.Result) error {
	if outFile == "" {
		return batch.WriteResults(p.out, results)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := batch.WriteResults(f, results); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	fmt.Fprintf(p.errOut, "Results written to: %s\n", outFile)
	return nil
}

// ListLanguages prints the supported target languages
func (p *Processor) ListLanguages() {
	PrintLanguages(p.out)
}

// PrintLanguages writes the language table to w. It needs no model or
// backend.
func PrintLanguages(w io.Writer) {
	fmt.Fprintf(w, "Source language: English (%s)\n", translation.SourceLang)
	fmt.Fprintln(w, "Target languages:")
	for _, lang := range translation.Languages() {
		fmt.Fprintf(w, "  %-12s %s\n", lang.Name, lang.Code)
	}
}

// RunGUIMode launches the GUI application
func (p *Processor) RunGUIMode(target string) error {
	app := gui.New(&gui.Config{
		Engine:        p.engine,
		DefaultTarget: target,
		PartsDir:      p.config.PartsPath(),
	})
	app.Run()
	return nil
}

package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/snonux/babel/internal/logger"
	"codeberg.org/snonux/babel/internal/metrics"
)

// DefaultMinSize is the size a combined file must exceed before it is
// trusted as complete.
const DefaultMinSize = 100 * 1024 * 1024

// partialSuffix marks a combined file that is still being written. It must
// not start with "part" so a leftover never looks like a fragment when the
// output sits next to its fragments.
const partialSuffix = ".combining"

// Progress is reported after each fragment has been appended.
type Progress struct {
	Done     int    // fragments written so far
	Total    int    // fragments to write
	Fragment string // name of the fragment just written, empty before the first
	Bytes    int64  // bytes written so far
	Fraction float64
}

// Reassembler combines the fragments in PartsDir into OutputPath.
type Reassembler struct {
	PartsDir   string
	OutputPath string

	// MinSize is the size an existing OutputPath must exceed to be treated
	// as already combined. Zero means DefaultMinSize.
	MinSize int64

	// ExpectedSize, when positive, replaces the MinSize heuristic: the
	// existing file must have exactly this size, and a freshly combined
	// file of any other size is rejected.
	ExpectedSize int64

	// OnProgress is called from the goroutine running Combine.
	OnProgress func(Progress)
}

// NewReassembler creates a reassembler with the default size threshold.
func NewReassembler(partsDir, outputPath string) *Reassembler {
	return &Reassembler{
		PartsDir:   partsDir,
		OutputPath: outputPath,
		MinSize:    DefaultMinSize,
	}
}

// Complete reports whether OutputPath already holds a combined checkpoint.
// This is a size heuristic, not a checksum.
func (r *Reassembler) Complete() (bool, error) {
	info, err := os.Stat(r.OutputPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat combined model file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return false, fmt.Errorf("combined model path is not a regular file: %s", r.OutputPath)
	}

	if r.ExpectedSize > 0 {
		return info.Size() == r.ExpectedSize, nil
	}
	return info.Size() > r.minSize(), nil
}

// Combine makes sure a complete combined checkpoint exists and returns its
// absolute path. Fragments are only read when the combined file is missing
// or too small. On failure no path is returned and no partial output is
// left behind.
func (r *Reassembler) Combine(ctx context.Context) (string, error) {
	outputPath, err := filepath.Abs(r.OutputPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path: %w", err)
	}

	done, err := r.Complete()
	if err != nil {
		return "", err
	}
	if done {
		logger.Log.Debug("Combined model file found", "path", outputPath)
		return outputPath, nil
	}

	logger.Log.Warn("Combined model file not found, combining fragments", "parts_dir", r.PartsDir)

	fragments, err := ListFragments(r.PartsDir, FragmentPrefix(r.OutputPath))
	if err != nil {
		return "", err
	}

	start := time.Now()
	written, err := r.write(ctx, outputPath, fragments)
	if err != nil {
		metrics.CombineRuns.WithLabelValues(metrics.OutcomeError).Inc()
		return "", err
	}

	metrics.CombineRuns.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.CombineDuration.Observe(time.Since(start).Seconds())
	logger.Log.Info("Combined model file created",
		"path", outputPath,
		"fragments", len(fragments),
		"bytes", written,
		"duration", time.Since(start).String())

	return outputPath, nil
}

// write streams the fragments into a partial file and renames it onto
// outputPath once every byte is on disk.
func (r *Reassembler) write(ctx context.Context, outputPath string, fragments []Fragment) (written int64, err error) {
	partialPath := outputPath + partialSuffix

	// A partial file is never valid output, so one left by a crash is dropped.
	if err := os.Remove(partialPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return 0, &CombineError{Op: "remove stale", Fragment: filepath.Base(partialPath), Err: err}
	}

	out, err := os.OpenFile(partialPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, &CombineError{Op: "create", Err: err}
	}

	defer func() {
		if err != nil {
			out.Close()
			os.Remove(partialPath)
		}
	}()

	total := len(fragments)
	r.report(Progress{Total: total})

	for i, fragment := range fragments {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, err := appendFragment(out, fragment)
		written += n
		if err != nil {
			return written, err
		}
		metrics.FragmentsCombined.Inc()
		metrics.BytesCombined.Add(float64(n))

		r.report(Progress{
			Done:     i + 1,
			Total:    total,
			Fragment: fragment.Name,
			Bytes:    written,
			Fraction: float64(i+1) / float64(total),
		})
	}

	if want := TotalSize(fragments); written != want {
		return written, &CombineError{Op: "verify", Err: fmt.Errorf("wrote %d bytes, fragments hold %d", written, want)}
	}
	if r.ExpectedSize > 0 && written != r.ExpectedSize {
		return written, &CombineError{Op: "verify", Err: fmt.Errorf("wrote %d bytes, expected %d", written, r.ExpectedSize)}
	}

	if err := out.Sync(); err != nil {
		return written, &CombineError{Op: "sync", Err: err}
	}
	if err := out.Close(); err != nil {
		return written, &CombineError{Op: "close", Err: err}
	}
	if err := os.Rename(partialPath, outputPath); err != nil {
		return written, &CombineError{Op: "rename", Err: err}
	}

	return written, nil
}

// appendFragment copies the whole fragment to out. The fragment handle is
// closed before returning.
func appendFragment(out io.Writer, fragment Fragment) (int64, error) {
	in, err := os.Open(fragment.Path)
	if err != nil {
		return 0, &CombineError{Op: "open", Fragment: fragment.Name, Err: err}
	}
	defer in.Close()

	n, err := io.Copy(out, in)
	if err != nil {
		return n, &CombineError{Op: "copy", Fragment: fragment.Name, Err: err}
	}
	if n != fragment.Size {
		return n, &CombineError{Op: "read", Fragment: fragment.Name, Err: fmt.Errorf("got %d bytes, want %d", n, fragment.Size)}
	}
	return n, nil
}

func (r *Reassembler) report(p Progress) {
	if r.OnProgress != nil {
		r.OnProgress(p)
	}
}

func (r *Reassembler) minSize() int64 {
	if r.MinSize == 0 {
		return DefaultMinSize
	}
	return r.MinSize
}

package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Split cuts src into fragments of at most chunkSize bytes named
// <base>.part1 ... <base>.partN inside dir. It is the inverse of Combine
// and is used to prepare checkpoints for distribution. Split refuses to
// write into a directory that already holds fragments of the same name,
// since stale tail fragments would be appended by a later Combine.
func Split(src, dir string, chunkSize int64) ([]Fragment, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}

	in, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create fragments directory: %w", err)
	}

	prefix := FragmentPrefix(src)
	if err := checkNoFragments(dir, prefix); err != nil {
		return nil, err
	}

	var fragments []Fragment

	for index := uint64(1); ; index++ {
		name := fmt.Sprintf("%s%d", prefix, index)
		path := filepath.Join(dir, name)

		n, err := writeChunk(path, in, chunkSize)
		if err != nil {
			return fragments, err
		}
		if n == 0 {
			// Nothing left; the empty file is not a fragment.
			os.Remove(path)
			break
		}

		fragments = append(fragments, Fragment{Index: index, Name: name, Path: path, Size: n})
		if n < chunkSize {
			break
		}
	}

	return fragments, nil
}

func checkNoFragments(dir, prefix string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read fragments directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			return fmt.Errorf("%w in %s: %s", ErrFragmentsExist, dir, entry.Name())
		}
	}
	return nil
}

func writeChunk(path string, in io.Reader, chunkSize int64) (int64, error) {
	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create fragment: %w", err)
	}

	n, err := io.CopyN(out, in, chunkSize)
	if err != nil && !errors.Is(err, io.EOF) {
		out.Close()
		return n, fmt.Errorf("failed to write fragment %s: %w", filepath.Base(path), err)
	}

	if err := out.Close(); err != nil {
		return n, fmt.Errorf("failed to close fragment %s: %w", filepath.Base(path), err)
	}
	return n, nil
}

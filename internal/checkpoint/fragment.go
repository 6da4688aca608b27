package checkpoint

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Fragment is one numbered chunk of a checkpoint file.
type Fragment struct {
	Index uint64
	Name  string
	Path  string
	Size  int64
}

// FragmentPrefix returns the file name prefix shared by all fragments of
// the combined file at outputPath, e.g. "model.safetensors.part".
func FragmentPrefix(outputPath string) string {
	return filepath.Base(outputPath) + ".part"
}

// ParseIndex extracts the fragment number from name. The part after prefix
// must be a base-10 unsigned integer; anything else is an error so that a
// stray file can never be silently reordered into the checkpoint.
func ParseIndex(name, prefix string) (uint64, error) {
	suffix, ok := strings.CutPrefix(name, prefix)
	if !ok {
		return 0, fmt.Errorf("%w: %s does not start with %s", ErrBadSuffix, name, prefix)
	}
	index, err := strconv.ParseUint(suffix, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrBadSuffix, name)
	}
	return index, nil
}

// ListFragments returns the fragments in dir whose names start with prefix,
// sorted by their numeric index.
func ListFragments(dir, prefix string) ([]Fragment, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPartsDirMissing, dir)
		}
		return nil, fmt.Errorf("failed to read fragments directory: %w", err)
	}

	var fragments []Fragment
	seen := make(map[uint64]string)

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}

		index, err := ParseIndex(name, prefix)
		if err != nil {
			return nil, err
		}
		if other, ok := seen[index]; ok {
			return nil, fmt.Errorf("%w: %s and %s", ErrDuplicateFragment, other, name)
		}
		seen[index] = name

		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			return nil, &CombineError{Op: "stat", Fragment: name, Err: err}
		}

		fragments = append(fragments, Fragment{
			Index: index,
			Name:  name,
			Path:  path,
			Size:  info.Size(),
		})
	}

	if len(fragments) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFragments, dir)
	}

	sort.Slice(fragments, func(i, j int) bool {
		return fragments[i].Index < fragments[j].Index
	})

	return fragments, nil
}

// TotalSize returns the sum of the fragment sizes.
func TotalSize(fragments []Fragment) int64 {
	var total int64
	for _, f := range fragments {
		total += f.Size
	}
	return total
}

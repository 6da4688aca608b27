package checkpoint

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/snonux/babel/internal/testutil"
)

func TestFragmentPrefix(t *testing.T) {
	got := FragmentPrefix(filepath.Join("models", "mbart", "model.safetensors"))
	if got != "model.safetensors.part" {
		t.Errorf("FragmentPrefix() = %q, want %q", got, "model.safetensors.part")
	}
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		name    string
		want    uint64
		wantErr bool
	}{
		{"x.part1", 1, false},
		{"x.part10", 10, false},
		{"x.part007", 7, false},
		{"x.part0", 0, false},
		{"x.partABC", 0, true},
		{"x.part", 0, true},
		{"x.part-1", 0, true},
		{"x.part+1", 0, true},
		{"x.part1.tmp", 0, true},
		{"x.part 1", 0, true},
		{"y.part1", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIndex(tt.name, "x.part")
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseIndex(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrBadSuffix) {
					t.Errorf("ParseIndex(%q) error = %v, want ErrBadSuffix", tt.name, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseIndex(%q) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}
}

func TestListFragments(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"x.part10", "x.part2", "x.part1", "other.bin", "x.safetensors"} {
		testutil.CreateTestFile(t, filepath.Join(dir, name), []byte(name))
	}
	// Directories with a matching name are not fragments.
	if err := os.Mkdir(filepath.Join(dir, "x.part99"), 0755); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	fragments, err := ListFragments(dir, "x.part")
	if err != nil {
		t.Fatalf("ListFragments() error = %v", err)
	}

	wantNames := []string{"x.part1", "x.part2", "x.part10"}
	if len(fragments) != len(wantNames) {
		t.Fatalf("ListFragments() returned %d fragments, want %d", len(fragments), len(wantNames))
	}
	for i, f := range fragments {
		if f.Name != wantNames[i] {
			t.Errorf("fragment %d = %s, want %s", i, f.Name, wantNames[i])
		}
		if f.Size != int64(len(f.Name)) {
			t.Errorf("fragment %s size = %d, want %d", f.Name, f.Size, len(f.Name))
		}
		if f.Path != filepath.Join(dir, f.Name) {
			t.Errorf("fragment %s path = %s", f.Name, f.Path)
		}
	}

	if total := TotalSize(fragments); total != int64(len("x.part1x.part2x.part10")) {
		t.Errorf("TotalSize() = %d", total)
	}
}

func TestListFragments_Errors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := ListFragments(filepath.Join(t.TempDir(), "nope"), "x.part")
		if !errors.Is(err, ErrPartsDirMissing) {
			t.Errorf("ListFragments() error = %v, want ErrPartsDirMissing", err)
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := ListFragments(t.TempDir(), "x.part")
		if !errors.Is(err, ErrNoFragments) {
			t.Errorf("ListFragments() error = %v, want ErrNoFragments", err)
		}
	})

	t.Run("path is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file")
		testutil.CreateTestFile(t, path, []byte("x"))
		if _, err := ListFragments(path, "x.part"); err == nil {
			t.Error("ListFragments() expected error for a file path")
		}
	})
}

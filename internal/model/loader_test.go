package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/babel/internal/testutil"
)

func writeCheckpoint(t *testing.T, dir string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, "model.safetensors")
	testutil.CreateTestFile(t, path, testutil.Safetensors(t, data))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateModelDir(t, dir)
	checkpoint := writeCheckpoint(t, dir, []byte("weights"))

	m, err := Load(dir, checkpoint)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if m.Config.ModelType != "mbart" {
		t.Errorf("ModelType = %s, want mbart", m.Config.ModelType)
	}
	if m.Config.DModel != 1024 {
		t.Errorf("DModel = %d, want 1024", m.Config.DModel)
	}
	if m.Generation.MaxLength != 200 || m.Generation.NumBeams != 5 {
		t.Errorf("Generation = %+v", m.Generation)
	}
	if m.Checkpoint.Tensors != 1 || m.Checkpoint.DTypes["U8"] != 1 {
		t.Errorf("Checkpoint = %+v", m.Checkpoint)
	}
	if m.Checkpoint.Metadata["format"] != "pt" {
		t.Errorf("Checkpoint metadata = %v", m.Checkpoint.Metadata)
	}
	if !filepath.IsAbs(m.Dir) {
		t.Errorf("Dir = %s, want absolute", m.Dir)
	}

	for code, want := range testutil.LanguageTokens {
		got, err := m.LangID(code)
		if err != nil {
			t.Errorf("LangID(%s) error = %v", code, err)
			continue
		}
		if got != want {
			t.Errorf("LangID(%s) = %d, want %d", code, got, want)
		}
	}

	if _, err := m.LangID("xx_YY"); err == nil {
		t.Error("LangID() expected error for unknown code")
	}
	// Special tokens are not languages.
	if _, err := m.LangID("<mask>"); err == nil {
		t.Error("LangID() expected error for <mask>")
	}
	if m.Tokenizer.Languages() != len(testutil.LanguageTokens) {
		t.Errorf("Languages() = %d, want %d", m.Tokenizer.Languages(), len(testutil.LanguageTokens))
	}
}

func TestLoad_WithoutGenerationConfig(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateModelDir(t, dir)
	if err := os.Remove(filepath.Join(dir, "generation_config.json")); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	checkpoint := writeCheckpoint(t, dir, []byte("w"))

	m, err := Load(dir, checkpoint)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Generation.MaxLength != 0 || m.Generation.NumBeams != 0 {
		t.Errorf("Generation = %+v, want zero values", m.Generation)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(t *testing.T, dir string) string
		wantErr string
	}{
		{
			name: "missing config.json",
			mutate: func(t *testing.T, dir string) string {
				os.Remove(filepath.Join(dir, "config.json"))
				return writeCheckpoint(t, dir, []byte("w"))
			},
			wantErr: "config.json",
		},
		{
			name: "unsupported model type",
			mutate: func(t *testing.T, dir string) string {
				testutil.CreateTestFile(t, filepath.Join(dir, "config.json"), []byte(`{"model_type":"llama"}`))
				return writeCheckpoint(t, dir, []byte("w"))
			},
			wantErr: "unsupported model_type",
		},
		{
			name: "missing tokenizer",
			mutate: func(t *testing.T, dir string) string {
				os.Remove(filepath.Join(dir, "tokenizer.json"))
				return writeCheckpoint(t, dir, []byte("w"))
			},
			wantErr: "error loading tokenizer",
		},
		{
			name: "tokenizer without language tokens",
			mutate: func(t *testing.T, dir string) string {
				testutil.CreateTestFile(t, filepath.Join(dir, "tokenizer.json"), []byte(`{"added_tokens":[{"id":0,"content":"<s>"}]}`))
				return writeCheckpoint(t, dir, []byte("w"))
			},
			wantErr: "no language tokens",
		},
		{
			name: "missing checkpoint",
			mutate: func(t *testing.T, dir string) string {
				return filepath.Join(dir, "model.safetensors")
			},
			wantErr: "opening checkpoint",
		},
		{
			name: "truncated checkpoint",
			mutate: func(t *testing.T, dir string) string {
				data := testutil.Safetensors(t, []byte("0123456789"))
				path := filepath.Join(dir, "model.safetensors")
				testutil.CreateTestFile(t, path, data[:len(data)-3])
				return path
			},
			wantErr: "truncated or corrupt",
		},
		{
			name: "padded checkpoint",
			mutate: func(t *testing.T, dir string) string {
				data := testutil.Safetensors(t, []byte("0123456789"))
				path := filepath.Join(dir, "model.safetensors")
				testutil.CreateTestFile(t, path, append(data, 'x'))
				return path
			},
			wantErr: "truncated or corrupt",
		},
		{
			name: "garbage checkpoint",
			mutate: func(t *testing.T, dir string) string {
				path := filepath.Join(dir, "model.safetensors")
				testutil.CreateTestFile(t, path, []byte(strings.Repeat("\xff", 64)))
				return path
			},
			wantErr: "invalid checkpoint header length",
		},
		{
			name: "tiny checkpoint",
			mutate: func(t *testing.T, dir string) string {
				path := filepath.Join(dir, "model.safetensors")
				testutil.CreateTestFile(t, path, []byte("AB"))
				return path
			},
			wantErr: "header length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			testutil.CreateModelDir(t, dir)
			checkpoint := tt.mutate(t, dir)

			m, err := Load(dir, checkpoint)
			if m != nil {
				t.Error("Load() returned a model on failure")
			}
			testutil.AssertErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadWithTokenizer(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateModelDir(t, dir)
	tokDir := t.TempDir()
	if err := os.Rename(filepath.Join(dir, "tokenizer.json"), filepath.Join(tokDir, "tokenizer.json")); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	checkpoint := writeCheckpoint(t, dir, []byte("w"))

	if _, err := Load(dir, checkpoint); err == nil {
		t.Fatal("Load() expected error without tokenizer.json in the model dir")
	}

	m, err := LoadWithTokenizer(dir, tokDir, checkpoint)
	if err != nil {
		t.Fatalf("LoadWithTokenizer() error = %v", err)
	}
	if _, err := m.LangID("fr_XX"); err != nil {
		t.Errorf("LangID() error = %v", err)
	}
}

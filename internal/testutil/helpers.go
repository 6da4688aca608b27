package testutil

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// CreateFragments writes one fragment per content slice into dir, named
// <prefix>1 ... <prefix>N, and returns their paths in order.
func CreateFragments(t *testing.T, dir, prefix string, contents ...[]byte) []string {
	t.Helper()

	paths := make([]string, 0, len(contents))
	for i, content := range contents {
		path := filepath.Join(dir, fmt.Sprintf("%s%d", prefix, i+1))
		CreateTestFile(t, path, content)
		paths = append(paths, path)
	}
	return paths
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks if a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to not exist: %s", path)
	}
}

// AssertFileContent checks if a file has expected content
func AssertFileContent(t *testing.T, path string, expected []byte) {
	t.Helper()

	actual, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if !bytes.Equal(actual, expected) {
		t.Errorf("File content mismatch in %s\nExpected: %q\nActual: %q", path, expected, actual)
	}
}

// AssertErrorContains fails unless err is non-nil and mentions substring.
func AssertErrorContains(t *testing.T, err error, substring string) {
	t.Helper()

	if err == nil {
		t.Fatalf("Expected error containing %q, got nil", substring)
	}
	if !strings.Contains(err.Error(), substring) {
		t.Errorf("Expected error containing %q, got %q", substring, err.Error())
	}
}

// Safetensors returns a minimal safetensors file holding data as a single
// U8 tensor named "weight".
func Safetensors(t *testing.T, data []byte) []byte {
	t.Helper()

	header := map[string]any{
		"weight": map[string]any{
			"dtype":        "U8",
			"shape":        []int{len(data)},
			"data_offsets": []int{0, len(data)},
		},
	}
	header["__metadata__"] = map[string]string{"format": "pt"}
	raw, err := json.Marshal(header)
	if err != nil {
		t.Fatalf("Failed to encode safetensors header: %v", err)
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, uint64(len(raw))); err != nil {
		t.Fatalf("Failed to write safetensors header length: %v", err)
	}
	buf.Write(raw)
	buf.Write(data)
	return buf.Bytes()
}

// LanguageTokens maps the mBART-50 language codes used in tests to token IDs.
var LanguageTokens = map[string]int{
	"en_XX": 250004,
	"es_XX": 250005,
	"fr_XX": 250008,
	"hi_IN": 250010,
	"it_IT": 250011,
	"pt_XX": 250042,
}

// CreateModelDir writes config.json, generation_config.json and
// tokenizer.json for a tiny mBART model into dir.
func CreateModelDir(t *testing.T, dir string) {
	t.Helper()

	config := map[string]any{
		"model_type":              "mbart",
		"vocab_size":              250054,
		"d_model":                 1024,
		"encoder_layers":          12,
		"decoder_layers":          12,
		"max_position_embeddings": 1024,
		"decoder_start_token_id":  2,
		"eos_token_id":            2,
		"pad_token_id":            1,
	}
	generation := map[string]any{
		"max_length": 200,
		"num_beams":  5,
	}

	added := []map[string]any{
		{"id": 0, "content": "<s>", "special": true},
		{"id": 1, "content": "<pad>", "special": true},
		{"id": 2, "content": "</s>", "special": true},
		{"id": 3, "content": "<unk>", "special": true},
	}
	for code, id := range LanguageTokens {
		added = append(added, map[string]any{"id": id, "content": code, "special": true})
	}
	added = append(added, map[string]any{"id": 250053, "content": "<mask>", "special": true})
	tokenizer := map[string]any{
		"version":      "1.0",
		"added_tokens": added,
	}

	writeJSON(t, filepath.Join(dir, "config.json"), config)
	writeJSON(t, filepath.Join(dir, "generation_config.json"), generation)
	writeJSON(t, filepath.Join(dir, "tokenizer.json"), tokenizer)
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
	CreateTestFile(t, path, data)
}

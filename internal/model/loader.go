package model

import (
	"fmt"
	"path/filepath"
)

// Model is a loaded translation model ready for generation.
type Model struct {
	Dir        string
	Config     *Config
	Generation *GenerationConfig
	Tokenizer  *Tokenizer
	Checkpoint *CheckpointInfo
}

// Load reads the model directory dir and validates the combined checkpoint
// at checkpointPath. It must only be called once the checkpoint has been
// reassembled.
func Load(dir, checkpointPath string) (*Model, error) {
	return LoadWithTokenizer(dir, dir, checkpointPath)
}

// LoadWithTokenizer is Load for a tokenizer.json kept outside the model
// directory.
func LoadWithTokenizer(dir, tokenizerDir, checkpointPath string) (*Model, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving model directory: %w", err)
	}

	cfg, err := loadConfig(absDir)
	if err != nil {
		return nil, fmt.Errorf("error loading model: %w", err)
	}

	gen, err := loadGenerationConfig(absDir)
	if err != nil {
		return nil, fmt.Errorf("error loading model: %w", err)
	}

	tok, err := loadTokenizer(tokenizerDir)
	if err != nil {
		return nil, fmt.Errorf("error loading tokenizer: %w", err)
	}

	info, err := inspectCheckpoint(checkpointPath)
	if err != nil {
		return nil, fmt.Errorf("error loading model: %w", err)
	}

	return &Model{
		Dir:        absDir,
		Config:     cfg,
		Generation: gen,
		Tokenizer:  tok,
		Checkpoint: info,
	}, nil
}

// LangID returns the forced beginning-of-sequence token for a language code.
func (m *Model) LangID(code string) (int, error) {
	return m.Tokenizer.LangID(code)
}

package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Config mirrors the parts of config.json the translator uses.
type Config struct {
	ModelType             string `json:"model_type"`
	VocabSize             int    `json:"vocab_size"`
	DModel                int    `json:"d_model"`
	EncoderLayers         int    `json:"encoder_layers"`
	DecoderLayers         int    `json:"decoder_layers"`
	MaxPositionEmbeddings int    `json:"max_position_embeddings"`
	DecoderStartTokenID   int    `json:"decoder_start_token_id"`
	EOSTokenID            int    `json:"eos_token_id"`
	PadTokenID            int    `json:"pad_token_id"`
}

// GenerationConfig mirrors generation_config.json.
type GenerationConfig struct {
	MaxLength int `json:"max_length"`
	NumBeams  int `json:"num_beams"`
}

// seq2seqTypes are the encoder-decoder architectures that take a forced
// beginning-of-sequence language token.
var seq2seqTypes = map[string]bool{
	"mbart":   true,
	"bart":    true,
	"m2m_100": true,
}

func loadConfig(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		return nil, fmt.Errorf("reading config.json: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config.json: %w", err)
	}

	if !seq2seqTypes[cfg.ModelType] {
		return nil, fmt.Errorf("unsupported model_type %q: need an encoder-decoder translation model", cfg.ModelType)
	}
	return &cfg, nil
}

// loadGenerationConfig returns zero values when the file is absent.
func loadGenerationConfig(dir string) (*GenerationConfig, error) {
	data, err := os.ReadFile(filepath.Join(dir, "generation_config.json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &GenerationConfig{}, nil
		}
		return nil, fmt.Errorf("reading generation_config.json: %w", err)
	}

	var cfg GenerationConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing generation_config.json: %w", err)
	}
	return &cfg, nil
}

// Package config holds the startup configuration of babel: where the model
// and its fragments live, how big the combined checkpoint must be, which
// translation backend to use and how to log.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"codeberg.org/snonux/babel/internal/checkpoint"
	"codeberg.org/snonux/babel/internal/translation"
)

// Config is the resolved configuration. Relative PartsDir, OutputFile and
// TokenizerDir are resolved against BaseDir.
type Config struct {
	BaseDir      string
	PartsDir     string
	OutputFile   string
	TokenizerDir string

	MinCombinedSize int64
	ExpectedSize    int64

	Backend translation.BackendConfig

	LogLevel    string
	LogFormat   string
	MetricsAddr string
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		BaseDir:         "model",
		PartsDir:        "model",
		OutputFile:      "model.safetensors",
		MinCombinedSize: checkpoint.DefaultMinSize,
		Backend:         *translation.DefaultBackendConfig(),
		LogLevel:        "info",
		LogFormat:       "console",
	}
}

// SetDefaults registers the defaults with v so that config files and
// environment variables only need to name what they change.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("model.base_dir", d.BaseDir)
	v.SetDefault("model.parts_dir", d.PartsDir)
	v.SetDefault("model.output_file", d.OutputFile)
	v.SetDefault("model.tokenizer_dir", "")
	v.SetDefault("model.min_combined_size", d.MinCombinedSize)
	v.SetDefault("model.expected_size", 0)
	v.SetDefault("backend.type", d.Backend.Type)
	v.SetDefault("backend.fallback", "")
	v.SetDefault("backend.seq2seq_url", d.Backend.Seq2SeqURL)
	v.SetDefault("backend.seq2seq_timeout", d.Backend.Seq2SeqTimeout)
	v.SetDefault("backend.breaker_failures", d.Backend.BreakerFailures)
	v.SetDefault("backend.breaker_timeout", d.Backend.BreakerTimeout)
	v.SetDefault("backend.openai_model", d.Backend.OpenAIModel)
	v.SetDefault("backend.openai_base_url", "")
	v.SetDefault("backend.gemini_model", d.Backend.GeminiModel)
	v.SetDefault("backend.gemini_base_url", "")
	v.SetDefault("log.level", d.LogLevel)
	v.SetDefault("log.format", d.LogFormat)
	v.SetDefault("metrics.addr", "")
}

// FromViper builds a Config from the keys in v. API keys are not read
// here; the caller fills them in from the environment.
func FromViper(v *viper.Viper) *Config {
	SetDefaults(v)

	return &Config{
		BaseDir:         v.GetString("model.base_dir"),
		PartsDir:        v.GetString("model.parts_dir"),
		OutputFile:      v.GetString("model.output_file"),
		TokenizerDir:    v.GetString("model.tokenizer_dir"),
		MinCombinedSize: v.GetInt64("model.min_combined_size"),
		ExpectedSize:    v.GetInt64("model.expected_size"),
		Backend: translation.BackendConfig{
			Type:            v.GetString("backend.type"),
			Fallback:        v.GetString("backend.fallback"),
			Seq2SeqURL:      v.GetString("backend.seq2seq_url"),
			Seq2SeqTimeout:  v.GetDuration("backend.seq2seq_timeout"),
			BreakerFailures: v.GetUint32("backend.breaker_failures"),
			BreakerTimeout:  v.GetDuration("backend.breaker_timeout"),
			OpenAIModel:     v.GetString("backend.openai_model"),
			OpenAIBaseURL:   v.GetString("backend.openai_base_url"),
			GeminiModel:     v.GetString("backend.gemini_model"),
			GeminiBaseURL:   v.GetString("backend.gemini_base_url"),
		},
		LogLevel:    v.GetString("log.level"),
		LogFormat:   v.GetString("log.format"),
		MetricsAddr: v.GetString("metrics.addr"),
	}
}

// Validate rejects configurations that cannot work.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseDir) == "" {
		return fmt.Errorf("model base directory must be set")
	}
	if strings.TrimSpace(c.OutputFile) == "" {
		return fmt.Errorf("model output file must be set")
	}
	if strings.TrimSpace(c.PartsDir) == "" {
		return fmt.Errorf("model parts directory must be set")
	}
	if c.MinCombinedSize < 0 {
		return fmt.Errorf("min combined size must not be negative, got %d", c.MinCombinedSize)
	}
	if c.ExpectedSize < 0 {
		return fmt.Errorf("expected size must not be negative, got %d", c.ExpectedSize)
	}
	if c.Backend.Seq2SeqTimeout < 0 || c.Backend.BreakerTimeout < 0 {
		return fmt.Errorf("backend timeouts must not be negative")
	}

	switch c.Backend.Type {
	case "seq2seq", "openai", "gemini":
	default:
		return fmt.Errorf("unknown translation backend: %s", c.Backend.Type)
	}
	switch c.Backend.Fallback {
	case "", "seq2seq", "openai", "gemini":
	default:
		return fmt.Errorf("unknown fallback backend: %s", c.Backend.Fallback)
	}

	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("log format must be console or json, got %s", c.LogFormat)
	}
	return nil
}

// ModelDir is the directory holding config.json.
func (c *Config) ModelDir() string {
	return c.BaseDir
}

// PartsPath returns the fragments directory.
func (c *Config) PartsPath() string {
	return c.resolve(c.PartsDir)
}

// OutputPath returns the combined checkpoint path.
func (c *Config) OutputPath() string {
	return c.resolve(c.OutputFile)
}

// TokenizerPath returns the directory holding tokenizer.json.
func (c *Config) TokenizerPath() string {
	if c.TokenizerDir == "" {
		return c.BaseDir
	}
	return c.resolve(c.TokenizerDir)
}

// Reassembler returns a reassembler for the configured paths.
func (c *Config) Reassembler() *checkpoint.Reassembler {
	r := checkpoint.NewReassembler(c.PartsPath(), c.OutputPath())
	if c.MinCombinedSize > 0 {
		r.MinSize = c.MinCombinedSize
	}
	r.ExpectedSize = c.ExpectedSize
	return r
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/babel/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "babel [text]",
		Short: "AI Language Translator",
		Long: `babel translates English text to Hindi, Italian, Portuguese,
French or Spanish with the mBART-50 many-to-many model.

The model checkpoint ships as numbered fragments; they are combined into
model.safetensors on first use.

Examples:
  babel                                # Launch interactive GUI (default)
  babel "Good morning" --to Spanish    # Translate once via CLI
  babel --batch texts.txt --out out.txt
  babel --combine                      # Only reassemble the checkpoint`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.babel.yaml)")

	// Local flags
	cmd.Flags().StringVarP(&flags.To, "to", "t", flags.To, "Target language name or code (Hindi, Italian, Portuguese, French, Spanish)")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate texts from file (one per line, optionally 'Language = text')")
	cmd.Flags().StringVarP(&flags.OutFile, "out", "o", "", "Write batch results to file instead of stdout")
	cmd.Flags().BoolVar(&flags.Combine, "combine", false, "Combine the checkpoint fragments and exit")
	cmd.Flags().BoolVar(&flags.ListLanguages, "list-languages", false, "List supported target languages")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List models of the OpenAI-compatible backend")

	// Model flags
	cmd.Flags().StringVar(&flags.ModelDir, "model-dir", flags.ModelDir, "Model directory holding config.json and tokenizer.json")
	cmd.Flags().StringVar(&flags.PartsDir, "parts-dir", flags.PartsDir, "Directory with model.safetensors.partN fragments (relative to --model-dir)")
	cmd.Flags().StringVar(&flags.TokenizerDir, "tokenizer-dir", "", "Directory holding tokenizer.json (default: --model-dir)")
	cmd.Flags().Int64Var(&flags.ExpectedSize, "expected-size", 0, "Exact size of the combined checkpoint in bytes (0: use the size threshold)")

	// Backend flags
	cmd.Flags().StringVar(&flags.Backend, "backend", flags.Backend, "Translation backend: seq2seq, openai, gemini")
	cmd.Flags().StringVar(&flags.Fallback, "fallback", "", "Backend to try when the primary fails (default: none)")
	cmd.Flags().StringVar(&flags.Seq2SeqURL, "seq2seq-url", flags.Seq2SeqURL, "URL of the seq2seq inference server")
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "Chat model for the openai backend")
	cmd.Flags().StringVar(&flags.OpenAIBaseURL, "openai-base-url", "", "Base URL of an OpenAI-compatible API (default: api.openai.com)")
	cmd.Flags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Model for the gemini backend")

	// Observability flags
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: console or json")
	cmd.Flags().StringVar(&flags.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (default: disabled)")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("model.base_dir", cmd.Flags().Lookup("model-dir"))
	viper.BindPFlag("model.parts_dir", cmd.Flags().Lookup("parts-dir"))
	viper.BindPFlag("model.tokenizer_dir", cmd.Flags().Lookup("tokenizer-dir"))
	viper.BindPFlag("model.expected_size", cmd.Flags().Lookup("expected-size"))
	viper.BindPFlag("backend.type", cmd.Flags().Lookup("backend"))
	viper.BindPFlag("backend.fallback", cmd.Flags().Lookup("fallback"))
	viper.BindPFlag("backend.seq2seq_url", cmd.Flags().Lookup("seq2seq-url"))
	viper.BindPFlag("backend.openai_model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("backend.openai_base_url", cmd.Flags().Lookup("openai-base-url"))
	viper.BindPFlag("backend.gemini_model", cmd.Flags().Lookup("gemini-model"))
	viper.BindPFlag("log.level", cmd.Flags().Lookup("log-level"))
	viper.BindPFlag("log.format", cmd.Flags().Lookup("log-format"))
	viper.BindPFlag("metrics.addr", cmd.Flags().Lookup("metrics-addr"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".babel" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".babel")
	}

	// Environment variables, BABEL_BACKEND_TYPE sets backend.type
	viper.SetEnvPrefix("BABEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("backend.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			return key
		}
	}
	return viper.GetString("backend.gemini_key")
}

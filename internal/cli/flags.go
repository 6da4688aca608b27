package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile       string
	To            string
	BatchFile     string
	OutFile       string
	Combine       bool
	ListLanguages bool
	ListModels    bool

	// Model location flags
	ModelDir     string
	PartsDir     string
	TokenizerDir string
	ExpectedSize int64

	// Backend flags
	Backend       string
	Fallback      string
	Seq2SeqURL    string
	OpenAIModel   string
	OpenAIBaseURL string
	GeminiModel   string

	// Observability flags
	LogLevel    string
	LogFormat   string
	MetricsAddr string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		To:          "French",
		ModelDir:    "model",
		PartsDir:    "model",
		Backend:     "seq2seq",
		Seq2SeqURL:  "http://127.0.0.1:8089",
		OpenAIModel: "gpt-4o-mini",
		GeminiModel: "gemini-2.0-flash",
		LogLevel:    "info",
		LogFormat:   "console",
	}
}

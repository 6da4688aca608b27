// Package translation turns English text into one of the supported target
// languages. A Translator resolves the forced target-language token from
// the loaded model and hands a single Request to a Backend; backends speak
// to a seq2seq inference server (the default), an OpenAI-compatible API or
// Gemini. Successful results are cached in memory for the process.
package translation

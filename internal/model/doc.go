// Package model loads the seq2seq translation model from its directory:
// the architecture config, generation defaults, the tokenizer's language
// token table and the combined safetensors checkpoint. Loading happens once
// per process through Lazy.
package model

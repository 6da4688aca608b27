// Package models lists the models offered by the OpenAI-compatible
// backend, so users can pick one for --openai-model.
package models

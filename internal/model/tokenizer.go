package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// languageCode matches mBART-style language tokens such as en_XX or hi_IN.
var languageCode = regexp.MustCompile(`^[a-z]{2}_[A-Z]{2}$`)

// Tokenizer holds the language token table read from tokenizer.json.
type Tokenizer struct {
	langCodeToID map[string]int
}

type rawTokenizer struct {
	AddedTokens []struct {
		ID      int    `json:"id"`
		Content string `json:"content"`
	} `json:"added_tokens"`
}

func loadTokenizer(dir string) (*Tokenizer, error) {
	data, err := os.ReadFile(filepath.Join(dir, "tokenizer.json"))
	if err != nil {
		return nil, fmt.Errorf("reading tokenizer.json: %w", err)
	}

	var raw rawTokenizer
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing tokenizer.json: %w", err)
	}

	tok := &Tokenizer{langCodeToID: make(map[string]int)}
	for _, t := range raw.AddedTokens {
		if languageCode.MatchString(t.Content) {
			tok.langCodeToID[t.Content] = t.ID
		}
	}

	if len(tok.langCodeToID) == 0 {
		return nil, fmt.Errorf("tokenizer.json has no language tokens")
	}
	return tok, nil
}

// LangID returns the token ID of a language code such as fr_XX.
func (t *Tokenizer) LangID(code string) (int, error) {
	id, ok := t.langCodeToID[code]
	if !ok {
		return 0, fmt.Errorf("tokenizer has no language token %q", code)
	}
	return id, nil
}

// Languages returns the number of language tokens known to the tokenizer.
func (t *Tokenizer) Languages() int {
	return len(t.langCodeToID)
}

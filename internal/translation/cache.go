package translation

import "sync"

// TranslationCache stores translations in memory for the process lifetime
type TranslationCache struct {
	mu           sync.RWMutex
	translations map[cacheKey]string
}

type cacheKey struct {
	lang string
	text string
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: make(map[cacheKey]string),
	}
}

// Add adds a translation to the cache
func (tc *TranslationCache) Add(lang, text, translation string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.translations[cacheKey{lang: lang, text: text}] = translation
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(lang, text string) (string, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	translation, ok := tc.translations[cacheKey{lang: lang, text: text}]
	return translation, ok
}

// Len returns the number of cached translations
func (tc *TranslationCache) Len() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.translations)
}

package translation

import (
	"errors"
	"fmt"
	"strings"
)

// SourceLang is the language code of every input text.
const SourceLang = "en_XX"

// ErrUnknownLanguage is returned for a target that is not in the list.
var ErrUnknownLanguage = errors.New("unsupported target language")

// Language pairs a display name with the model's language code.
type Language struct {
	Name string
	Code string
}

// languages is kept in display order.
var languages = []Language{
	{Name: "Hindi", Code: "hi_IN"},
	{Name: "Italian", Code: "it_IT"},
	{Name: "Portuguese", Code: "pt_XX"},
	{Name: "French", Code: "fr_XX"},
	{Name: "Spanish", Code: "es_XX"},
}

// Languages returns the supported target languages in display order.
func Languages() []Language {
	return append([]Language(nil), languages...)
}

// Names returns the display names in order, for the language picker.
func Names() []string {
	names := make([]string, len(languages))
	for i, lang := range languages {
		names[i] = lang.Name
	}
	return names
}

// LookupLanguage finds a target language by display name or code,
// ignoring case.
func LookupLanguage(nameOrCode string) (Language, error) {
	key := strings.TrimSpace(nameOrCode)
	for _, lang := range languages {
		if strings.EqualFold(lang.Name, key) || strings.EqualFold(lang.Code, key) {
			return lang, nil
		}
	}
	return Language{}, fmt.Errorf("%w: %q (choose one of %s)", ErrUnknownLanguage, nameOrCode, strings.Join(Names(), ", "))
}

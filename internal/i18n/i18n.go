package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Translator renders messages in the best language for a request.
type Translator struct {
	catalog *catalog.Builder
	matcher language.Matcher
}

// New builds the English and German catalog. English is the fallback.
func New() (*Translator, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, text := range german {
		if err := b.SetString(language.German, key, text); err != nil {
			return nil, err
		}
	}
	return &Translator{
		catalog: b,
		matcher: language.NewMatcher([]language.Tag{language.English, language.German}),
	}, nil
}

// Match picks a supported language for an Accept-Language header value.
func (t *Translator) Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return language.English
	}
	_, idx, _ := t.matcher.Match(tags...)
	return []language.Tag{language.English, language.German}[idx]
}

// Printer returns a printer for tag.
func (t *Translator) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(t.catalog))
}

// Sprintf translates key for the Accept-Language value and formats args into it.
func (t *Translator) Sprintf(acceptLanguage, key string, args ...any) string {
	return t.Printer(t.Match(acceptLanguage)).Sprintf(key, args...)
}

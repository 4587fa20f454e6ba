// Package i18n renders user-facing messages from embedded TOML catalogues.
package i18n

import (
	"embed"
	"log"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"github.com/Shivanand-hulikatti/festival-events/internal/apperr"
)

//go:embed active.*.toml
var localeFS embed.FS

var catalogues = []string{"active.en.toml", "active.hi.toml"}

// Translator wraps a go-i18n bundle. It is safe for concurrent use.
type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
	supported       []language.Tag
	matcher         language.Matcher
}

// NewTranslator loads the embedded catalogues. An unparsable defaultLocale
// falls back to English.
func NewTranslator(defaultLocale string) *Translator {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range catalogues {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Printf("i18n: failed to load %s: %v", file, err)
		}
	}

	// the default goes first so it wins ties in the matcher
	tags := []language.Tag{tag}
	for _, t := range bundle.LanguageTags() {
		if t != tag {
			tags = append(tags, t)
		}
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
		supported:       tags,
		matcher:         language.NewMatcher(tags),
	}
}

// Match picks the supported language closest to an Accept-Language header.
func (t *Translator) Match(acceptLanguage string) language.Tag {
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return t.defaultLanguage
	}
	_, idx, conf := t.matcher.Match(prefs...)
	if conf == language.No {
		return t.defaultLanguage
	}
	return t.supported[idx]
}

// T renders the message identified by key. Unknown keys render as the key
// itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}
	msg, err := t.localizer(locale).Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		log.Printf("i18n: localize failed (key=%s, locale=%q): %v", key, locale, err)
		return key
	}
	return msg
}

// Error renders e for the caller's locale, falling back to its built-in
// English text.
func (t *Translator) Error(locale string, e *apperr.Error) string {
	msg, err := t.localizer(locale).Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{ID: e.Code, Other: e.Message},
		TemplateData:   e.Params,
	})
	if err != nil {
		return e.Message
	}
	return msg
}

func (t *Translator) localizer(locale string) *i18n.Localizer {
	if locale == "" {
		return i18n.NewLocalizer(t.bundle, t.defaultLanguage.String())
	}
	return i18n.NewLocalizer(t.bundle, locale, t.defaultLanguage.String())
}

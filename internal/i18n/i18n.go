package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var locales embed.FS

var supported = []language.Tag{language.English, language.French}

// Translator resolves message ids against the embedded catalogs
type Translator struct {
	bundle      *i18n.Bundle
	defaultLang language.Tag
	tags        []language.Tag
	matcher     language.Matcher
}

// New loads the embedded catalogs. An unsupported default falls back to English.
func New(defaultLang string) (*Translator, error) {
	def := language.English
	if tag, err := language.Parse(defaultLang); err == nil {
		for _, s := range supported {
			if base, _ := tag.Base(); base.String() == s.String() {
				def = s
			}
		}
	}

	bundle := i18n.NewBundle(def)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(locales, "locales/*.toml")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(locales, f); err != nil {
			return nil, fmt.Errorf("load %s: %w", path.Base(f), err)
		}
	}

	// the default goes first so the matcher falls back to it
	tags := []language.Tag{def}
	for _, s := range supported {
		if s != def {
			tags = append(tags, s)
		}
	}

	return &Translator{
		bundle:      bundle,
		defaultLang: def,
		tags:        tags,
		matcher:     language.NewMatcher(tags),
	}, nil
}

// Default returns the configured default language code
func (t *Translator) Default() string {
	return t.defaultLang.String()
}

// Translate returns the localized message, or msgID when the catalog lacks it
func (t *Translator) Translate(lang, msgID string, data map[string]any) string {
	localizer := i18n.NewLocalizer(t.bundle, lang, t.defaultLang.String())
	lc := &i18n.LocalizeConfig{MessageID: msgID}
	if len(data) > 0 {
		lc.TemplateData = data
	}
	msg, err := localizer.Localize(lc)
	if err != nil {
		return msgID
	}
	return msg
}

// Negotiate picks a supported language. The explicit X-Lang value wins over
// Accept-Language.
func (t *Translator) Negotiate(xlang, acceptLanguage string) string {
	if xlang = strings.TrimSpace(xlang); xlang != "" {
		if tag, err := language.Parse(xlang); err == nil {
			return t.match(tag)
		}
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return t.defaultLang.String()
	}
	return t.match(tags...)
}

func (t *Translator) match(tags ...language.Tag) string {
	_, idx, _ := t.matcher.Match(tags...)
	return t.tags[idx].String()
}

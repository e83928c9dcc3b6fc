package i18n

import (
	"embed"
	"encoding/json"
	"fmt"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var defaultLocales = []string{"locales/active.en.json", "locales/active.id.json"}

// Translator resolves message IDs to localized text.
type Translator struct {
	bundle *goi18n.Bundle
}

// New loads the embedded English and Indonesian catalogs.
func New() (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	for _, path := range defaultLocales {
		if _, err := bundle.LoadMessageFileFS(localeFS, path); err != nil {
			return nil, fmt.Errorf("load locale %s: %w", path, err)
		}
	}
	return &Translator{bundle: bundle}, nil
}

// T localizes id for the Accept-Language style lang string. Unknown IDs come back verbatim.
func (t *Translator) T(lang, id string, data map[string]any) string {
	loc := goi18n.NewLocalizer(t.bundle, lang)
	msg, err := loc.Localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return id
	}
	return msg
}

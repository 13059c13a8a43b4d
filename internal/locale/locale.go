package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-celebrations/internal/config"
	"github.com/tartampluch/go-celebrations/internal/engine"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator renders labels and milestone texts in one language.
type Translator struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	lang      string
	languages []string
}

// New loads the embedded catalogs and selects lang. Unknown languages fall back to English.
func New(lang string) *Translator {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	t := &Translator{bundle: bundle}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		t.languages = append(t.languages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}

	if lang == "" {
		lang = config.DefaultLanguage
	}
	t.lang = lang
	t.localizer = i18n.NewLocalizer(bundle, lang)
	return t
}

// Language returns the requested language code.
func (t *Translator) Language() string {
	return t.lang
}

// Languages lists the catalogs found in the binary.
func (t *Translator) Languages() []string {
	return t.languages
}

// Msg translates key, returning the key itself when it is missing.
func (t *Translator) Msg(key string, data map[string]any) string {
	return t.localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data}, key)
}

// Count translates a plural key for n. Templates receive {{.Count}} plus data.
func (t *Translator) Count(key string, n int, data map[string]any) string {
	td := map[string]any{"Count": n}
	for k, v := range data {
		td[k] = v
	}
	return t.localize(&i18n.LocalizeConfig{MessageID: key, PluralCount: n, TemplateData: td}, key)
}

func (t *Translator) localize(lc *i18n.LocalizeConfig, fallback string) string {
	if t == nil || t.localizer == nil {
		return fallback
	}
	msg, err := t.localizer.Localize(lc)
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, lc.MessageID,
			config.LogKeyError, err,
		)
		return fallback
	}
	return msg
}

// TypeLabel is the display name of an event type.
func (t *Translator) TypeLabel(et engine.EventType) string {
	if et == engine.EventAnniversary {
		return orDefault(t.Msg(config.TKeyTypeAnniversary, nil), config.TKeyTypeAnniversary, config.FallbackTypeAnniversary)
	}
	return orDefault(t.Msg(config.TKeyTypeBirthday, nil), config.TKeyTypeBirthday, config.FallbackTypeBirthday)
}

// Detail describes the milestone reached; it plugs into engine.Upcoming.
func (t *Translator) Detail(et engine.EventType, milestone int) string {
	key := config.TKeyDetailBirthday
	if et == engine.EventAnniversary {
		key = config.TKeyDetailAnniversary
	}
	return orDefault(t.Count(key, milestone, nil), key, engine.DefaultDetail(et, milestone))
}

// Summary is the calendar event title for name reaching milestone.
func (t *Translator) Summary(et engine.EventType, name string, milestone int) string {
	key, format := config.TKeySummaryBirthday, config.FallbackSummaryBirthday
	if et == engine.EventAnniversary {
		key, format = config.TKeySummaryAnniv, config.FallbackSummaryAnniv
	}
	return orDefault(t.Count(key, milestone, map[string]any{"Name": name}), key, fmt.Sprintf(format, name, milestone))
}

// CalendarName is the feed display name.
func (t *Translator) CalendarName() string {
	return orDefault(t.Msg(config.TKeyCalendarName, nil), config.TKeyCalendarName, config.ICalCalName)
}

// orDefault swaps an untranslated key for the built-in English text.
func orDefault(got, key, def string) string {
	if got == key {
		return def
	}
	return got
}

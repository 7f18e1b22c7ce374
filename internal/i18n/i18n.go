// Package i18n looks up the user-facing strings of the CLI in the embedded
// translation files, picking the best match for the user's locale.
package i18n

import (
	"embed"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"

	goLocale "github.com/jeandeaual/go-locale"
	i18nLib "github.com/kaptinlin/go-i18n"
	"golang.org/x/text/language"
)

// TestModeEnv makes T return the key and its arguments verbatim so tests can
// assert on messages without depending on translations.
const TestModeEnv = "FURR_TEST"

const defaultLocale = "en-GB"

type LocaleProvider interface {
	GetLocales() ([]string, error)
}

type DefaultLocaleProvider struct{}

func (DefaultLocaleProvider) GetLocales() ([]string, error) {
	return goLocale.GetLocales()
}

type TData map[string]interface{}

type Tvars struct {
	Count int
	Data  *TData
}

//go:embed lang/*.json
var translations embed.FS

var (
	langFS         = translations
	langDir        = "lang"
	localeProvider LocaleProvider = DefaultLocaleProvider{}

	setupOnce sync.Once
	// mu serializes Get; the library's message cache is not safe for concurrent use.
	mu        sync.Mutex
	bundle    *i18nLib.I18n
	localizer *i18nLib.Localizer
)

func ResetForTesting() {
	mu.Lock()
	bundle = nil
	localizer = nil
	mu.Unlock()
	setupOnce = sync.Once{}
}

// T translates key. At most one Tvars may be passed; Count feeds plural rules.
func T(key string, args ...Tvars) string {
	if _, testMode := os.LookupEnv(TestModeEnv); testMode {
		return formatKeyAndArgs(key, args...)
	}
	if len(args) > 1 {
		panic("Too many arguments")
	}

	setupOnce.Do(setup)

	mu.Lock()
	defer mu.Unlock()

	if len(args) == 0 {
		return localizer.Get(key)
	}
	return localizer.Get(key, i18nLib.Vars(varsOf(args[0])))
}

func varsOf(arg Tvars) map[string]interface{} {
	vars := map[string]interface{}{"count": arg.Count}
	if arg.Data != nil {
		for name, value := range *arg.Data {
			vars[name] = value
		}
	}
	return vars
}

func setup() {
	locales, err := availableLocales()
	if err != nil {
		panic(err)
	}

	newBundle := i18nLib.NewBundle(
		i18nLib.WithDefaultLocale(defaultLocale),
		i18nLib.WithLocales(locales...),
	)
	if err := newBundle.LoadFS(langFS, path.Join(langDir, "*.json")); err != nil {
		panic(err)
	}

	newLocalizer := newBundle.NewLocalizer(normalizeLocales(userLocales())...)

	mu.Lock()
	bundle = newBundle
	localizer = newLocalizer
	mu.Unlock()
}

// availableLocales lists the embedded translation files, default first.
func availableLocales() ([]string, error) {
	entries, err := langFS.ReadDir(langDir)
	if err != nil {
		return nil, err
	}

	locales := []string{defaultLocale}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		locale := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))
		if strings.EqualFold(locale, defaultLocale) {
			continue
		}
		locales = append(locales, locale)
	}
	return locales, nil
}

func userLocales() []string {
	if lang, ok := os.LookupEnv("LANG"); ok {
		return []string{lang}
	}

	detected, err := localeProvider.GetLocales()
	if err != nil {
		return []string{language.English.String()}
	}

	locales := make([]string, 0, len(detected))
	for _, locale := range detected {
		if locale != "" {
			locales = append(locales, locale)
		}
	}
	return locales
}

// normalizeLocales turns OS locale names such as "fr_FR" into BCP 47 tags and
// adds each base language right after its regional variant.
func normalizeLocales(raw []string) []string {
	locales := make([]string, 0, len(raw)*2)
	seen := make(map[string]struct{}, len(raw)*2)
	add := func(locale string) {
		if _, ok := seen[locale]; ok || locale == "" {
			return
		}
		seen[locale] = struct{}{}
		locales = append(locales, locale)
	}

	for _, name := range raw {
		if name == "" {
			continue
		}
		tag, err := language.Parse(name)
		if err != nil {
			continue
		}
		add(tag.String())
		if base, _ := tag.Base(); base.String() != "" {
			add(base.String())
		}
	}
	return locales
}

func formatKeyAndArgs(key string, args ...Tvars) string {
	var sb strings.Builder
	sb.WriteString(key)
	for i, arg := range args {
		sb.WriteString(fmt.Sprintf(", Arg %d: {Count: %d, Data: %v}", i+1, arg.Count, arg.Data))
	}
	return sb.String()
}

package i18n

import (
	"embed"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

type failingLocaleProvider struct{}

func (failingLocaleProvider) GetLocales() ([]string, error) {
	return nil, errors.New("no locale")
}

type fixedLocaleProvider []string

func (p fixedLocaleProvider) GetLocales() ([]string, error) {
	return p, nil
}

type customString string

func (c customString) String() string { return string(c) }

//go:embed testdata/*.json
var fixtures embed.FS

//go:embed testdata_invalid/*.json
var invalidFixtures embed.FS

func useFixtures(t *testing.T, fs embed.FS, dir string) {
	t.Helper()
	originalFS, originalDir, originalProvider := langFS, langDir, localeProvider
	langFS = fs
	langDir = dir
	ResetForTesting()
	t.Cleanup(func() {
		langFS, langDir, localeProvider = originalFS, originalDir, originalProvider
		ResetForTesting()
	})
}

func TestTranslate(t *testing.T) {
	useFixtures(t, fixtures, "testdata")
	t.Setenv("LANG", "en_GB")

	assert.Equal(t, "Hello World", T("test.simple"))
	assert.Equal(t, "Value is XYZ", T("test.customType", Tvars{
		Data: &TData{"val": customString("XYZ")},
	}))
}

func TestTranslateGerman(t *testing.T) {
	useFixtures(t, fixtures, "testdata")
	t.Setenv("LANG", "de_DE")

	assert.Equal(t, "Hallo Welt", T("test.simple"))
}

func TestTranslateTestMode(t *testing.T) {
	t.Setenv(TestModeEnv, "true")

	assert.Equal(t, "test.simple", T("test.simple"))
	assert.Equal(t, "test.multiple, Arg 1: {Count: 1, Data: &map[name:flib]}", T("test.multiple", Tvars{
		Count: 1,
		Data:  &TData{"name": "flib"},
	}))
}

func TestMissingTranslationReturnsKey(t *testing.T) {
	useFixtures(t, fixtures, "testdata")
	t.Setenv("LANG", "en_GB")

	assert.Equal(t, "test.missing", T("test.missing"))
}

func TestTooManyArguments(t *testing.T) {
	assert.Panics(t, func() {
		T("test.simple", Tvars{}, Tvars{})
	})
}

func TestSetupPanicsOnBadInput(t *testing.T) {
	useFixtures(t, fixtures, "missing")
	assert.Panics(t, setup)

	langFS = invalidFixtures
	langDir = "testdata_invalid"
	assert.Panics(t, setup)
}

func TestSetupKeepsDefaultFirst(t *testing.T) {
	useFixtures(t, fixtures, "testdata")
	t.Setenv("LANG", "en_GB")

	setup()

	supported := bundle.SupportedLanguages()
	assert.Equal(t, defaultLocale, supported[0].String())
}

func TestEmbeddedTranslationsLoad(t *testing.T) {
	ResetForTesting()
	t.Cleanup(ResetForTesting)
	t.Setenv("LANG", "en_GB")

	assert.NotEqual(t, "app.description", T("app.description"))
}

func TestUserLocales(t *testing.T) {
	t.Run("LANG wins", func(t *testing.T) {
		t.Setenv("LANG", "fr_FR")
		assert.Equal(t, []string{"fr_FR"}, userLocales())
	})

	t.Run("provider failure falls back to English", func(t *testing.T) {
		useFixtures(t, fixtures, "testdata")
		unsetLang(t)
		localeProvider = failingLocaleProvider{}
		assert.Equal(t, []string{language.English.String()}, userLocales())
	})

	t.Run("provider locales without blanks", func(t *testing.T) {
		useFixtures(t, fixtures, "testdata")
		unsetLang(t)
		localeProvider = fixedLocaleProvider{"", "es_ES"}
		assert.Equal(t, []string{"es_ES"}, userLocales())
	})
}

func TestNormalizeLocales(t *testing.T) {
	assert.Equal(t, []string{"fr-FR", "fr", "de-DE", "de"}, normalizeLocales([]string{"fr_FR", "de_DE", "fr_FR", ""}))
	assert.Equal(t, []string{"fr-FR", "fr"}, normalizeLocales([]string{"fr_FR", "???"}))
}

func unsetLang(t *testing.T) {
	t.Helper()
	t.Setenv("LANG", "")
	assert.NoError(t, os.Unsetenv("LANG"))
}

func TestEmbeddedTranslations(t *testing.T) {
	ResetForTesting()
	t.Cleanup(ResetForTesting)
	t.Setenv("LANG", "en_GB")

	assert.Equal(t, "any version", T("cmd.deps.any_version"))
	assert.Equal(t, "Added flib (>=0.12.0)", T("cmd.add.added", Tvars{
		Data: &TData{"name": "flib", "range": ">=0.12.0"},
	}))
}

package translator_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp-moriss/volunteers-backend/pkg/translator"
)

func writeCatalogue(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestInitTranslator_LoadsMessages(t *testing.T) {
	dir := t.TempDir()
	writeCatalogue(t, dir, "en.toml", `hello = "Hello english"`)

	translator.InitTranslator(translator.Config{
		TranslationFolder:  dir,
		SupportedLanguages: []string{translator.LanguageEn, translator.LanguageHe},
	})

	localizer := i18n.NewLocalizer(translator.Translator, translator.LanguageEn)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "Hello english", msg)
}

func TestInitTranslator_InvalidFolder(t *testing.T) {
	translator.InitTranslator(translator.Config{
		TranslationFolder:  "/path/does/not/exist",
		SupportedLanguages: []string{translator.LanguageEn},
	})
	assert.NotNil(t, translator.Translator)
}

func TestLocalize_TemplateAndFallbacks(t *testing.T) {
	dir := t.TempDir()
	writeCatalogue(t, dir, "en.toml", `
greeting = "Hello {{.TaskTitle}}"
onlyEnglish = "English only"
`)
	writeCatalogue(t, dir, "he.toml", `greeting = "שלום {{.TaskTitle}}"`)

	translator.InitTranslator(translator.Config{
		TranslationFolder: dir,
		DefaultLanguage:   translator.LanguageHe,
	})

	data := map[string]string{"TaskTitle": "Groceries"}
	assert.Equal(t, "Hello Groceries", translator.Localize(translator.LanguageEn, "greeting", data))
	assert.Equal(t, "שלום Groceries", translator.Localize("", "greeting", data))
	assert.Equal(t, "שלום Groceries", translator.Localize("de", "greeting", data))
	assert.Equal(t, "English only", translator.Localize(translator.LanguageRu, "onlyEnglish", nil))
	assert.Equal(t, "missing", translator.Localize(translator.LanguageEn, "missing", nil))
}

func TestCataloguesDefineNotificationMessages(t *testing.T) {
	translator.InitTranslator(translator.Config{TranslationFolder: "translation"})

	for _, lang := range []string{translator.LanguageEn, translator.LanguageHe, translator.LanguageRu} {
		for _, id := range []string{"newTaskTitle", "taskCompletedBody", "awaitingOtherPartyBody", "taskNotFound"} {
			localizer := i18n.NewLocalizer(translator.Translator, lang)
			_, err := localizer.Localize(&i18n.LocalizeConfig{
				MessageID:    id,
				TemplateData: map[string]string{"TaskTitle": "x"},
			})
			assert.NoError(t, err, "%s/%s", lang, id)
		}
	}
}

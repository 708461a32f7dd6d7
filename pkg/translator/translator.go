package translator

import (
	"fmt"
	"os"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

var Translator *i18n.Bundle

// DefaultLanguage is used when a user has no language set.
var DefaultLanguage = LanguageHe

type Config struct {
	TranslationFolder  string
	SupportedLanguages []string // List of supported languages
	DefaultLanguage    string
}

const (
	LanguageHe = "he"
	LanguageEn = "en"
	LanguageRu = "ru"
)

func InitTranslator(cfg Config) {
	Translator = i18n.NewBundle(language.English)
	Translator.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	if cfg.DefaultLanguage != "" {
		DefaultLanguage = cfg.DefaultLanguage
	}

	// List files in the translation folder
	lstFiles, err := os.ReadDir(cfg.TranslationFolder)
	if err != nil {
		zap.L().Error("failed to list translation folder", zap.String("folder", cfg.TranslationFolder), zap.Error(err))
		return
	}

	// Load all translation files
	for _, f := range lstFiles {
		if f.IsDir() {
			continue
		}
		filepath := fmt.Sprintf("%s/%s", cfg.TranslationFolder, f.Name())

		_, err := Translator.LoadMessageFile(filepath)
		if err != nil {
			zap.L().Warn("failed to load translation file", zap.String("file", f.Name()), zap.Error(err))
		}
	}
}

// Localize renders messageID in lang, falling back to the default language
// and then to English. The message id itself is returned when no catalogue
// has it.
func Localize(lang, messageID string, data map[string]string) string {
	if Translator == nil {
		return messageID
	}
	if lang == "" {
		lang = DefaultLanguage
	}
	l := i18n.NewLocalizer(Translator, lang, DefaultLanguage, LanguageEn)
	msg, err := l.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if msg == "" {
		zap.L().Warn("translation not found", zap.String("lang", lang), zap.String("message_id", messageID), zap.Error(err))
		return messageID
	}
	if err != nil {
		// go-i18n reports the languages it skipped even when a fallback matched.
		zap.L().Debug("translation served from fallback language", zap.String("lang", lang), zap.String("message_id", messageID), zap.Error(err))
	}
	return msg
}

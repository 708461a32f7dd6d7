package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/philipp-moriss/volunteers-backend/pkg/translator"
)

const langKey = "lang"

// LanguageMiddleware stores the request language from the Accept-Language header.
func LanguageMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// The raw header is handed to go-i18n, which parses quality values itself.
		lang := strings.TrimSpace(c.GetHeader("Accept-Language"))
		if lang == "" {
			lang = translator.DefaultLanguage
		}
		c.Set(langKey, lang)
		c.Next()
	}
}

func GetLang(c *gin.Context) string {
	if lang, exists := c.Get(langKey); exists {
		if s, ok := lang.(string); ok {
			return s
		}
	}
	return translator.DefaultLanguage
}

// Package locale localizes user-facing API messages. Slovak is the default
// site language; English is available through Accept-Language or ?lang=.
package locale

import (
	"embed"
	"io/fs"
	"strings"

	"github.com/onkonavigator/onkonav/logger"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

var i18nBundle *i18n.Bundle

const defaultLang = "sk"

// InitLocalizer parses the embedded translation bundles.
func InitLocalizer(i18nFS embed.FS) error {
	i18nBundle = i18n.NewBundle(language.MustParse(defaultLang))
	i18nBundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	return fs.WalkDir(i18nFS, "translation", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := i18nFS.ReadFile(path)
		if err != nil {
			return err
		}
		_, err = i18nBundle.ParseMessageFileBytes(data, path)
		return err
	})
}

func createTemplateData(params []string) map[string]any {
	templateData := make(map[string]any)
	for _, param := range params {
		parts := strings.SplitN(param, "==", 2)
		if len(parts) == 2 {
			templateData[parts[0]] = parts[1]
		}
	}
	return templateData
}

// I18n localizes the message key for the given language tags. It falls back
// to the key itself when the bundle is not initialized, so early startup and
// tests never panic over a missing translation.
func I18n(lang, key string, params ...string) string {
	if i18nBundle == nil {
		return key
	}

	localizer := i18n.NewLocalizer(i18nBundle, lang, defaultLang)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: createTemplateData(params),
	})
	if err != nil {
		logger.Debugf("failed to localize %q: %v", key, err)
		return key
	}
	return msg
}

// LocalizerMiddleware resolves the request language and stores an I18n
// function in the gin context for controllers to use.
func LocalizerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.Query("lang")
		if lang == "" {
			lang = c.GetHeader("Accept-Language")
		}
		if lang == "" {
			lang = defaultLang
		}

		c.Set("I18n", func(key string, params ...string) string {
			return I18n(lang, key, params...)
		})
		c.Next()
	}
}

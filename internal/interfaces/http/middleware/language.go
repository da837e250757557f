package middleware

import (
	"github.com/bv-cosmetics/storefront/internal/config"
	"github.com/bv-cosmetics/storefront/internal/domain/i18n"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	resolverKey     = "i18n_resolver"
	directionHeader = "X-Content-Direction"
)

// Language picks the request language from ?lang=, the language cookie or
// Accept-Language, in that order, and stores a resolver for it. The
// resolver mirrors every language change into the Content-Language and
// direction response headers.
func Language(translations *i18n.Catalog, cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	fallback, err := i18n.ParseLanguage(cfg.Locale.Default)
	if err != nil {
		fallback = i18n.Arabic
	}

	return func(c *gin.Context) {
		explicit := c.Query("lang")
		if explicit == "" {
			explicit, _ = c.Cookie(cfg.Locale.CookieName)
		}
		lang := i18n.Negotiate(explicit, c.GetHeader("Accept-Language"), fallback)

		resolver, err := i18n.NewResolver(translations, lang, i18n.DocumentFunc(func(dir i18n.Direction, l i18n.Language) {
			c.Header("Content-Language", string(l))
			c.Header(directionHeader, string(dir))
		}))
		if err != nil {
			// Negotiate only returns supported languages
			log.WithError(err).Error("Failed to create language resolver")
			c.Next()
			return
		}

		c.Set(resolverKey, resolver)
		c.Next()
	}
}

// GetResolver returns the request's resolver, falling back to one for the
// default language when Language did not run
func GetResolver(c *gin.Context) *i18n.Resolver {
	if v, ok := c.Get(resolverKey); ok {
		if r, ok := v.(*i18n.Resolver); ok {
			return r
		}
	}
	r, _ := i18n.NewResolver(nil, i18n.Arabic, nil)
	return r
}

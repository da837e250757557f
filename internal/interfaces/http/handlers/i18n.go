package handlers

import (
	"net/http"

	"github.com/bv-cosmetics/storefront/internal/config"
	"github.com/bv-cosmetics/storefront/internal/domain/i18n"
	"github.com/bv-cosmetics/storefront/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// SetLanguageRequest is the body of PUT /i18n/language
type SetLanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

// I18nHandler exposes the request language and translations
type I18nHandler struct {
	translations *i18n.Catalog
	config       *config.Config
}

// NewI18nHandler creates a new localization handler
func NewI18nHandler(translations *i18n.Catalog, cfg *config.Config) *I18nHandler {
	return &I18nHandler{translations: translations, config: cfg}
}

// GetLanguage handles GET /i18n
func (h *I18nHandler) GetLanguage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Language retrieved successfully",
		"data":    languageState(middleware.GetResolver(c)),
	})
}

// SetLanguage handles PUT /i18n/language. The choice is remembered in a
// cookie and takes precedence over Accept-Language on later requests.
func (h *I18nHandler) SetLanguage(c *gin.Context) {
	var req SetLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	lang, err := i18n.ParseLanguage(req.Language)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"supported": i18n.Supported,
		})
		return
	}

	r := middleware.GetResolver(c)
	if err := r.SetLanguage(lang); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.config.Locale.CookieName, string(lang), int(h.config.Session.Expiry.Seconds()), "/", "", h.config.Session.Secure, false)

	c.JSON(http.StatusOK, gin.H{
		"message": r.TranslateInline("Language updated", "تم تغيير اللغة"),
		"data":    languageState(r),
	})
}

// Translate handles GET /i18n/translate?key=...[&ar=...]. With ar the key
// is treated as the English text of an inline pair.
func (h *I18nHandler) Translate(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "key is required",
		})
		return
	}

	r := middleware.GetResolver(c)
	var text string
	if ar, ok := c.GetQuery("ar"); ok {
		text = r.T(key, ar)
	} else {
		text = r.T(key)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Translation resolved successfully",
		"data": gin.H{
			"key":      key,
			"text":     text,
			"language": r.Language(),
		},
	})
}

// GetMessages handles GET /i18n/messages and returns the whole dictionary
// of the request language
func (h *I18nHandler) GetMessages(c *gin.Context) {
	r := middleware.GetResolver(c)
	c.JSON(http.StatusOK, gin.H{
		"message": "Messages retrieved successfully",
		"data": gin.H{
			"language": r.Language(),
			"messages": h.translations.Dictionary(r.Language()),
		},
	})
}

func languageState(r *i18n.Resolver) gin.H {
	return gin.H{
		"language":  r.Language(),
		"dir":       r.Direction(),
		"isRTL":     r.IsRTL(),
		"supported": i18n.Supported,
	}
}

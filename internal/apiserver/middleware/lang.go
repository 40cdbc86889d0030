package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/techmine/techmine/internal/common/cnst"
)

// LanguageNegotiator picks a supported language from request headers
type LanguageNegotiator interface {
	Negotiate(xlang, acceptLanguage string) string
}

// Language stores the negotiated language for error messages
func Language(n LanguageNegotiator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(cnst.CtxKeyLang, n.Negotiate(c.GetHeader(cnst.XLang), c.GetHeader("Accept-Language")))
		c.Next()
	}
}

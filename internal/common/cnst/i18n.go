package cnst

const (
	LangEN      = "en"
	LangFR      = "fr"
	LangDefault = LangEN
)

const (
	// XLang overrides Accept-Language when present
	XLang = "X-Lang"
)

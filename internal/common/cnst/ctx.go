package cnst

// gin context keys
const (
	CtxKeyIdentity = "identity"
	CtxKeyLang     = "lang"
	CtxKeyRole     = "role"
	CtxKeyTraceID  = "trace_id"
)

const (
	HeaderTraceID = "X-Trace-Id"
)

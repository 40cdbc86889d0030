package handler

import (
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"
	"github.com/techmine/techmine/internal/apiserver/middleware"
	"github.com/techmine/techmine/internal/apiserver/service"
	"github.com/techmine/techmine/internal/common/errorx"
	"github.com/techmine/techmine/pkg/logger"
	"github.com/techmine/techmine/pkg/metrics"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RouterOptions carries everything NewRouter wires together. Languages,
// Limiter, Metrics and OpenAPI are optional.
type RouterOptions struct {
	Handler      *Handler
	Verifier     middleware.TokenVerifier
	Languages    middleware.LanguageNegotiator
	Pinger       Pinger
	Limiter      *middleware.Limiter
	Metrics      *metrics.Metrics
	MetricsPath  string
	OpenAPI      *openapi3.T
	AllowOrigins []string
	ServiceName  string
}

// NewRouter builds the gin engine with the middleware chain and every route
func NewRouter(o RouterOptions) *gin.Engine {
	h := o.Handler
	eh := h.errors

	r := gin.New()
	r.Use(eh.RecoveryMiddleware(), errorx.TraceMiddleware())
	if o.ServiceName != "" {
		r.Use(otelgin.Middleware(o.ServiceName))
	}
	if o.Metrics != nil {
		r.Use(o.Metrics.Middleware())
	}
	r.Use(logger.GinMiddleware(h.logger), middleware.CORS(o.AllowOrigins))
	if o.Languages != nil {
		r.Use(middleware.Language(o.Languages))
	}
	r.NoRoute(func(c *gin.Context) { eh.HandleError(c, errorx.NotFound("Route")) })

	r.GET("/healthz", HandleHealth(o.Pinger, h.logger))
	if o.Metrics != nil && o.MetricsPath != "" {
		r.GET(o.MetricsPath, gin.WrapH(o.Metrics.Handler()))
	}

	public := r.Group("/api")
	public.GET("/auth/public", h.HandleAuthPublic)
	if o.OpenAPI != nil {
		public.GET("/openapi.json", HandleOpenAPI(o.OpenAPI))
	}

	api := r.Group("/api", middleware.Authenticate(o.Verifier, eh))
	if o.Limiter != nil {
		var onReject func()
		if o.Metrics != nil {
			onReject = o.Metrics.Rejected
		}
		api.Use(middleware.RateLimit(o.Limiter, eh, h.logger, onReject))
	}
	h.RegisterReports(api)
	h.RegisterIncidents(api)
	h.RegisterAttachments(api)
	api.GET("/profiles/me", h.HandleProfileMe)
	api.GET("/dashboard/homepage", h.HandleHomepage)
	api.GET("/dashboard/recap", h.HandleRecap)
	api.GET("/auth/me", h.HandleAuthMe)

	admin := api.Group("", middleware.RequireAdmin(h.svc.Roles, service.IsAdmin, eh))
	h.RegisterWorksites(admin)
	h.RegisterClients(admin)
	admin.GET("/auth/admin", h.HandleAuthAdmin)

	return r
}

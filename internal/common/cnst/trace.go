package cnst

// Tracer names
const (
	TraceService   = "techmine/service"
	TraceDashboard = "techmine/dashboard"
)

// Span names
const (
	SpanDashboardHomepage = "dashboard.homepage"
	SpanDashboardRecap    = "dashboard.recap"
	SpanDashboardQuery    = "dashboard.query"
	SpanRoleResolve       = "auth.role.resolve"
)

// Attribute keys
const (
	AttrEntity   = "techmine.entity"
	AttrQuery    = "techmine.query"
	AttrRoleFrom = "techmine.role.source"
	AttrSubject  = "enduser.id"
)

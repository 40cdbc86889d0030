package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/techmine/techmine/internal/apiserver/database"
	"github.com/techmine/techmine/internal/apiserver/middleware"
	"github.com/techmine/techmine/internal/common/cnst"
	"github.com/techmine/techmine/internal/common/dto"
)

// RegisterReports mounts /reports. Filters: status, titleSearch.
func (h *Handler) RegisterReports(g *gin.RouterGroup) {
	s := h.svc.Reports
	(&collection[dto.ReportInput, dto.Report, database.ReportFilter]{
		h: h, name: cnst.CollectionReports, resource: "Report",
		filter: func(c *gin.Context) database.ReportFilter {
			return database.ReportFilter{Status: c.Query("status"), TitleSearch: c.Query("titleSearch")}
		},
		list:   s.List,
		get:    s.Get,
		create: withRequestContext(s.Create),
		update: s.Update,
		remove: s.Delete,
		idOf:   func(r *dto.Report) string { return r.ID },
	}).register(g)
}

// RegisterIncidents mounts /incidents. Filters: status, severity,
// titleSearch. Create fills reportedBy from the caller when omitted.
func (h *Handler) RegisterIncidents(g *gin.RouterGroup) {
	s := h.svc.Incidents
	(&collection[dto.IncidentInput, dto.Incident, database.IncidentFilter]{
		h: h, name: cnst.CollectionIncidents, resource: "Incident",
		filter: func(c *gin.Context) database.IncidentFilter {
			return database.IncidentFilter{
				Status:      c.Query("status"),
				Severity:    c.Query("severity"),
				TitleSearch: c.Query("titleSearch"),
			}
		},
		list: s.List,
		get:  s.Get,
		create: func(c *gin.Context, in *dto.IncidentInput) (*dto.Incident, error) {
			var reporter string
			if id, ok := middleware.IdentityFrom(c); ok {
				reporter = id.DisplayName()
			}
			return s.Create(c.Request.Context(), in, reporter)
		},
		update: s.Update,
		remove: s.Delete,
		idOf:   func(i *dto.Incident) string { return i.ID },
	}).register(g)
}

func (h *Handler) RegisterWorksites(g *gin.RouterGroup) {
	s := h.svc.Worksites
	(&collection[dto.WorksiteInput, dto.Worksite, database.WorksiteFilter]{
		h: h, name: cnst.CollectionWorksites, resource: "Worksite",
		filter: func(c *gin.Context) database.WorksiteFilter {
			return database.WorksiteFilter{Status: c.Query("status"), NameSearch: c.Query("nameSearch")}
		},
		list:   s.List,
		get:    s.Get,
		create: withRequestContext(s.Create),
		update: s.Update,
		remove: s.Delete,
		idOf:   func(w *dto.Worksite) string { return w.ID },
	}).register(g)
}

func (h *Handler) RegisterClients(g *gin.RouterGroup) {
	s := h.svc.Clients
	(&collection[dto.ClientInput, dto.Client, database.ClientFilter]{
		h: h, name: cnst.CollectionClients, resource: "Client",
		filter: func(c *gin.Context) database.ClientFilter {
			return database.ClientFilter{NameSearch: c.Query("nameSearch")}
		},
		list:   s.List,
		get:    s.Get,
		create: withRequestContext(s.Create),
		update: s.Update,
		remove: s.Delete,
		idOf:   func(cl *dto.Client) string { return cl.ID },
	}).register(g)
}

// RegisterAttachments mounts /attachments. Only metadata lives here; the
// file itself is uploaded by the client straight to object storage.
func (h *Handler) RegisterAttachments(g *gin.RouterGroup) {
	s := h.svc.Attachments
	(&collection[dto.AttachmentInput, dto.Attachment, database.AttachmentFilter]{
		h: h, name: cnst.CollectionAttachments, resource: "Attachment",
		filter: func(c *gin.Context) database.AttachmentFilter {
			return database.AttachmentFilter{Type: c.Query("type"), NameSearch: c.Query("nameSearch")}
		},
		list:   s.List,
		get:    s.Get,
		create: withRequestContext(s.Create),
		update: s.Update,
		remove: s.Delete,
		idOf:   func(a *dto.Attachment) string { return a.ID },
	}).register(g)
}

func withRequestContext[In, Out any](fn func(context.Context, *In) (*Out, error)) func(*gin.Context, *In) (*Out, error) {
	return func(c *gin.Context, in *In) (*Out, error) {
		return fn(c.Request.Context(), in)
	}
}

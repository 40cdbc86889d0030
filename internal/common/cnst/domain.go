package cnst

// Collections exposed under /api
const (
	CollectionReports     = "reports"
	CollectionIncidents   = "incidents"
	CollectionWorksites   = "worksites"
	CollectionClients     = "clients"
	CollectionAttachments = "attachments"
)

// Collections lists every CRUD collection in route order
var Collections = []string{
	CollectionReports,
	CollectionIncidents,
	CollectionWorksites,
	CollectionClients,
	CollectionAttachments,
}

const (
	RoleAdmin = "Admin"

	IncidentStatusDefault = "Open"

	AttachmentTypeForage = "Forage"
	AttachmentTypeMinage = "Minage"

	ItemTypeReport   = "Report"
	ItemTypeIncident = "Incident"
)

package database

import "time"

// Report is a free-form operations report
type Report struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)"`
	Title       string     `gorm:"size:200;not null"`
	Description string     `gorm:"size:2000"`
	ReportDate  *time.Time `gorm:"column:date"`
	Status      string     `gorm:"size:50;index"`
	CreatedAt   time.Time  `gorm:"not null;index"`
}

func (Report) TableName() string { return "reports" }

type Incident struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"`
	Title        string    `gorm:"size:200;not null"`
	Description  string    `gorm:"size:2000"`
	IncidentDate time.Time `gorm:"not null;index"`
	Location     string    `gorm:"size:200"`
	Severity     string    `gorm:"size:50"`
	ReportedBy   string    `gorm:"size:100"`
	Status       string    `gorm:"size:50;not null;index"`
	CreatedAt    time.Time `gorm:"not null;index"`
}

func (Incident) TableName() string { return "incidents" }

type Worksite struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)"`
	Name      string     `gorm:"size:150;not null;index"`
	Location  string     `gorm:"size:300"`
	StartDate *time.Time `gorm:"column:start_date"`
	Status    string     `gorm:"size:50;not null;index"`
	CreatedAt time.Time  `gorm:"not null"`
}

func (Worksite) TableName() string { return "worksites" }

type Client struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)"`
	Name          string    `gorm:"size:150;not null;index"`
	ContactPerson string    `gorm:"size:150"`
	Email         string    `gorm:"size:100"`
	Phone         string    `gorm:"size:50"`
	CreatedAt     time.Time `gorm:"not null"`
}

func (Client) TableName() string { return "clients" }

// Attachment is metadata about a file kept in external object storage
type Attachment struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	Name      string    `gorm:"size:255;not null"`
	Type      string    `gorm:"size:20;not null;index"`
	FileName  string    `gorm:"size:255"`
	FileURL   string    `gorm:"column:file_url;type:text"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func (Attachment) TableName() string { return "attachments" }

// Profile is keyed by the identity provider subject. It is provisioned out of
// band and only read by the API.
type Profile struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	FullName  string    `gorm:"size:200"`
	Email     string    `gorm:"size:200"`
	Role      string    `gorm:"size:50"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Profile) TableName() string { return "profiles" }

// models lists every table AutoMigrate manages
func models() []any {
	return []any{&Report{}, &Incident{}, &Worksite{}, &Client{}, &Attachment{}, &Profile{}}
}

// mutable columns per entity; id and created_at are never rewritten
var (
	reportColumns     = []string{"title", "description", "date", "status"}
	incidentColumns   = []string{"title", "description", "incident_date", "location", "severity", "reported_by", "status"}
	worksiteColumns   = []string{"name", "location", "start_date", "status"}
	clientColumns     = []string{"name", "contact_person", "email", "phone"}
	attachmentColumns = []string{"name", "type", "file_name", "file_url"}
)

// ReportFilter fields are ignored when empty
type ReportFilter struct {
	Status      string
	TitleSearch string
}

type IncidentFilter struct {
	Status      string
	Severity    string
	TitleSearch string
}

type WorksiteFilter struct {
	Status     string
	NameSearch string
}

type ClientFilter struct {
	NameSearch string
}

type AttachmentFilter struct {
	Type       string
	NameSearch string
}

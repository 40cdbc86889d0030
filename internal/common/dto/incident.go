package dto

import "time"

// IncidentInput is the body of create and update. On create an empty status
// becomes "Open" and an empty reportedBy is filled from the caller.
type IncidentInput struct {
	Title        string `json:"title" validate:"required,notblank,min=3,max=200"`
	Description  string `json:"description" validate:"max=2000"`
	IncidentDate *Date  `json:"incidentDate" validate:"required"`
	Location     string `json:"location" validate:"max=200"`
	Severity     string `json:"severity" validate:"max=50"`
	ReportedBy   string `json:"reportedBy" validate:"max=100"`
	Status       string `json:"status" validate:"required,notblank,max=50"`
}

type Incident struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	IncidentDate Date      `json:"incidentDate"`
	Location     string    `json:"location"`
	Severity     string    `json:"severity"`
	ReportedBy   string    `json:"reportedBy"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

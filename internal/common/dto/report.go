package dto

import "time"

// ReportInput is the body of create and update
type ReportInput struct {
	Title       string `json:"title" validate:"required,notblank,min=3,max=200"`
	Description string `json:"description" validate:"max=2000"`
	ReportDate  *Date  `json:"reportDate"`
	Status      string `json:"status" validate:"max=50"`
}

type Report struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ReportDate  *Date     `json:"reportDate"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

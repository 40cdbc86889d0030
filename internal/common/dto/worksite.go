package dto

import "time"

type WorksiteInput struct {
	Name      string `json:"name" validate:"required,notblank,min=3,max=150"`
	Location  string `json:"location" validate:"max=300"`
	StartDate *Date  `json:"startDate"`
	Status    string `json:"status" validate:"required,notblank,max=50"`
}

type Worksite struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	StartDate *Date     `json:"startDate"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

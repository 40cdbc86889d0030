package dto

import "time"

type ClientInput struct {
	Name          string `json:"name" validate:"required,notblank,min=2,max=150"`
	ContactPerson string `json:"contactPerson" validate:"max=150"`
	Email         string `json:"email" validate:"omitempty,max=100,email"`
	Phone         string `json:"phone" validate:"omitempty,max=50,phone"`
}

type Client struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contactPerson"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	CreatedAt     time.Time `json:"createdAt"`
}

package dto

import "time"

// AttachmentInput describes a file held in external object storage. Only the
// metadata is stored here.
type AttachmentInput struct {
	Name     string `json:"name" validate:"required,notblank,min=3,max=255"`
	Type     string `json:"type" validate:"required,attachment_type"`
	FileName string `json:"fileName" validate:"max=255"`
	FileURL  string `json:"fileUrl" validate:"omitempty,file_url"`
}

type Attachment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	FileName  string    `json:"fileName"`
	FileURL   string    `json:"fileUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

package dto

type Profile struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Identity echoes a verified bearer token
type Identity struct {
	UserID string         `json:"userId"`
	Email  string         `json:"email"`
	Role   string         `json:"role"`
	Claims map[string]any `json:"claims"`
}

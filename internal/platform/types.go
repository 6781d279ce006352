package platform

import (
	"fmt"
	"io"
	"time"
)

// Session is what the auth endpoints hand back.
type Session struct {
	UserID  int64  `json:"user_id"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Credentials is the register request body.
type Credentials struct {
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// PostDraft carries the create-post form fields.
type PostDraft struct {
	Title       string
	Description string
	Amount      float64
	Recipient   string
	Bank        string
	Phone       string
}

// Post is the server-side post representation.
type Post struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Collected   float64   `json:"collected"`
	Recipient   string    `json:"recipient"`
	Bank        string    `json:"bank"`
	Phone       string    `json:"phone"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Upload is a file attached to a multipart request.
type Upload struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// APIError is a non-2xx response decoded from the backend's error envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

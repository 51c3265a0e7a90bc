package response

import (
	"time"

	"github.com/google/uuid"
)

type UserResponse struct {
	UUID      string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TaskResponse struct {
	UUID        uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CursorData struct {
	Datetime string `json:"datetime"`
	ID       int    `json:"id,omitempty"`
}

type Pagination struct {
	HasNext    bool   `json:"has_next"`
	NextCursor string `json:"next_cursor"`
}

type CursorResponse struct {
	Size       int            `json:"size"`
	Data       []TaskResponse `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}

type AuthResponse struct {
	Data  UserResponse `json:"data"`
	Token string       `json:"token,omitempty"`
}

package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const MaxTitleLength = 100

type Task struct {
	ID          int
	UUID        uuid.UUID
	Title       string `validate:"required,max=100"`
	Description string `validate:"max=1000"`
	Completed   bool
	UserId      int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskPatch carries a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

// NormalizeTitle trims the raw title the same way the form layer does.
func NormalizeTitle(raw string) string {
	return strings.TrimSpace(raw)
}

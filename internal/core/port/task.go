package port

import (
	"context"

	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/domain"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/model/response"
)

type TaskRepository interface {
	// GetAllByOwner returns every task of the user, newest-created first.
	// Backend failures are logged and come back as an empty slice.
	GetAllByOwner(ctx context.Context, userId int) []domain.Task
	GetAllWithCursor(ctx context.Context, userId int, limit int, cursor string) ([]domain.Task, bool, error)
	GetByUUID(ctx context.Context, uid string, userId int) (domain.Task, error)
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	// Update applies only the fields present in patch, scoped by uuid AND
	// owner. A miss on either is domain.ErrNotFound.
	Update(ctx context.Context, uid string, userId int, patch domain.TaskPatch) (domain.Task, error)
	Delete(ctx context.Context, uid string, userId int) (bool, error)
	// ToggleCompleted flips completed in a single statement at the
	// storage level, scoped by uuid AND owner.
	ToggleCompleted(ctx context.Context, uid string, userId int) (domain.Task, error)
}

type TaskService interface {
	ListTasks(ctx context.Context, userId int) []domain.Task
	GetTasksWithPagination(ctx context.Context, userId int, limit int, cursor string) (*response.CursorResponse, error)
	CreateTask(ctx context.Context, userId int, title, description string) (domain.Task, error)
	UpdateTask(ctx context.Context, uid string, userId int, patch domain.TaskPatch) (domain.Task, error)
	DeleteTask(ctx context.Context, uid string, userId int) error
	ToggleTaskCompletion(ctx context.Context, uid string, userId int) (domain.Task, error)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/domain"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/model/response"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/port"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/util"
)

type TaskService struct {
	repo port.TaskRepository
}

func NewTaskService(repo port.TaskRepository) *TaskService {
	return &TaskService{repo}
}

func (ts *TaskService) ListTasks(ctx context.Context, userId int) []domain.Task {
	return ts.repo.GetAllByOwner(ctx, userId)
}

func (ts *TaskService) GetTasksWithPagination(ctx context.Context, userId int, limit int, cursor string) (*response.CursorResponse, error) {
	rows, hasNext, err := ts.repo.GetAllWithCursor(ctx, userId, limit, cursor)

	data := make([]response.TaskResponse, 0)

	if err != nil {
		return nil, fmt.Errorf("%w: cursor inválido", domain.ErrInvalidInput)
	}

	for _, task := range rows {
		data = append(data, taskToResponse(task))
	}

	var nextCursor string

	if hasNext && len(rows) > 0 {
		last := rows[len(rows)-1]
		nextCursor = util.EncodeCursor(last.CreatedAt.Format(time.RFC3339Nano), last.ID)
	}

	return &response.CursorResponse{
		Size: len(data),
		Data: data,
		Pagination: response.Pagination{
			HasNext:    hasNext,
			NextCursor: nextCursor,
		},
	}, nil
}

func (ts *TaskService) CreateTask(ctx context.Context, userId int, title, description string) (domain.Task, error) {
	title = domain.NormalizeTitle(title)

	if title == "" {
		return domain.Task{}, fmt.Errorf("%w: el título de la tarea es requerido", domain.ErrInvalidInput)
	}

	// Characters, not bytes: an accented 100-char title is valid.
	if utf8.RuneCountInString(title) > domain.MaxTitleLength {
		return domain.Task{}, fmt.Errorf("%w: el título no puede exceder 100 caracteres", domain.ErrInvalidInput)
	}

	now := time.Now()

	newTask := domain.Task{
		UUID:        uuid.New(),
		Title:       title,
		Description: description,
		Completed:   false,
		UserId:      userId,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	task, err := ts.repo.Create(ctx, newTask)

	if err != nil {
		slog.Error("Task#CreateTask", "error", err, "title", newTask.Title)
		return domain.Task{}, fmt.Errorf("%w: error al crear la tarea", domain.ErrInternal)
	}

	return task, nil
}

func (ts *TaskService) UpdateTask(ctx context.Context, uid string, userId int, patch domain.TaskPatch) (domain.Task, error) {
	if patch.Title != nil {
		title := domain.NormalizeTitle(*patch.Title)

		if title == "" {
			return domain.Task{}, fmt.Errorf("%w: el título de la tarea es requerido", domain.ErrInvalidInput)
		}

		if utf8.RuneCountInString(title) > domain.MaxTitleLength {
			return domain.Task{}, fmt.Errorf("%w: el título no puede exceder 100 caracteres", domain.ErrInvalidInput)
		}

		patch.Title = &title
	}

	task, err := ts.repo.Update(ctx, uid, userId, patch)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Task{}, fmt.Errorf("%w: tarea no encontrada", domain.ErrNotFound)
		}

		slog.Error("Task#UpdateTask", "error", err, "uuid", uid)
		return domain.Task{}, fmt.Errorf("%w: error al actualizar la tarea", domain.ErrInternal)
	}

	return task, nil
}

func (ts *TaskService) DeleteTask(ctx context.Context, uid string, userId int) error {
	removed, err := ts.repo.Delete(ctx, uid, userId)

	if err != nil {
		slog.Error("Task#DeleteTask", "error", err, "uuid", uid)
		return fmt.Errorf("%w: error al eliminar la tarea", domain.ErrInternal)
	}

	if !removed {
		return fmt.Errorf("%w: tarea no encontrada", domain.ErrNotFound)
	}

	return nil
}

// ToggleTaskCompletion flips completed in one storage statement, so two
// concurrent toggles on the same task cannot lose an update.
func (ts *TaskService) ToggleTaskCompletion(ctx context.Context, uid string, userId int) (domain.Task, error) {
	task, err := ts.repo.ToggleCompleted(ctx, uid, userId)

	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Task{}, fmt.Errorf("%w: tarea no encontrada", domain.ErrNotFound)
		}

		slog.Error("Task#ToggleTaskCompletion", "error", err, "uuid", uid)
		return domain.Task{}, fmt.Errorf("%w: error al actualizar la tarea", domain.ErrInternal)
	}

	return task, nil
}

func taskToResponse(task domain.Task) response.TaskResponse {
	return response.TaskResponse{
		UUID:        task.UUID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

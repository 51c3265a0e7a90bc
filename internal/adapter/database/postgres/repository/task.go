package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/andresv1112/taskflow-artisanal-auth/internal/adapter/database/postgres"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/domain"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/port"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/util"
)

var taskColumns = []string{"id", "uuid", "title", "description", "completed", "user_id", "created_at", "updated_at"}

const returningTask = "RETURNING id, uuid, title, description, completed, user_id, created_at, updated_at"

type TaskRepository struct {
	db *postgres.DB
}

func NewTaskRepository(db *postgres.DB) port.TaskRepository {
	return &TaskRepository{db: db}
}

func (tr *TaskRepository) GetAllByOwner(ctx context.Context, userId int) []domain.Task {
	query := tr.db.QueryBuilder.Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"user_id": userId}).
		OrderBy("created_at DESC", "id DESC")

	stmt, args, err := query.ToSql()

	if err != nil {
		slog.Error("Error building task query", "error", err)
		return []domain.Task{}
	}

	rows, err := tr.db.Query(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error fetching tasks", "error", err, "user_id", userId)
		return []domain.Task{}
	}

	defer rows.Close()

	data, err := scanTasks(rows)

	if err != nil {
		slog.Error("Error scanning tasks", "error", err, "user_id", userId)
		return []domain.Task{}
	}

	return data
}

func (tr *TaskRepository) GetAllWithCursor(ctx context.Context, userId int, limit int, cursor string) ([]domain.Task, bool, error) {
	actualLimit := limit + 1

	query := tr.db.QueryBuilder.Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"user_id": userId}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(actualLimit))

	if cursor != "" {
		datetimeStr, id, err := util.DecodeCursor(cursor)

		if err != nil {
			return []domain.Task{}, false, err
		}

		datetime, err := time.Parse(time.RFC3339Nano, datetimeStr)

		if err != nil {
			return []domain.Task{}, false, err
		}

		query = query.Where(sq.Or{
			sq.Lt{"created_at": datetime},
			sq.And{sq.Eq{"created_at": datetime}, sq.Lt{"id": id}},
		})
	}

	stmt, args, err := query.ToSql()

	if err != nil {
		return []domain.Task{}, false, err
	}

	rows, err := tr.db.Query(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error fetching tasks", "error", err)
		return []domain.Task{}, false, nil
	}

	defer rows.Close()

	data, err := scanTasks(rows)

	if err != nil {
		slog.Error("Error scanning tasks", "error", err)
		return []domain.Task{}, false, nil
	}

	hasNext := len(data) == actualLimit

	if hasNext {
		data = data[:limit]
	}

	return data, hasNext, nil
}

func (tr *TaskRepository) GetByUUID(ctx context.Context, uid string, userId int) (domain.Task, error) {
	query := tr.db.QueryBuilder.Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"uuid": uid}).
		Where(sq.Eq{"user_id": userId}).
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	task, err := scanTask(tr.db.QueryRow(ctx, stmt, args...))

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.Task{}, err
	}

	return task, nil
}

func (tr *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	query := tr.db.QueryBuilder.Insert("tasks").
		Columns("uuid", "title", "description", "completed", "user_id", "created_at", "updated_at").
		Values(task.UUID.String(), task.Title, task.Description, task.Completed, task.UserId, task.CreatedAt, task.UpdatedAt).
		Suffix(returningTask)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	saved, err := scanTask(tr.db.QueryRow(ctx, stmt, args...))

	if err != nil {
		slog.Error("Error creating task", "error", err)
		return domain.Task{}, err
	}

	return saved, nil
}

func (tr *TaskRepository) Update(ctx context.Context, uid string, userId int, patch domain.TaskPatch) (domain.Task, error) {
	if patch.IsEmpty() {
		return tr.GetByUUID(ctx, uid, userId)
	}

	fields := map[string]interface{}{
		"updated_at": time.Now(),
	}

	if patch.Title != nil {
		fields["title"] = *patch.Title
	}

	if patch.Description != nil {
		fields["description"] = *patch.Description
	}

	if patch.Completed != nil {
		fields["completed"] = *patch.Completed
	}

	query := tr.db.QueryBuilder.Update("tasks").
		SetMap(fields).
		Where(sq.Eq{"uuid": uid}).
		Where(sq.Eq{"user_id": userId}).
		Suffix(returningTask)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	task, err := scanTask(tr.db.QueryRow(ctx, stmt, args...))

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, domain.ErrNotFound
	}

	if err != nil {
		slog.Error("Error updating task", "error", err)
		return domain.Task{}, err
	}

	return task, nil
}

func (tr *TaskRepository) Delete(ctx context.Context, uid string, userId int) (bool, error) {
	query := tr.db.QueryBuilder.Delete("tasks").
		Where(sq.Eq{"uuid": uid}).
		Where(sq.Eq{"user_id": userId})

	stmt, args, err := query.ToSql()

	if err != nil {
		return false, err
	}

	tag, err := tr.db.Exec(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error deleting task", "error", err)
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (tr *TaskRepository) ToggleCompleted(ctx context.Context, uid string, userId int) (domain.Task, error) {
	// Single conditional update, no read-modify-write race.
	query := tr.db.QueryBuilder.Update("tasks").
		Set("completed", sq.Expr("NOT completed")).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"uuid": uid}).
		Where(sq.Eq{"user_id": userId}).
		Suffix(returningTask)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	task, err := scanTask(tr.db.QueryRow(ctx, stmt, args...))

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Task{}, domain.ErrNotFound
	}

	if err != nil {
		slog.Error("Error toggling task", "error", err)
		return domain.Task{}, err
	}

	return task, nil
}

func scanTask(row pgx.Row) (domain.Task, error) {
	var task domain.Task
	var description *string

	err := row.Scan(
		&task.ID,
		&task.UUID,
		&task.Title,
		&description,
		&task.Completed,
		&task.UserId,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err != nil {
		return domain.Task{}, err
	}

	if description != nil {
		task.Description = *description
	}

	return task, nil
}

func scanTasks(rows pgx.Rows) ([]domain.Task, error) {
	data := []domain.Task{}

	for rows.Next() {
		task, err := scanTask(rows)

		if err != nil {
			return nil, err
		}

		data = append(data, task)
	}

	return data, rows.Err()
}

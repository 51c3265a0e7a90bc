package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/andresv1112/taskflow-artisanal-auth/internal/adapter/database/sqlite"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/domain"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/port"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/util"
	"github.com/andresv1112/taskflow-artisanal-auth/pkg/tracing"
)

const taskColumns = "id, uuid, title, description, completed, user_id, created_at, updated_at"

type TaskRepository struct {
	db *sqlite.DB
}

func NewTaskRepository(db *sqlite.DB) port.TaskRepository {
	return &TaskRepository{db: db}
}

func (tr *TaskRepository) GetAllByOwner(ctx context.Context, userId int) []domain.Task {
	ctx, span := tracing.CreateChildSpan(ctx, "db.task.GetAllByOwner", []attribute.KeyValue{
		attribute.String("db.table", "tasks"),
		attribute.String("db.operation", "SELECT"),
		attribute.Int("user.id", userId),
	})

	defer span.End()

	rows, err := tr.db.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE user_id = ? ORDER BY created_at DESC, id DESC",
		userId,
	)

	if err != nil {
		tracing.AddSpanError(span, err)
		slog.Error("Error fetching tasks", "error", err, "user_id", userId)

		return []domain.Task{}
	}

	defer rows.Close()

	data, err := scanTasks(rows)

	if err != nil {
		tracing.AddSpanError(span, err)
		slog.Error("Error scanning tasks", "error", err, "user_id", userId)

		return []domain.Task{}
	}

	span.SetAttributes(attribute.Int("db.rows_returned", len(data)))

	return data
}

func (tr *TaskRepository) GetAllWithCursor(ctx context.Context, userId int, limit int, cursor string) ([]domain.Task, bool, error) {
	ctx, span := tracing.CreateChildSpan(ctx, "db.task.GetAllWithCursor", []attribute.KeyValue{
		attribute.String("db.table", "tasks"),
		attribute.String("db.operation", "SELECT"),
		attribute.Int("user.id", userId),
		attribute.Int("task.limit", limit),
	})

	defer span.End()

	actualLimit := limit + 1

	var query string
	var args []interface{}

	if cursor == "" {
		query = "SELECT " + taskColumns + " FROM tasks WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?"
		args = []interface{}{userId, actualLimit}
	} else {
		datetimeStr, id, err := util.DecodeCursor(cursor)

		if err != nil {
			tracing.AddSpanError(span, err)
			return []domain.Task{}, false, err
		}

		datetime, err := time.Parse(time.RFC3339Nano, datetimeStr)

		if err != nil {
			return []domain.Task{}, false, err
		}

		query = "SELECT " + taskColumns + " FROM tasks WHERE user_id = ? AND (created_at < ? OR (created_at = ? AND id < ?)) ORDER BY created_at DESC, id DESC LIMIT ?"
		args = []interface{}{userId, datetime, datetime, id, actualLimit}
	}

	rows, err := tr.db.QueryContext(ctx, query, args...)

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

	span.SetAttributes(
		attribute.Int("db.rows_returned", len(data)),
		attribute.Bool("db.has_next", hasNext),
	)

	return data, hasNext, nil
}

func (tr *TaskRepository) GetByUUID(ctx context.Context, uid string, userId int) (domain.Task, error) {
	query := tr.db.QueryBuilder.Select(taskColumns).
		From("tasks").
		Where(sq.Eq{"uuid": uid}).
		Where(sq.Eq{"user_id": userId}).
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	task, err := tr.scanRow(tr.db.QueryRowContext(ctx, stmt, args...))

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.Task{}, err
	}

	return task, nil
}

func (tr *TaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	uid := task.UUID.String()

	query := tr.db.QueryBuilder.Insert("tasks").
		Columns("uuid", "title", "description", "completed", "user_id", "created_at", "updated_at").
		Values(uid, task.Title, task.Description, task.Completed, task.UserId, task.CreatedAt, task.UpdatedAt)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	if _, err := tr.db.ExecContext(ctx, stmt, args...); err != nil {
		slog.Error("Error creating task", "error", err)
		return domain.Task{}, err
	}

	return tr.GetByUUID(ctx, uid, task.UserId)
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
		Where(sq.Eq{"user_id": userId})

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	result, err := tr.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error updating task", "error", err)
		return domain.Task{}, err
	}

	// Zero rows means nonexistent id or an owner mismatch; both look
	// the same from here.
	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.Task{}, domain.ErrNotFound
	}

	return tr.GetByUUID(ctx, uid, userId)
}

func (tr *TaskRepository) Delete(ctx context.Context, uid string, userId int) (bool, error) {
	query := tr.db.QueryBuilder.Delete("tasks").
		Where(sq.Eq{"uuid": uid}).
		Where(sq.Eq{"user_id": userId})

	stmt, args, err := query.ToSql()

	if err != nil {
		return false, err
	}

	result, err := tr.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error deleting task", "error", err)
		return false, err
	}

	affected, _ := result.RowsAffected()

	return affected > 0, nil
}

func (tr *TaskRepository) ToggleCompleted(ctx context.Context, uid string, userId int) (domain.Task, error) {
	// Single conditional update, no read-modify-write race.
	query := tr.db.QueryBuilder.Update("tasks").
		Set("completed", sq.Expr("NOT completed")).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"uuid": uid}).
		Where(sq.Eq{"user_id": userId})

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Task{}, err
	}

	result, err := tr.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error toggling task", "error", err)
		return domain.Task{}, err
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.Task{}, domain.ErrNotFound
	}

	return tr.GetByUUID(ctx, uid, userId)
}

func (tr *TaskRepository) scanRow(row *sql.Row) (domain.Task, error) {
	var task domain.Task
	var description sql.NullString

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

	task.Description = description.String

	return task, nil
}

func scanTasks(rows *sql.Rows) ([]domain.Task, error) {
	data := []domain.Task{}

	for rows.Next() {
		var task domain.Task
		var description sql.NullString

		err := rows.Scan(
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
			return nil, err
		}

		task.Description = description.String
		data = append(data, task)
	}

	return data, rows.Err()
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/andresv1112/taskflow-artisanal-auth/internal/adapter/http/helper"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/adapter/http/validation"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/domain"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/model/request"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/model/response"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/port"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/util"
	"github.com/andresv1112/taskflow-artisanal-auth/pkg/config"
	"github.com/andresv1112/taskflow-artisanal-auth/pkg/tracing"
)

const defaultPageSize = 10

type TaskHandler struct {
	svc     port.TaskService
	logger  *config.AppLogger
	metrics *config.AppMetrics
}

func NewTaskHandler(svc port.TaskService, logger *config.AppLogger, metrics *config.AppMetrics) *TaskHandler {
	return &TaskHandler{
		svc:     svc,
		logger:  logger,
		metrics: metrics,
	}
}

func (t *TaskHandler) GetAllTasks(c *gin.Context) {
	ctx, span := tracing.CreateChildSpan(c.Request.Context(), "handler.task.GetAllTasks", []attribute.KeyValue{
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	userId := c.GetInt("x-user-id")
	cursor := c.Query("cursor")
	rawLimit := c.Query("limit")

	span.SetAttributes(attribute.Int("user.id", userId))

	// Without pagination params the whole list comes back, newest first.
	if cursor == "" && rawLimit == "" {
		tasks := t.svc.ListTasks(ctx, userId)

		data := make([]response.TaskResponse, 0, len(tasks))

		for _, task := range tasks {
			data = append(data, taskToResponse(task))
		}

		if t.metrics != nil {
			t.metrics.RecordTaskOperation(ctx, "list")
		}

		c.JSON(http.StatusOK, response.CursorResponse{
			Size: len(data),
			Data: data,
		})

		return
	}

	limit, _ := strconv.Atoi(rawLimit)

	if limit <= 0 {
		limit = defaultPageSize
	}

	span.SetAttributes(attribute.Int("task.limit", limit))

	data, err := t.svc.GetTasksWithPagination(ctx, userId, limit, cursor)

	if err != nil {
		tracing.AddSpanError(span, err)

		if t.logger != nil {
			t.logger.Logger.Ctx(ctx).Error("Failed to get tasks",
				zap.Error(err),
				zap.Int("user_id", userId),
			)
		}

		helper.SendDomainError(c, "cursor", err)
		return
	}

	if t.metrics != nil {
		t.metrics.RecordTaskOperation(ctx, "list")
	}

	c.JSON(http.StatusOK, data)
}

func (t *TaskHandler) CreateTask(c *gin.Context) {
	ctx := c.Request.Context()
	userId := c.GetInt("x-user-id")

	params, err := util.ParamsToMap[request.TaskRequest](c)

	if err != nil {
		helper.SendError(c, http.StatusBadRequest, "BAD_REQUEST", []response.ValidationError{
			{Field: "request", Message: "Parámetros de solicitud inválidos"},
		})
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		helper.SendValidationError(c, validation.FormatValidationErrors(err))
		return
	}

	task, err := t.svc.CreateTask(ctx, userId, params.Title, params.Description)

	if err != nil {
		helper.SendDomainError(c, "title", err)
		return
	}

	if t.metrics != nil {
		t.metrics.RecordTaskOperation(ctx, "create")
	}

	helper.SendSuccess(c, http.StatusCreated, taskToResponse(task))
}

func (t *TaskHandler) UpdateTask(c *gin.Context) {
	ctx := c.Request.Context()
	userId := c.GetInt("x-user-id")

	params, err := util.ParamsToMap[request.TaskUpdateRequest](c)

	if err != nil {
		helper.SendError(c, http.StatusBadRequest, "BAD_REQUEST", []response.ValidationError{
			{Field: "request", Message: "Parámetros de solicitud inválidos"},
		})
		return
	}

	patch := domain.TaskPatch{
		Title:       params.Title,
		Description: params.Description,
		Completed:   params.Completed,
	}

	task, err := t.svc.UpdateTask(ctx, c.Param("uuid"), userId, patch)

	if err != nil {
		helper.SendDomainError(c, "task", err)
		return
	}

	if t.metrics != nil {
		t.metrics.RecordTaskOperation(ctx, "update")
	}

	c.JSON(http.StatusOK, gin.H{"data": taskToResponse(task)})
}

func (t *TaskHandler) ToggleTask(c *gin.Context) {
	ctx := c.Request.Context()
	userId := c.GetInt("x-user-id")

	task, err := t.svc.ToggleTaskCompletion(ctx, c.Param("uuid"), userId)

	if err != nil {
		helper.SendDomainError(c, "task", err)
		return
	}

	if t.metrics != nil {
		t.metrics.RecordTaskOperation(ctx, "toggle")
	}

	c.JSON(http.StatusOK, gin.H{"data": taskToResponse(task)})
}

func (t *TaskHandler) DeleteTask(c *gin.Context) {
	ctx := c.Request.Context()
	userId := c.GetInt("x-user-id")

	if err := t.svc.DeleteTask(ctx, c.Param("uuid"), userId); err != nil {
		helper.SendDomainError(c, "task", err)
		return
	}

	if t.metrics != nil {
		t.metrics.RecordTaskOperation(ctx, "delete")
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tarea eliminada exitosamente"})
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

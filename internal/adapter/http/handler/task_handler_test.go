package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	. "github.com/andresv1112/taskflow-artisanal-auth/pkg/test"

	"github.com/andresv1112/taskflow-artisanal-auth/internal/adapter/database/sqlite/repository"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/domain"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/port"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/service"
	"github.com/andresv1112/taskflow-artisanal-auth/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

type TaskHandlerSuite struct {
	suite.Suite
	Router   *gin.Engine
	TaskSvc  port.TaskService
	owner    domain.User
	other    domain.User
	token    string
	badToken string
}

func (s *TaskHandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret")

	db := InitTestDB()

	userRepo := repository.NewUserRepository(db)
	s.TaskSvc = service.NewTaskService(repository.NewTaskRepository(db))

	s.owner, _ = userRepo.Create(context.Background(), domain.User{
		UUID:         uuid.New(),
		Username:     "owner",
		PasswordHash: "x",
	})

	s.other, _ = userRepo.Create(context.Background(), domain.User{
		UUID:         uuid.New(),
		Username:     "other",
		PasswordHash: "x",
	})

	s.token, _ = auth.CreateTokenForUser(s.owner.ID)
	s.badToken, _ = auth.CreateTokenForUser(s.other.ID)

	taskHandler := NewTaskHandler(s.TaskSvc, nil, nil)

	s.Router = setupTaskTestRouter(taskHandler)
}

func TestTaskHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TaskHandlerSuite))
}

func setupTaskTestRouter(taskHandler *TaskHandler) *gin.Engine {
	router := gin.New()

	protected := router.Group("/")
	protected.Use(auth.GinJwtMiddleware())
	{
		protected.GET("/tasks", taskHandler.GetAllTasks)
		protected.POST("/tasks", taskHandler.CreateTask)
		protected.PUT("/tasks/:uuid", taskHandler.UpdateTask)
		protected.PATCH("/tasks/:uuid/toggle", taskHandler.ToggleTask)
		protected.DELETE("/tasks/:uuid", taskHandler.DeleteTask)
	}

	return router
}

func (s *TaskHandlerSuite) do(method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader

	if body != "" {
		reader = strings.NewReader(body)
	}

	req, _ := http.NewRequest(method, path, reader)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func (s *TaskHandlerSuite) TestGetTasksWithoutToken() {
	rr := s.do("GET", "/tasks", "", "")

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}

func (s *TaskHandlerSuite) TestGetTasksEmpty() {
	rr := s.do("GET", "/tasks", "", s.token)

	body, _ := io.ReadAll(rr.Body)

	data := gin.H{}
	json.Unmarshal(body, &data)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(data["size"]).To(Equal(float64(0)))
	Expect(data["data"]).To(BeEmpty())
}

func (s *TaskHandlerSuite) TestCreateTaskSuccess() {
	rr := s.do("POST", "/tasks", `{"title": "Comprar pan", "description": "integral"}`, s.token)

	body, _ := io.ReadAll(rr.Body)

	data := gin.H{}
	json.Unmarshal(body, &data)

	newData := data["data"].(map[string]any)

	Expect(rr.Code).To(Equal(http.StatusCreated))
	Expect(newData["title"]).To(Equal("Comprar pan"))
	Expect(newData["completed"]).To(Equal(false))
}

func (s *TaskHandlerSuite) TestCreateTaskEmptyTitle() {
	rr := s.do("POST", "/tasks", `{"title": "   "}`, s.token)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *TaskHandlerSuite) TestCreateTaskTitleTooLong() {
	title := strings.Repeat("a", 101)
	rr := s.do("POST", "/tasks", `{"title": "`+title+`"}`, s.token)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *TaskHandlerSuite) TestGetTasksOnlyOwn() {
	_, err := s.TaskSvc.CreateTask(context.Background(), s.owner.ID, "mía", "")
	Expect(err).To(BeNil())

	_, err = s.TaskSvc.CreateTask(context.Background(), s.other.ID, "ajena", "")
	Expect(err).To(BeNil())

	rr := s.do("GET", "/tasks", "", s.token)

	body, _ := io.ReadAll(rr.Body)

	data := gin.H{}
	json.Unmarshal(body, &data)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(data["size"]).To(Equal(float64(1)))
}

func (s *TaskHandlerSuite) TestUpdateTaskSuccess() {
	task, _ := s.TaskSvc.CreateTask(context.Background(), s.owner.ID, "original", "")

	rr := s.do("PUT", "/tasks/"+task.UUID.String(), `{"title": "cambiado"}`, s.token)

	body, _ := io.ReadAll(rr.Body)

	data := gin.H{}
	json.Unmarshal(body, &data)

	newData := data["data"].(map[string]any)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(newData["title"]).To(Equal("cambiado"))
}

func (s *TaskHandlerSuite) TestUpdateTaskOfAnotherUser() {
	task, _ := s.TaskSvc.CreateTask(context.Background(), s.owner.ID, "mía", "")

	rr := s.do("PUT", "/tasks/"+task.UUID.String(), `{"title": "robada"}`, s.badToken)

	Expect(rr.Code).To(Equal(http.StatusNotFound))
	Expect(rr.Body.String()).To(ContainSubstring("tarea no encontrada"))
}

func (s *TaskHandlerSuite) TestToggleTask() {
	task, _ := s.TaskSvc.CreateTask(context.Background(), s.owner.ID, "pendiente", "")

	rr := s.do("PATCH", "/tasks/"+task.UUID.String()+"/toggle", "", s.token)

	body, _ := io.ReadAll(rr.Body)

	data := gin.H{}
	json.Unmarshal(body, &data)

	newData := data["data"].(map[string]any)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(newData["completed"]).To(Equal(true))
}

func (s *TaskHandlerSuite) TestToggleTaskNotFound() {
	rr := s.do("PATCH", "/tasks/"+uuid.NewString()+"/toggle", "", s.token)

	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TaskHandlerSuite) TestDeleteTaskSuccess() {
	task, _ := s.TaskSvc.CreateTask(context.Background(), s.owner.ID, "borrar", "")

	rr := s.do("DELETE", "/tasks/"+task.UUID.String(), "", s.token)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Body.String()).To(ContainSubstring("Tarea eliminada exitosamente"))
}

func (s *TaskHandlerSuite) TestDeleteTaskOfAnotherUser() {
	task, _ := s.TaskSvc.CreateTask(context.Background(), s.owner.ID, "mía", "")

	rr := s.do("DELETE", "/tasks/"+task.UUID.String(), "", s.badToken)

	Expect(rr.Code).To(Equal(http.StatusNotFound))

	remaining := s.TaskSvc.ListTasks(context.Background(), s.owner.ID)
	Expect(remaining).To(HaveLen(1))
}

func (s *TaskHandlerSuite) TestGetTasksPaginated() {
	for i := 0; i < 3; i++ {
		_, err := s.TaskSvc.CreateTask(context.Background(), s.owner.ID, "tarea", "")
		Expect(err).To(BeNil())
	}

	rr := s.do("GET", "/tasks?limit=2", "", s.token)

	body, _ := io.ReadAll(rr.Body)

	data := gin.H{}
	json.Unmarshal(body, &data)

	pagination := data["pagination"].(map[string]any)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(data["size"]).To(Equal(float64(2)))
	Expect(pagination["has_next"]).To(Equal(true))
	Expect(pagination["next_cursor"]).NotTo(BeEmpty())
}

func (s *TaskHandlerSuite) TestGetTasksBadCursor() {
	rr := s.do("GET", "/tasks?limit=2&cursor=tampered", "", s.token)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

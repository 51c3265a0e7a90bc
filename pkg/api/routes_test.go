package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	. "github.com/andresv1112/taskflow-artisanal-auth/pkg/test"

	"github.com/andresv1112/taskflow-artisanal-auth/internal/adapter/database/sqlite/repository"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/adapter/http/handler"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/service"
	"github.com/andresv1112/taskflow-artisanal-auth/pkg/api"
)

type ApiFlowSuite struct {
	suite.Suite
	Router *gin.Engine
}

func (s *ApiFlowSuite) SetupTest() {
	os.Setenv("JWT_SECRET", "test-secret")

	db := InitTestDB()

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	s.Router = api.SetupRouterForTests(api.HandlersConfig{
		AuthHandler: handler.NewAuthHandler(service.NewAuthService(userRepo), nil),
		TaskHandler: handler.NewTaskHandler(service.NewTaskService(taskRepo), nil, nil),
	})
}

func TestApiFlowSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(ApiFlowSuite))
}

func (s *ApiFlowSuite) request(method, path, body, token string) (*httptest.ResponseRecorder, gin.H) {
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

	raw, _ := io.ReadAll(rr.Body)

	data := gin.H{}
	json.Unmarshal(raw, &data)

	return rr, data
}

// Full register, login, create, toggle, delete cycle over the real routes.
func (s *ApiFlowSuite) TestFullUserJourney() {
	rr, _ := s.request("POST", "/register", `{"username": "andres", "password": "12345678"}`, "")
	Expect(rr.Code).To(Equal(http.StatusCreated))

	rr, loginData := s.request("POST", "/login", `{"username": "andres", "password": "12345678"}`, "")
	Expect(rr.Code).To(Equal(http.StatusOK))

	token := loginData["token"].(string)
	Expect(token).NotTo(BeEmpty())

	rr, created := s.request("POST", "/tasks", `{"title": "Comprar pan"}`, token)
	Expect(rr.Code).To(Equal(http.StatusCreated))

	taskId := created["data"].(map[string]any)["id"].(string)

	rr, list := s.request("GET", "/tasks", "", token)
	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(list["size"]).To(Equal(float64(1)))

	rr, toggled := s.request("PATCH", "/tasks/"+taskId+"/toggle", "", token)
	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(toggled["data"].(map[string]any)["completed"]).To(Equal(true))

	rr, _ = s.request("DELETE", "/tasks/"+taskId, "", token)
	Expect(rr.Code).To(Equal(http.StatusOK))

	rr, list = s.request("GET", "/tasks", "", token)
	Expect(list["size"]).To(Equal(float64(0)))
}

func (s *ApiFlowSuite) TestTasksRequireSession() {
	rr, _ := s.request("GET", "/tasks", "", "")

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}

func (s *ApiFlowSuite) TestCorsPreflight() {
	req, _ := http.NewRequest("OPTIONS", "/tasks", nil)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusNoContent))
	Expect(rr.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresv1112/taskflow-artisanal-auth/internal/adapter/http/helper"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/adapter/http/validation"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/domain"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/model/request"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/model/response"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/port"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/util"
	"github.com/andresv1112/taskflow-artisanal-auth/pkg/auth"
	"github.com/andresv1112/taskflow-artisanal-auth/pkg/config"
)

type AuthHandler struct {
	svc     port.AuthService
	metrics *config.AppMetrics
}

func NewAuthHandler(svc port.AuthService, metrics *config.AppMetrics) *AuthHandler {
	return &AuthHandler{
		svc:     svc,
		metrics: metrics,
	}
}

func (a *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.SignUpRequest](c)

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

	user, err := a.svc.Register(ctx, params.Username, params.Password)

	if err != nil {
		helper.SendDomainError(c, "registration", err)
		return
	}

	if a.metrics != nil {
		a.metrics.RecordUserOperation(ctx, "register")
	}

	helper.SendSuccess(c, http.StatusCreated, userToResponse(user))
}

func (a *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.LoginRequest](c)

	if err != nil {
		helper.SendError(c, http.StatusBadRequest, "BAD_REQUEST", []response.ValidationError{
			{Field: "request", Message: "Parámetros de solicitud inválidos"},
		})
		return
	}

	user, err := a.svc.Login(ctx, params.Username, params.Password)

	if err != nil {
		helper.SendDomainError(c, "auth", err)
		return
	}

	token, err := auth.CreateTokenForUser(user.ID)

	if err != nil {
		helper.SendInternalError(c, domain.ErrInternal.Error())
		return
	}

	if a.metrics != nil {
		a.metrics.RecordUserOperation(ctx, "login")
	}

	c.JSON(http.StatusOK, response.AuthResponse{
		Data:  userToResponse(user),
		Token: token,
	})
}

func userToResponse(user domain.User) response.UserResponse {
	return response.UserResponse{
		UUID:      user.UUID.String(),
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

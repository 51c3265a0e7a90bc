package helper

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/domain"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/model/response"
)

func SendSuccess(c *gin.Context, statusCode int, data any, message ...string) {
	resp := response.SuccessResponse{
		Data: data,
	}

	if len(message) > 0 && message[0] != "" {
		resp.Message = message[0]
	}

	c.JSON(statusCode, resp)
}

func SendError(c *gin.Context, statusCode int, code string, errors []response.ValidationError) {
	c.JSON(statusCode, response.ErrorResponse{
		Error: response.ResponseError{
			Code:   code,
			Errors: errors,
		},
	})
}

func SendValidationError(c *gin.Context, errs []response.ValidationError) {
	SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", errs)
}

func SendUnauthorizedError(c *gin.Context, message string) {
	SendError(c, http.StatusUnauthorized, "UNAUTHORIZED", []response.ValidationError{
		{Field: "auth", Message: message},
	})
}

func SendInternalError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", []response.ValidationError{
		{Field: "server", Message: message},
	})
}

// SendDomainError maps a service error kind onto the HTTP status and the
// response envelope. Internal and backend faults keep a generic message;
// raw error text from the store never reaches the client.
func SendDomainError(c *gin.Context, field string, err error) {
	message := err.Error()

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", []response.ValidationError{
			{Field: field, Message: message},
		})
	case errors.Is(err, domain.ErrUsernameTaken):
		SendError(c, http.StatusConflict, "CONFLICT", []response.ValidationError{
			{Field: "username", Message: message},
		})
	case errors.Is(err, domain.ErrInvalidCredentials):
		SendUnauthorizedError(c, message)
	case errors.Is(err, domain.ErrNotFound):
		SendError(c, http.StatusNotFound, "NOT_FOUND", []response.ValidationError{
			{Field: field, Message: message},
		})
	default:
		SendInternalError(c, domain.ErrInternal.Error())
	}
}

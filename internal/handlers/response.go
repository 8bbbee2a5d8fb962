package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lusohomes/marketplace-backend/internal/apierr"
)

type APIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	description := "unknown error"
	if err != nil {
		description = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Code:        code,
			Description: description,
		},
	})
}

// RespondAppError maps a service error to its HTTP status: taxonomy errors
// carry their own status and code, anything else is a 500.
func RespondAppError(c *gin.Context, err error) {
	if apiErr := apierr.As(err); apiErr != nil {
		RespondError(c, apiErr.Status, apiErr.Code, apiErr)
		return
	}
	RespondError(c, http.StatusInternalServerError, "InternalError", err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

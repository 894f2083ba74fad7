package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/williamdagle/clinic-admin-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// RespondWithSuccess sends a 200 success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Status: "success", Data: data})
}

// RespondWithCreated sends a 201 response for newly created resources
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Status: "success", Data: data})
}

// RespondWithError maps an error to an HTTP status and JSON error body.
// Unknown errors become a 500 with a generic message and the underlying
// message as details.
func RespondWithError(c *gin.Context, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		resp := Response{Status: "error", Error: appErr.Message}
		if len(appErr.Fields) > 0 {
			resp.Details = appErr.Fields
		} else if appErr.Err != nil {
			resp.Details = appErr.Err.Error()
		}
		c.JSON(appErr.HTTPStatus(), resp)
		return
	}

	c.JSON(http.StatusInternalServerError, Response{
		Status:  "error",
		Error:   "internal server error",
		Details: err.Error(),
	})
}

// Package handlers contains the HTTP handlers for the LexMeta API.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jurimetric/lexmeta/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// respondError maps an application error onto its HTTP status and writes the
// structured error body.  Internal failures are masked so stack details never
// reach callers.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := code.HTTPStatus()

	resp := ErrorResponse{Code: code.String(), Message: err.Error()}
	if status == http.StatusInternalServerError {
		resp = ErrorResponse{
			Code:    errors.ErrCodeInternal.String(),
			Message: "internal server error",
		}
	}
	c.AbortWithStatusJSON(status, resp)
}

// respondValidationError writes a 400 for malformed request bodies.
func respondValidationError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Code:    errors.ErrCodeValidation.String(),
		Message: "invalid request body",
		Detail:  err.Error(),
	})
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(c *gin.Context, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

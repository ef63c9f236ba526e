// Package httperr centralizes the JSON error envelope so every handler
// fails the same way.
package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respond(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

func BadRequest(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, "bad_request", message)
}

func NotFound(c *gin.Context, message string) {
	respond(c, http.StatusNotFound, "not_found", message)
}

func Conflict(c *gin.Context, message string) {
	respond(c, http.StatusConflict, "conflict", message)
}

func PreconditionFailed(c *gin.Context, message string) {
	respond(c, http.StatusPreconditionFailed, "precondition_failed", message)
}

func UnprocessableEntity(c *gin.Context, message string) {
	respond(c, http.StatusUnprocessableEntity, "unprocessable_entity", message)
}

func ServiceUnavailable(c *gin.Context, message string) {
	respond(c, http.StatusServiceUnavailable, "service_unavailable", message)
}

func Internal(c *gin.Context) {
	respond(c, http.StatusInternalServerError, "internal_error", "Internal server error")
}

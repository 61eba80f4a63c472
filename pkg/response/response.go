package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the shape of every failed response.
type ErrorBody struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// OK sends a 200 with success=true merged into body.
func OK(c *gin.Context, body gin.H) {
	send(c, http.StatusOK, body)
}

// Created sends a 201 for successfully created resources
func Created(c *gin.Context, body gin.H) {
	send(c, http.StatusCreated, body)
}

// Message sends a success response with just a message
func Message(c *gin.Context, message string) {
	send(c, http.StatusOK, gin.H{"message": message})
}

func send(c *gin.Context, status int, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = true
	c.JSON(status, body)
}

// --- Error Responses ---

func errorResponse(c *gin.Context, status int, message string, details map[string]string) {
	c.AbortWithStatusJSON(status, ErrorBody{
		Success: false,
		Error:   message,
		Details: details,
	})
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadRequest, message, nil)
}

// ValidationFailed sends a 400 with one message per offending field.
func ValidationFailed(c *gin.Context, details map[string]string) {
	errorResponse(c, http.StatusBadRequest, "Validation failed", details)
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "unauthorized"
	}
	errorResponse(c, http.StatusUnauthorized, message, nil)
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	errorResponse(c, http.StatusForbidden, message, nil)
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "resource not found"
	}
	errorResponse(c, http.StatusNotFound, message, nil)
}

// TooManyRequests sends a 429 response
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "Too many requests, please try again later."
	}
	errorResponse(c, http.StatusTooManyRequests, message, nil)
}

// InternalError sends a 500 response. Callers decide whether message may
// carry internal details.
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	errorResponse(c, http.StatusInternalServerError, message, nil)
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = false
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, body)
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/emilyhospital/hospital-api/internal/model"
)

// ContextActor is the gin context key the auth middleware stores the
// resolved Actor under.
const ContextActor = "actor"

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// GetActor returns the Actor resolved by the auth middleware.
func GetActor(c *gin.Context) (*model.Actor, bool) {
	v, exists := c.Get(ContextActor)
	if !exists {
		return nil, false
	}
	actor, ok := v.(*model.Actor)
	return actor, ok
}

// RespondError records err on the context and aborts. The error-handler
// middleware owns the status mapping and writes the response.
func RespondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

package api

import (
	"github.com/gin-gonic/gin"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, errorBody{Code: code, Message: message})
}

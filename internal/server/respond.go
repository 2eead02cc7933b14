package server

import (
	"github.com/gin-gonic/gin"
)

const (
	codeInvalidRequest     = "invalid_request"
	codeEmptyInput         = "empty_input"
	codeUnsupportedFormat  = "unsupported_format"
	codeNotFound           = "not_found"
	codeServiceUnavailable = "service_unavailable"
	codeUpstream           = "upstream_error"
	codeInternal           = "internal"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorResponse{
		Error: errorBody{Code: code, Message: message},
	})
}

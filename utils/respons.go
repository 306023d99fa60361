package utils

import (
	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondValidation mengembalikan pesan per field beserta input asli dari user.
func RespondValidation(c *gin.Context, code int, fields map[string]string, input interface{}) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: "Please correct the errors below.",
		Data: gin.H{
			"errors": fields,
			"input":  input,
		},
	})
}

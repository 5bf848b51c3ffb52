package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONResponse sends a structured JSON response
func JSONResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// JSONError sends a structured error response. code is the machine-readable error taxonomy code.
func JSONError(c *gin.Context, status int, code string, err error, message string) {
	JSONErrorWithData(c, status, code, err, message, nil)
}

// JSONErrorWithData is JSONError with a data payload, used when a rejection still carries a result body
func JSONErrorWithData(c *gin.Context, status int, code string, err error, message string, data any) {
	body := gin.H{
		"status":  status,
		"code":    code,
		"message": message,
		"error":   err.Error(),
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

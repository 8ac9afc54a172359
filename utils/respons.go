package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/readyvery/foodie-order/apperrors"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
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

// RespondFailure writes a business error with its own status and code.
// Any other error is logged and reported as an internal error.
func RespondFailure(c *gin.Context, err error) {
	if be, ok := apperrors.AsBusiness(err); ok {
		c.JSON(be.Status, JSONResponse{
			Status:  false,
			Message: be.Message,
			Code:    be.Code,
		})
		return
	}

	ErrorLogger.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, JSONResponse{
		Status:  false,
		Message: "internal server error",
		Code:    "INTERNAL_ERROR",
	})
}

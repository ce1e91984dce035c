package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hxuan190/relay-router/internal/common"
)

// Response is the envelope of every API reply. Code is set only on failures.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// Abort writes he and stops the handler chain.
func Abort(c *gin.Context, he *common.HttpError) {
	c.AbortWithStatusJSON(he.StatusCode, Response{
		Success: false,
		Code:    he.Code,
		Error:   he.Message,
	})
}

func BadRequest(c *gin.Context, msg string) {
	Abort(c, common.HTTPErrorBadRequest(msg))
}

func NotFound(c *gin.Context, msg string) {
	Abort(c, common.HTTPErrorNotFound(msg))
}

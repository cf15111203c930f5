package httpbase

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// R is the envelope every API response is wrapped in. Code is only set
// for machine-readable error codes, Data only when there is a payload.
type R struct {
	Code int    `json:"code,omitempty"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

// OK writes a 200 with the payload wrapped in the response envelope.
// PureJSON keeps HTML characters in payloads unescaped.
func OK(c *gin.Context, data interface{}) {
	c.PureJSON(http.StatusOK, R{
		Msg:  "OK",
		Data: data,
	})
}

// BadRequest writes a 400 carrying the validation message.
func BadRequest(c *gin.Context, errMsg string) {
	c.PureJSON(http.StatusBadRequest, R{
		Msg: errMsg,
	})
}

// ServerError writes a 500 carrying the error text.
func ServerError(c *gin.Context, err error) {
	c.PureJSON(http.StatusInternalServerError, R{
		Msg: err.Error(),
	})
}

// UnauthorizedError writes a 401 carrying the error text.
func UnauthorizedError(c *gin.Context, err error) {
	c.PureJSON(http.StatusUnauthorized, R{
		Msg: err.Error(),
	})
}

// NotFoundError writes a 404 carrying the error text.
func NotFoundError(c *gin.Context, err error) {
	c.PureJSON(http.StatusNotFound, R{
		Msg: err.Error(),
	})
}

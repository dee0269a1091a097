package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Resp struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// New 保证 data 不为 null
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

func OK(data interface{}) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Error customMsg 为空时使用默认文案
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, nil)
}

// Success / Fail 业务接口一律 HTTP 200，结果看 code
func Success(c *gin.Context, data interface{}) { c.JSON(http.StatusOK, OK(data)) }

func Fail(c *gin.Context, code int, msg string) { c.JSON(http.StatusOK, Error(code, msg)) }

// Abort 中间件用：浏览器请求（Accept 优先 text/html）回纯文本，其余回 JSON 包
func Abort(c *gin.Context, status, code int, msg string) {
	r := Error(code, msg)
	if c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML {
		c.Abort()
		c.String(status, r.Msg)
		return
	}
	c.AbortWithStatusJSON(status, r)
}

package http

import (
	"errors"
	"net/http"
)

// Response 统一响应结构
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// 预定义的响应码
const (
	CodeSuccess      = 0     // 成功
	CodeInvalidParam = 10001 // 参数错误，包括非法手牌
	CodeUnauthorized = 10002 // 未认证
	CodeNotFound     = 10004 // 资源不存在
	CodeServerError  = 10005 // 服务器内部错误
	CodeTooLarge     = 10013 // 请求体过大
)

const (
	MsgSuccess      = "success"
	MsgInvalidParam = "invalid parameters"
	MsgUnauthorized = "unauthorized"
	MsgNotFound     = "not found"
	MsgServerError  = "internal server error"
	MsgTooLarge     = "request body too large"
)

func NewResponse(code int, message string, data any) *Response {
	return &Response{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

func (c *Context) Success(data any) {
	c.JSON(http.StatusOK, NewResponse(CodeSuccess, MsgSuccess, data))
}

// BindRequest 绑定 JSON 请求体，失败时已写出 400 或 413，调用方直接返回
func (c *Context) BindRequest(obj any) bool {
	err := c.BindJSON(obj)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, NewResponse(CodeTooLarge, MsgTooLarge, nil))
		return false
	}
	c.BadRequest(err.Error())
	return false
}

// BadRequest 400 错误请求
func (c *Context) BadRequest(message string) {
	if message == "" {
		message = MsgInvalidParam
	}
	c.JSON(http.StatusBadRequest, NewResponse(CodeInvalidParam, message, nil))
}

// Unauthorized 401 未认证
func (c *Context) Unauthorized(message string) {
	if message == "" {
		message = MsgUnauthorized
	}
	c.JSON(http.StatusUnauthorized, NewResponse(CodeUnauthorized, message, nil))
}

// NotFound 404 资源不存在
func (c *Context) NotFound(message string) {
	if message == "" {
		message = MsgNotFound
	}
	c.JSON(http.StatusNotFound, NewResponse(CodeNotFound, message, nil))
}

// InternalServerError 500 服务器内部错误
func (c *Context) InternalServerError(message string) {
	if message == "" {
		message = MsgServerError
	}
	c.JSON(http.StatusInternalServerError, NewResponse(CodeServerError, message, nil))
}

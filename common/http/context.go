package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Context 封装 gin.Context，提供统一的请求/响应接口
type Context struct {
	ginCtx *gin.Context
}

func newContext(c *gin.Context) *Context {
	return &Context{ginCtx: c}
}

// GetParam 获取路径参数
func (c *Context) GetParam(key string) string {
	return c.ginCtx.Param(key)
}

// GetQuery 获取查询参数
func (c *Context) GetQuery(key string) string {
	return c.ginCtx.Query(key)
}

func (c *Context) GetHeader(key string) string {
	return c.ginCtx.GetHeader(key)
}

// BindJSON 绑定 JSON 请求体，不会自动写 400
func (c *Context) BindJSON(obj any) error {
	return c.ginCtx.ShouldBindJSON(obj)
}

func (c *Context) JSON(code int, obj any) {
	c.ginCtx.JSON(code, obj)
}

func (c *Context) SetHeader(key, value string) {
	c.ginCtx.Header(key, value)
}

func (c *Context) ClientIP() string {
	return c.ginCtx.ClientIP()
}

func (c *Context) Method() string {
	return c.ginCtx.Request.Method
}

func (c *Context) Path() string {
	return c.ginCtx.Request.URL.Path
}

// StatusCode 已写出的响应码
func (c *Context) StatusCode() int {
	return c.ginCtx.Writer.Status()
}

func (c *Context) Set(key string, value any) {
	c.ginCtx.Set(key, value)
}

func (c *Context) Get(key string) (any, bool) {
	return c.ginCtx.Get(key)
}

func (c *Context) GetString(key string) string {
	return c.ginCtx.GetString(key)
}

// Next 在中间件里先执行后续处理，再做收尾工作
func (c *Context) Next() {
	c.ginCtx.Next()
}

func (c *Context) Abort() {
	c.ginCtx.Abort()
}

func (c *Context) AbortWithStatus(code int) {
	c.ginCtx.AbortWithStatus(code)
}

// Ctx 请求的 context，客户端断开时取消
func (c *Context) Ctx() context.Context {
	return c.ginCtx.Request.Context()
}

// Request 获取原始 http.Request（谨慎使用）
func (c *Context) Request() *http.Request {
	return c.ginCtx.Request
}

// Writer 原始 ResponseWriter，websocket 升级时使用
func (c *Context) Writer() http.ResponseWriter {
	return c.ginCtx.Writer
}

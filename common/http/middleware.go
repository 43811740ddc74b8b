package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rflgf/mahjong-cli/common/jwts"
	"github.com/rflgf/mahjong-cli/common/log"
)

const (
	HeaderRequestID  = "X-Request-ID"
	ContextRequestID = "requestID"
	ContextClientID  = "clientID"
)

// CorsMiddleware 跨域中间件
func CorsMiddleware() MiddlewareFunc {
	return func(c *Context) error {
		if c.GetHeader("Origin") != "" {
			c.SetHeader("Access-Control-Allow-Origin", "*")
			c.SetHeader("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			c.SetHeader("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization, X-Request-ID")
			c.SetHeader("Access-Control-Expose-Headers", "Content-Length, Content-Type, X-Request-ID")
		}

		// 预检请求
		if c.Method() == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
		}
		return nil
	}
}

// LoggerMiddleware 请求处理完成后记录一行
func LoggerMiddleware() MiddlewareFunc {
	return func(c *Context) error {
		start := time.Now()
		c.Next()
		log.Info("HTTP %s %s %d %v request_id=%s ip=%s",
			c.Method(), c.Path(), c.StatusCode(), time.Since(start), c.GetString(ContextRequestID), c.ClientIP())
		return nil
	}
}

// RequestIDMiddleware 沿用客户端传入的 X-Request-ID，没有则生成 uuid
func RequestIDMiddleware() MiddlewareFunc {
	return func(c *Context) error {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestID, requestID)
		c.SetHeader(HeaderRequestID, requestID)
		return nil
	}
}

// AuthMiddleware 校验 Authorization: Bearer <token>；浏览器 websocket 无法设置请求头，允许用 ?token= 传入
func AuthMiddleware(secret string) MiddlewareFunc {
	return func(c *Context) error {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok {
			token = c.GetQuery("token")
		}
		if token == "" {
			c.Unauthorized("missing token")
			c.Abort()
			return nil
		}
		clientID, err := jwts.ParseToken(token, secret)
		if err != nil {
			log.Debug("token 校验失败 request_id=%s err=%v", c.GetString(ContextRequestID), err)
			c.Unauthorized("invalid token")
			c.Abort()
			return nil
		}
		c.Set(ContextClientID, clientID)
		return nil
	}
}

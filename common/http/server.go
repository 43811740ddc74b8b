package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HandlerFunc func(*Context) error
type MiddlewareFunc func(*Context) error

// HttpServer HTTP 服务器封装
type HttpServer struct {
	engine     *gin.Engine
	server     *http.Server
	port       int
	bodyLimit  int64
	onShutdown []func()
}

type ServerOption func(*HttpServer)

func WithPort(port int) ServerOption {
	return func(s *HttpServer) {
		s.port = port
	}
}

// WithMode gin.DebugMode / gin.ReleaseMode / gin.TestMode
func WithMode(mode string) ServerOption {
	return func(s *HttpServer) {
		gin.SetMode(mode)
	}
}

// WithBodyLimit 请求体上限（字节），超出时 BindRequest 返回 413；0 表示不限制
func WithBodyLimit(n int64) ServerOption {
	return func(s *HttpServer) {
		s.bodyLimit = n
	}
}

// NewHttpServer 默认挂载 Recovery；选项在创建 engine 之前应用，保证 WithMode 生效
func NewHttpServer(opts ...ServerOption) *HttpServer {
	server := &HttpServer{port: 8080}
	for _, opt := range opts {
		opt(server)
	}

	server.engine = gin.New()
	server.engine.Use(gin.Recovery())
	if server.bodyLimit > 0 {
		limit := server.bodyLimit
		server.engine.Use(func(c *gin.Context) {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
			c.Next()
		})
	}
	return server
}

// wrapHandler 处理函数返回的错误统一按 500 输出
func (s *HttpServer) wrapHandler(handler HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := newContext(c)
		if err := handler(ctx); err != nil {
			ctx.InternalServerError(err.Error())
		}
	}
}

func (s *HttpServer) wrapMiddleware(middleware MiddlewareFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := newContext(c)
		if err := middleware(ctx); err != nil {
			ctx.InternalServerError(err.Error())
			c.Abort()
			return
		}
		// 中间件内部已调用过 Next 时这里是空操作
		c.Next()
	}
}

func (s *HttpServer) GET(path string, handler HandlerFunc) {
	s.engine.GET(path, s.wrapHandler(handler))
}

func (s *HttpServer) POST(path string, handler HandlerFunc) {
	s.engine.POST(path, s.wrapHandler(handler))
}

// Group 创建路由组
func (s *HttpServer) Group(relativePath string, middlewares ...MiddlewareFunc) *RouterGroup {
	ginGroup := s.engine.Group(relativePath)
	for _, middleware := range middlewares {
		ginGroup.Use(s.wrapMiddleware(middleware))
	}
	return &RouterGroup{
		group:  ginGroup,
		server: s,
	}
}

// RouterGroup 路由组封装
type RouterGroup struct {
	group  *gin.RouterGroup
	server *HttpServer
}

func (rg *RouterGroup) GET(path string, handler HandlerFunc) {
	rg.group.GET(path, rg.server.wrapHandler(handler))
}

func (rg *RouterGroup) POST(path string, handler HandlerFunc) {
	rg.group.POST(path, rg.server.wrapHandler(handler))
}

func (rg *RouterGroup) Use(middlewares ...MiddlewareFunc) {
	for _, middleware := range middlewares {
		rg.group.Use(rg.server.wrapMiddleware(middleware))
	}
}

func (rg *RouterGroup) Group(relativePath string, middlewares ...MiddlewareFunc) *RouterGroup {
	ginGroup := rg.group.Group(relativePath)
	for _, middleware := range middlewares {
		ginGroup.Use(rg.server.wrapMiddleware(middleware))
	}
	return &RouterGroup{
		group:  ginGroup,
		server: rg.server,
	}
}

// Use 添加全局中间件
func (s *HttpServer) Use(middlewares ...MiddlewareFunc) {
	for _, middleware := range middlewares {
		s.engine.Use(s.wrapMiddleware(middleware))
	}
}

// Start 阻塞直到服务器关闭，正常关闭时返回 http.ErrServerClosed
func (s *HttpServer) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.server.ListenAndServe()
}

// OnShutdown 注册关闭回调，Shutdown 停止监听后按注册顺序同步执行；
// http.Server 不管被劫持的连接（websocket），需要在这里自行关闭
func (s *HttpServer) OnShutdown(fn func()) {
	s.onShutdown = append(s.onShutdown, fn)
}

// Shutdown 优雅关闭服务器，返回前关闭回调都已执行完
func (s *HttpServer) Shutdown(ctx context.Context) error {
	var err error
	if s.server != nil {
		err = s.server.Shutdown(ctx)
	}
	for _, fn := range s.onShutdown {
		fn()
	}
	return err
}

// ServeHTTP 测试里直接配合 httptest 使用
func (s *HttpServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func (s *HttpServer) Port() int {
	return s.port
}

package api

import (
	"github.com/rflgf/mahjong-cli/common/http"
	"github.com/rflgf/mahjong-cli/service"
)

// RegisterRoutes 注册所有路由，monitor 可以为 nil；middlewares 只作用于 /api/v1
func RegisterRoutes(server *http.HttpServer, scorer *service.Scorer, monitor *service.Monitor, middlewares ...http.MiddlewareFunc) {
	h := &Handler{scorer: scorer, monitor: monitor}
	server.OnShutdown(h.CloseStreams)

	server.GET("/ping", PingHandler)
	server.GET("/health", h.HealthHandler)

	v1 := server.Group("/api/v1", middlewares...)
	{
		v1.GET("/yaku", CatalogHandler)
		v1.GET("/tiles/:code/successor", SuccessorHandler)
		v1.POST("/decompose", h.DecomposeHandler)
		v1.GET("/history", h.HistoryHandler)

		evaluate := v1.Group("/evaluate")
		{
			evaluate.POST("", h.EvaluateHandler)
			evaluate.POST("/batch", h.EvaluateBatchHandler)
			evaluate.GET("/stream", h.StreamHandler)
		}
	}
}

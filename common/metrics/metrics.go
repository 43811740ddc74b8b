package metrics

import (
	"net/http"
	"time"

	"github.com/arl/statsviz"
)

// Path statsviz 页面路径
const Path = "/debug/statsviz/"

// Handler 挂好 statsviz 的 mux，便于测试或挂到其它服务上
func Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		return nil, err
	}
	return mux, nil
}

// Serve 阻塞运行监控服务，addr 形如 0.0.0.0:5854
func Serve(addr string) error {
	h, err := Handler()
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

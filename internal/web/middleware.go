package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"go-medical-site/internal/logx"
)

// requestLogger 把每个请求以调试级别写入 logx；5xx 记为告警。
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			kv := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"dur", time.Since(start).Round(time.Microsecond).String(),
				"req_id", middleware.GetReqID(r.Context()),
			}
			if status >= 500 {
				logx.Warn("http request", kv...)
				return
			}
			logx.Debug("http request", kv...)
		}()
		next.ServeHTTP(ww, r)
	})
}

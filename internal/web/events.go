package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-medical-site/internal/logx"
	"go-medical-site/internal/model"
)

// heartbeat 为 SSE 保活注释的发送间隔。
var heartbeat = 25 * time.Second

// handleEvents 以 Server-Sent Events 推送文档：连接建立时推送当前文档，之后每次发布推送一次。
// 客户端跟不上时只保留最新一份。
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	fl, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fl.Flush()

	// 回调在发布锁内执行，不能阻塞：满时丢弃旧值换成新值
	updates := make(chan *model.WebsiteData, 1)
	sub := s.acc.Subscribe(func(d *model.WebsiteData) {
		for {
			select {
			case updates <- d:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer sub.Unsubscribe()
	logx.Debugf("SSE 连接建立：%s", r.RemoteAddr)

	tick := time.NewTicker(heartbeat)
	defer tick.Stop()
	for {
		select {
		case <-r.Context().Done():
			logx.Debugf("SSE 连接关闭：%s", r.RemoteAddr)
			return
		case <-tick.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			fl.Flush()
		case d := <-updates:
			b, err := json.Marshal(d)
			if err != nil {
				logx.Errorf("SSE 序列化失败：%v", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: update\ndata: %s\n\n", b); err != nil {
				return
			}
			fl.Flush()
		}
	}
}

package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// SetupSSEHeaders 设置Server-Sent Events响应头，CORS 由路由中间件负责
func SetupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// SendSSEEvent 发送带事件类型的SSE消息
func SendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal sse event data: %v", err)
		return
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		log.Printf("failed to write sse event: %v", err)
		return
	}
	flusher.Flush()
}

// SendSSEComment 发送注释行，用于保持连接
func SendSSEComment(w http.ResponseWriter, flusher http.Flusher, comment string) {
	if _, err := fmt.Fprintf(w, ": %s\n\n", comment); err != nil {
		log.Printf("failed to write sse comment: %v", err)
		return
	}
	flusher.Flush()
}

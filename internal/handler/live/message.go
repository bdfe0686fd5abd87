package live

import (
	"encoding/json"

	"github.com/zhouzirui/moodlens/internal/view"
)

// 入站消息类型
const (
	msgHello   = "hello"
	msgInput   = "input"
	msgAnalyze = "analyze"
	msgClear   = "clear"
	msgInsert  = "insert"
	msgSample  = "sample"
	msgHistory = "history"
)

// 出站消息类型
const (
	msgRender   = "render"
	msgNavigate = "navigate"
	msgError    = "error"
)

type inboundMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// HelloMessage 页面初始化时上报存在的元素 id
type HelloMessage struct {
	Elements []string `json:"elements"`
}

// InputMessage 输入框内容，选区为 UTF-16 偏移
type InputMessage struct {
	Value          string `json:"value"`
	SelectionStart int    `json:"selectionStart"`
	SelectionEnd   int    `json:"selectionEnd"`
}

// InsertMessage 在光标处插入文本
type InsertMessage struct {
	Text string `json:"text"`
}

// SampleMessage 加载示例文本
type SampleMessage struct {
	Index int `json:"index"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// RenderFrame 是推送给页面的渲染结果
type RenderFrame struct {
	// HTML 为结果区域的完整内容；页面没有结果区域时为空
	HTML         string                 `json:"html,omitempty"`
	PanelKind    view.PanelKind         `json:"panelKind,omitempty"`
	Trigger      view.TriggerView       `json:"trigger"`
	Busy         bool                   `json:"busy"`
	Notification *view.NotificationView `json:"notification,omitempty"`
	Input        *InputFrame            `json:"input,omitempty"`
	Focus        bool                   `json:"focus,omitempty"`
}

// InputFrame 控制器修改后的输入框内容，Caret 为 UTF-16 偏移
type InputFrame struct {
	Value string `json:"value"`
	Caret int    `json:"caret"`
}

type navigateFrame struct {
	URL string `json:"url"`
}

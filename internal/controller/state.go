package controller

import (
	"time"

	"github.com/zhouzirui/moodlens/internal/model/analysis"
)

// Phase is the request lifecycle position of the controller.
type Phase int

const (
	Idle Phase = iota
	Loading
	Rendered
	Errored
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Rendered:
		return "rendered"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// State 是控制器的 UI 状态，不持久化。
type State struct {
	Phase    Phase
	Response *analysis.AnalysisResponse // Rendered 时有效
	Message  string                     // Errored 时有效
}

// Snapshot 是渲染视图所需的全部只读数据。
type Snapshot struct {
	State State
	// Panel 是结果区域当前展示的状态；Loading 期间保持上一次的结果。
	Panel        State
	Surface      Surface
	Input        TextField
	Notification *Notification
	RenderedAt   time.Time
}

// Busy 表示存在未完成的当前请求。
func (s Snapshot) Busy() bool {
	return s.State.Phase == Loading
}

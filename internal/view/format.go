package view

import (
	"fmt"

	"github.com/zhouzirui/moodlens/internal/controller"
)

// Percent formats a 0..1 score as a percentage with one decimal, e.g. 0.827 -> "82.7%".
func Percent(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}

// BarWidth 返回进度条宽度百分比，限制在 [0, 100]。
func BarWidth(score float64) float64 {
	w := score * 100
	if w < 0 {
		return 0
	}
	if w > 100 {
		return 100
	}
	return w
}

// NoticeStyle 是通知的展示样式。
type NoticeStyle struct {
	Kind  controller.NoticeKind
	Color string
	Icon  string
}

var noticeStyles = map[controller.NoticeKind]NoticeStyle{
	controller.NoticeSuccess: {controller.NoticeSuccess, "#10b981", "✅"},
	controller.NoticeError:   {controller.NoticeError, "#ef4444", "❌"},
	controller.NoticeWarning: {controller.NoticeWarning, "#f59e0b", "⚠️"},
	controller.NoticeInfo:    {controller.NoticeInfo, "#6366f1", "💡"},
}

// NoticeStyleOf returns the style for kind; unknown kinds render as info.
func NoticeStyleOf(kind controller.NoticeKind) NoticeStyle {
	if s, ok := noticeStyles[kind]; ok {
		return s
	}
	return noticeStyles[controller.NoticeInfo]
}

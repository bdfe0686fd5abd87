package history

import (
	"time"
	"unicode/utf8"
)

// PreviewLimit 列表页展示原文时截断的字符数。
const PreviewLimit = 100

// Entry records one successfully rendered analysis.
type Entry struct {
	ID         int64              `json:"id"`
	ServiceID  *int64             `json:"serviceId,omitempty"` // 分析服务返回的 history_id
	SessionID  string             `json:"sessionId,omitempty"`
	Text       string             `json:"text"`
	TopLabel   string             `json:"topLabel"`
	Confidence float64            `json:"confidence"`
	Scores     map[string]float64 `json:"scores"`
	EmojiCount int                `json:"emojiCount"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// Preview 返回截断后的原文，超过 PreviewLimit 个字符时追加 "..."。
func (e Entry) Preview() string {
	if utf8.RuneCountInString(e.Text) <= PreviewLimit {
		return e.Text
	}
	runes := []rune(e.Text)
	return string(runes[:PreviewLimit]) + "..."
}

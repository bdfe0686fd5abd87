package controller

// NoticeKind 决定通知的颜色与图标。
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeWarning NoticeKind = "warning"
	NoticeInfo    NoticeKind = "info"
)

// Notification is a transient message. At most one is visible at a time.
type Notification struct {
	ID      string
	Kind    NoticeKind
	Message string
}

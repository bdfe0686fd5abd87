package controller

import (
	"time"

	"github.com/zhouzirui/moodlens/internal/model/analysis"
)

// Effect 是控制器请求宿主执行的副作用。控制器本身从不阻塞。
type Effect interface {
	effect()
}

// IssueRequest asks the host to send the request and report back via Complete with the same Generation.
type IssueRequest struct {
	Generation uint64
	Request    analysis.AnalysisRequest
}

// DismissAfter asks the host to call Dismiss(ID) once After has elapsed.
type DismissAfter struct {
	ID    string
	After time.Duration
}

// TriggerAfter asks the host to call Trigger once After has elapsed.
type TriggerAfter struct {
	After time.Duration
}

// Navigate asks the host to leave the page for URL.
type Navigate struct {
	URL string
}

// SyncInput carries a value/caret change made by the controller back to the text input.
type SyncInput struct {
	Value string
	Caret int
}

// Focus asks the host to focus the text input.
type Focus struct{}

// ResultReady is emitted once a response has been accepted and rendered.
type ResultReady struct {
	Generation uint64
	Response   *analysis.AnalysisResponse
}

func (IssueRequest) effect() {}
func (DismissAfter) effect() {}
func (TriggerAfter) effect() {}
func (Navigate) effect()     {}
func (SyncInput) effect()    {}
func (Focus) effect()        {}
func (ResultReady) effect()  {}

package controller

import (
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/zhouzirui/moodlens/internal/model/analysis"
	"github.com/zhouzirui/moodlens/internal/model/sample"
)

// 用户可见的提示文案。
const (
	MsgEmptyInput     = "Please enter some text to analyze!"
	MsgShortInput     = "Please enter more text (at least 3 characters)"
	MsgCleared        = "Text cleared!"
	MsgGenericFailure = "Failed to analyze text. Please try again."
	MsgAnalysisFailed = "Analysis failed"
)

const (
	// MinTextLength 是去除首尾空白后允许提交的最少长度，按 UTF-16 码元计，与浏览器一致。
	MinTextLength = 3

	DefaultNotificationTTL = 3 * time.Second
	DefaultSampleDelay     = 500 * time.Millisecond
	DefaultHistoryURL      = "/history"
)

// Logger is satisfied by *log.Logger and charmbracelet's StandardLog.
type Logger interface {
	Printf(format string, v ...any)
}

// Options 控制器的可选依赖，零值字段使用默认值。
type Options struct {
	NotificationTTL time.Duration
	SampleDelay     time.Duration
	HistoryURL      string
	Samples         sample.Store
	Logger          Logger
	Now             func() time.Time
}

// Controller drives the analyze/render lifecycle for one page instance.
// It is not safe for concurrent use; the owner must serialise calls.
type Controller struct {
	opts    Options
	surface Surface

	state      State
	panel      State
	field      TextField
	generation uint64
	notice     *Notification
	renderedAt time.Time
}

// New constructs a controller bound to the given surface. Missing elements are logged once here.
func New(surface Surface, opts Options) *Controller {
	if opts.NotificationTTL <= 0 {
		opts.NotificationTTL = DefaultNotificationTTL
	}
	if opts.SampleDelay <= 0 {
		opts.SampleDelay = DefaultSampleDelay
	}
	if opts.HistoryURL == "" {
		opts.HistoryURL = DefaultHistoryURL
	}
	if opts.Samples == nil {
		opts.Samples = sample.NewMemoryStore(sample.Seed())
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Controller{opts: opts, surface: surface}
	for _, e := range surface.Missing() {
		c.opts.Logger.Printf("[controller] element %q not found, related feature disabled", e)
	}
	return c
}

// Start returns the effects for page initialisation: focus the input when present.
func (c *Controller) Start() []Effect {
	if !c.surface.Has(TextInput) {
		return nil
	}
	return []Effect{Focus{}}
}

// Generation returns the tag of the current outstanding (or last issued) request.
func (c *Controller) Generation() uint64 {
	return c.generation
}

// SetInput records the text input value reported by the surface. Offsets are runes.
func (c *Controller) SetInput(value string, start, end int) {
	if !c.surface.Has(TextInput) {
		return
	}
	c.field.Set(value, start, end)
}

// Trigger 校验输入并发起一次分析请求。
// Loading 期间再次触发会发起新一代请求，旧请求的响应将被丢弃。
func (c *Controller) Trigger() []Effect {
	if !c.surface.Has(TextInput) {
		c.opts.Logger.Printf("[controller] analyze ignored: no %s element", TextInput)
		return nil
	}

	text := strings.TrimSpace(c.field.Value())
	if text == "" {
		return []Effect{c.Notify(NoticeWarning, MsgEmptyInput), Focus{}}
	}
	if textLength(text) < MinTextLength {
		return []Effect{c.Notify(NoticeWarning, MsgShortInput)}
	}

	c.generation++
	if c.state.Phase != Loading {
		c.panel = c.state
	}
	c.state = State{Phase: Loading}

	return []Effect{IssueRequest{
		Generation: c.generation,
		Request:    analysis.AnalysisRequest{Text: text},
	}}
}

// Complete 处理一次请求的结果。err 非 nil 表示传输层或解码失败。
// 非当前代的响应会被记录并丢弃。
func (c *Controller) Complete(gen uint64, res *analysis.Result, err error) []Effect {
	if gen != c.generation || c.state.Phase != Loading {
		c.opts.Logger.Printf("[controller] discarding stale response: generation=%d current=%d phase=%s",
			gen, c.generation, c.state.Phase)
		return nil
	}

	if msg, failed := failureMessage(res, err); failed {
		if err != nil {
			c.opts.Logger.Printf("[controller] analysis request failed: %v", err)
		} else {
			c.opts.Logger.Printf("[controller] analysis failed: status=%d message=%q", res.StatusCode, msg)
		}
		c.settle(State{Phase: Errored, Message: msg})
		return nil
	}

	c.settle(State{Phase: Rendered, Response: res.Response})
	c.renderedAt = c.opts.Now()
	return []Effect{ResultReady{Generation: gen, Response: res.Response}}
}

// Clear 清空输入并回到 Idle，同时使在途请求失效。
func (c *Controller) Clear() []Effect {
	if !c.surface.Has(TextInput) {
		c.opts.Logger.Printf("[controller] clear ignored: no %s element", TextInput)
		return nil
	}

	c.field.Reset()
	c.generation++
	c.settle(State{Phase: Idle})

	return []Effect{
		SyncInput{Value: "", Caret: 0},
		c.Notify(NoticeInfo, MsgCleared),
	}
}

// InsertAtCaret inserts s at the caret, replacing any selection, and focuses the input.
func (c *Controller) InsertAtCaret(s string) []Effect {
	if !c.surface.Has(TextInput) || s == "" {
		return nil
	}
	c.field.Insert(s)
	return []Effect{SyncInput{Value: c.field.Value(), Caret: c.field.Caret()}, Focus{}}
}

// LoadSample 将第 index 条示例写入输入框，并在固定延迟后自动触发分析。
func (c *Controller) LoadSample(index int) []Effect {
	if !c.surface.Has(TextInput) {
		return nil
	}
	s, ok := c.opts.Samples.At(index)
	if !ok {
		c.opts.Logger.Printf("[controller] sample %d out of range", index)
		return nil
	}

	n := utf8.RuneCountInString(s.Text)
	c.field.Set(s.Text, n, n)
	return []Effect{
		SyncInput{Value: s.Text, Caret: n},
		TriggerAfter{After: c.opts.SampleDelay},
	}
}

// NavigateHistory asks the host to open the history page.
func (c *Controller) NavigateHistory() []Effect {
	return []Effect{Navigate{URL: c.opts.HistoryURL}}
}

// Notify replaces the current notification and returns its scheduled dismissal.
func (c *Controller) Notify(kind NoticeKind, message string) Effect {
	n := &Notification{ID: uuid.NewString(), Kind: kind, Message: message}
	c.notice = n
	return DismissAfter{ID: n.ID, After: c.opts.NotificationTTL}
}

// Dismiss hides the notification with the given id. A stale id does nothing.
func (c *Controller) Dismiss(id string) bool {
	if c.notice == nil || c.notice.ID != id {
		return false
	}
	c.notice = nil
	return true
}

// Snapshot returns the data needed to render the current view.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		State:      c.state,
		Panel:      c.panel,
		Surface:    c.surface,
		Input:      c.field,
		RenderedAt: c.renderedAt,
	}
	if c.state.Phase != Loading {
		snap.Panel = c.state
	}
	if c.notice != nil {
		n := *c.notice
		snap.Notification = &n
	}
	return snap
}

func (c *Controller) settle(s State) {
	c.state = s
	c.panel = s
}

// failureMessage maps an outcome to the message shown to the user.
func failureMessage(res *analysis.Result, err error) (string, bool) {
	if err != nil || res == nil {
		return MsgGenericFailure, true
	}

	body := res.Response
	if !res.OK() {
		if body != nil {
			if msg := firstNonEmpty(body.Error, body.Message); msg != "" {
				return msg, true
			}
		}
		return fmt.Sprintf("Server error: %d", res.StatusCode), true
	}

	if body == nil {
		return MsgGenericFailure, true
	}
	if !body.Success {
		if msg := firstNonEmpty(body.Message, body.Error); msg != "" {
			return msg, true
		}
		return MsgAnalysisFailed, true
	}
	return "", false
}

// textLength counts UTF-16 code units, so an emoji outside the BMP counts as two.
func textLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

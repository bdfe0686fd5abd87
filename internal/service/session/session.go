package session

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zhouzirui/moodlens/internal/controller"
	"github.com/zhouzirui/moodlens/internal/model/analysis"
	model "github.com/zhouzirui/moodlens/internal/model/history"
	"github.com/zhouzirui/moodlens/internal/view"
)

// Analyzer performs the outbound analysis call.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.AnalysisRequest) (*analysis.Result, error)
}

// Recorder 记录成功渲染的分析结果，可以为空。
type Recorder interface {
	Record(ctx context.Context, sessionID string, resp *analysis.AnalysisResponse) (model.Entry, error)
}

// InputChange is a controller-initiated change of the text input.
type InputChange struct {
	Value string
	Caret int
}

// Update is published to the surface after every handled event.
type Update struct {
	View     view.ViewModel
	Input    *InputChange
	Focus    bool
	Navigate string
}

// Sink receives updates on the session goroutine. It must not block for long.
type Sink func(Update)

// Options 会话依赖。
type Options struct {
	Analyzer Analyzer
	Recorder Recorder
	Sink     Sink
}

const eventBuffer = 64

type event struct {
	apply func() []controller.Effect
	// quiet 事件不触发重新渲染，例如输入框的逐字同步。
	quiet bool
}

// Session owns one controller and serialises every event through a single goroutine.
type Session struct {
	id       string
	ctrl     *controller.Controller
	analyzer Analyzer
	recorder Recorder
	sink     Sink

	events  chan event
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	started atomic.Bool

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
}

// New creates a session. Call Start to begin processing.
func New(id string, ctrl *controller.Controller, opts Options) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	sink := opts.Sink
	if sink == nil {
		sink = func(Update) {}
	}
	return &Session{
		id:       id,
		ctrl:     ctrl,
		analyzer: opts.Analyzer,
		recorder: opts.Recorder,
		sink:     sink,
		events:   make(chan event, eventBuffer),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		timers:   make(map[*time.Timer]struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Start runs the event loop and publishes the initial view.
func (s *Session) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go s.loop()
	s.post(event{apply: s.ctrl.Start})
}

// Done is closed once the event loop has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close stops the loop, pending timers and in-flight requests. Late completions are dropped.
func (s *Session) Close() {
	s.cancel()

	s.mu.Lock()
	for t := range s.timers {
		t.Stop()
	}
	s.timers = map[*time.Timer]struct{}{}
	s.mu.Unlock()

	if s.started.Load() {
		<-s.done
	}
}

// Trigger requests an analysis of the current input.
func (s *Session) Trigger() {
	s.post(event{apply: s.ctrl.Trigger})
}

// Clear resets the input and the results.
func (s *Session) Clear() {
	s.post(event{apply: s.ctrl.Clear})
}

// SetInput mirrors the surface's text input. Offsets are runes.
func (s *Session) SetInput(value string, start, end int) {
	s.post(event{quiet: true, apply: func() []controller.Effect {
		s.ctrl.SetInput(value, start, end)
		return nil
	}})
}

// Insert inserts text at the caret.
func (s *Session) Insert(text string) {
	s.post(event{apply: func() []controller.Effect {
		return s.ctrl.InsertAtCaret(text)
	}})
}

// LoadSample loads sample index into the input and schedules a trigger.
func (s *Session) LoadSample(index int) {
	s.post(event{apply: func() []controller.Effect {
		return s.ctrl.LoadSample(index)
	}})
}

// NavigateHistory asks the surface to open the history page.
func (s *Session) NavigateHistory() {
	s.post(event{apply: s.ctrl.NavigateHistory})
}

// Notify shows a notification, e.g. a harness-level warning.
func (s *Session) Notify(kind controller.NoticeKind, message string) {
	s.post(event{apply: func() []controller.Effect {
		return []controller.Effect{s.ctrl.Notify(kind, message)}
	}})
}

func (s *Session) post(ev event) {
	select {
	case s.events <- ev:
	case <-s.ctx.Done():
	}
}

func (s *Session) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case ev := <-s.events:
			update := s.execute(ev.apply())
			if ev.quiet && update.Input == nil && !update.Focus && update.Navigate == "" {
				continue
			}
			update.View = view.Render(s.ctrl.Snapshot())
			s.sink(update)
		}
	}
}

// execute 执行控制器返回的副作用，返回需要推送给界面的部分。
func (s *Session) execute(effects []controller.Effect) Update {
	var update Update
	for _, eff := range effects {
		switch e := eff.(type) {
		case controller.IssueRequest:
			s.issue(e)
		case controller.DismissAfter:
			id := e.ID
			s.after(e.After, func() []controller.Effect {
				s.ctrl.Dismiss(id)
				return nil
			})
		case controller.TriggerAfter:
			s.after(e.After, s.ctrl.Trigger)
		case controller.Navigate:
			update.Navigate = e.URL
		case controller.SyncInput:
			update.Input = &InputChange{Value: e.Value, Caret: e.Caret}
		case controller.Focus:
			update.Focus = true
		case controller.ResultReady:
			s.record(e.Response)
		}
	}
	return update
}

func (s *Session) issue(req controller.IssueRequest) {
	if s.analyzer == nil {
		log.Printf("[session] %s: no analyzer configured", s.id)
		return
	}
	go func() {
		res, err := s.analyzer.Analyze(s.ctx, req.Request)
		if s.ctx.Err() != nil {
			return
		}
		s.post(event{apply: func() []controller.Effect {
			return s.ctrl.Complete(req.Generation, res, err)
		}})
	}()
}

func (s *Session) after(d time.Duration, apply func() []controller.Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return
	}

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.timers, t)
		s.mu.Unlock()
		s.post(event{apply: apply})
	})
	s.timers[t] = struct{}{}
}

func (s *Session) record(resp *analysis.AnalysisResponse) {
	if s.recorder == nil {
		return
	}
	go func() {
		if _, err := s.recorder.Record(s.ctx, s.id, resp); err != nil {
			log.Printf("[session] %s: record history failed: %v", s.id, err)
		}
	}()
}

package tui

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zhouzirui/moodlens/internal/controller"
	"github.com/zhouzirui/moodlens/internal/model/analysis"
	"github.com/zhouzirui/moodlens/internal/model/sample"
	"github.com/zhouzirui/moodlens/internal/service/session"
	"github.com/zhouzirui/moodlens/internal/view"
)

// Config 终端客户端依赖
type Config struct {
	Analyzer        session.Analyzer
	Samples         sample.Store
	Logger          controller.Logger
	NotificationTTL time.Duration
	SampleDelay     time.Duration
	// HistoryBase 为 web 服务地址，历史导航显示为 HistoryBase + /history
	HistoryBase string
}

type completionMsg struct {
	generation uint64
	result     *analysis.Result
	err        error
}

type dismissMsg struct{ id string }

type triggerMsg struct{}

// Model is the Bubble Tea model hosting a controller.
type Model struct {
	ctx      context.Context
	ctrl     *controller.Controller
	analyzer session.Analyzer
	emojis   []string
	base     string

	input   textarea.Model
	spin    spinner.Model
	width   int
	visited string
}

// New creates the terminal model. The terminal always provides every surface element.
func New(ctx context.Context, cfg Config) Model {
	ti := textarea.New()
	ti.Placeholder = "How are you feeling today? Type or paste some text..."
	ti.ShowLineNumbers = false
	ti.CharLimit = 0
	ti.SetWidth(72)
	ti.SetHeight(5)
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot

	ctrl := controller.New(controller.FullSurface(), controller.Options{
		NotificationTTL: cfg.NotificationTTL,
		SampleDelay:     cfg.SampleDelay,
		Samples:         cfg.Samples,
		Logger:          cfg.Logger,
	})

	return Model{
		ctx:      ctx,
		ctrl:     ctrl,
		analyzer: cfg.Analyzer,
		emojis:   sample.QuickEmojis(),
		base:     strings.TrimRight(cfg.HistoryBase, "/"),
		input:    ti,
		spin:     s,
		width:    76,
	}
}

// Init starts the cursor blink and spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spin.Tick, m.apply(m.ctrl.Start()))
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 8 {
			m.input.SetWidth(msg.Width - 4)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case completionMsg:
		cmd := m.apply(m.ctrl.Complete(msg.generation, msg.result, msg.err))
		return m, cmd

	case dismissMsg:
		m.ctrl.Dismiss(msg.id)
		return m, nil

	case triggerMsg:
		cmd := m.apply(m.ctrl.Trigger())
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "esc", "ctrl+c":
		return m, tea.Quit
	case "ctrl+s", "ctrl+enter":
		m.syncInput()
		cmd := m.apply(m.ctrl.Trigger())
		return m, cmd
	case "ctrl+l":
		cmd := m.apply(m.ctrl.Clear())
		return m, cmd
	case "ctrl+h":
		cmd := m.apply(m.ctrl.NavigateHistory())
		return m, cmd
	case "alt+1", "alt+2", "alt+3", "alt+4":
		index := int(key[len(key)-1] - '1')
		cmd := m.apply(m.ctrl.LoadSample(index))
		return m, cmd
	case "f1", "f2", "f3", "f4", "f5", "f6":
		index := int(key[1] - '1')
		if index < len(m.emojis) {
			m.syncInput()
			cmd := m.apply(m.ctrl.InsertAtCaret(m.emojis[index]))
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.syncInput()
	return m, cmd
}

// syncInput mirrors the textarea into the controller.
func (m *Model) syncInput() {
	caret := caretOffset(m.input)
	m.ctrl.SetInput(m.input.Value(), caret, caret)
}

// apply 将控制器副作用转换为 tea.Cmd
func (m *Model) apply(effects []controller.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, eff := range effects {
		switch e := eff.(type) {
		case controller.IssueRequest:
			cmds = append(cmds, m.request(e))
		case controller.DismissAfter:
			id := e.ID
			cmds = append(cmds, tea.Tick(e.After, func(time.Time) tea.Msg { return dismissMsg{id: id} }))
		case controller.TriggerAfter:
			cmds = append(cmds, tea.Tick(e.After, func(time.Time) tea.Msg { return triggerMsg{} }))
		case controller.Navigate:
			m.visited = m.base + e.URL
			cmds = append(cmds, m.apply([]controller.Effect{
				m.ctrl.Notify(controller.NoticeInfo, "History: "+m.visited),
			}))
		case controller.SyncInput:
			setTextarea(&m.input, e.Value, e.Caret)
		case controller.Focus:
			cmds = append(cmds, m.input.Focus())
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) request(req controller.IssueRequest) tea.Cmd {
	analyzer, ctx := m.analyzer, m.ctx
	return func() tea.Msg {
		if analyzer == nil {
			return completionMsg{generation: req.Generation, err: errNoAnalyzer}
		}
		res, err := analyzer.Analyze(ctx, req.Request)
		return completionMsg{generation: req.Generation, result: res, err: err}
	}
}

// Snapshot exposes the controller state for rendering.
func (m Model) Snapshot() controller.Snapshot {
	return m.ctrl.Snapshot()
}

// View renders the screen.
func (m Model) View() string {
	vm := view.Render(m.ctrl.Snapshot())
	return render(m, vm)
}

// caretOffset 计算 textarea 光标在整个文本中的 rune 偏移
func caretOffset(ta textarea.Model) int {
	lines := strings.Split(ta.Value(), "\n")
	row := ta.Line()
	if row >= len(lines) {
		row = len(lines) - 1
	}
	offset := 0
	for i := 0; i < row; i++ {
		offset += utf8.RuneCountInString(lines[i]) + 1
	}
	info := ta.LineInfo()
	col := info.StartColumn + info.ColumnOffset
	if n := utf8.RuneCountInString(lines[row]); col > n {
		col = n
	}
	return offset + col
}

// setTextarea 设置内容并把光标移动到 caret（rune 偏移）
func setTextarea(ta *textarea.Model, value string, caret int) {
	ta.SetValue(value)

	row, col := 0, caret
	for _, line := range strings.Split(value, "\n") {
		n := utf8.RuneCountInString(line)
		if col <= n {
			break
		}
		col -= n + 1
		row++
	}

	for i := 0; ta.Line() > row && i < 4096; i++ {
		ta.CursorUp()
	}
	ta.SetCursor(col)
}

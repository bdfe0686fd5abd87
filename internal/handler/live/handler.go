package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/zhouzirui/moodlens/internal/controller"
	"github.com/zhouzirui/moodlens/internal/service/session"
	"github.com/zhouzirui/moodlens/internal/view"
)

const (
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
	pingInterval = 54 * time.Second
)

// Config 配置 WebSocket 会话
type Config struct {
	// NewController 为每个连接构造控制器
	NewController   func(surface controller.Surface) *controller.Controller
	Analyzer        session.Analyzer
	Recorder        session.Recorder
	EventsPerSecond float64
	Burst           int
}

// Handler bridges a browser page and a server-side controller session.
type Handler struct {
	cfg      Config
	registry *session.Registry
	upgrader websocket.Upgrader
}

// NewHandler 创建WebSocket处理器
func NewHandler(registry *session.Registry, cfg Config) *Handler {
	if cfg.NewController == nil {
		cfg.NewController = func(s controller.Surface) *controller.Controller {
			return controller.New(s, controller.Options{})
		}
	}
	if cfg.EventsPerSecond <= 0 {
		cfg.EventsPerSecond = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 20
	}
	return &Handler{
		cfg:      cfg,
		registry: registry,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

// conn serialises writes; gorilla connections allow one concurrent writer.
type conn struct {
	ws        *websocket.Conn
	sessionID string
	mu        sync.Mutex
}

func (c *conn) send(msgType string, data interface{}) {
	msg := outgoingMessage{
		Type:      msgType,
		SessionID: c.sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.ws.WriteJSON(msg); err != nil {
		log.Printf("[live] write %s failed session=%s: %v", msgType, c.sessionID, err)
	}
}

func (c *conn) sendError(message string) {
	c.send(msgError, map[string]string{"message": message})
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// handleWebSocket 处理WebSocket连接
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[live] upgrade failed: %v", err)
		return
	}
	defer ws.Close()

	log.Printf("[live] new connection for session: %s", sessionID)
	c := &conn{ws: ws, sessionID: sessionID}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	go h.pingLoop(ctx, c)

	var sess *session.Session
	defer func() {
		if sess != nil {
			h.registry.Remove(sess)
			log.Printf("[live] session closed: %s", sessionID)
		}
	}()

	limiter := rate.NewLimiter(rate.Limit(h.cfg.EventsPerSecond), h.cfg.Burst)

	for {
		var msg inboundMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[live] read error: %v", err)
			}
			return
		}
		ws.SetReadDeadline(time.Now().Add(readTimeout))

		// 输入同步不限流，其余事件超出速率时丢弃
		if msg.Type != msgInput && !limiter.Allow() {
			c.sendError("too many events, slow down")
			continue
		}

		if msg.Type == msgHello {
			if sess != nil {
				c.sendError("session already initialised")
				continue
			}
			var hello HelloMessage
			if err := json.Unmarshal(msg.Data, &hello); err != nil {
				c.sendError("invalid hello payload")
				continue
			}
			sess = h.startSession(sessionID, controller.ParseSurface(hello.Elements), c)
			continue
		}

		if sess == nil {
			c.sendError("hello required")
			continue
		}
		if err := h.dispatch(sess, &msg); err != nil {
			c.sendError(err.Error())
		}
	}
}

func (h *Handler) startSession(id string, surface controller.Surface, c *conn) *session.Session {
	ctrl := h.cfg.NewController(surface)
	sess := session.New(id, ctrl, session.Options{
		Analyzer: h.cfg.Analyzer,
		Recorder: h.cfg.Recorder,
		Sink: func(u session.Update) {
			h.publish(c, u)
		},
	})
	h.registry.Add(sess)
	sess.Start()
	return sess
}

func (h *Handler) dispatch(sess *session.Session, msg *inboundMessage) error {
	switch msg.Type {
	case msgInput:
		var in InputMessage
		if err := json.Unmarshal(msg.Data, &in); err != nil {
			return errors.New("invalid input payload")
		}
		sess.SetInput(in.Value, runeOffset(in.Value, in.SelectionStart), runeOffset(in.Value, in.SelectionEnd))
	case msgAnalyze:
		sess.Trigger()
	case msgClear:
		sess.Clear()
	case msgInsert:
		var in InsertMessage
		if err := json.Unmarshal(msg.Data, &in); err != nil {
			return errors.New("invalid insert payload")
		}
		sess.Insert(in.Text)
	case msgSample:
		var in SampleMessage
		if err := json.Unmarshal(msg.Data, &in); err != nil {
			return errors.New("invalid sample payload")
		}
		sess.LoadSample(in.Index)
	case msgHistory:
		sess.NavigateHistory()
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
	return nil
}

// publish 将会话更新转换为 render/navigate 帧
func (h *Handler) publish(c *conn, u session.Update) {
	frame := RenderFrame{
		Trigger:      u.View.Trigger,
		Busy:         u.View.Busy,
		Notification: u.View.Notification,
		Focus:        u.Focus,
	}
	if u.View.Panel != nil {
		html, err := view.PanelHTML(u.View.Panel)
		if err != nil {
			log.Printf("[live] render panel failed session=%s: %v", c.sessionID, err)
		} else {
			frame.HTML = html
			frame.PanelKind = u.View.Panel.Kind
		}
	}
	if u.Input != nil {
		frame.Input = &InputFrame{Value: u.Input.Value, Caret: utf16Offset(u.Input.Value, u.Input.Caret)}
	}

	c.send(msgRender, frame)
	if u.Navigate != "" {
		c.send(msgNavigate, navigateFrame{URL: u.Navigate})
	}
}

// pingLoop 定期发送ping消息
func (h *Handler) pingLoop(ctx context.Context, c *conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}

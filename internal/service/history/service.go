package history

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/zhouzirui/moodlens/internal/model/analysis"
	model "github.com/zhouzirui/moodlens/internal/model/history"
)

// ErrNotRenderable 表示响应不是成功的分析结果，不应写入历史。
var ErrNotRenderable = errors.New("response is not a successful analysis")

const subscriberBuffer = 16

// Service records rendered analyses and fans new entries out to subscribers.
type Service struct {
	store Store
	now   func() time.Time

	mu   sync.Mutex
	subs map[chan model.Entry]struct{}
}

// NewService wraps store.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		subs:  make(map[chan model.Entry]struct{}),
	}
}

// Record stores a successfully rendered response.
func (s *Service) Record(ctx context.Context, sessionID string, resp *analysis.AnalysisResponse) (model.Entry, error) {
	if resp == nil || !resp.Success {
		return model.Entry{}, ErrNotRenderable
	}

	top := resp.Top()
	entry := model.Entry{
		ServiceID:  resp.HistoryID,
		SessionID:  sessionID,
		Text:       resp.Text,
		TopLabel:   top.Label,
		Confidence: top.Confidence,
		Scores:     resp.EmotionScores,
		EmojiCount: resp.EmojiCount(),
		CreatedAt:  s.now().UTC(),
	}

	saved, err := s.store.Append(ctx, entry)
	if err != nil {
		return model.Entry{}, err
	}
	log.Printf("[history] recorded entry id=%d session=%s top=%s", saved.ID, sessionID, saved.TopLabel)
	s.publish(saved)
	return saved, nil
}

// Recent returns up to limit entries, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]model.Entry, error) {
	return s.store.List(ctx, limit)
}

// Get returns a single entry.
func (s *Service) Get(ctx context.Context, id int64) (model.Entry, error) {
	return s.store.Get(ctx, id)
}

// Subscribe 返回新记录的通知通道以及取消订阅函数。
// 订阅者消费过慢时新记录会被丢弃。
func (s *Service) Subscribe() (<-chan model.Entry, func()) {
	ch := make(chan model.Entry, subscriberBuffer)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Service) publish(entry model.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ch := range s.subs {
		select {
		case ch <- entry:
		default:
			log.Printf("[history] subscriber too slow, dropping entry id=%d", entry.ID)
		}
	}
}

// Close releases the underlying store.
func (s *Service) Close() error {
	return s.store.Close()
}

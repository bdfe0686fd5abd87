package analysis

import "sort"

// TopEmotion 分析服务判定的主导情绪
type TopEmotion struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"` // 0~1
}

// AnalysisResponse 分析服务 /analyze 的响应
type AnalysisResponse struct {
	Success       bool               `json:"success"`
	Text          string             `json:"text"`
	EmotionScores map[string]float64 `json:"emotion_scores"` // 标签 -> 0~1 得分，标签集合开放
	TopEmotion    *TopEmotion        `json:"top_emotion,omitempty"`
	EmojisFound   []string           `json:"emojis_found,omitempty"`
	HistoryID     *int64             `json:"history_id,omitempty"`
	Error         string             `json:"error,omitempty"`
	Message       string             `json:"message,omitempty"`
}

// Result 是一次 /analyze 调用在 HTTP 层面的结果。
// Response 为 nil 表示响应体无法解析。
type Result struct {
	StatusCode int
	Response   *AnalysisResponse
}

// OK 表示 HTTP 状态码为 2xx。
func (r *Result) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Top 返回主导情绪，服务未提供时视为 neutral/0。
func (r *AnalysisResponse) Top() TopEmotion {
	if r == nil || r.TopEmotion == nil {
		return TopEmotion{Label: "neutral", Confidence: 0}
	}
	return *r.TopEmotion
}

// EmojiCount 返回服务识别出的 emoji 数量，缺失时为 0。
func (r *AnalysisResponse) EmojiCount() int {
	if r == nil {
		return 0
	}
	return len(r.EmojisFound)
}

// Score 是一条 标签/得分 记录。
type Score struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// RankedScores 按得分降序返回所有情绪，得分相同时按标签排序以保证结果稳定。
func (r *AnalysisResponse) RankedScores() []Score {
	if r == nil || len(r.EmotionScores) == 0 {
		return nil
	}

	scores := make([]Score, 0, len(r.EmotionScores))
	for label, value := range r.EmotionScores {
		scores = append(scores, Score{Label: label, Value: value})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Value != scores[j].Value {
			return scores[i].Value > scores[j].Value
		}
		return scores[i].Label < scores[j].Label
	})
	return scores
}

package analysis

// AnalysisRequest 发送给分析服务 /analyze 的请求体
type AnalysisRequest struct {
	Text string `json:"text"` // 已去除首尾空白的用户输入
}

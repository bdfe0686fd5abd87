package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	model "github.com/zhouzirui/moodlens/internal/model/analysis"
)

// maxBodyBytes 限制读取的响应体大小。
const maxBodyBytes = 1 << 20

// ErrBaseURLRequired 表示未配置分析服务地址。
var ErrBaseURLRequired = errors.New("analysis service url is required")

// Config 描述分析服务客户端配置。
type Config struct {
	BaseURL string
	// Timeout 为 0 时不设置超时。
	Timeout time.Duration
}

// TransportError 表示请求未能得到可用的响应：网络失败，或 2xx 响应体无法解析。
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("analysis %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client 调用外部分析服务的 POST /analyze。
type Client struct {
	endpoint   string
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建客户端，BaseURL 必须是 http(s) 地址。
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, ErrBaseURLRequired
	}

	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid analysis service url %q: %w", base, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid analysis service url %q: scheme must be http or https", base)
	}

	return &Client{
		endpoint:   base + "/analyze",
		baseURL:    base,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// BaseURL 返回规范化后的服务地址。
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Analyze 发送一次分析请求。非 2xx 状态码不是错误，由调用方根据 Result 判断；
// 只有网络失败或 2xx 响应体无法解析时返回 *TransportError。
func (c *Client) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, &TransportError{Op: "encode", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Op: "request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: "post", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Op: "read", Err: err}
	}

	log.Printf("[analysis] POST %s status=%d bytes=%d took=%s", c.endpoint, resp.StatusCode, len(body), time.Since(started).Round(time.Millisecond))

	result := &model.Result{StatusCode: resp.StatusCode}
	var decoded model.AnalysisResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		if result.OK() {
			return nil, &TransportError{Op: "decode", Err: err}
		}
		// 非 2xx 且响应体不是 JSON 时，调用方退回到状态码提示。
		return result, nil
	}

	result.Response = &decoded
	return result, nil
}

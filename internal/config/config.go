package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server   ServerConfig
	Analysis AnalysisConfig
	UI       UIConfig
	History  HistoryConfig
	Live     LiveConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	analysis, err := loadAnalysisConfig()
	if err != nil {
		return nil, err
	}

	ui, err := loadUIConfig()
	if err != nil {
		return nil, err
	}

	history, err := loadHistoryConfig()
	if err != nil {
		return nil, err
	}

	live, err := loadLiveConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Analysis: analysis, UI: ui, History: history, Live: live}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	origins := splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"))

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port, AllowedOrigins: origins}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, AllowedOrigins: origins}, nil
}

// AnalysisConfig 描述外部分析服务。
type AnalysisConfig struct {
	BaseURL string
	// Timeout 为 0 表示不设超时
	Timeout time.Duration
}

func loadAnalysisConfig() (AnalysisConfig, error) {
	timeout, err := parseOptionalDurationEnv("ANALYSIS_HTTP_TIMEOUT")
	if err != nil {
		return AnalysisConfig{}, err
	}

	cfg := AnalysisConfig{BaseURL: getEnvOrDefault("ANALYSIS_SERVICE_URL", "http://127.0.0.1:5000")}
	if timeout != nil {
		if *timeout < 0 {
			return AnalysisConfig{}, fmt.Errorf("invalid ANALYSIS_HTTP_TIMEOUT value %q: must not be negative", timeout.String())
		}
		cfg.Timeout = *timeout
	}
	return cfg, nil
}

// UIConfig 描述控制器的时间参数与示例文本。
type UIConfig struct {
	NotificationTTL time.Duration
	SampleDelay     time.Duration
	SamplesFile     string
}

func loadUIConfig() (UIConfig, error) {
	ttl, err := parsePositiveDurationEnv("UI_NOTIFICATION_TTL", 3*time.Second)
	if err != nil {
		return UIConfig{}, err
	}

	delay, err := parsePositiveDurationEnv("UI_SAMPLE_DELAY", 500*time.Millisecond)
	if err != nil {
		return UIConfig{}, err
	}

	return UIConfig{
		NotificationTTL: ttl,
		SampleDelay:     delay,
		SamplesFile:     strings.TrimSpace(os.Getenv("UI_SAMPLES_FILE")),
	}, nil
}

// HistoryConfig 描述历史记录存储。
type HistoryConfig struct {
	Enabled  bool
	DBPath   string
	PageSize int
}

func loadHistoryConfig() (HistoryConfig, error) {
	enabled, err := parseBoolEnv("HISTORY_ENABLED", true)
	if err != nil {
		return HistoryConfig{}, err
	}

	pageSize := 50
	if override, err := parseOptionalIntEnv("HISTORY_PAGE_SIZE"); err != nil {
		return HistoryConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return HistoryConfig{}, fmt.Errorf("invalid HISTORY_PAGE_SIZE value %d: must be positive", *override)
		}
		pageSize = *override
	}

	return HistoryConfig{
		Enabled:  enabled,
		DBPath:   getEnvOrDefault("HISTORY_DB_PATH", "moodlens.db"),
		PageSize: pageSize,
	}, nil
}

// LiveConfig 描述 WebSocket 入站限流。
type LiveConfig struct {
	EventsPerSecond float64
	Burst           int
}

func loadLiveConfig() (LiveConfig, error) {
	cfg := LiveConfig{EventsPerSecond: 10, Burst: 20}

	rate, err := parseOptionalFloatEnv("LIVE_EVENTS_PER_SECOND")
	if err != nil {
		return LiveConfig{}, err
	}
	if rate != nil {
		if *rate <= 0 {
			return LiveConfig{}, fmt.Errorf("invalid LIVE_EVENTS_PER_SECOND value %v: must be positive", *rate)
		}
		cfg.EventsPerSecond = *rate
	}

	burst, err := parseOptionalIntEnv("LIVE_EVENTS_BURST")
	if err != nil {
		return LiveConfig{}, err
	}
	if burst != nil {
		if *burst < 1 {
			return LiveConfig{}, fmt.Errorf("invalid LIVE_EVENTS_BURST value %d: must be positive", *burst)
		}
		cfg.Burst = *burst
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalDurationEnv(key string) (*time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := time.ParseDuration(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parsePositiveDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	val, err := parseOptionalDurationEnv(key)
	if err != nil {
		return 0, err
	}
	if val == nil {
		return defaultValue, nil
	}
	if *val <= 0 {
		return 0, fmt.Errorf("invalid %s value %q: must be positive", key, val.String())
	}
	return *val, nil
}

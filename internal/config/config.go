package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ServerConfig 定义 HTTP 服务器的监听配置参数
type ServerConfig struct {
	Host string // 监听地址，默认 "0.0.0.0"
	Port int    // 监听端口，默认 8080
}

// CORSConfig 定义跨域资源共享 (CORS) 配置
type CORSConfig struct {
	AllowedOrigins []string // 允许的来源列表，"*" 表示允许所有来源
}

// LogConfig 定义日志系统配置
type LogConfig struct {
	Level       string // 日志级别: debug, info, warn, error
	Development bool   // 开发模式: 启用彩色输出和详细堆栈信息
	File        string // 日志文件路径，留空只输出到控制台
}

// MailConfig 一次性邮箱服务配置
type MailConfig struct {
	BaseURL string
}

// AuthConfig 魔法链接认证服务配置
type AuthConfig struct {
	BaseURL     string
	SiteURL     string // 魔法链接请求中的 baseUrl
	PackageID   string
	Country     string
	CountryCode string
}

// StudioConfig 图像生成服务配置
type StudioConfig struct {
	BaseURL     string
	Origin      string // origin/referer 请求头
	CountryCode string
	ClientIP    string // x-user-ip 请求头的固定值
	Platform    string
}

// HTTPConfig 下游请求的公共配置
type HTTPConfig struct {
	UserAgent string
	RateLimit float64 // 每个下游服务每秒请求上限，0 表示不限制
	RateBurst int
}

// PollConfig 两个轮询循环的节奏
type PollConfig struct {
	EmailInterval time.Duration // 收件箱轮询间隔，默认 5s
	EmailAttempts int           // 收件箱轮询次数，默认 24
	OrderInterval time.Duration // 订单状态轮询间隔，默认 1s
	OrderAttempts int           // 订单状态轮询次数，默认 20
}

// Config 是系统核心配置的根结构体
type Config struct {
	Server ServerConfig
	CORS   CORSConfig
	Log    LogConfig
	Mail   MailConfig
	Auth   AuthConfig
	Studio StudioConfig
	HTTP   HTTPConfig
	Poll   PollConfig
}

// Load 从环境变量和 .env 文件加载系统配置
//
// 配置加载优先级（从高到低）：
//  1. 系统环境变量
//  2. .env 文件（如果存在）
//  3. 默认值
//
// 环境变量前缀: IMAGEGATE_，例如 IMAGEGATE_MAIL_BASE_URL
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetEnvPrefix("imagegate")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("cors.allowed_origins", "*")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("log.file", "")
	v.SetDefault("mail.base_url", "https://api.tempmail.lol")
	v.SetDefault("auth.base_url", "https://prodapi.phot.ai")
	v.SetDefault("auth.site_url", "https://www.phot.ai")
	v.SetDefault("auth.package_id", "PACKAGE_ID_PHOT_AI_WEB")
	v.SetDefault("auth.country", "India")
	v.SetDefault("auth.country_code", "IN")
	v.SetDefault("studio.base_url", "https://prodapi.phot.ai")
	v.SetDefault("studio.origin", "https://studio.phot.ai")
	v.SetDefault("studio.country_code", "IN")
	v.SetDefault("studio.client_ip", "27.60.15.17")
	v.SetDefault("studio.platform", "STUDIO")
	v.SetDefault("http.user_agent", "Mozilla/5.0")
	v.SetDefault("http.rate_limit", 0)
	v.SetDefault("http.rate_burst", 1)
	v.SetDefault("poll.email_interval", "5s")
	v.SetDefault("poll.email_attempts", 24)
	v.SetDefault("poll.order_interval", "1s")
	v.SetDefault("poll.order_attempts", 20)

	emailInterval, err := time.ParseDuration(v.GetString("poll.email_interval"))
	if err != nil {
		return nil, fmt.Errorf("invalid poll.email_interval: %w", err)
	}
	orderInterval, err := time.ParseDuration(v.GetString("poll.order_interval"))
	if err != nil {
		return nil, fmt.Errorf("invalid poll.order_interval: %w", err)
	}

	corsOrigins := parseList(v.GetString("cors.allowed_origins"))
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("server.host"),
			Port: v.GetInt("server.port"),
		},
		CORS: CORSConfig{
			AllowedOrigins: corsOrigins,
		},
		Log: LogConfig{
			Level:       v.GetString("log.level"),
			Development: v.GetBool("log.development"),
			File:        v.GetString("log.file"),
		},
		Mail: MailConfig{
			BaseURL: v.GetString("mail.base_url"),
		},
		Auth: AuthConfig{
			BaseURL:     v.GetString("auth.base_url"),
			SiteURL:     v.GetString("auth.site_url"),
			PackageID:   v.GetString("auth.package_id"),
			Country:     v.GetString("auth.country"),
			CountryCode: v.GetString("auth.country_code"),
		},
		Studio: StudioConfig{
			BaseURL:     v.GetString("studio.base_url"),
			Origin:      strings.TrimRight(v.GetString("studio.origin"), "/"),
			CountryCode: v.GetString("studio.country_code"),
			ClientIP:    v.GetString("studio.client_ip"),
			Platform:    v.GetString("studio.platform"),
		},
		HTTP: HTTPConfig{
			UserAgent: v.GetString("http.user_agent"),
			RateLimit: v.GetFloat64("http.rate_limit"),
			RateBurst: v.GetInt("http.rate_burst"),
		},
		Poll: PollConfig{
			EmailInterval: emailInterval,
			EmailAttempts: v.GetInt("poll.email_attempts"),
			OrderInterval: orderInterval,
			OrderAttempts: v.GetInt("poll.order_attempts"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验必填项和取值范围
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"mail.base_url", c.Mail.BaseURL},
		{"auth.base_url", c.Auth.BaseURL},
		{"auth.site_url", c.Auth.SiteURL},
		{"auth.package_id", c.Auth.PackageID},
		{"studio.base_url", c.Studio.BaseURL},
		{"studio.origin", c.Studio.Origin},
		{"studio.client_ip", c.Studio.ClientIP},
	}
	for _, item := range required {
		if strings.TrimSpace(item.value) == "" {
			return fmt.Errorf("%s must not be empty", item.key)
		}
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", c.Server.Port)
	}
	if c.Poll.EmailAttempts <= 0 {
		return fmt.Errorf("poll.email_attempts must be positive")
	}
	if c.Poll.OrderAttempts <= 0 {
		return fmt.Errorf("poll.order_attempts must be positive")
	}
	if c.Poll.EmailInterval < 0 || c.Poll.OrderInterval < 0 {
		return fmt.Errorf("poll intervals must not be negative")
	}
	if c.HTTP.RateLimit < 0 {
		return fmt.Errorf("http.rate_limit must not be negative")
	}
	return nil
}

// parseList 将逗号分隔的字符串解析为字符串切片
func parseList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// loadEnvFile 尝试加载 .env 文件
//
// 先找当前目录，再找父目录；文件不存在时静默跳过，已存在的环境变量不会被覆盖。
func loadEnvFile() {
	if err := godotenv.Load(".env"); err == nil {
		return
	}

	parentEnv := filepath.Join("..", ".env")
	if _, err := os.Stat(parentEnv); err == nil {
		_ = godotenv.Load(parentEnv)
	}
}

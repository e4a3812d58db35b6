package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"imagegate/backend/internal/domain"
	"imagegate/backend/internal/monitoring"
)

// Options 下游客户端配置
type Options struct {
	Provider   string        // 下游服务名，用于指标标签
	BaseURL    string        // 形如 https://api.example.com
	UserAgent  string        // 请求未指定 User-Agent 时使用
	RateLimit  float64       // 每秒请求数上限，0 表示不限制
	RateBurst  int           // 突发容量
	HTTPClient *http.Client  // 为空时使用默认客户端
	Metrics    *monitoring.Metrics
}

// Client 发送 JSON 请求并解码 JSON 响应的下游客户端。
//
// 不做重试，超时沿用平台默认值。
type Client struct {
	provider   string
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *monitoring.Metrics
}

// New 创建下游客户端
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &Client{
		provider:   opts.Provider,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		httpClient: httpClient,
		limiter:    limiter,
		metrics:    opts.Metrics,
	}
}

// BaseURL 返回客户端绑定的基础地址
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PostJSON 序列化 body 后 POST 到 path，并将 JSON 响应解码到 out
func (c *Client) PostJSON(ctx context.Context, path string, body any, headers map[string]string, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: marshal request: %v", domain.ErrTransport, err)
	}
	return c.doJSON(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload), headers, out)
}

// GetJSON GET path，并将 JSON 响应解码到 out
func (c *Client) GetJSON(ctx context.Context, path string, headers map[string]string, out any) error {
	return c.doJSON(ctx, http.MethodGet, c.baseURL+path, nil, headers, out)
}

// Fetch 对绝对地址发起 GET 请求并丢弃响应体
func (c *Client) Fetch(ctx context.Context, rawURL string, headers map[string]string) error {
	start := time.Now()
	resp, err := c.send(ctx, http.MethodGet, rawURL, nil, headers)
	if err == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if err != nil {
			err = fmt.Errorf("%w: read body: %v", domain.ErrTransport, err)
		}
	}
	c.record(err, start)
	return err
}

func (c *Client) doJSON(ctx context.Context, method, rawURL string, body io.Reader, headers map[string]string, out any) error {
	start := time.Now()
	err := c.roundTrip(ctx, method, rawURL, body, headers, out)
	c.record(err, start)
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, rawURL string, body io.Reader, headers map[string]string, out any) error {
	resp, err := c.send(ctx, method, rawURL, body, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", domain.ErrTransport, err)
	}

	// 状态码不做判断，仅要求响应体为 JSON
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode %s %s (HTTP %d): %v", domain.ErrTransport, method, redact(rawURL), resp.StatusCode, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, rawURL string, body io.Reader, headers map[string]string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limit wait: %v", domain.ErrTransport, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrTransport, err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("User-Agent") == "" && c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrTransport, method, redact(rawURL), err)
	}
	return resp, nil
}

func (c *Client) record(err error, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordUpstream(c.provider, err, time.Since(start))
	}
}

// redact 去掉查询参数，避免令牌进入日志
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid url>"
	}
	u.RawQuery = ""
	return u.String()
}

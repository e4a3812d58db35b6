package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 监控指标
type Metrics struct {
	registry *prometheus.Registry

	// HTTP 请求指标
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// 下游服务调用指标
	UpstreamDuration *prometheus.HistogramVec

	// 令牌获取指标
	TokensAcquired prometheus.Counter
	TokensFailed   prometheus.Counter
	InboxPolls     prometheus.Counter

	// 生成任务指标
	GenerationsTotal *prometheus.CounterVec
	OrderPolls       prometheus.Counter

	// 错误指标
	PanicsTotal prometheus.Counter
}

// NewMetrics 创建监控指标，注册到独立的注册表
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imagegate_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "imagegate_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.01, 0.1, 1, 5, 15, 30, 60, 120, 180},
			},
			[]string{"method", "endpoint"},
		),

		UpstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "imagegate_upstream_request_duration_seconds",
				Help:    "Outbound request duration by provider and outcome",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "outcome"},
		),

		TokensAcquired: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "imagegate_tokens_acquired_total",
				Help: "Total number of access tokens acquired through magic links",
			},
		),

		TokensFailed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "imagegate_tokens_failed_total",
				Help: "Total number of failed token acquisitions",
			},
		),

		InboxPolls: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "imagegate_inbox_polls_total",
				Help: "Total number of disposable inbox poll attempts",
			},
		),

		GenerationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imagegate_generations_total",
				Help: "Total number of generation requests by result",
			},
			[]string{"result"},
		),

		OrderPolls: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "imagegate_order_polls_total",
				Help: "Total number of order status poll attempts",
			},
		),

		PanicsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "imagegate_panics_total",
				Help: "Total number of recovered panics",
			},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordUpstream 记录一次下游调用
func (m *Metrics) RecordUpstream(provider string, err error, duration time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.UpstreamDuration.WithLabelValues(provider, outcome).Observe(duration.Seconds())
}

// RecordTokenAcquired 记录令牌获取成功
func (m *Metrics) RecordTokenAcquired() {
	m.TokensAcquired.Inc()
}

// RecordTokenFailed 记录令牌获取失败
func (m *Metrics) RecordTokenFailed() {
	m.TokensFailed.Inc()
}

// RecordInboxPoll 记录一次收件箱轮询
func (m *Metrics) RecordInboxPoll() {
	m.InboxPolls.Inc()
}

// RecordOrderPoll 记录一次订单状态轮询
func (m *Metrics) RecordOrderPoll() {
	m.OrderPolls.Inc()
}

// RecordGeneration 记录生成请求结果
func (m *Metrics) RecordGeneration(result string) {
	m.GenerationsTotal.WithLabelValues(result).Inc()
}

// RecordPanic 记录 panic
func (m *Metrics) RecordPanic() {
	m.PanicsTotal.Inc()
}

// Registry 返回底层注册表
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// HTTPHandler 返回 Prometheus HTTP 处理器
func (m *Metrics) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

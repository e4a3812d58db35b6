package health

import (
	"net/http"
	"net/url"
	"time"

	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	// 超过该数量说明有大量请求卡在轮询中
	maxGoroutines = 2000
	dnsTimeout    = 2 * time.Second
)

// Upstream 需要在就绪检查中解析的下游服务
type Upstream struct {
	Name    string
	BaseURL string
}

// Checker 健康检查器
type Checker struct {
	handler healthcheck.Handler
	logger  *zap.Logger
}

// NewChecker 创建健康检查器，检查结果同时导出到 Prometheus
func NewChecker(registry prometheus.Registerer, upstreams []Upstream, logger *zap.Logger) *Checker {
	c := &Checker{
		handler: healthcheck.NewMetricsHandler(registry, "imagegate"),
		logger:  logger,
	}

	c.handler.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(maxGoroutines))

	for _, up := range upstreams {
		u, err := url.Parse(up.BaseURL)
		if err != nil || u.Hostname() == "" {
			logger.Warn("skipping readiness check for upstream", zap.String("upstream", up.Name), zap.Error(err))
			continue
		}
		c.handler.AddReadinessCheck(up.Name+"-dns", healthcheck.DNSResolveCheck(u.Hostname(), dnsTimeout))
	}

	return c
}

// LiveEndpoint 存活检查
func (c *Checker) LiveEndpoint(w http.ResponseWriter, r *http.Request) {
	c.handler.LiveEndpoint(w, r)
}

// ReadyEndpoint 就绪检查（包含存活检查）
func (c *Checker) ReadyEndpoint(w http.ResponseWriter, r *http.Request) {
	c.handler.ReadyEndpoint(w, r)
}

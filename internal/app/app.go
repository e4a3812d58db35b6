package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"imagegate/backend/internal/config"
	"imagegate/backend/internal/health"
	"imagegate/backend/internal/monitoring"
	"imagegate/backend/internal/poll"
	"imagegate/backend/internal/provider/magiclink"
	"imagegate/backend/internal/provider/mail"
	"imagegate/backend/internal/provider/studio"
	"imagegate/backend/internal/service"
	"imagegate/backend/internal/transport/client"
	httptransport "imagegate/backend/internal/transport/http"
)

// App 装配好的服务
type App struct {
	Router     *gin.Engine
	Metrics    *monitoring.Metrics
	Tokens     *service.TokenService
	Generation *service.GenerationService
}

// New 按配置装配下游客户端、业务服务和 HTTP 路由
//
// httpClient 为空时使用默认客户端。
func New(cfg *config.Config, log *zap.Logger, httpClient *http.Client) *App {
	metrics := monitoring.NewMetrics()

	newClient := func(provider, baseURL string) *client.Client {
		return client.New(client.Options{
			Provider:   provider,
			BaseURL:    baseURL,
			UserAgent:  cfg.HTTP.UserAgent,
			RateLimit:  cfg.HTTP.RateLimit,
			RateBurst:  cfg.HTTP.RateBurst,
			HTTPClient: httpClient,
			Metrics:    metrics,
		})
	}

	mailClient := mail.NewClient(newClient("mail", cfg.Mail.BaseURL))
	linkClient := magiclink.NewClient(newClient("auth", cfg.Auth.BaseURL), magiclink.Settings{
		SiteURL:     cfg.Auth.SiteURL,
		PackageID:   cfg.Auth.PackageID,
		Country:     cfg.Auth.Country,
		CountryCode: cfg.Auth.CountryCode,
		UserAgent:   cfg.HTTP.UserAgent,
	}, log.Named("magiclink"))
	studioClient := studio.NewClient(newClient("studio", cfg.Studio.BaseURL))

	tokens := service.NewTokenService(mailClient, linkClient, poll.Policy{
		Interval:    cfg.Poll.EmailInterval,
		MaxAttempts: cfg.Poll.EmailAttempts,
	}, metrics, log.Named("token"))

	generation := service.NewGenerationService(tokens, studioClient, studio.HeaderSettings{
		Origin:      cfg.Studio.Origin,
		CountryCode: cfg.Studio.CountryCode,
		ClientIP:    cfg.Studio.ClientIP,
		Platform:    cfg.Studio.Platform,
		UserAgent:   cfg.HTTP.UserAgent,
	}, poll.Policy{
		Interval:    cfg.Poll.OrderInterval,
		MaxAttempts: cfg.Poll.OrderAttempts,
	}, metrics, log.Named("generation"))

	checker := health.NewChecker(metrics.Registry(), []health.Upstream{
		{Name: "mail", BaseURL: cfg.Mail.BaseURL},
		{Name: "auth", BaseURL: cfg.Auth.BaseURL},
		{Name: "studio", BaseURL: cfg.Studio.BaseURL},
	}, log.Named("health"))

	router := httptransport.NewRouter(httptransport.RouterDependencies{
		Config:    cfg,
		Generator: generation,
		Metrics:   metrics,
		Health:    checker,
		Logger:    log.Named("http"),
	})

	return &App{
		Router:     router,
		Metrics:    metrics,
		Tokens:     tokens,
		Generation: generation,
	}
}

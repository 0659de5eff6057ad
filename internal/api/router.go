// Package api — HTTP API дашборда (gin).
package api

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"serotonyl.ru/income-bot/internal/config"
	"serotonyl.ru/income-bot/internal/features/admin"
	"serotonyl.ru/income-bot/internal/features/earnings"
	"serotonyl.ru/income-bot/internal/schema"
)

// StatsReader — текущая строка bot_stats. Реализуется *stats.Service.
type StatsReader interface {
	Current(ctx context.Context) (*schema.BotStats, error)
}

// EarningsService реализуется *earnings.Service.
type EarningsService interface {
	Record(ctx context.Context, in schema.InsertEarning) (*schema.Earning, error)
	Recent(ctx context.Context, limit int) ([]*schema.Earning, error)
	Summary(ctx context.Context, since time.Time) (*earnings.Summary, error)
}

// ActivityReader реализуется *activity.Service.
type ActivityReader interface {
	Recent(ctx context.Context, limit int) ([]*schema.BotActivity, error)
	CountByType(ctx context.Context, since time.Time) (map[string]int64, error)
}

// IncomeLister реализуется *income.Service.
type IncomeLister interface {
	List(ctx context.Context) ([]*schema.IncomeConfig, error)
}

// SessionChecker проверяет токен админа. Реализуется *admin.Service.
type SessionChecker interface {
	SessionByToken(token string) (*admin.Session, error)
}

// Deps — сервисы, которые читает и пишет API.
type Deps struct {
	Stats    StatsReader
	Earnings EarningsService
	Activity ActivityReader
	Income   IncomeLister
	Sessions SessionChecker
}

// NewRouter собирает gin.Engine со всеми маршрутами.
func NewRouter(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(requestLogger(), gin.Recovery())
	// Без разрешённых источников CORS не нужен: дашборд ходит с того же адреса
	if len(cfg.DashboardAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.DashboardAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	h := &handlers{deps: deps}

	r.GET("/healthz", h.health)

	api := r.Group("/api")
	{
		api.GET("/stats", h.stats)
		api.GET("/earnings", h.listEarnings)
		api.GET("/earnings/summary", h.earningsSummary)
		api.GET("/activity", h.listActivity)
		api.GET("/activity/summary", h.activitySummary)
		api.GET("/income-config", h.listIncomeConfig)

		secured := api.Group("", requireAdmin(deps.Sessions))
		secured.POST("/earnings", h.createEarning)
	}
	return r
}

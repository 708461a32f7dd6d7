package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/middleware"
)

const (
	StatusOk        = "ok"
	StatusDown      = "down"
	healthPingLimit = 2 * time.Second
)

// Pinger is a backing service the health report checks.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

type HealthBasic struct {
	AppName           string `json:"app_name"`
	AppVersion        string `json:"app_version"`
	CurrentSystemTime string `json:"current_system_time"`
	Message           string `json:"message"`
}

type HealthServices struct {
	Mysql string `json:"mysql,omitempty"`
	Redis string `json:"redis,omitempty"`
}

type HealthAdvanced struct {
	AppName           string         `json:"app_name"`
	AppVersion        string         `json:"app_version"`
	CurrentSystemTime string         `json:"current_system_time"`
	Language          string         `json:"language"`
	Status            HealthServices `json:"status"`
}

type HealthHandler struct {
	appName    string
	appVersion string
	mysql      Pinger
	redis      Pinger
}

// NewHealthHandler reports on the given services; a nil Pinger means the
// service is not in use and is left out of the report.
func NewHealthHandler(appName, appVersion string, mysql, redis Pinger) *HealthHandler {
	if appVersion == "" {
		appVersion = "dev"
	}
	return &HealthHandler{appName: appName, appVersion: appVersion, mysql: mysql, redis: redis}
}

func (h *HealthHandler) CheckHealth(c *gin.Context) {
	services := h.checkServices(c.Request.Context())
	statusCode := http.StatusOK
	message := StatusOk
	if services.Mysql == StatusDown || services.Redis == StatusDown {
		statusCode = http.StatusInternalServerError
		message = StatusDown
	}

	c.JSON(statusCode, HealthBasic{
		AppName:           h.appName,
		AppVersion:        h.appVersion,
		CurrentSystemTime: time.Now().Format("2006-01-02 15:04:05"),
		Message:           message,
	})
}

func (h *HealthHandler) CheckHealthReport(c *gin.Context) {
	c.JSON(http.StatusOK, HealthAdvanced{
		AppName:           h.appName,
		AppVersion:        h.appVersion,
		CurrentSystemTime: time.Now().Format("2006-01-02 15:04:05"),
		Language:          middleware.GetLang(c),
		Status:            h.checkServices(c.Request.Context()),
	})
}

func (h *HealthHandler) checkServices(ctx context.Context) HealthServices {
	return HealthServices{
		Mysql: ping(ctx, h.mysql),
		Redis: ping(ctx, h.redis),
	}
}

func ping(ctx context.Context, p Pinger) string {
	if p == nil {
		return ""
	}
	// Avoid hanging health checks if a backing service stalls.
	timeoutCtx, cancel := context.WithTimeout(ctx, healthPingLimit)
	defer cancel()
	if p.PingContext(timeoutCtx) != nil {
		return StatusDown
	}
	return StatusOk
}

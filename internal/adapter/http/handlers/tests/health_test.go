package tests

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/handlers"
	"github.com/philipp-moriss/volunteers-backend/internal/adapter/http/middleware"
	"github.com/philipp-moriss/volunteers-backend/pkg/translator"
)

func healthy(context.Context) error { return nil }

func failing(context.Context) error { return errors.New("connection refused") }

func newHealthRouter(handler *handlers.HealthHandler) *gin.Engine {
	router := gin.New()
	router.GET("/api/health", middleware.LanguageMiddleware(), handler.CheckHealth)
	router.GET("/api/health/report", middleware.LanguageMiddleware(), handler.CheckHealthReport)
	return router
}

func TestHealthHandler_CheckHealth(t *testing.T) {
	handler := handlers.NewHealthHandler("volunteers-backend", "", handlers.PingFunc(healthy), nil)

	rec := doRequest(newHealthRouter(handler), http.MethodGet, "/api/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got handlers.HealthBasic
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, handlers.StatusOk, got.Message)
	require.Equal(t, "dev", got.AppVersion)
	require.Equal(t, "volunteers-backend", got.AppName)
}

func TestHealthHandler_CheckHealth_Down(t *testing.T) {
	handler := handlers.NewHealthHandler("volunteers-backend", "1.0.0", handlers.PingFunc(healthy), handlers.PingFunc(failing))

	rec := doRequest(newHealthRouter(handler), http.MethodGet, "/api/health", "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var got handlers.HealthBasic
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, handlers.StatusDown, got.Message)
}

func TestHealthHandler_CheckHealthReport(t *testing.T) {
	handler := handlers.NewHealthHandler("volunteers-backend", "1.0.0", handlers.PingFunc(failing), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health/report", nil)
	req.Header.Set("Accept-Language", translator.LanguageRu)
	rec := httptest.NewRecorder()
	newHealthRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got handlers.HealthAdvanced
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, translator.LanguageRu, got.Language)
	require.Equal(t, handlers.StatusDown, got.Status.Mysql)
	require.Empty(t, got.Status.Redis)
}

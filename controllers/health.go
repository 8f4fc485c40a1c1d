package controllers

import (
	"ERPAuth/database"
	"ERPAuth/utils/response"
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type RedisInterface interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type HealthController struct {
	pingDB func() error
	redis  RedisInterface
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

func NewHealthController(db *gorm.DB, redis RedisInterface) *HealthController {
	return &HealthController{
		pingDB: func() error { return database.Ping(db) },
		redis:  redis,
	}
}

func (h *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	services := make(map[string]string)
	overallStatus := "healthy"

	if err := h.pingDB(); err != nil {
		services["database"] = "error: " + err.Error()
		overallStatus = "unhealthy"
	} else {
		services["database"] = "healthy"
	}

	if err := h.redis.Ping(ctx).Err(); err != nil {
		services["redis"] = "error: " + err.Error()
		overallStatus = "unhealthy"
	} else {
		services["redis"] = "healthy"
	}

	status := http.StatusOK
	if overallStatus != "healthy" {
		status = http.StatusServiceUnavailable
	}
	response.JSONResponse(w, HealthResponse{
		Status:    overallStatus,
		Timestamp: time.Now(),
		Services:  services,
	}, status)
}

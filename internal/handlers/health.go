package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// DBPool - минимальный интерфейс пула соединений, нужный health check-у
// (абстракция для тестирования)
type DBPool interface {
	Ping(ctx context.Context) error
}

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	db DBPool
}

func NewHealthHandler(db DBPool) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthCheckResponse структура ответа health check
type HealthCheckResponse struct {
	Status   string `json:"status"`   // "healthy" или "unhealthy"
	Database string `json:"database"` // "connected" или "disconnected"
}

// HealthCheck проверяет доступность базы данных и возвращает статус сервера.
// Генерация расписания без хранилища невозможна, поэтому недоступная база -
// это 503 для всего сервиса.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	const pingTimeout = 5 * time.Second

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	if elapsed := time.Since(start); elapsed > time.Second {
		log.Warn().Dur("elapsed", elapsed).Msg("Slow database health check")
	}

	w.Header().Set("Content-Type", "application/json")

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			log.Error().Dur("timeout", pingTimeout).Msg("Database health check timed out")
		} else {
			log.Warn().Err(err).Msg("Database health check failed")
		}

		w.WriteHeader(http.StatusServiceUnavailable)
		if err := json.NewEncoder(w).Encode(HealthCheckResponse{
			Status:   "unhealthy",
			Database: "disconnected",
		}); err != nil {
			log.Error().Err(err).Msg("Failed to encode health check response")
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(HealthCheckResponse{
		Status:   "healthy",
		Database: "connected",
	}); err != nil {
		log.Error().Err(err).Msg("Failed to encode health check response")
	}
}

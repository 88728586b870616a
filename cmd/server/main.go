package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"schedule-engine/internal/config"
	"schedule-engine/internal/database"
	"schedule-engine/internal/engine"
	"schedule-engine/internal/handlers"
	"schedule-engine/internal/middleware"
	"schedule-engine/internal/repository"
	"schedule-engine/pkg/logger"
	"schedule-engine/pkg/metrics"
)

// loadEnvFile загружает переменные окружения из .env файла
func loadEnvFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		// Отсутствие файла не критично - используем переменные окружения системы
		if os.IsNotExist(err) {
			log.Warn().Str("file", filename).Msg(".env file not found, using system environment variables")
			return nil
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Пропускаем пустые строки и комментарии
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		// Разбираем строку вида KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Не перезаписываем переменные окружения, которые уже установлены
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}

	return scanner.Err()
}

func main() {
	if err := loadEnvFile(".env"); err != nil {
		log.Warn().Err(err).Msg("Failed to load .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Setup(cfg.Server.Env)

	log.Info().
		Str("env", cfg.Server.Env).
		Str("port", cfg.Server.Port).
		Str("config", cfg.String()).
		Msg("Starting schedule engine server")

	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	// База закрывается в последней фазе graceful shutdown, после остановки
	// всех горутин - поэтому без defer здесь

	if err := runServer(cfg, db); err != nil {
		log.Error().Err(err).Msg("Server initialization failed, cleaning up resources")
		if closeErr := db.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Error closing database during error cleanup")
		}
		log.Fatal().Err(err).Msg("Fatal initialization error")
	}
}

// newRouter собирает HTTP-маршруты сервиса: health check, Prometheus-метрики
// и единственную доменную операцию - запуск генерации расписания.
func newRouter(healthHandler *handlers.HealthHandler, scheduleHandler *handlers.ScheduleHandler, generateLimiter *middleware.IPRateLimiter) chi.Router {
	r := chi.NewRouter()

	// Порядок имеет значение: request id и real ip должны стоять раньше
	// логирования, recovery - снаружи всего остального
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.MetricsMiddleware)

	r.Get("/health", healthHandler.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Генерация перестраивает расписание целиком и держит транзакцию на
		// всё время решения - rate limit защищает базу от шквала запусков
		r.With(middleware.RateLimitMiddleware(generateLimiter)).
			Post("/schedule/generate", scheduleHandler.Generate)
	})

	return r
}

// runServer доводит инициализацию до конца и блокируется до сигнала
// завершения. Возвращает ошибку вместо log.Fatal, чтобы main мог закрыть
// базу перед выходом.
func runServer(cfg *config.Config, db *database.DB) error {
	log.Info().Msg("Database connected successfully")

	// Фоновая проверка здоровья базы и сбор метрик пула соединений
	healthCheckCtx, cancelHealthCheck := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		failureCount := 0
		const healthCheckTimeout = 5 * time.Second

		for {
			select {
			case <-healthCheckCtx.Done():
				log.Debug().Msg("Health check goroutine shutting down")
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(healthCheckCtx, healthCheckTimeout)
				err := db.Pool.Ping(ctx)
				cancel()

				if healthCheckCtx.Err() != nil {
					return
				}

				if err != nil {
					failureCount++
					log.Warn().Err(err).Int("failure_count", failureCount).Msg("Database health check failed")
					metrics.DBErrorsTotal.Inc()

					if failureCount >= 3 {
						log.Fatal().Msg("Database connection lost after 3 consecutive failures, shutting down")
					}
				} else {
					if failureCount > 0 {
						log.Info().Int("previous_failures", failureCount).Msg("Database health check recovered")
					}
					failureCount = 0
				}

				stats := db.Pool.Stat()
				metrics.DBConnectionsActive.Set(float64(stats.AcquiredConns()))
				metrics.DBConnectionsIdle.Set(float64(stats.IdleConns()))
			}
		}
	}()

	// Хранилище и движок генерации
	store := repository.NewStore(db)

	engineCfg := engine.DefaultSchedulerConfig()
	engineCfg.SolverTimeBudget = cfg.Scheduler.SolverTimeBudget

	// Handlers и rate limiter
	healthHandler := handlers.NewHealthHandler(db.Pool)
	scheduleHandler := handlers.NewScheduleHandler(store, engineCfg, nil)
	generateLimiter := middleware.GenerateRateLimiter()

	r := newRouter(healthHandler, scheduleHandler, generateLimiter)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
		// Решатель может работать до минуты - WriteTimeout должен покрывать
		// бюджет решателя с запасом
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Scheduler.SolverTimeBudget + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	// Короткое окно на обнаружение мгновенных ошибок запуска (занятый порт)
	select {
	case err := <-serverErrChan:
		cancelHealthCheck()
		generateLimiter.Stop()
		return fmt.Errorf("server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server is shutting down")

	// Последовательность graceful shutdown:
	// 1. HTTP-сервер перестаёт принимать запросы; текущая генерация
	//    дорабатывает в пределах таймаута
	// 2. Останавливаются фоновые горутины, использующие базу
	// 3. Пауза, чтобы горутины заметили отмену контекста
	// 4. Закрывается база - после этого к ней никто не обращается

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Scheduler.SolverTimeBudget+30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	cancelHealthCheck()
	generateLimiter.Stop()

	time.Sleep(200 * time.Millisecond)

	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing database")
	}

	log.Info().Msg("Server shutdown complete")
	return nil
}

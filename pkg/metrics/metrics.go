package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	// Счетчик всех HTTP запросов с метками метода, маршрута и статуса
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// Гистограмма времени обработки HTTP запросов (для расчета перцентилей)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Generation metrics
	// Счетчик запусков генерации расписания по исходу
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_generations_total",
			Help: "Total number of schedule generation runs",
		},
		[]string{"outcome"}, // "ok", "infeasible", "time_limit", "invalid_input", "error"
	)

	// Гистограмма полного времени генерации: от чтения предметов до коммита.
	// Верхние bucket'ы растянуты под бюджет решателя (по умолчанию 60 секунд)
	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "schedule_generation_duration_seconds",
			Help:    "Wall-clock duration of a full schedule generation run",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// Счетчик исходов решателя
	SolverStatusTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solver_status_total",
			Help: "Total solver invocations by returned status",
		},
		[]string{"status"}, // "optimal", "feasible", "infeasible", "time_limit"
	)

	// Gauge числа секций, инстанцированных последним успешным запуском
	SectionsPlanned = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "schedule_sections_planned",
			Help: "Number of sections instantiated by the last successful generation",
		},
	)

	// Gauge числа строк назначений, записанных последним успешным запуском
	AssignmentsPersisted = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "schedule_assignments_persisted",
			Help: "Number of assignment rows written by the last successful generation",
		},
	)

	// Database metrics
	// Gauge для активных подключений к базе данных
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// Gauge для idle подключений к базе данных
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	// Счетчик ошибок базы данных
	DBErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_errors_total",
			Help: "Total number of database errors",
		},
	)
)

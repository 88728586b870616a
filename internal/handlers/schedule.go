package handlers

import (
	"errors"
	"net/http"
	"time"

	"schedule-engine/internal/engine"
	"schedule-engine/pkg/metrics"
	"schedule-engine/pkg/response"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// ScheduleHandler обрабатывает запросы генерации расписания
type ScheduleHandler struct {
	store  engine.Store
	cfg    engine.SchedulerConfig
	solver engine.Solver
}

// NewScheduleHandler создаёт handler генерации. solver == nil означает
// решатель по умолчанию (engine.NewCompositeSolver)
func NewScheduleHandler(store engine.Store, cfg engine.SchedulerConfig, solver engine.Solver) *ScheduleHandler {
	return &ScheduleHandler{store: store, cfg: cfg, solver: solver}
}

// GenerateResponse - тело успешного ответа генерации
type GenerateResponse struct {
	Message     string `json:"message"`
	Sections    int    `json:"sections"`
	Assignments int    `json:"assignments"`
}

// Generate запускает полный цикл генерации: инстанцирование спроса,
// пре-валидацию, построение и решение модели, запись назначений. Весь цикл
// выполняется синхронно внутри запроса; ошибки входных данных и решателя
// возвращаются клиенту как 400 с диагностикой, всё прочее - как 500 с общим
// сообщением.
func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := chiMiddleware.GetReqID(r.Context())

	result, err := engine.GenerateSchedule(r.Context(), h.store, h.cfg, h.solver)
	elapsed := time.Since(start)
	metrics.GenerationDuration.Observe(elapsed.Seconds())

	if err != nil {
		h.respondError(w, requestID, elapsed, err)
		return
	}

	metrics.GenerationsTotal.WithLabelValues("ok").Inc()
	metrics.SolverStatusTotal.WithLabelValues(solverStatusLabel(result.Status)).Inc()
	metrics.SectionsPlanned.Set(float64(result.SectionCount))
	metrics.AssignmentsPersisted.Set(float64(result.AssignmentCount))

	log.Info().
		Str("request_id", requestID).
		Int("sections", result.SectionCount).
		Int("assignments", result.AssignmentCount).
		Dur("elapsed", elapsed).
		Msg("Schedule generated")

	response.OK(w, GenerateResponse{
		Message:     result.Message(),
		Sections:    result.SectionCount,
		Assignments: result.AssignmentCount,
	})
}

func (h *ScheduleHandler) respondError(w http.ResponseWriter, requestID string, elapsed time.Duration, err error) {
	switch {
	case errors.Is(err, engine.ErrInfeasible):
		metrics.GenerationsTotal.WithLabelValues("infeasible").Inc()
		metrics.SolverStatusTotal.WithLabelValues("infeasible").Inc()
		log.Warn().Str("request_id", requestID).Dur("elapsed", elapsed).Msg("Schedule generation infeasible")
		response.BadRequest(w, response.ErrCodeInfeasible, err.Error())

	case errors.Is(err, engine.ErrTimeLimit):
		metrics.GenerationsTotal.WithLabelValues("time_limit").Inc()
		metrics.SolverStatusTotal.WithLabelValues("time_limit").Inc()
		log.Warn().Str("request_id", requestID).Dur("elapsed", elapsed).Msg("Schedule generation hit solver time budget")
		response.BadRequest(w, response.ErrCodeTimeLimit, err.Error())

	case engine.IsKnownFailure(err):
		metrics.GenerationsTotal.WithLabelValues("invalid_input").Inc()
		log.Warn().Str("request_id", requestID).Err(err).Msg("Schedule generation rejected input")
		response.BadRequest(w, response.ErrCodeValidationFailed, err.Error())

	default:
		metrics.GenerationsTotal.WithLabelValues("error").Inc()
		var internal *engine.InternalError
		if errors.As(err, &internal) {
			log.Error().
				Str("request_id", requestID).
				Str("detail", internal.Detail).
				AnErr("cause", internal.Cause).
				Msg("Schedule generation failed")
		} else {
			log.Error().Str("request_id", requestID).Err(err).Msg("Schedule generation failed")
		}
		response.InternalError(w, "внутренняя ошибка генерации расписания")
	}
}

func solverStatusLabel(status engine.Status) string {
	switch status {
	case engine.StatusOptimal:
		return "optimal"
	case engine.StatusFeasible:
		return "feasible"
	case engine.StatusInfeasible:
		return "infeasible"
	case engine.StatusTimeLimit:
		return "time_limit"
	default:
		return "unknown"
	}
}

package logger

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup инициализирует глобальный логгер в зависимости от окружения
func Setup(env string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if env == "development" {
		// Pretty console output для локальной разработки
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		// JSON output для production
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// With возвращает глобальный логгер для использования в коде
func With() zerolog.Logger {
	return log.Logger
}

// Component возвращает логгер с меткой компонента; движок генерации логирует
// все свои этапы под одним компонентом "engine", этап указан в сообщении
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}

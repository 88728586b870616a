package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config содержит всю конфигурацию приложения.
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Scheduler SchedulerConfig
}

// DatabaseConfig содержит конфигурацию подключения к базе данных.
type DatabaseConfig struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// ServerConfig содержит конфигурацию HTTP-сервера.
type ServerConfig struct {
	Port string
	Env  string // development, production
}

// SchedulerConfig содержит параметры движка генерации расписания,
// выставляемые наружу этого сервиса: решатель получает их как значения, а
// не литералы. Тонкая настройка весов и ярусов часов остаётся в
// engine.DefaultSchedulerConfig(); здесь настраивается только то, что
// разумно менять из окружения без пересборки бинаря.
type SchedulerConfig struct {
	// SolverTimeBudget - бюджет решателя по времени. По умолчанию 60s.
	SolverTimeBudget time.Duration
}

// Load загружает конфигурацию из переменных окружения.
func Load() (*Config, error) {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("некорректный DB_PORT: %w", err)
	}

	solverBudgetSeconds, err := strconv.Atoi(getEnv("SOLVER_TIME_BUDGET_SECONDS", "60"))
	if err != nil {
		return nil, fmt.Errorf("некорректный SOLVER_TIME_BUDGET_SECONDS: %w", err)
	}

	env := getEnv("ENV", "development")

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			Name:     getEnv("DB_NAME", "schedule_engine"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			SSLMode:  getEnv("DB_SSL_MODE", "require"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  env,
		},
		Scheduler: SchedulerConfig{
			SolverTimeBudget: time.Duration(solverBudgetSeconds) * time.Second,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("некорректная конфигурация: %w", err)
	}

	return cfg, nil
}

// Validate выполняет валидацию конфигурации.
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST обязателен")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME обязательно")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER обязателен")
	}

	if c.IsProduction() && c.Database.Password == "" {
		return fmt.Errorf("CRITICAL SECURITY: DB_PASSWORD must not be empty in production. Empty password allows unauthorized database access")
	}

	if c.IsDevelopment() {
		if c.Database.Host != "localhost" && c.Database.Host != "127.0.0.1" && c.Database.Host != "postgres" {
			return fmt.Errorf("SAFETY: Cannot connect to remote database %s in development mode. Use localhost or Docker service name only", c.Database.Host)
		}
	}

	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT обязателен")
	}

	if c.Scheduler.SolverTimeBudget <= 0 {
		return fmt.Errorf("SOLVER_TIME_BUDGET_SECONDS должен быть больше 0")
	}

	return nil
}

// GetDSN возвращает строку подключения PostgreSQL.
func (c *DatabaseConfig) GetDSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Name, c.SSLMode,
	)
	if c.Password != "" {
		dsn = fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
		)
	}
	return dsn
}

// IsProduction возвращает true, если окружение - продакшен.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// IsDevelopment возвращает true, если окружение - разработка.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// String возвращает строковое представление конфигурации с маскировкой секретов.
func (c *Config) String() string {
	maskSecret := func(secret string) string {
		if secret == "" {
			return "<not set>"
		}
		return "***"
	}

	return fmt.Sprintf(
		"Config{Database:{Host:%s Port:%d Name:%s User:%s Password:%s SSLMode:%s} "+
			"Server:{Port:%s Env:%s} Scheduler:{SolverTimeBudget:%v}}",
		c.Database.Host, c.Database.Port, c.Database.Name, c.Database.User,
		maskSecret(c.Database.Password), c.Database.SSLMode,
		c.Server.Port, c.Server.Env, c.Scheduler.SolverTimeBudget,
	)
}

// getEnv получает переменную окружения или возвращает значение по умолчанию.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

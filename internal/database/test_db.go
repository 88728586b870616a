package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"schedule-engine/internal/config"
)

// schema - DDL for the five domain entities, created once per test process.
// The service carries no migration tooling; tests bootstrap the schema inline.
const schema = `
CREATE TABLE IF NOT EXISTS subjects (
	id               UUID PRIMARY KEY,
	name             TEXT NOT NULL,
	level            TEXT NOT NULL,
	demand_descriptor JSONB NOT NULL DEFAULT '{}',
	UNIQUE (name, level)
);

CREATE TABLE IF NOT EXISTS teachers (
	id              UUID PRIMARY KEY,
	name            TEXT NOT NULL UNIQUE,
	max_hours_week  INT NOT NULL,
	max_hours_day   INT NOT NULL
);

CREATE TABLE IF NOT EXISTS competences (
	teacher_id UUID NOT NULL REFERENCES teachers(id) ON DELETE CASCADE,
	subject_id UUID NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
	PRIMARY KEY (teacher_id, subject_id)
);

CREATE TABLE IF NOT EXISTS sections (
	label      TEXT NOT NULL,
	subject_id UUID NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
	shift      TEXT NOT NULL,
	modality   TEXT NOT NULL,
	start_hour INT NOT NULL,
	PRIMARY KEY (label, subject_id)
);

CREATE TABLE IF NOT EXISTS assignments (
	id            UUID PRIMARY KEY,
	day           INT NOT NULL,
	start_hour    INT NOT NULL,
	end_hour      INT NOT NULL,
	teacher_id    UUID NOT NULL REFERENCES teachers(id) ON DELETE CASCADE,
	subject_id    UUID NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
	section_label TEXT NOT NULL
);
`

var (
	testPool     *pgxpool.Pool
	testDB       *sqlx.DB
	testOnce     sync.Once
	testMu       sync.Mutex
	schemaOnce   sync.Once
	schemaErr    error
	testDatabase = "schedule_engine_test"
)

// init validates that test and production database names are different;
// this prevents accidental truncation of a production database during tests.
func init() {
	prodDBName := os.Getenv("DB_NAME")
	if prodDBName == "" {
		prodDBName = "schedule_engine"
	}
	if testDatabase == prodDBName {
		log.Fatalf("CRITICAL SAFETY VIOLATION: test database name equals production ('%s')", prodDBName)
	}
}

func testDBConfig() *config.DatabaseConfig {
	password := os.Getenv("DB_PASSWORD")
	if password == "" {
		password = "postgres"
	}
	return &config.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: password,
		Name:     testDatabase,
		SSLMode:  "disable",
	}
}

// GetTestPool returns the shared PostgreSQL connection pool for tests.
func GetTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	var err error
	testOnce.Do(func() {
		cfg := testDBConfig()
		poolConfig, poolErr := pgxpool.ParseConfig(cfg.GetDSN())
		if poolErr != nil {
			err = fmt.Errorf("unable to parse test database config: %w", poolErr)
			return
		}
		poolConfig.MaxConns = 10
		poolConfig.MinConns = 2
		poolConfig.MaxConnLifetime = 30 * time.Minute
		poolConfig.MaxConnIdleTime = 10 * time.Minute

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		testPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			err = fmt.Errorf("unable to create test connection pool: %w", err)
			return
		}
		if pingErr := testPool.Ping(ctx); pingErr != nil {
			testPool.Close()
			testPool = nil
			err = fmt.Errorf("unable to ping test database: %w", pingErr)
		}
	})

	if err != nil {
		t.Fatalf("failed to initialize test pool: %v", err)
	}
	return testPool
}

// GetTestSqlxDB returns the shared sqlx.DB for tests, ensuring the schema
// exists before first use.
func GetTestSqlxDB(t *testing.T) *sqlx.DB {
	t.Helper()

	if testDB != nil {
		return testDB
	}

	testMu.Lock()
	defer testMu.Unlock()

	if testDB != nil {
		return testDB
	}

	cfg := testDBConfig()
	var err error
	testDB, err = sqlx.Connect("pgx", cfg.GetDSN())
	if err != nil {
		t.Fatalf("failed to create test sqlx.DB: %v", err)
	}
	testDB.SetMaxOpenConns(10)
	testDB.SetMaxIdleConns(2)

	schemaOnce.Do(func() {
		_, schemaErr = testDB.Exec(schema)
	})
	if schemaErr != nil {
		t.Fatalf("failed to apply test schema: %v", schemaErr)
	}

	return testDB
}

// SafeGetTestPool returns a test pool, verifying it is not the production database.
func SafeGetTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool := GetTestPool(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var currentDB string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&currentDB); err != nil {
		t.Fatalf("failed to verify database name: %v", err)
	}
	if currentDB != testDatabase {
		t.Fatalf("CRITICAL SAFETY CHECK FAILED: connected to '%s' instead of '%s'", currentDB, testDatabase)
	}

	return pool
}

// CleanupTestTables truncates all test tables, in FK-safe order.
func CleanupTestTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var currentDB string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&currentDB); err != nil {
		t.Fatalf("CRITICAL: failed to verify database name before cleanup: %v", err)
	}
	if currentDB != testDatabase {
		t.Fatalf("CRITICAL SAFETY VIOLATION: attempted to truncate '%s' instead of '%s'", currentDB, testDatabase)
	}

	tables := []string{"assignments", "sections", "competences", "teachers", "subjects"}
	for _, table := range tables {
		if _, err := pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			t.Logf("warning: failed to truncate table %s: %v", table, err)
		}
	}
}

// CleanupTestDatabase closes all test database connections.
func CleanupTestDatabase() {
	testMu.Lock()
	defer testMu.Unlock()

	if testPool != nil {
		testPool.Close()
		testPool = nil
	}
	if testDB != nil {
		testDB.Close()
		testDB = nil
	}
}

// GetTestDBInstance returns a *DB struct wrapping the shared test pools.
func GetTestDBInstance(t *testing.T) *DB {
	t.Helper()

	pool := GetTestPool(t)
	sqlxDB := GetTestSqlxDB(t)

	return &DB{
		Pool:  pool,
		Sqlx:  sqlxDB,
		Close: func() error { return nil },
	}
}

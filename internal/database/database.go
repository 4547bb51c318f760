package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/glebarez/sqlite"
	"github.com/soaring-tools/tskmap/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Manager handles database connections and operations.
type Manager struct {
	DB     *gorm.DB
	SqlDB  *sql.DB
	Logger *slog.Logger

	// ShouldSaveLocal is set when the connection is SQLite, either by
	// configuration or after Postgres failed.
	ShouldSaveLocal bool
}

// NewManager creates a new database manager.
func NewManager(log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{Logger: log}
}

// Connect opens the database selected by cfg.Type. A postgres connection
// that cannot be opened or pinged falls back to SQLite at cfg.SQLite.Path.
func (m *Manager) Connect(cfg config.StorageConfig) error {
	var err error

	switch cfg.Type {
	case "sqlite":
		m.ShouldSaveLocal = true
		m.DB, err = m.GetSqliteDB(cfg.SQLite.Path)
		if err != nil {
			return fmt.Errorf("failed to open SQLite DB: %w", err)
		}
	case "postgres":
		m.DB, err = m.GetPostgresDB(cfg.DB)
		if err == nil {
			err = ping(m.DB)
		}
		if err != nil {
			m.Logger.Error("Failed to connect to Postgres DB, trying SQLite", "error", err)
			m.ShouldSaveLocal = true
			m.DB, err = m.GetSqliteDB(cfg.SQLite.Path)
			if err != nil {
				return fmt.Errorf("failed to get local SQLite DB: %w", err)
			}
		}
	default:
		return fmt.Errorf("no database for storage type %q", cfg.Type)
	}

	m.SqlDB, err = m.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := m.SqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to validate connection: %w", err)
	}

	if !m.ShouldSaveLocal {
		m.SqlDB.SetMaxOpenConns(10)
	}

	m.Logger.Info("Connected to database", "dialect", m.DB.Dialector.Name())
	return nil
}

func ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// GetPostgresDB returns a connection to the Postgres database.
func (m *Manager) GetPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Database,
	)

	m.Logger.Debug("Connecting to Postgres DB", "host", cfg.Host, "port", cfg.Port, "database", cfg.Database)

	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
}

// GetSqliteDB returns a connection to a SQLite database.
// If path is empty, uses an in-memory database.
func (m *Manager) GetSqliteDB(path string) (*gorm.DB, error) {
	dsn := path
	if path == "" {
		dsn = "file::memory:?cache=shared"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if path == "" {
		m.Logger.Info("Using local SQLite DB in memory")
	} else {
		m.Logger.Info("Using local SQLite DB", "path", path)
	}

	// set PRAGMAS
	pragmas := []string{
		"PRAGMA user_version = 1;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA temp_store = MEMORY;",
	}

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	return db, nil
}

// Setup migrates the given models.
func (m *Manager) Setup(models ...any) error {
	m.Logger.Info("Migrating schema")
	if err := m.DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	m.Logger.Debug("Database setup complete")
	return nil
}

// Close closes the underlying connection pool.
func (m *Manager) Close() error {
	if m.SqlDB == nil {
		return nil
	}
	return m.SqlDB.Close()
}

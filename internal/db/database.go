package db

import (
  "fmt"
  "strings"
  "gorm.io/driver/postgres"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  "github.com/retroclock/retroclock-backend/internal/types"
  "github.com/retroclock/retroclock-backend/internal/utils"
  "github.com/retroclock/retroclock-backend/internal/logger"
)

type DatabaseService struct {
  db *gorm.DB
  log *logger.Logger
}

// NewDatabaseService connects to Postgres by default; DB_DRIVER=sqlite selects
// a local file database for single-user installs.
func NewDatabaseService(log *logger.Logger) (*DatabaseService, error) {
  serviceLog := log.With("service", "DatabaseService")

  driver := strings.ToLower(utils.GetEnv("DB_DRIVER", "postgres", log))
  if driver == "sqlite" {
    path := utils.GetEnv("SQLITE_PATH", "retroclock.db", log)
    log.Info("Connecting to SQLite...", "path", path)
    sdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
    if err != nil {
      log.Error("Failed to open SQLite database", "error", err)
      return nil, fmt.Errorf("Failed to open SQLite database: %w", err)
    }
    return &DatabaseService{db: sdb, log: serviceLog}, nil
  }

  log.Info("Loading environment variables...")
  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "retroclock", log)
  log.Debug("Environment variables loaded")

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  log.Info("Connecting to Postgres...")
  pdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    log.Error("Failed to connect to Postgres", "error", err)
    return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
  }

  return &DatabaseService{db: pdb, log: serviceLog}, nil
}

func (s *DatabaseService) AutoMigrateAll() error {
  return AutoMigrateAll(s.db, s.log)
}

func AutoMigrateAll(db *gorm.DB, log *logger.Logger) error {
  if log != nil {
    log.Info("Auto migrating tables...")
  }
  err := db.AutoMigrate(
    &types.User{},
    &types.Company{},
    &types.Project{},
    &types.Worklog{},
    &types.Expense{},
    &types.ExpenseCategory{},
    &types.Payment{},
  )
  if err != nil {
    if log != nil {
      log.Error("Auto migration failed", "error", err)
    }
    return err
  }
  return nil
}

func (s *DatabaseService) DB() *gorm.DB {
  return s.db
}

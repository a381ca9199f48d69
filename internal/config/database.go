package config

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OpenDB connects to MySQL or Postgres depending on DB_DRIVER.
func OpenDB(s *Settings, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch s.DBDriver {
	case DriverMySQL:
		dialector = mysql.Open(s.DBDSN)
	case DriverPostgres:
		dialector = postgres.Open(s.DBDSN)
	default:
		return nil, fmt.Errorf("no SQL dialect for DB_DRIVER %q", s.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}
	logger.Info("Database connected", zap.String("driver", s.DBDriver))
	return db, nil
}

package configs

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	maxRetries = 10
	retryDelay = 5 * time.Second
)

// Dialector picks the gorm dialector for env.DBDriver.
func Dialector(env ENV) (gorm.Dialector, error) {
	switch strings.ToLower(env.DBDriver) {
	case "", "mysql":
		cfg := mysqldriver.NewConfig()
		cfg.User = env.DBUser
		cfg.Passwd = env.DBPassword
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(env.DBHost, env.DBPort)
		cfg.DBName = env.DBName
		cfg.ParseTime = true
		cfg.Params = map[string]string{"charset": "utf8mb4"}
		return mysql.Open(cfg.FormatDSN()), nil
	case "postgres", "postgresql":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			env.DBHost, env.DBUser, env.DBPassword, env.DBName, env.DBPort)
		return postgres.Open(dsn), nil
	case "sqlite", "sqlite3":
		return sqlite.Open(env.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", env.DBDriver)
	}
}

func OpenConnection(env ENV, log *logger.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(env)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		log.Info("Attempting to connect to database", "driver", env.DBDriver, "attempt", i+1, "max_attempts", maxRetries)
		db, err := gorm.Open(dialector, &gorm.Config{
			TranslateError:                           true,
			DisableForeignKeyConstraintWhenMigrating: true,
		})
		if err == nil {
			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.Ping()
				if pingErr == nil {
					log.Info("Database connection successful", "driver", env.DBDriver)
					return db, nil
				}
			}
			lastErr = pingErr
			log.Warn("Failed to ping database", "error", pingErr, "retry_in", retryDelay)
		} else {
			lastErr = err
			log.Warn("Failed to open GORM connection", "error", err, "retry_in", retryDelay)
		}

		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("failed to connect to the database after %d retries: %w", maxRetries, lastErr)
}

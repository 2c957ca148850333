package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type ENV struct {
	DBDriver           string
	DBHost             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBPort             string
	SQLitePath         string
	Port               string
	APP_ENV            string
	AppAuthKey         string
	AppEncKey          string
	CSRFKey            string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	ComparisonCacheTTL time.Duration
	LogMode            string
	CurrencySymbol     string
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	return ENV{
		DBDriver:           getEnv("DB_DRIVER", "mysql"),
		DBHost:             os.Getenv("DB_HOST"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		DBPort:             os.Getenv("DB_PORT"),
		SQLitePath:         getEnv("SQLITE_PATH", "pricewatch.db"),
		Port:               getEnv("APP_PORT", ":8080"),
		APP_ENV:            getEnv("APP_ENV", "development"),
		AppAuthKey:         os.Getenv("APP_AUTH_KEY"),
		AppEncKey:          os.Getenv("APP_ENC_KEY"),
		CSRFKey:            os.Getenv("CSRF_KEY"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		ComparisonCacheTTL: getEnvDuration("COMPARISON_CACHE_TTL", 5*time.Minute),
		LogMode:            getEnv("LOG_MODE", "development"),
		CurrencySymbol:     getEnv("CURRENCY_SYMBOL", "€"),
	}

}

func (e ENV) IsProduction() bool {
	return e.APP_ENV == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: %s=%q is not an integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: %s=%q is not a duration, using %s", key, v, fallback)
		return fallback
	}
	return d
}

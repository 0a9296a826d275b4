package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DriverMongo = "mongo"
	DriverMySQL = "mysql"
	DriverRedis = "redis"
)

type Config struct {
	AppEnv          string
	LogLevel        string
	HTTPAddr        string
	MetricsAddr     string
	StoreDriver     string
	MongoURI        string
	MongoDB         string
	MongoCollection string
	MySQLDSN        string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	RedisPrefix     string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		LogLevel:        env("LOG_LEVEL", "info"),
		HTTPAddr:        env("HTTP_ADDR", ":3000"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		StoreDriver:     strings.ToLower(env("STORE_DRIVER", DriverMongo)),
		MongoURI:        env("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         env("MONGO_DB", "hotels"),
		MongoCollection: env("MONGO_COLLECTION", "hotels"),
		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotels?parseTime=true&charset=utf8mb4&loc=UTC"),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		RedisPrefix:     env("REDIS_PREFIX", "hotels"),
		RequestTimeout:  time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		ShutdownTimeout: time.Duration(atoi("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
	switch c.StoreDriver {
	case DriverMongo, DriverMySQL, DriverRedis:
	default:
		log.Warn().Str("driver", c.StoreDriver).Msg("unknown STORE_DRIVER, falling back to mongo")
		c.StoreDriver = DriverMongo
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

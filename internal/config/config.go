package config // package config loads application configuration from environment variables

import (
	"strings"
	"time"

	"github.com/labstack/gommon/log"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverFile   = "file"
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverMySQL  = "mysql"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; everything except the MySQL settings has a
// default so the planner runs out of the box with a file store.
type Config struct {
	Env         string        // application environment (e.g. "dev", "prod")
	Port        string        // HTTP port to listen on
	LogLevel    string        // debug, info, warn or error
	StoreDriver string        // file, memory, redis or mysql
	StoreDir    string        // directory of the file store
	StorePrefix string        // prefix of every persisted key
	SaveTimeout time.Duration // bound on one round of saves after a mutation

	DBUser string // database username, required for mysql
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	BookingEventsEnabled   bool   // publish booking.confirmed events
	BookingConsumerEnabled bool   // run the booking log consumer in-process
	BookingLogDir          string // where the consumer writes booking.log
}

// Load reads configuration values from environment variables and returns a
// Config.  An unknown store driver, or a mysql driver without its
// connection settings, logs a fatal error and exits.
func Load() Config {
	cfg := Config{
		Env:                    envStr("APP_ENV", "dev"),
		Port:                   envStr("APP_PORT", "8080"),
		LogLevel:               strings.ToLower(envStr("LOG_LEVEL", "info")),
		StoreDriver:            strings.ToLower(envStr("STORE_DRIVER", DriverFile)),
		StoreDir:               envStr("STORE_DIR", "data"),
		StorePrefix:            envStr("STORE_PREFIX", "seating"),
		SaveTimeout:            envDur("SAVE_TIMEOUT", 5*time.Second),
		BookingEventsEnabled:   envBool("BOOKING_EVENTS_ENABLED", false),
		BookingConsumerEnabled: envBool("BOOKING_CONSUMER_ENABLED", false),
		BookingLogDir:          envStr("BOOKING_LOG_DIR", "logs"),
	}
	switch cfg.StoreDriver {
	case DriverFile, DriverMemory, DriverRedis:
	case DriverMySQL:
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = envStr("DB_PASS", "")
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = envStr("DB_PORT", "3306")
		cfg.DBName = must("DB_NAME")
	default:
		log.Fatalf("unknown STORE_DRIVER %q (want file, memory, redis or mysql)", cfg.StoreDriver)
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = 5 * time.Second
	}
	return cfg
}

// Level maps LogLevel to a gommon log level; unknown names mean INFO.
func (c Config) Level() log.Lvl {
	switch c.LogLevel {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	}
	return log.INFO
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v := envStr(key, "")
	if v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

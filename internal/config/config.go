package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses duration-valued variables
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The store is selected by DBDriver: "sqlite"
// (the default, embedded) or "mysql"; the MySQL fields are only consulted
// for the latter.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBDriver     string // "sqlite" or "mysql"
	SQLitePath   string // path of the sqlite database file
	DBUser       string // mysql username
	DBPass       string // mysql password (optional)
	DBHost       string // mysql host address
	DBPort       string // mysql port number
	DBName       string // mysql database name
	JWTSecret    string // secret used to sign access tokens
	AccessTTLMin int    // access token time-to-live in minutes (default 8h)
	BcryptCost   int    // bcrypt cost for password hashing
	AdminUser    string // bootstrap admin username (seeded when users is empty)
	AdminPass    string // bootstrap admin password
}

// Load reads configuration from the environment. Only JWT_SECRET is hard
// required; everything else carries a development-friendly default so the
// tool runs out of the box against a local sqlite file.
func Load() Config {
	return Config{
		Env:          envStr("APP_ENV", "dev"),
		Port:         envStr("APP_PORT", "5000"),
		DBDriver:     envStr("DB_DRIVER", "sqlite"),
		SQLitePath:   envStr("SQLITE_PATH", "attendance.db"),
		DBUser:       os.Getenv("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"),
		DBHost:       envStr("DB_HOST", "127.0.0.1"),
		DBPort:       envStr("DB_PORT", "3306"),
		DBName:       envStr("DB_NAME", "attendance"),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: envInt("ACCESS_TOKEN_TTL_MIN", 480), // 8 hours
		BcryptCost:   envInt("BCRYPT_COST", 10),
		AdminUser:    envStr("ADMIN_USERNAME", "admin"),
		AdminPass:    envStr("ADMIN_PASSWORD", "admin123"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}

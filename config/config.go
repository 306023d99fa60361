package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/yeremiapane/cantina/database"
	"github.com/yeremiapane/cantina/models"
	"github.com/yeremiapane/cantina/utils"
	"gorm.io/gorm"
)

// Config dibaca dari environment (dan .env kalau ada).
type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	DBDriver  string
	DBDSN     string
	JWTSecret string
	TabTerm   time.Duration
	// OverdueCheck is how often open tabs are checked against their due date; 0 disables it.
	OverdueCheck time.Duration
	CORSOrigin   string
	RateLimit    int
	SeedDemo     bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found, using process environment")
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		GinMode:      getEnv("GIN_MODE", "debug"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DBDriver:     getEnv("DB_DRIVER", "sqlite"),
		DBDSN:        getEnv("DB_DSN", "file:cantina.db?_fk=1"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		TabTerm:      time.Duration(getEnvInt("TAB_DUE_DAYS", 7)) * 24 * time.Hour,
		OverdueCheck: time.Duration(getEnvInt("OVERDUE_CHECK_MINUTES", 5)) * time.Minute,
		CORSOrigin:   getEnv("CORS_ORIGIN", "http://127.0.0.1:5500"),
		RateLimit:    getEnvInt("RATE_LIMIT", 50),
		SeedDemo:     getEnvBool("SEED_DEMO", false),
	}

	if cfg.JWTSecret == "" {
		utils.InfoLogger.Println("Warning: JWT_SECRET not set, using development secret")
	}
	utils.SetJWTSecret(cfg.JWTSecret)

	if cfg.TabTerm <= 0 {
		cfg.TabTerm = models.DefaultTabTerm
	}
	return cfg
}

// InitDB membuka koneksi database sesuai DB_DRIVER.
func InitDB(cfg *Config) (*gorm.DB, error) {
	return database.Open(cfg.DBDriver, cfg.DBDSN)
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
		utils.ErrorLogger.Printf("Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		utils.ErrorLogger.Printf("Invalid %s=%q, using %t", key, v, fallback)
		return fallback
	}
	return b
}

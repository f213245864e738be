package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/MikelGMatos/NutriSense/models"
)

var DB *gorm.DB

type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	Env       string `env:"APP_ENV" envDefault:"production"`
	JWTSecret string `env:"JWT_SECRET"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBUser     string `env:"DB_USER" envDefault:"nutrisense"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"nutrisense"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`

	// Optional token revocation store; logout is a no-op without it.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse environment: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatalf("JWT_SECRET is required")
	}
	return cfg
}

// Development reports whether error details may be exposed in responses.
func (c *Config) Development() bool {
	return c.Env == "development"
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func InitDB(cfg *Config) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	DB = db

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}

// Migrate is shared with the test fixtures, which run it against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Diary{},
		&models.DiaryEntry{},
	)
}

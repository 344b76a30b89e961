package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	CORS      CORSConfig
	Log       LogConfig
	Academics AcademicsConfig
	Exports   ExportsConfig
	Backups   BackupsConfig
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AcademicsConfig holds the registrar policy knobs. MaxCreditsPerSemester
// is the per-student credit ceiling checked at enrollment time.
type AcademicsConfig struct {
	MaxCreditsPerSemester int
	GraduationCredits     int
	ProbationGPA          float64
	DeansListGPA          float64
}

// ExportsConfig configures CSV/PDF export generation.
type ExportsConfig struct {
	StorageDir        string
	WorkerConcurrency int
	WorkerRetries     int
	WorkerRetryDelay  time.Duration
	RetentionTTL      time.Duration
}

// BackupsConfig controls filesystem snapshot backups.
type BackupsConfig struct {
	Dir        string
	KeepLatest int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Academics = AcademicsConfig{
		MaxCreditsPerSemester: v.GetInt("MAX_CREDITS_PER_SEMESTER"),
		GraduationCredits:     v.GetInt("GRADUATION_CREDITS"),
		ProbationGPA:          v.GetFloat64("PROBATION_GPA"),
		DeansListGPA:          v.GetFloat64("DEANS_LIST_GPA"),
	}

	cfg.Exports = ExportsConfig{
		StorageDir:        v.GetString("EXPORTS_STORAGE_DIR"),
		WorkerConcurrency: v.GetInt("EXPORTS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("EXPORTS_WORKER_RETRIES"),
		WorkerRetryDelay:  parseDuration(v.GetString("EXPORTS_WORKER_RETRY_DELAY"), time.Second),
		RetentionTTL:      parseDuration(v.GetString("EXPORTS_RETENTION_TTL"), 24*time.Hour),
	}

	cfg.Backups = BackupsConfig{
		Dir:        v.GetString("BACKUPS_DIR"),
		KeepLatest: v.GetInt("BACKUPS_KEEP_LATEST"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("MAX_CREDITS_PER_SEMESTER", 21)
	v.SetDefault("GRADUATION_CREDITS", 120)
	v.SetDefault("PROBATION_GPA", 2.0)
	v.SetDefault("DEANS_LIST_GPA", 3.5)

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_WORKER_CONCURRENCY", 1)
	v.SetDefault("EXPORTS_WORKER_RETRIES", 3)
	v.SetDefault("EXPORTS_WORKER_RETRY_DELAY", "1s")
	v.SetDefault("EXPORTS_RETENTION_TTL", "24h")

	v.SetDefault("BACKUPS_DIR", "./backups")
	v.SetDefault("BACKUPS_KEEP_LATEST", 5)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

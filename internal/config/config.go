package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds the configuration for the trainer and the validation service
type Config struct {
	Artifacts  ArtifactConfig
	Dataset    DatasetConfig
	Vectorizer VectorizerConfig
	Selector   SelectorConfig
	SVC        SVCConfig
	Eval       EvalConfig
	Server     ServerConfig
	Log        LogConfig
}

// ArtifactConfig locates the fitted pipeline files
type ArtifactConfig struct {
	Dir string `validate:"required"`
}

// DatasetConfig locates the labeled training set
type DatasetConfig struct {
	Path string `validate:"required"`
}

// VectorizerConfig holds TF-IDF settings
type VectorizerConfig struct {
	MaxFeatures int `validate:"gte=1"`
	NgramMax    int `validate:"gte=1,lte=3"`
	SublinearTF bool
}

// SelectorConfig holds chi-squared selection settings
type SelectorConfig struct {
	K int `validate:"gte=1"`
}

// SVCConfig holds linear SVC training settings
type SVCConfig struct {
	C        float64 `validate:"gt=0"`
	MaxIter  int     `validate:"gte=1"`
	Tol      float64 `validate:"gt=0"`
	Balanced bool
}

// EvalConfig holds the held-out split and cross-validation settings
type EvalConfig struct {
	TestSize float64 `validate:"gt=0,lt=1"`
	Folds    int     `validate:"gte=0"`
	Seed     int64
}

// ServerConfig holds HTTP boundary settings
type ServerConfig struct {
	Addr              string        `validate:"required"`
	MaxConnections    int           `validate:"gte=1"`
	ReadTimeout       time.Duration `validate:"gt=0"`
	WriteTimeout      time.Duration `validate:"gt=0"`
	CORSAllowedOrigin string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `validate:"oneof=text json"`
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Artifacts: ArtifactConfig{
			Dir: GetStringEnv("ARTIFACT_DIR", "./artifacts"),
		},
		Dataset: DatasetConfig{
			Path: GetStringEnv("DATASET_PATH", "./data/business_ideas.csv"),
		},
		Vectorizer: VectorizerConfig{
			MaxFeatures: GetIntEnv("VECTORIZER_MAX_FEATURES", 15000),
			NgramMax:    GetIntEnv("VECTORIZER_NGRAM_MAX", 2),
			SublinearTF: GetBoolEnv("VECTORIZER_SUBLINEAR_TF", true),
		},
		Selector: SelectorConfig{
			K: GetIntEnv("SELECTOR_K", 8000),
		},
		SVC: SVCConfig{
			C:        GetFloatEnv("SVC_C", 1.0),
			MaxIter:  GetIntEnv("SVC_MAX_ITER", 1000),
			Tol:      GetFloatEnv("SVC_TOL", 1e-4),
			Balanced: GetBoolEnv("SVC_BALANCED", true),
		},
		Eval: EvalConfig{
			TestSize: GetFloatEnv("EVAL_TEST_SIZE", 0.2),
			Folds:    GetIntEnv("EVAL_FOLDS", 5),
			Seed:     int64(GetIntEnv("EVAL_SEED", 42)),
		},
		Server: ServerConfig{
			Addr:              GetStringEnv("SERVER_ADDR", ":5000"),
			MaxConnections:    GetIntEnv("SERVER_MAX_CONNECTIONS", 100),
			ReadTimeout:       GetDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:      GetDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			CORSAllowedOrigin: GetStringEnv("CORS_ALLOWED_ORIGIN", "*"),
		},
		Log: LogConfig{
			Level:  GetStringEnv("LOG_LEVEL", "info"),
			Format: GetStringEnv("LOG_FORMAT", "text"),
		},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

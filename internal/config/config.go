package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

var (
	ErrInvalidBoardShape  = errors.New("board shape values must be positive")
	ErrInvalidLoadingMode = errors.New("loading-mode must be keep or clear")
	ErrInvalidRateLimit   = errors.New("rate-limit values must be positive")
	ErrIDSpaceTooSmall    = errors.New("distinct categories need category-id-space >= category-count")
)

type Config struct {
	LogLevel   string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string        `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SessionTTL time.Duration `yaml:"session-ttl" env:"SESSION_TTL" env-default:"2h"`
	Redis      Redis         `yaml:"redis"`
	Board      Board         `yaml:"board"`
	JService   JService      `yaml:"jservice"`
	RateLimit  RateLimit     `yaml:"rate-limit"`
}

type Redis struct {
	Host     string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	CacheTTL time.Duration `yaml:"cache-ttl" env:"REDIS_CACHE_TTL" env-default:"24h"`
}

type Board struct {
	CategoryCount      int    `yaml:"category-count" env:"BOARD_CATEGORY_COUNT" env-default:"6"`
	CluesPerCategory   int    `yaml:"clues-per-category" env:"BOARD_CLUES_PER_CATEGORY" env-default:"5"`
	CategoryIDSpace    int    `yaml:"category-id-space" env:"BOARD_CATEGORY_ID_SPACE" env-default:"1000"`
	FetchConcurrency   int    `yaml:"fetch-concurrency" env:"BOARD_FETCH_CONCURRENCY" env-default:"1"`
	DistinctCategories bool   `yaml:"distinct-categories" env:"BOARD_DISTINCT_CATEGORIES" env-default:"false"`
	LoadingMode        string `yaml:"loading-mode" env:"BOARD_LOADING_MODE" env-default:"keep"`
}

type JService struct {
	BaseURL string        `yaml:"base-url" env:"JSERVICE_BASE_URL" env-default:"http://jservice.io"`
	Timeout time.Duration `yaml:"timeout" env:"JSERVICE_TIMEOUT" env-default:"10s"`
}

type RateLimit struct {
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"1"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"3"`
}

// MustLoad - load all configurations in config.yml file, environment variables take precedence.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func (that *Config) Validate() error {
	b := that.Board
	if b.CategoryCount <= 0 || b.CluesPerCategory <= 0 || b.CategoryIDSpace <= 0 || b.FetchConcurrency <= 0 {
		return fmt.Errorf("%w: %+v", ErrInvalidBoardShape, b)
	}

	if b.DistinctCategories && b.CategoryCount > b.CategoryIDSpace {
		return fmt.Errorf("%w: %d categories, %d ids", ErrIDSpaceTooSmall, b.CategoryCount, b.CategoryIDSpace)
	}

	if b.LoadingMode != "keep" && b.LoadingMode != "clear" {
		return fmt.Errorf("%w: got %q", ErrInvalidLoadingMode, b.LoadingMode)
	}

	if that.RateLimit.RPS <= 0 || that.RateLimit.Burst <= 0 {
		return fmt.Errorf("%w: %+v", ErrInvalidRateLimit, that.RateLimit)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

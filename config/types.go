package config

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	// App
	Env           string        `split_words:"true" default:"prod" validate:"oneof=dev staging prod"`
	LogLevel      string        `split_words:"true" default:"info" validate:"oneof=debug info warn error"`
	LogFormat     string        `split_words:"true" default:"json" validate:"oneof=console json"`
	Port          string        `split_words:"true" default:":8080" validate:"required"`
	ShutdownGrace time.Duration `split_words:"true" default:"15s" validate:"gt=0"`

	// Analysis window
	WindowDays int `split_words:"true" default:"30" validate:"gt=0"`
	WindowSize int `split_words:"true" default:"5" validate:"gt=0"`

	// GitHub tuning
	GithubConcurrency int           `split_words:"true" default:"10" validate:"gt=0"`
	GithubRateLimit   int           `split_words:"true" default:"80" validate:"gt=0"`
	HTTPClientTimeout time.Duration `split_words:"true" default:"30s" validate:"gt=0"`

	// Repo listing cache
	CacheSize    int           `split_words:"true" default:"1000" validate:"gt=0"`
	RepoCacheTTL time.Duration `split_words:"true" default:"5m" validate:"gt=0"`

	// Redis (optional shared cache; in-process LRU is used when unset)
	RedisURL string `split_words:"true"`
}

type Loader struct {
	Prefix   string
	Validate *validator.Validate
}

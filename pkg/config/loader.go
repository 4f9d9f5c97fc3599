package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Option configures Load.
type Option func(*options)

type options struct {
	files    []string
	optional bool
	prefix   string
	environ  map[string]string
}

// WithEnvFiles loads the given dotenv files instead of ./.env. Missing files
// are an error.
func WithEnvFiles(paths ...string) Option {
	return func(o *options) {
		if len(paths) > 0 {
			o.files = paths
			o.optional = false
		}
	}
}

// WithPrefix prepends prefix to every env tag, e.g. "SESSIOND_".
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithEnvironment parses vars instead of the process environment.
// Dotenv files are not read.
func WithEnvironment(vars map[string]string) Option {
	return func(o *options) {
		o.environ = vars
	}
}

// Load parses environment variables into v using its `env` field tags.
//
// By default ./.env is read first when it exists. Variables already set in the
// process environment win over values from dotenv files.
//
// Example:
//
//	type RedisConfig struct {
//		URL string `env:"REDIS_URL,required"`
//	}
//
//	var cfg RedisConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := options{files: []string{".env"}, optional: true}
	for _, opt := range opts {
		opt(&o)
	}

	if o.environ == nil {
		if err := loadFiles(o.files, o.optional); err != nil {
			return err
		}
	}

	if err := env.ParseWithOptions(v, env.Options{
		Prefix:      o.prefix,
		Environment: o.environ,
	}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

func loadFiles(paths []string, optional bool) error {
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if optional && errors.Is(err, os.ErrNotExist) {
				continue
			}
			return errors.Join(ErrLoadingEnvFile, err)
		}
		existing = append(existing, p)
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

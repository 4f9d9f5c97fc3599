// Package config loads configuration structs from environment variables.
//
// It wraps github.com/joho/godotenv for dotenv files and
// github.com/caarlos0/env/v11 for tag based parsing:
//
//	type Config struct {
//		Addr    string        `env:"HTTP_ADDR" envDefault:":8080"`
//		Timeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"5s"`
//		Secret  string        `env:"SESSION_SECRET,required"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// Load reads ./.env when present; WithEnvFiles names other files, which must
// exist. Values already in the process environment are never overwritten.
// WithEnvironment parses an explicit map and skips dotenv entirely, which
// keeps tests independent of the process environment.
//
// Parsing errors wrap ErrParsingConfig, dotenv errors wrap ErrLoadingEnvFile.
package config

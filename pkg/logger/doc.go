// Package logger builds *slog.Logger values with functional options and
// injects request-scoped attributes from context.Context.
//
// New selects a text or JSON handler, applies static attributes and wraps the
// result in LogHandlerDecorator, which runs every registered ContextExtractor
// on each record. NewNope returns a logger that drops everything and is the
// default for library code that was not handed a logger.
//
// Attribute helpers in attr.go keep key names consistent across packages:
// Error, Errors, RequestID, Component, Backend, Outcome, Duration, Addr and
// HTTPRequest.
//
// # Usage
//
//	import "github.com/dmitrymomot/sessionkit/pkg/logger"
//
//	var cfg logger.Config
//	if err := config.Load(&cfg); err != nil {
//	    panic(err)
//	}
//	envOpt, err := logger.FromConfig(cfg)
//	if err != nil {
//	    panic(err)
//	}
//	log := logger.New(envOpt, logger.WithContextExtractors(requestid.LoggerExtractor()))
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "session attached", logger.Backend("filesystem"))
//
// # Configuration
//
//   - WithDevelopment / WithStaging / WithProduction / WithEnvironment: per-environment defaults.
//   - FromConfig: environment defaults plus an optional LOG_LEVEL override.
//   - WithFormat / WithTextFormatter / WithJSONFormatter: output format.
//   - WithLevel: minimum level.
//   - WithAttr: static attributes.
//   - WithContextExtractors / WithContextValue: attributes taken from context.
//
// Error and Errors return an empty attribute for nil errors, so
//
//	log.Info("saved", logger.Error(err))
//
// needs no nil check.
package logger

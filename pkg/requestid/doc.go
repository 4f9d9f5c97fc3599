// Package requestid attaches a correlation id to every HTTP request.
//
// The middleware reuses a client supplied X-Request-ID when it is at most 128
// characters of [a-zA-Z0-9_-] and generates a UUID otherwise. The id is stored
// in the request context and echoed in the response header. LoggerExtractor
// plugs it into loggers built by the logger package:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r.Use(requestid.Middleware)
package requestid

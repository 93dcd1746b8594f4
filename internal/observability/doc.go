// Package observability provides the zap logger construction and the HTTP
// access log middleware. Request IDs come from chi's RequestID middleware
// and are attached to every access log line.
package observability

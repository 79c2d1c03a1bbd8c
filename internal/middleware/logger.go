// Package middleware provides reusable HTTP middleware for the API server.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/httplog/v3"
)

// quietPaths are polled by probes and kept out of the request log.
var quietPaths = map[string]bool{
	"/health": true,
}

// RequestLogger logs method, path, status and duration of every request
// through logger using the ECS field schema.
func RequestLogger(logger *slog.Logger, level slog.Level) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		Level:  level,
		Schema: httplog.SchemaECS,
		Skip: func(req *http.Request, respStatus int) bool {
			return quietPaths[req.URL.Path] && respStatus < http.StatusBadRequest
		},
	})
}

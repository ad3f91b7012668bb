// Package api provides the JSON HTTP surface for the advisor service.
//
// The server exposes one operational endpoint, POST /api/review, plus
// health and readiness probes. Requests pass through a middleware stack
// (recovery, request IDs, logging, per-IP rate limiting) before reaching
// the handler; responses use a uniform JSON envelope with machine-readable
// error codes.
package api

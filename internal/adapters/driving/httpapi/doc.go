// Package httpapi is the HTTP transport for docchat.
//
// Routes:
//   - POST /api/chat    answer a question
//   - GET  /api/stats   corpus statistics
//   - GET  /api/health  liveness and retrieval readiness
//   - GET  /metrics     Prometheus exposition
//   - /                 static files, when the static directory exists
//
// Every request passes through request-id, access-log, metrics and CORS
// middleware. The chat route is additionally rate limited.
package httpapi

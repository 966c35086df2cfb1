// Package server exposes the HTTP boundary of the service.
//
// Routes are versioned under /v1: ingest scheduling, question answering,
// raw retrieval, and document listing. Internal failure details never
// reach clients; query-path outages surface as 503 with a generic message.
package server

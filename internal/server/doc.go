// Package server exposes the grading pipeline over HTTP.
//
// The server wraps a validated omr.Processor behind a small JSON API.
// Uploaded sheets are graded synchronously; results are kept in an
// in-memory store keyed by evaluation ID so reports and overlays can be
// fetched afterwards without regrading.
//
// # Endpoints
//
// All routes are mounted under /api/v1:
//
//   - POST /sheets: Grade an uploaded sheet (multipart "sheet" field or
//     JSON body with a base64-encoded image)
//   - GET /sheets/:id: Fetch a previous evaluation
//   - GET /sheets/:id/report: Download the plain-text report
//   - GET /sheets/:id/mask: Render the binarized ink mask
//   - GET /sheets/:id/annotated: Render the sheet with verdict borders
//   - GET /sheets/:id/heatmap: Render per-question ink intensity
//
// # Result Caching
//
// The server maintains an in-memory store of graded sheets. Results are
// stored by evaluation ID and reused across report and overlay requests,
// avoiding redundant grading work. The store persists for the lifetime
// of the server process.
//
// # Error Handling
//
// Failures map to JSON error responses: rejected uploads are 400s,
// undecodable images are 422s, unknown evaluation IDs are 404s, and
// everything else is a 500 carrying a trace ID for correlation with the
// logs.
package server

package server

import (
	"omr-grader/internal/overlay"
	"omr-grader/internal/report"
)

// EvaluateRequest is the JSON alternative to a multipart upload.
type EvaluateRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required,base64"`
}

// EvaluationResponse carries a graded sheet back to the client. The
// report projection flattens into the top level, so the response fields
// match the on-disk JSON export plus the evaluation ID.
type EvaluationResponse struct {
	ID string `json:"id"`
	report.Sheet
	Percentage float64             `json:"percentage"`
	Mask       *overlay.SheetImage `json:"mask,omitempty"`
}

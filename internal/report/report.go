// Package report renders evaluation results for people and for machines.
//
// Text produces the plain summary handed back to whoever graded the
// sheet; JSON produces the structured export other systems consume. Both
// are pure projections of an evaluation: they add no grading logic and
// are deterministic, so exporting the same result twice yields identical
// bytes.
package report

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"omr-grader/internal/omr"
)

// json sorts map keys so repeated exports of one result are
// byte-identical.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Text renders the human-readable score summary.
//
// The incorrect-question list is omitted entirely when nothing was
// answered wrongly.
func Text(eval *omr.EvaluationResult) string {
	var b strings.Builder

	b.WriteString("OMR Evaluation Report\n")
	b.WriteString(strings.Repeat("=", 50))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Total Score: %d/%d\n", eval.Score, eval.Total)
	fmt.Fprintf(&b, "Percentage: %.2f%%\n", eval.Percentage())
	fmt.Fprintf(&b, "Questions Attempted: %d/%d\n", eval.Attempted, eval.Total)

	if incorrect := eval.IncorrectQuestions(); len(incorrect) > 0 {
		parts := make([]string, len(incorrect))
		for i, q := range incorrect {
			parts[i] = strconv.Itoa(q)
		}
		fmt.Fprintf(&b, "Incorrect Questions (%d): %s\n", len(incorrect), strings.Join(parts, ", "))
	}
	return b.String()
}

// Sheet is the JSON shape of a graded sheet. The evaluation fields
// flatten into the top level next to the raw extracted answers.
type Sheet struct {
	*omr.EvaluationResult
	ExtractedAnswers map[string]omr.Label `json:"extracted_answers"`
}

// NewSheet builds the export projection of a graded sheet.
//
// Extracted answers are keyed by question number and include unanswered
// questions as empty strings. The intermediate mask never appears in the
// projection.
func NewSheet(result *omr.SheetResult) Sheet {
	answers := make(map[string]omr.Label, len(result.Answers))
	for q, label := range result.Answers {
		answers[strconv.Itoa(q)] = label
	}

	return Sheet{
		EvaluationResult: result.Evaluation,
		ExtractedAnswers: answers,
	}
}

// JSON serializes a graded sheet with two-space indentation.
func JSON(result *omr.SheetResult) ([]byte, error) {
	data, err := json.MarshalIndent(NewSheet(result), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode results: %w", err)
	}
	return data, nil
}

// Save writes the JSON export to a file.
func Save(path string, result *omr.SheetResult) error {
	data, err := JSON(result)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

// SaveText writes the plain-text report to a file.
func SaveText(path string, eval *omr.EvaluationResult) error {
	if err := os.WriteFile(path, []byte(Text(eval)), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"omr-grader/internal/omr"
)

// gradedSheet evaluates a small fixed sheet: q1 correct, q2 incorrect,
// q3 blank.
func gradedSheet(t *testing.T) *omr.SheetResult {
	t.Helper()

	answers := omr.AnswerMap{1: "a", 2: "b", 3: omr.NoAnswer}
	eval, err := omr.Evaluate(answers, omr.AnswerKey{1: "a", 2: "c", 3: "d"})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	return &omr.SheetResult{Evaluation: eval, Answers: answers}
}

func TestText(t *testing.T) {
	got := Text(gradedSheet(t).Evaluation)

	want := "OMR Evaluation Report\n" +
		strings.Repeat("=", 50) + "\n" +
		"Total Score: 1/3\n" +
		"Percentage: 33.33%\n" +
		"Questions Attempted: 2/3\n" +
		"Incorrect Questions (1): 2\n"

	if got != want {
		t.Errorf("report:\n got %q\nwant %q", got, want)
	}
}

func TestText_NoIncorrectSection(t *testing.T) {
	eval, err := omr.Evaluate(omr.AnswerMap{1: "a", 2: omr.NoAnswer}, omr.AnswerKey{1: "a", 2: "b"})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	got := Text(eval)
	if strings.Contains(got, "Incorrect Questions") {
		t.Errorf("report should omit the incorrect list when empty:\n%s", got)
	}
}

func TestJSON(t *testing.T) {
	data, err := JSON(gradedSheet(t))
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	var decoded struct {
		TotalScore      int `json:"total_score"`
		TotalQuestions  int `json:"total_questions"`
		Attempted       int `json:"questions_attempted"`
		DetailedResults []struct {
			Question int    `json:"question"`
			Marked   string `json:"marked"`
			Expected string `json:"correct_answer"`
			Status   string `json:"status"`
			Correct  bool   `json:"is_correct"`
		} `json:"detailed_results"`
		ExtractedAnswers map[string]string `json:"extracted_answers"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}

	if decoded.TotalScore != 1 {
		t.Errorf("total_score: got %d, want 1", decoded.TotalScore)
	}
	if decoded.TotalQuestions != 3 {
		t.Errorf("total_questions: got %d, want 3", decoded.TotalQuestions)
	}
	if len(decoded.DetailedResults) != 3 {
		t.Fatalf("detailed_results length: got %d, want 3", len(decoded.DetailedResults))
	}
	if got := decoded.DetailedResults[2].Marked; got != "None" {
		t.Errorf("blank question marked: got %q, want None", got)
	}
	if got := decoded.DetailedResults[2].Status; got != "Not Attempted" {
		t.Errorf("blank question status: got %q, want Not Attempted", got)
	}
	if got := decoded.ExtractedAnswers["2"]; got != "b" {
		t.Errorf("extracted_answers[2]: got %q, want b", got)
	}
	if got, ok := decoded.ExtractedAnswers["3"]; !ok || got != "" {
		t.Errorf("extracted_answers[3]: got %q (present %v), want empty string", got, ok)
	}
}

func TestJSON_Deterministic(t *testing.T) {
	result := gradedSheet(t)

	first, err := JSON(result)
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := JSON(result)
		if err != nil {
			t.Fatalf("JSON failed: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("export %d differs from the first", i)
		}
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")

	if err := Save(path, gradedSheet(t)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if !bytes.Contains(data, []byte(`"total_score": 1`)) {
		t.Errorf("saved file missing total_score: %s", data)
	}
}

func TestSaveText(t *testing.T) {
	sheet := gradedSheet(t)
	path := filepath.Join(t.TempDir(), "report.txt")

	if err := SaveText(path, sheet.Evaluation); err != nil {
		t.Fatalf("SaveText failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(data) != Text(sheet.Evaluation) {
		t.Errorf("saved report differs from Text output: %s", data)
	}
}

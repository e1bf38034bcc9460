package omr

import "sort"

// Status classifies one question's outcome.
type Status string

const (
	StatusCorrect      Status = "Correct"
	StatusIncorrect    Status = "Incorrect"
	StatusNotAttempted Status = "Not Attempted"
)

// unmarked is how an unanswered question's mark reads in a verdict.
const unmarked = "None"

// Verdict is the graded outcome of a single question.
type Verdict struct {
	// Question is the 1-based question number.
	Question int `json:"question"`

	// Marked is the extracted option label, or "None" when the question
	// was not attempted.
	Marked string `json:"marked"`

	// Expected is the correct label from the answer key.
	Expected string `json:"correct_answer"`

	// Status is Correct, Incorrect, or Not Attempted. Unanswered
	// questions are always Not Attempted, never Incorrect.
	Status Status `json:"status"`

	// Correct mirrors Status for quick filtering.
	Correct bool `json:"is_correct"`
}

// EvaluationResult is the graded outcome of a whole sheet.
type EvaluationResult struct {
	// Score is the number of correct answers. One point per correct
	// question; no partial credit, no negative marking.
	Score int `json:"total_score"`

	// Total is the number of questions graded.
	Total int `json:"total_questions"`

	// Attempted is the number of questions with a readable mark.
	Attempted int `json:"questions_attempted"`

	// Verdicts holds one entry per question in ascending question order.
	Verdicts []Verdict `json:"detailed_results"`
}

// Percentage returns the score as a percentage of the total, 0 for an
// empty result.
func (r *EvaluationResult) Percentage() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.Total) * 100
}

// IncorrectQuestions returns the question numbers answered wrongly, in
// ascending order. Unanswered questions are not included.
func (r *EvaluationResult) IncorrectQuestions() []int {
	var questions []int
	for _, v := range r.Verdicts {
		if v.Status == StatusIncorrect {
			questions = append(questions, v.Question)
		}
	}
	return questions
}

// Evaluate grades extracted answers against an answer key.
//
// Every question in the answer map receives a verdict: Correct when the
// marked label equals the key's label, Incorrect when it differs, and
// Not Attempted when no label was marked. The score is the count of
// correct verdicts.
//
// Evaluation fails closed: if any graded question has no key entry the
// whole sheet is rejected with a *ConfigurationError listing the
// unresolvable question numbers, and no partial result is returned.
// Processor validates the key up front, so this only triggers for callers
// assembling answer maps by hand.
func Evaluate(answers AnswerMap, key AnswerKey) (*EvaluationResult, error) {
	questions := make([]int, 0, len(answers))
	for q := range answers {
		questions = append(questions, q)
	}
	sort.Ints(questions)

	var missing []int
	for _, q := range questions {
		if _, ok := key[q]; !ok {
			missing = append(missing, q)
		}
	}
	if len(missing) > 0 {
		return nil, &ConfigurationError{Reason: "answer key is missing entries", Questions: missing}
	}

	result := &EvaluationResult{
		Total:    len(questions),
		Verdicts: make([]Verdict, 0, len(questions)),
	}
	for _, q := range questions {
		marked := answers[q]
		expected := key[q]

		verdict := Verdict{
			Question: q,
			Marked:   unmarked,
			Expected: string(expected),
			Status:   StatusNotAttempted,
		}
		switch {
		case marked == NoAnswer:
			// Not attempted; never scored, never counted as wrong.
		case marked == expected:
			verdict.Marked = string(marked)
			verdict.Status = StatusCorrect
			verdict.Correct = true
			result.Score++
			result.Attempted++
		default:
			verdict.Marked = string(marked)
			verdict.Status = StatusIncorrect
			result.Attempted++
		}
		result.Verdicts = append(result.Verdicts, verdict)
	}
	return result, nil
}

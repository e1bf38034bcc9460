package omr

import "image"

// SheetResult bundles everything one evaluation produced.
type SheetResult struct {
	// Evaluation is the graded outcome.
	Evaluation *EvaluationResult

	// Answers is the raw extracted answer per question, NoAnswer included.
	Answers AnswerMap

	// Mask is the intermediate binary ink mask, kept for visual
	// debugging of extraction decisions. It never leaves the process
	// unless a caller explicitly renders it.
	Mask *image.Gray
}

// Processor grades answer sheets against one grid layout and answer key.
//
// A Processor is immutable after construction: the key is copied, the
// grid and threshold are fixed, and Process keeps no state between
// sheets. One Processor can therefore grade many sheets concurrently.
type Processor struct {
	spec      GridSpec
	key       AnswerKey
	threshold float64
}

// NewProcessor builds a Processor and validates its configuration.
//
// The grid must describe at least one question, the threshold must not be
// negative, and the key must cover every question the grid produces with
// labels from the option set. Any violation is a *ConfigurationError and
// no Processor is returned: configuration problems fail closed before the
// first sheet is touched rather than surfacing mid-evaluation.
func NewProcessor(spec GridSpec, key AnswerKey, threshold float64) (*Processor, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if threshold < 0 {
		return nil, &ConfigurationError{Reason: "mark threshold must not be negative"}
	}
	if err := ValidateKey(key, spec); err != nil {
		return nil, err
	}
	return &Processor{spec: spec, key: key.clone(), threshold: threshold}, nil
}

// Spec returns the grid layout the processor grades against.
func (p *Processor) Spec() GridSpec { return p.spec }

// Threshold returns the mark threshold in use.
func (p *Processor) Threshold() float64 { return p.threshold }

// Process grades a decoded sheet image.
//
// The call runs the full pipeline synchronously: binarize, map the grid,
// extract answers, evaluate. There is no internal concurrency and no
// cancellation; a sheet is a single unit of work that either completes or
// fails as a whole. With a validated Processor the evaluation step cannot
// fail, so in practice Process only errors if that validation was
// bypassed.
func (p *Processor) Process(img image.Image) (*SheetResult, error) {
	mask := Binarize(img)
	cells := MapGrid(mask.Bounds(), p.spec)
	answers := ExtractAnswers(mask, cells, p.threshold)

	evaluation, err := Evaluate(answers, p.key)
	if err != nil {
		return nil, err
	}
	return &SheetResult{Evaluation: evaluation, Answers: answers, Mask: mask}, nil
}

// ProcessFile loads a sheet image from disk and grades it.
func (p *Processor) ProcessFile(path string) (*SheetResult, error) {
	img, err := LoadSheet(path)
	if err != nil {
		return nil, err
	}
	return p.Process(img)
}

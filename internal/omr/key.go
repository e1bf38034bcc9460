package omr

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// AnswerKey maps question numbers to their correct option labels. A key
// is loaded once at startup, validated against the grid, and shared
// read-only by every evaluation after that.
type AnswerKey map[int]Label

// LoadAnswerKey reads an answer key from a JSON file.
//
// The file holds a single object keyed by question number:
//
//	{"1": "a", "2": "c", "3": "b"}
//
// Labels are lowercased and trimmed, so "B" and " b " both load as "b".
// Question keys must be positive integers; anything else is a
// *ConfigurationError. Label membership in the option set is checked
// separately by ValidateKey, since it depends on the grid.
func LoadAnswerKey(path string) (AnswerKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answer key: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse answer key %s: %w", path, err)
	}

	key := make(AnswerKey, len(raw))
	for field, label := range raw {
		question, err := strconv.Atoi(field)
		if err != nil || question < 1 {
			return nil, &ConfigurationError{
				Reason: fmt.Sprintf("answer key %s has a non-question entry %q", path, field),
			}
		}
		key[question] = Label(strings.ToLower(strings.TrimSpace(label)))
	}
	return key, nil
}

// ValidateKey checks that a key can grade every question of a grid.
//
// Two defects are reported, each with the full list of affected question
// numbers: entries missing for questions the grid produces, and labels
// outside the grid's option set. Missing entries are reported first.
// Entries beyond the grid's question count are tolerated and ignored, so
// one master key can serve sheets with fewer questions.
func ValidateKey(key AnswerKey, spec GridSpec) error {
	valid := make(map[Label]bool, spec.OptionsPerQuestion)
	for _, label := range spec.Labels() {
		valid[label] = true
	}

	var missing, invalid []int
	for q := 1; q <= spec.QuestionCount(); q++ {
		label, ok := key[q]
		if !ok {
			missing = append(missing, q)
			continue
		}
		if !valid[label] {
			invalid = append(invalid, q)
		}
	}

	if len(missing) > 0 {
		return &ConfigurationError{Reason: "answer key is missing entries", Questions: missing}
	}
	if len(invalid) > 0 {
		return &ConfigurationError{Reason: "answer key has labels outside the option set", Questions: invalid}
	}
	return nil
}

// clone returns an independent copy so a Processor's key cannot be
// mutated through the caller's map.
func (k AnswerKey) clone() AnswerKey {
	out := make(AnswerKey, len(k))
	for q, label := range k {
		out[q] = label
	}
	return out
}

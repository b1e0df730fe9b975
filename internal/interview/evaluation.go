package interview

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
)

const unreachableJustification = "Candidate unreachable"

// Evaluation is the judge verdict. Score is 1..10 for judged answers and 0
// when the candidate could not be reached.
type Evaluation struct {
	Score         int    `json:"score"`
	Justification string `json:"justification"`
}

// ParseEvaluation decodes judge output. The text must be exactly one JSON
// object with an integer score in [1, 10] and a string justification.
func ParseEvaluation(raw string) (Evaluation, error) {
	fail := func(reason string, err error) (Evaluation, error) {
		return Evaluation{}, &JudgeParseError{Raw: raw, Reason: reason, Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return fail("not a JSON object", err)
	}
	if obj == nil {
		return fail("not a JSON object", nil)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fail("trailing data after JSON object", nil)
	}

	rawScore, ok := obj["score"]
	if !ok {
		return fail("missing score", nil)
	}
	num, ok := rawScore.(json.Number)
	if !ok {
		return fail("score is not a number", nil)
	}
	score, err := strconv.Atoi(num.String())
	if err != nil {
		return fail("score is not an integer", err)
	}
	if score < 1 || score > 10 {
		return fail("score "+num.String()+" outside 1-10", nil)
	}

	rawJust, ok := obj["justification"]
	if !ok {
		return fail("missing justification", nil)
	}
	just, ok := rawJust.(string)
	if !ok {
		return fail("justification is not a string", nil)
	}
	return Evaluation{Score: score, Justification: just}, nil
}

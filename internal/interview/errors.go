package interview

import (
	"errors"
	"fmt"
)

// ErrGenerate wraps failures of the language model capability, either while
// drafting the question or while judging the answer.
var ErrGenerate = errors.New("text generation failed")

// JudgeParseError is returned when the judge output is not a well-formed
// evaluation. The interview cannot be scored, so it is never turned into a
// zero score.
type JudgeParseError struct {
	Raw    string
	Reason string
	Err    error
}

func (e *JudgeParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed judge output: %s: %v", e.Reason, e.Err)
	}
	return "malformed judge output: " + e.Reason
}

func (e *JudgeParseError) Unwrap() error { return e.Err }

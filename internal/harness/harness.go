package harness

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/enigma/internal/enigma"
	"github.com/roach88/enigma/internal/journal"
)

// CodeFormat is the error code recorded for input outside the alphabet.
const CodeFormat = "FORMAT"

// Run executes every step of s on one machine, then checks that a fresh
// machine deciphers the successful outputs back to their inputs.
//
// Failed expectations are reported in the Result. Run returns an error only
// when s is nil.
func Run(s *Scenario) (*Result, error) {
	if s == nil {
		return nil, errors.New("run: nil scenario")
	}

	result := NewResult()
	clock := journal.NewClock()
	cfg := s.Key.Config()

	machine, buildErr := enigma.New(cfg)

	var inputs, outputs []string
	for i, step := range s.Steps {
		trace := TraceStep{Seq: clock.Next(), Input: step.Input}

		var err error
		if buildErr != nil {
			err = buildErr
		} else {
			trace.Output, err = machine.Transform(step.Input)
		}
		if err != nil {
			trace.Error = ErrorCode(err)
		}
		result.Trace = append(result.Trace, trace)

		checkStep(result, i, step, trace)
		if err == nil {
			inputs = append(inputs, step.Input)
			outputs = append(outputs, trace.Output)
		}
	}

	if buildErr == nil {
		checkReciprocity(result, cfg, inputs, outputs)
	}
	return result, nil
}

func checkStep(result *Result, i int, step Step, trace TraceStep) {
	switch {
	case step.Error != "":
		if trace.Error != step.Error {
			result.AddError("step %d: expected error %s, got %s", i+1, step.Error, describe(trace))
		}
	case trace.Error != "":
		result.AddError("step %d: unexpected error %s", i+1, trace.Error)
	case step.Expect != nil && trace.Output != *step.Expect:
		result.AddError("step %d: expected output %q, got %q", i+1, *step.Expect, trace.Output)
	}
}

func checkReciprocity(result *Result, cfg enigma.Config, inputs, outputs []string) {
	machine, err := enigma.New(cfg)
	if err != nil {
		result.AddError("reciprocity: %v", err)
		return
	}
	for i, out := range outputs {
		back, err := machine.Transform(out)
		if err != nil {
			result.AddError("reciprocity: deciphering %q: %v", out, err)
			return
		}
		if want := strings.ToUpper(inputs[i]); back != want {
			result.AddError("reciprocity: %q deciphered to %q, want %q", out, back, want)
		}
	}
}

// ErrorCode maps a transform or configuration error to its scenario code.
func ErrorCode(err error) string {
	if enigma.IsFormatError(err) {
		return CodeFormat
	}
	if code := enigma.ConfigCode(err); code != "" {
		return string(code)
	}
	return "ERROR"
}

func describe(t TraceStep) string {
	if t.Error != "" {
		return t.Error
	}
	return fmt.Sprintf("output %q", t.Output)
}

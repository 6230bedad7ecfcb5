package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/enigma/internal/canon"
)

// Snapshot renders a result as canonical JSON for golden comparison.
func Snapshot(name string, result *Result) ([]byte, error) {
	trace := make([]any, len(result.Trace))
	for i, step := range result.Trace {
		entry := map[string]any{
			"seq":   step.Seq,
			"input": step.Input,
		}
		if step.Error != "" {
			entry["error"] = step.Error
		} else {
			entry["output"] = step.Output
		}
		trace[i] = entry
	}

	snapshot := map[string]any{
		"scenario": name,
		"pass":     result.Pass,
		"trace":    trace,
	}
	if len(result.Errors) > 0 {
		snapshot["errors"] = result.Errors
	}
	return canon.MarshalCanonical(snapshot)
}

// RunWithGolden runs s and compares its snapshot with
// testdata/golden/<name>.golden.
//
// Regenerate with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, s *Scenario) error {
	t.Helper()

	result, err := Run(s)
	if err != nil {
		return err
	}
	return AssertGolden(t, s.Name, result)
}

// AssertGolden compares an existing result with its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

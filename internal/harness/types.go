package harness

import "fmt"

// TraceStep records what one step produced.
type TraceStep struct {
	Seq    int64  `json:"seq"`
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expectation and the reciprocity check held.
	Pass bool `json:"pass"`

	Trace []TraceStep `json:"trace"`

	// Errors lists failed expectations. Empty when Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult returns a passing, empty result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceStep{},
		Errors: []string{},
	}
}

// AddError records a failure.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

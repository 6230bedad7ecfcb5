package journal

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/enigma/internal/enigma"
)

// MessageCheck is the outcome of re-running one message.
type MessageCheck struct {
	ID            string `json:"id"`
	Seq           int64  `json:"seq"`
	Deterministic bool   `json:"deterministic"`
	Reciprocal    bool   `json:"reciprocal"`
	Error         string `json:"error,omitempty"`
}

// OK reports whether the message replayed cleanly.
func (c MessageCheck) OK() bool {
	return c.Error == "" && c.Deterministic && c.Reciprocal
}

// SessionReplay collects the checks for one session.
type SessionReplay struct {
	Session  string         `json:"session"`
	Messages []MessageCheck `json:"messages"`
}

// OK reports whether every message in the session replayed cleanly.
func (r SessionReplay) OK() bool {
	for _, m := range r.Messages {
		if !m.OK() {
			return false
		}
	}
	return true
}

// ReplaySession re-runs each message of session on a fresh machine built
// from its stored key. The re-run must reproduce the stored output, and
// deciphering the output on another fresh machine must restore the input.
func ReplaySession(ctx context.Context, s *Store, session string) (SessionReplay, error) {
	messages, err := s.ReadMessages(ctx, Filter{Session: session})
	if err != nil {
		return SessionReplay{}, fmt.Errorf("replay session %s: %w", session, err)
	}

	result := SessionReplay{Session: session, Messages: make([]MessageCheck, 0, len(messages))}
	for _, m := range messages {
		result.Messages = append(result.Messages, CheckMessage(m))
	}
	return result, nil
}

// CheckMessage verifies determinism and reciprocity for a single message.
func CheckMessage(m Message) MessageCheck {
	check := MessageCheck{ID: m.ID, Seq: m.Seq}

	out, err := transform(m.Config, m.Input)
	if err != nil {
		check.Error = err.Error()
		return check
	}
	check.Deterministic = out == m.Output

	back, err := transform(m.Config, m.Output)
	if err != nil {
		check.Error = err.Error()
		return check
	}
	check.Reciprocal = back == strings.ToUpper(m.Input)
	return check
}

func transform(cfg enigma.Config, text string) (string, error) {
	m, err := enigma.New(cfg)
	if err != nil {
		return "", err
	}
	return m.Transform(text)
}

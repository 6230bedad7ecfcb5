package journal

import (
	"context"
	"fmt"

	"github.com/roach88/enigma/internal/enigma"
	"github.com/roach88/enigma/internal/keysheet"
)

// Recorder appends messages for one session. Its clock resumes after the
// journal's last seq so ordering holds across sessions.
type Recorder struct {
	store   *Store
	clock   *Clock
	session string
}

// NewRecorder opens a new session on store with a token from ids.
func NewRecorder(ctx context.Context, store *Store, ids IDGenerator) (*Recorder, error) {
	last, err := store.LastSeq(ctx)
	if err != nil {
		return nil, fmt.Errorf("new recorder: %w", err)
	}
	return &Recorder{
		store:   store,
		clock:   NewClockAt(last),
		session: ids.Generate(),
	}, nil
}

// Session returns the session token.
func (r *Recorder) Session() string {
	return r.session
}

// Record stores one transform of in to out under cfg.
func (r *Recorder) Record(ctx context.Context, cfg enigma.Config, in, out string) (Message, error) {
	fingerprint, err := keysheet.Fingerprint(cfg)
	if err != nil {
		return Message{}, fmt.Errorf("record: %w", err)
	}

	seq := r.clock.Next()
	id, err := MessageID(fingerprint, r.session, in, seq)
	if err != nil {
		return Message{}, fmt.Errorf("record: %w", err)
	}

	m := Message{
		ID:             id,
		Session:        r.session,
		Seq:            seq,
		KeyFingerprint: fingerprint,
		Config:         cfg,
		Input:          in,
		Output:         out,
	}
	if err := r.store.WriteMessage(ctx, m); err != nil {
		return Message{}, err
	}
	return m, nil
}

package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/enigma/internal/canon"
	"github.com/roach88/enigma/internal/enigma"
)

// ErrNotFound is returned when a message id is not in the journal.
var ErrNotFound = errors.New("message not found")

// Message is one recorded transform.
type Message struct {
	ID             string
	Session        string
	Seq            int64
	KeyFingerprint string
	Config         enigma.Config
	Input          string
	Output         string
}

// Filter narrows ReadMessages. Empty fields match everything.
type Filter struct {
	Session        string
	KeyFingerprint string
}

// MessageID returns the content address of a message.
func MessageID(fingerprint, session, input string, seq int64) (string, error) {
	return canon.Hash(canon.DomainMessage, map[string]any{
		"key":     fingerprint,
		"session": session,
		"seq":     seq,
		"input":   input,
	})
}

// WriteMessage inserts m. Writing an id that already exists is a no-op.
func (s *Store) WriteMessage(ctx context.Context, m Message) error {
	cfg, err := marshalConfig(m.Config)
	if err != nil {
		return fmt.Errorf("write message: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO messages (id, session, seq, key_fingerprint, config, input, output)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, m.ID, m.Session, m.Seq, m.KeyFingerprint, cfg, m.Input, m.Output)
	if err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// ReadMessage returns the message with the given id.
func (s *Store) ReadMessage(ctx context.Context, id string) (Message, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, session, seq, key_fingerprint, config, input, output
		FROM messages WHERE id = ?
	`, id)
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Message{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return m, err
}

// ReadMessages returns matching messages ordered by seq, then id.
// The result is never nil.
func (s *Store) ReadMessages(ctx context.Context, f Filter) ([]Message, error) {
	var where []string
	var args []any
	if f.Session != "" {
		where = append(where, "session = ?")
		args = append(args, f.Session)
	}
	if f.KeyFingerprint != "" {
		where = append(where, "key_fingerprint = ?")
		args = append(args, f.KeyFingerprint)
	}

	query := `SELECT id, session, seq, key_fingerprint, config, input, output FROM messages`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq ASC, id COLLATE BINARY ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

// ListSessions returns session tokens ordered by their first message.
func (s *Store) ListSessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session FROM messages
		GROUP BY session
		ORDER BY MIN(seq) ASC, session COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []string{}
	for rows.Next() {
		var session string
		if err := rows.Scan(&session); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// LastSeq returns the highest seq in the journal, or 0 when it is empty.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM messages`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("query last seq: %w", err)
	}
	return seq.Int64, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(row scanner) (Message, error) {
	var m Message
	var cfg string
	if err := row.Scan(&m.ID, &m.Session, &m.Seq, &m.KeyFingerprint, &cfg, &m.Input, &m.Output); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Message{}, err
		}
		return Message{}, fmt.Errorf("scan message: %w", err)
	}
	if err := json.Unmarshal([]byte(cfg), &m.Config); err != nil {
		return Message{}, fmt.Errorf("decode config of message %s: %w", m.ID, err)
	}
	return m, nil
}

// marshalConfig stores the key as canonical JSON so equal keys are stored
// byte-identically.
func marshalConfig(cfg enigma.Config) (string, error) {
	rotor := func(r enigma.RotorSetting) map[string]any {
		return map[string]any{"table": r.Table, "position": r.Position}
	}
	obj := map[string]any{
		"plugboard": cfg.Plugboard,
		"left":      rotor(cfg.Left),
		"middle":    rotor(cfg.Middle),
		"right":     rotor(cfg.Right),
	}
	if cfg.Reflector != "" {
		obj["reflector"] = cfg.Reflector
	}
	data, err := canon.MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(data), nil
}

package journal

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/enigma/internal/enigma"
	"github.com/roach88/enigma/internal/keysheet"
)

func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testConfig() enigma.Config {
	return enigma.Config{
		Plugboard: "IR:HQ:NT:WZ:VC:OY:GP:LF:BX:AK",
		Left:      enigma.RotorSetting{Table: 1},
		Middle:    enigma.RotorSetting{Table: 2},
		Right:     enigma.RotorSetting{Table: 3},
	}
}

func testMessage(t *testing.T, session string, seq int64, in, out string) Message {
	t.Helper()
	cfg := testConfig()
	fp, err := keysheet.Fingerprint(cfg)
	require.NoError(t, err)
	id, err := MessageID(fp, session, in, seq)
	require.NoError(t, err)
	return Message{ID: id, Session: session, Seq: seq, KeyFingerprint: fp, Config: cfg, Input: in, Output: out}
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)

	mode, err := s.pragma("journal_mode")
	require.NoError(t, err)
	assert.Equal(t, "wal", mode)

	version, err := s.pragma("user_version")
	require.NoError(t, err)
	assert.Equal(t, "1", version)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.WriteMessage(ctx, testMessage(t, "s1", 1, "HELLO WORLD", "DPSJA SXLZW")))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	msgs, err := s2.ReadMessages(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "journal.db"))
	assert.Error(t, err)
}

func TestWriteMessage_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	m := testMessage(t, "s1", 1, "Hello World", "DPSJA SXLZW")
	m.Config.Reflector = enigma.DefaultReflector
	require.NoError(t, s.WriteMessage(ctx, m))

	got, err := s.ReadMessage(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestWriteMessage_DuplicateIsNoop(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	m := testMessage(t, "s1", 1, "A", "V")
	require.NoError(t, s.WriteMessage(ctx, m))

	dup := m
	dup.Output = "X"
	require.NoError(t, s.WriteMessage(ctx, dup))

	got, err := s.ReadMessage(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "V", got.Output, "first write wins")
}

func TestReadMessage_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.ReadMessage(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadMessages_OrderingAndFilter(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Written out of order on purpose.
	require.NoError(t, s.WriteMessage(ctx, testMessage(t, "s2", 3, "C", "V")))
	require.NoError(t, s.WriteMessage(ctx, testMessage(t, "s1", 1, "A", "V")))
	require.NoError(t, s.WriteMessage(ctx, testMessage(t, "s1", 2, "B", "V")))

	all, err := s.ReadMessages(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{all[0].Seq, all[1].Seq, all[2].Seq})

	s1, err := s.ReadMessages(ctx, Filter{Session: "s1"})
	require.NoError(t, err)
	assert.Len(t, s1, 2)

	fp := all[0].KeyFingerprint
	byKey, err := s.ReadMessages(ctx, Filter{Session: "s2", KeyFingerprint: fp})
	require.NoError(t, err)
	assert.Len(t, byKey, 1)

	none, err := s.ReadMessages(ctx, Filter{Session: "missing"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestListSessionsAndLastSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	last, err := s.LastSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), last)

	sessions, err := s.ListSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	require.NoError(t, s.WriteMessage(ctx, testMessage(t, "zeta", 1, "A", "V")))
	require.NoError(t, s.WriteMessage(ctx, testMessage(t, "alpha", 2, "A", "V")))
	require.NoError(t, s.WriteMessage(ctx, testMessage(t, "zeta", 5, "B", "V")))

	sessions, err = s.ListSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha"}, sessions)

	last, err = s.LastSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), last)
}

func TestMessageID(t *testing.T) {
	a, err := MessageID("fp", "s1", "HELLO", 1)
	require.NoError(t, err)
	b, err := MessageID("fp", "s1", "HELLO", 1)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := MessageID("fp", "s1", "HELLO", 2)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestClock(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(0), c.current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())

	resumed := NewClockAt(41)
	assert.Equal(t, int64(42), resumed.Next())
}

func TestClock_Concurrent(t *testing.T) {
	c := NewClock()
	const n = 100

	seen := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- c.Next()
		}()
	}
	wg.Wait()
	close(seen)

	unique := map[int64]bool{}
	for v := range seen {
		unique[v] = true
	}
	assert.Len(t, unique, n)
	assert.Equal(t, int64(n), c.current())
}

func TestGenerators(t *testing.T) {
	token := UUIDv7Generator{}.Generate()
	assert.Len(t, token, 36)

	g := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", g.Generate())
	assert.Equal(t, "b", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

func TestRecorder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteMessage(ctx, testMessage(t, "old", 7, "A", "V")))

	r, err := NewRecorder(ctx, s, NewFixedGenerator("session-1"))
	require.NoError(t, err)
	assert.Equal(t, "session-1", r.Session())

	cfg := testConfig()
	m1, err := r.Record(ctx, cfg, "HELLO WORLD", "DPSJA SXLZW")
	require.NoError(t, err)
	m2, err := r.Record(ctx, cfg, "HELLO WORLD", "DPSJA SXLZW")
	require.NoError(t, err)

	assert.Equal(t, int64(8), m1.Seq, "clock resumes after the journal's last seq")
	assert.Equal(t, int64(9), m2.Seq)
	assert.NotEqual(t, m1.ID, m2.ID)

	msgs, err := s.ReadMessages(ctx, Filter{Session: "session-1"})
	require.NoError(t, err)
	assert.Equal(t, []Message{m1, m2}, msgs)
}

func TestReplaySession(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteMessage(ctx, testMessage(t, "good", 1, "Hello World", "DPSJA SXLZW")))
	require.NoError(t, s.WriteMessage(ctx, testMessage(t, "good", 2, "A", "V")))
	require.NoError(t, s.WriteMessage(ctx, testMessage(t, "bad", 3, "A", "Q")))

	good, err := ReplaySession(ctx, s, "good")
	require.NoError(t, err)
	require.Len(t, good.Messages, 2)
	assert.True(t, good.OK())

	bad, err := ReplaySession(ctx, s, "bad")
	require.NoError(t, err)
	require.Len(t, bad.Messages, 1)
	assert.False(t, bad.OK())
	assert.False(t, bad.Messages[0].Deterministic)
}

func TestCheckMessage_InvalidStoredKey(t *testing.T) {
	m := testMessage(t, "s", 1, "A", "V")
	m.Config.Left.Table = 9

	check := CheckMessage(m)
	assert.False(t, check.OK())
	assert.Contains(t, check.Error, "UNKNOWN_TABLE")
}

// Package journal records cipher transforms in a SQLite database.
//
// Each message row stores the initial key configuration, not rotor state, so
// any message can be re-run from scratch on a fresh machine. Rows are
// written once and never updated; their ids are content addresses, so
// writing the same message twice is a no-op.
//
// Sequence numbers come from a logical Clock, never from wall time. Reads
// are ordered by (seq, id) so replay is deterministic.
package journal

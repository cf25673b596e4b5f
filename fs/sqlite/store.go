// Package sqlite persists trained tokenizer artifacts: (id, symbol,
// frequency) vocabulary records and (left, right, merged, rank) merge
// records, plus a metadata key/value table for trainer parameters.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/teleprint-me/altbpe/tokenizer"
)

// Store wraps the SQLite connection. SQLite serializes writers on its
// own; WAL mode keeps readers from blocking the single writer, so no
// application-level locking is needed here.
type Store struct {
	conn *sql.DB
}

func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.init(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	_, _ = s.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE);")
	return s.conn.Close()
}

func (s *Store) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS vocab (
		id INTEGER PRIMARY KEY,
		symbol TEXT NOT NULL UNIQUE,
		type INTEGER NOT NULL DEFAULT 1,
		frequency INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS merges (
		ordinal INTEGER PRIMARY KEY,
		left_symbol TEXT NOT NULL,
		right_symbol TEXT NOT NULL,
		merged_symbol TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`

	if _, err := s.conn.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveArtifacts replaces any stored artifacts with a. Byte-fallback
// tokens are stored as vocab rows typed TokenByte, with ids following
// the learned symbols.
func (s *Store) SaveArtifacts(a *tokenizer.Artifacts) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM vocab"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM merges"); err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO vocab (id, symbol, type, frequency) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	vocab := a.Vocabulary
	for i, symbol := range vocab.Values {
		if _, err := stmt.Exec(i, symbol, vocab.Types[i], vocab.Freqs[i]); err != nil {
			return fmt.Errorf("insert symbol %q: %w", symbol, err)
		}
	}

	if a.ByteFallback != nil {
		next := len(vocab.Values)
		for b := 0; b < 256; b++ {
			token := a.ByteFallback.Token(byte(b))
			if _, err := stmt.Exec(next+b, token, tokenizer.TokenByte, 0); err != nil {
				return fmt.Errorf("insert byte token %q: %w", token, err)
			}
		}
	}

	merge, err := tx.Prepare("INSERT INTO merges (ordinal, left_symbol, right_symbol, merged_symbol) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer merge.Close()

	for _, rule := range a.Merges {
		if _, err := merge.Exec(rule.Rank, rule.Left, rule.Right, rule.Merged); err != nil {
			return fmt.Errorf("insert merge %d: %w", rule.Rank, err)
		}
	}

	return tx.Commit()
}

// LoadArtifacts reconstructs the artifacts saved by SaveArtifacts.
func (s *Store) LoadArtifacts() (*tokenizer.Artifacts, error) {
	rows, err := s.conn.Query("SELECT symbol, type, frequency FROM vocab ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("load vocab: %w", err)
	}
	defer rows.Close()

	vocab := &tokenizer.Vocabulary{}
	for rows.Next() {
		var symbol string
		var kind int32
		var frequency int
		if err := rows.Scan(&symbol, &kind, &frequency); err != nil {
			return nil, err
		}
		if kind == tokenizer.TokenByte {
			// byte tokens are regenerated below, not read back
			continue
		}
		vocab.Values = append(vocab.Values, symbol)
		vocab.Types = append(vocab.Types, kind)
		vocab.Freqs = append(vocab.Freqs, frequency)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(vocab.Values) == 0 {
		return nil, fmt.Errorf("vocabulary is empty")
	}

	merges, err := s.loadMerges()
	if err != nil {
		return nil, err
	}

	fallback, err := tokenizer.NewByteFallback()
	if err != nil {
		return nil, err
	}

	return &tokenizer.Artifacts{
		Vocabulary:   vocab,
		Merges:       merges,
		ByteFallback: fallback,
	}, nil
}

func (s *Store) loadMerges() ([]tokenizer.MergeRule, error) {
	rows, err := s.conn.Query("SELECT ordinal, left_symbol, right_symbol, merged_symbol FROM merges ORDER BY ordinal")
	if err != nil {
		return nil, fmt.Errorf("load merges: %w", err)
	}
	defer rows.Close()

	var merges []tokenizer.MergeRule
	for rows.Next() {
		var rule tokenizer.MergeRule
		if err := rows.Scan(&rule.Rank, &rule.Left, &rule.Right, &rule.Merged); err != nil {
			return nil, err
		}
		merges = append(merges, rule)
	}
	return merges, rows.Err()
}

// SetMeta stores a trainer parameter, e.g. the pretokenizer pattern.
func (s *Store) SetMeta(key, value string) error {
	_, err := s.conn.Exec(
		"INSERT OR REPLACE INTO metadata (key, value) VALUES (?, ?)", key, value)
	return err
}

// Meta reads a trainer parameter; missing keys return "".
func (s *Store) Meta(key string) (string, error) {
	var value string
	err := s.conn.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

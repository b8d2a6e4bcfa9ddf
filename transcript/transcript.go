// Copyright © 2025 Texelvoice contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: transcript/transcript.go
// Summary: SQLite-backed store of announced lines with substring search.

// Package transcript persists every line the accessibility layer
// announces, so an AT user can review output that scrolled past the
// live region. Writes are batched on a background goroutine; search is
// a bounded substring query, newest first.
package transcript

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded announcement line.
type Entry struct {
	Seq       int64
	Timestamp time.Time
	Text      string
}

// Config holds configuration for the transcript store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BatchSize is the number of entries to accumulate before flushing.
	// Default: 64
	BatchSize int

	// BatchTimeout is how long to wait before flushing a partial batch.
	// Default: 2s
	BatchTimeout time.Duration

	// ChannelBuffer is the size of the async recording channel.
	// Default: 512
	ChannelBuffer int
}

// DefaultConfig returns sensible defaults for the given database path.
func DefaultConfig(dbPath string) Config {
	return Config{
		DBPath:        dbPath,
		BatchSize:     64,
		BatchTimeout:  2 * time.Second,
		ChannelBuffer: 512,
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS announcements (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp INTEGER NOT NULL,      -- UnixNano
    content TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_announcements_timestamp ON announcements(timestamp);
`

type record struct {
	timestamp time.Time
	text      string
}

// Store is the SQLite-backed transcript. It implements the announcer's
// Sink interface through AnnouncedLine.
type Store struct {
	config Config
	db     *sql.DB

	recordCh chan record
	stopCh   chan struct{}
	doneCh   chan struct{}
	flushCh  chan chan struct{}

	mu sync.Mutex
}

// Open creates or opens a transcript database and starts the batch
// writer.
func Open(config Config) (*Store, error) {
	if config.BatchSize <= 0 {
		config.BatchSize = 64
	}
	if config.BatchTimeout <= 0 {
		config.BatchTimeout = 2 * time.Second
	}
	if config.ChannelBuffer <= 0 {
		config.ChannelBuffer = 512
	}

	dir := filepath.Dir(config.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dsn := config.DBPath +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=temp_store(MEMORY)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	s := &Store{
		config:   config,
		db:       db,
		recordCh: make(chan record, config.ChannelBuffer),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		flushCh:  make(chan chan struct{}),
	}
	go s.batchWriter()
	return s, nil
}

// AnnouncedLine queues one announced line for recording. Lines are
// dropped rather than blocking the announcer when the queue is full.
func (s *Store) AnnouncedLine(text string) {
	if text == "" {
		return
	}
	select {
	case s.recordCh <- record{timestamp: time.Now(), text: text}:
	default:
		log.Printf("transcript: queue full, dropping line")
	}
}

// Search returns up to limit entries whose text contains query as a
// substring, newest first. An empty query matches nothing.
func (s *Store) Search(query string, limit int) ([]Entry, error) {
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	pattern := "%" + escapeLike(query) + "%"

	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(
		`SELECT seq, timestamp, content FROM announcements
		 WHERE content LIKE ? ESCAPE '\'
		 ORDER BY timestamp DESC, seq DESC LIMIT ?`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ts int64
		if err := rows.Scan(&e.Seq, &ts, &e.Text); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		e.Timestamp = time.Unix(0, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Recent returns the latest limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(
		`SELECT seq, timestamp, content FROM announcements
		 ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent query failed: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ts int64
		if err := rows.Scan(&e.Seq, &ts, &e.Text); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		e.Timestamp = time.Unix(0, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Flush blocks until every queued line is written.
func (s *Store) Flush() error {
	done := make(chan struct{})
	select {
	case s.flushCh <- done:
		<-done
		return nil
	case <-s.doneCh:
		return fmt.Errorf("transcript store is closed")
	}
}

// Close flushes pending writes, stops the batch writer and closes the
// database.
func (s *Store) Close() error {
	close(s.stopCh)
	<-s.doneCh
	return s.db.Close()
}

// batchWriter runs in a background goroutine, batching queued lines
// and flushing on size, timeout, explicit flush or shutdown.
func (s *Store) batchWriter() {
	defer close(s.doneCh)

	batch := make([]record, 0, s.config.BatchSize)
	timer := time.NewTimer(s.config.BatchTimeout)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		s.writeBatch(batch)
		batch = batch[:0]
	}

	for {
		select {
		case r := <-s.recordCh:
			batch = append(batch, r)
			if len(batch) >= s.config.BatchSize {
				flush()
				timer.Reset(s.config.BatchTimeout)
			}

		case <-timer.C:
			flush()
			timer.Reset(s.config.BatchTimeout)

		case done := <-s.flushCh:
			// Drain the queue before acking the flush.
			draining := true
			for draining {
				select {
				case r := <-s.recordCh:
					batch = append(batch, r)
				default:
					draining = false
				}
			}
			flush()
			close(done)

		case <-s.stopCh:
			for {
				select {
				case r := <-s.recordCh:
					batch = append(batch, r)
				default:
					flush()
					return
				}
			}
		}
	}
}

// writeBatch writes one batch in a single transaction. Failures are
// logged, not surfaced; the transcript is best-effort by design.
func (s *Store) writeBatch(batch []record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("transcript: failed to begin transaction: %v", err)
		return
	}
	stmt, err := tx.Prepare("INSERT INTO announcements (timestamp, content) VALUES (?, ?)")
	if err != nil {
		log.Printf("transcript: failed to prepare statement: %v", err)
		tx.Rollback()
		return
	}
	defer stmt.Close()

	for _, r := range batch {
		if _, err := stmt.Exec(r.timestamp.UnixNano(), r.text); err != nil {
			log.Printf("transcript: failed to insert line: %v", err)
			tx.Rollback()
			return
		}
	}
	if err := tx.Commit(); err != nil {
		log.Printf("transcript: failed to commit batch: %v", err)
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

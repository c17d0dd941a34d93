/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	applog "slowreveal/internal/log"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

// Well-known session keys. The session store carries working state that
// outlives a process but not a project: the draft manifest, whether the
// onboarding tour ran, and how far the user got through it.
const (
	SessionKeyProject      = "project"
	SessionKeyFirstVisit   = "firstVisit"
	SessionKeyLastTourStep = "lastTourStep"
)

// ErrSessionKeyNotFound is returned by Get for an absent key.
var ErrSessionKeyNotFound = errors.New("storage: session key not found")

// SessionStore is a small key/value surface over JSON-encoded values.
// Subscribers are notified after every successful Set or Delete with the
// affected key; a nil value signals deletion.
type SessionStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Subscribe(fn func(key string, value []byte)) (cancel func())
	Close() error
}

const (
	SessionDirName  = ".srb"
	SessionFileName = "session.sqlite"

	sessionSchemaVersion = 1
)

// SessionPath returns the full path to the project's session database file.
func SessionPath(projectRoot string) string {
	return filepath.Join(projectRoot, SessionDirName, SessionFileName)
}

// SQLiteStore persists session state in a per-project SQLite file.
type SQLiteStore struct {
	db *sql.DB

	mu   sync.Mutex
	subs map[int]func(key string, value []byte)
	next int
}

// OpenSessionStore ensures the per-project SQLite session database exists at
// .srb/session.sqlite, opens it, enables WAL mode, and ensures the kv and
// meta tables exist.
func OpenSessionStore(projectRoot string) (*SQLiteStore, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "session_open").With(
		slog.String("root", projectRoot),
	)
	if projectRoot == "" {
		return nil, errors.New("project root is required")
	}
	if err := os.MkdirAll(filepath.Join(projectRoot, SessionDirName), 0o755); err != nil {
		l.Error("create .srb dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .srb dir: %w", err)
	}

	path := SessionPath(projectRoot)
	uriPath := filepath.ToSlash(path)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Single connection for embedded usage.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS meta (
			id     INTEGER PRIMARY KEY CHECK(id=1),
			schema INTEGER NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			_ = db.Close()
			l.Error("ensure session schema failed", slog.Any("err", err))
			return nil, fmt.Errorf("ensure session schema: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO meta (id, schema) VALUES(1, ?) ON CONFLICT(id) DO NOTHING`, sessionSchemaVersion); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed session meta: %w", err)
	}

	l.Info("session store ready", slog.String("path", path))
	return &SQLiteStore{db: db, subs: make(map[int]func(string, []byte))}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key=?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session get %s: %w", key, err)
	}
	return v, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES(?,?,?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, value, now)
	if err != nil {
		return fmt.Errorf("session set %s: %w", key, err)
	}
	s.notify(key, value)
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key=?`, key); err != nil {
		return fmt.Errorf("session delete %s: %w", key, err)
	}
	s.notify(key, nil)
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv`); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	s.notify("", nil)
	return nil
}

func (s *SQLiteStore) Subscribe(fn func(key string, value []byte)) (cancel func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) notify(key string, value []byte) {
	s.mu.Lock()
	fns := make([]func(string, []byte), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(key, value)
	}
}

// MemoryStore is an in-process SessionStore used by tests and by one-shot
// CLI commands that have no project root to anchor a database in.
type MemoryStore struct {
	mu   sync.Mutex
	kv   map[string][]byte
	subs map[int]func(key string, value []byte)
	next int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{kv: make(map[string][]byte), subs: make(map[int]func(string, []byte))}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.kv[key]
	if !ok {
		return nil, ErrSessionKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.kv[key] = append([]byte(nil), value...)
	fns := m.snapshotSubs()
	m.mu.Unlock()
	for _, fn := range fns {
		fn(key, value)
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.kv, key)
	fns := m.snapshotSubs()
	m.mu.Unlock()
	for _, fn := range fns {
		fn(key, nil)
	}
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	m.kv = make(map[string][]byte)
	fns := m.snapshotSubs()
	m.mu.Unlock()
	for _, fn := range fns {
		fn("", nil)
	}
	return nil
}

func (m *MemoryStore) Subscribe(fn func(key string, value []byte)) (cancel func()) {
	m.mu.Lock()
	id := m.next
	m.next++
	m.subs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *MemoryStore) Close() error { return nil }

// snapshotSubs must be called with the lock held.
func (m *MemoryStore) snapshotSubs() []func(string, []byte) {
	fns := make([]func(string, []byte), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	return fns
}

// Copyright (c) 2026 The SynMerge Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cache persists merges so a later "review" invocation can
// diff inputs against output (spec section 6's "persisted state").
// cmd/synmerge records only merges whose output still contains
// conflicts; clean merges are not stored. Entries live in a SQLite database
// under an OS-appropriate user-data directory, addressed by a random
// short id printed to standard error at merge time.
package cache

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS merges (
	id TEXT PRIMARY KEY,
	base BLOB,
	left BLOB,
	right BLOB,
	output BLOB,
	created_at INTEGER
);`

// Store is a handle on the persisted merge cache.
type Store struct {
	db *sql.DB
}

// Dir returns the cache database's directory, derived from
// os.UserCacheDir the way the spec's "OS-appropriate user-data
// location" calls for.
func Dir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "synmerge"), nil
}

// Open opens (creating if necessary) the cache database in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	db, err := sql.Open("sqlite3", filepath.Join(dir, "cache.db"))
	if err != nil {
		return nil, fmt.Errorf("cache: open: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Entry is one persisted merge.
type Entry struct {
	ID                        string
	Base, Left, Right, Output []byte
	CreatedAt                 int64
}

// Put stores one merge (its base, left, right and output texts and
// createdAt) under a freshly generated random short id and returns
// that id.
func (s *Store) Put(base, left, right, output []byte, createdAt int64) (string, error) {
	id, err := newID()
	if err != nil {
		return "", fmt.Errorf("cache: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO merges (id, base, left, right, output, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, base, left, right, output, createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("cache: put: %w", err)
	}
	return id, nil
}

// Get retrieves the entry for id, or (nil, nil) if no such entry
// exists.
func (s *Store) Get(id string) (*Entry, error) {
	row := s.db.QueryRow(`SELECT id, base, left, right, output, created_at FROM merges WHERE id = ?`, id)
	var e Entry
	if err := row.Scan(&e.ID, &e.Base, &e.Left, &e.Right, &e.Output, &e.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("cache: get: %w", err)
	}
	return &e, nil
}

// newID returns an 8-byte random id, hex-encoded, short enough to
// print and type but large enough to make collisions practically
// impossible for the number of entries one local cache accumulates.
func newID() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

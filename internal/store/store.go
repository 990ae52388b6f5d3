// Package store keeps student records for the offline CLI in a local JSON
// file: an array of snapshots in registration order.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/stemsi/course-registration/internal/enrollment"
)

// ErrDuplicateID is returned by Create when the id is already stored.
var ErrDuplicateID = errors.New("student already registered")

// FileStore is an in-memory set of snapshots backed by one file. Changes
// reach disk only on Save.
type FileStore struct {
	path string

	mu    sync.Mutex
	order []string
	byID  map[string]enrollment.StudentSnapshot
}

// New returns an empty store that will save to path.
func New(path string) *FileStore {
	return &FileStore{path: path, byID: make(map[string]enrollment.StudentSnapshot)}
}

// Open loads path. A missing file yields an empty store; an unreadable or
// malformed one is an error.
func Open(path string) (*FileStore, error) {
	s := New(path)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}

	var snaps []enrollment.StudentSnapshot
	if err := json.Unmarshal(data, &snaps); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	for _, snap := range snaps {
		if _, dup := s.byID[snap.ID]; dup {
			return nil, fmt.Errorf("decode %s: %w: %s", path, ErrDuplicateID, snap.ID)
		}
		s.order = append(s.order, snap.ID)
		s.byID[snap.ID] = snap
	}
	return s, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

// Len returns the number of stored students.
func (s *FileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

// Get returns the snapshot stored under id.
func (s *FileStore) Get(id string) (enrollment.StudentSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.byID[id]
	return snap, ok
}

// Create adds a new student, refusing an id that already exists.
func (s *FileStore) Create(snap enrollment.StudentSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[snap.ID]; ok {
		return ErrDuplicateID
	}
	s.order = append(s.order, snap.ID)
	s.byID[snap.ID] = snap
	return nil
}

// Put inserts or replaces the snapshot for snap.ID.
func (s *FileStore) Put(snap enrollment.StudentSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[snap.ID]; !ok {
		s.order = append(s.order, snap.ID)
	}
	s.byID[snap.ID] = snap
}

// Save writes every snapshot to a temp file beside path and renames it
// into place, so a crash leaves either the old or the new file.
func (s *FileStore) Save() error {
	s.mu.Lock()
	snaps := make([]enrollment.StudentSnapshot, len(s.order))
	for i, id := range s.order {
		snaps[i] = s.byID[id]
	}
	s.mu.Unlock()

	data, err := json.MarshalIndent(snaps, "", "    ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

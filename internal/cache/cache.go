package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	filesBucket = []byte("changed_files")
	diffsBucket = []byte("diffs")
)

// Store is a bbolt-backed cache of per-commit lookups, so rerunning
// the analyze or classify stage against the same repository does not
// refetch from the REST API. A nil store is a valid no-op cache.
type Store struct {
	db *bolt.DB
}

// Open creates or opens the cache database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{filesBucket, diffsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// ChangedFiles returns the cached file list for a commit, if any.
func (s *Store) ChangedFiles(sha string) ([]string, bool) {
	var raw []byte
	if !s.get(filesBucket, sha, &raw) {
		return nil, false
	}
	var files []string
	if err := json.Unmarshal(raw, &files); err != nil {
		return nil, false
	}
	return files, true
}

// PutChangedFiles caches a commit's file list.
func (s *Store) PutChangedFiles(sha string, files []string) error {
	data, err := json.Marshal(files)
	if err != nil {
		return err
	}
	return s.put(filesBucket, sha, data)
}

// Diff returns the cached diff for a commit, if any.
func (s *Store) Diff(sha string) (string, bool) {
	var raw []byte
	if !s.get(diffsBucket, sha, &raw) {
		return "", false
	}
	return string(raw), true
}

// PutDiff caches a commit's diff.
func (s *Store) PutDiff(sha, diff string) error {
	return s.put(diffsBucket, sha, []byte(diff))
}

func (s *Store) get(bucket []byte, key string, out *[]byte) bool {
	if s == nil {
		return false
	}
	found := false
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucket).Get([]byte(key)); v != nil {
			*out = append([]byte(nil), v...)
			found = true
		}
		return nil
	})
	return found
}

func (s *Store) put(bucket []byte, key string, value []byte) error {
	if s == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), value)
	})
}

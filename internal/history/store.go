package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	bucketHistory = "history"
	bucketMeta    = "meta"
	keyLastRun    = "last_run"

	// keyLayout sorts lexically in chronological order.
	keyLayout = "2006-01-02T15:04:05.000000000Z"
)

// ErrNotFound is returned when no entry matches an ID.
var ErrNotFound = errors.New("history entry not found")

// Store manages run history using BoltDB.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketHistory)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(bucketMeta))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database. Closing twice is harmless.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func entryKey(e *Entry) []byte {
	return []byte(e.Timestamp.UTC().Format(keyLayout) + "/" + e.ID)
}

// Record saves a history entry.
func (s *Store) Record(entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketHistory))
		if bucket == nil {
			return fmt.Errorf("history bucket not found")
		}

		key := entryKey(entry)
		if err := bucket.Put(key, data); err != nil {
			return fmt.Errorf("failed to save entry: %w", err)
		}

		if meta := tx.Bucket([]byte(bucketMeta)); meta != nil {
			return meta.Put([]byte(keyLastRun), key)
		}
		return nil
	})
}

// List returns the most recent entries, newest first. A limit <= 0 returns all.
func (s *Store) List(limit int) ([]Entry, error) {
	var entries []Entry

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketHistory))
		if bucket == nil {
			return nil
		}

		cursor := bucket.Cursor()
		for k, v := cursor.Last(); k != nil && (limit <= 0 || len(entries) < limit); k, v = cursor.Prev() {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				continue // Skip malformed entries
			}
			entries = append(entries, entry)
		}
		return nil
	})

	return entries, err
}

// Get retrieves an entry by its ID or by a unique ID prefix.
func (s *Store) Get(id string) (*Entry, error) {
	var found []Entry

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketHistory))
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(_, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return nil
			}
			if e.ID == id {
				found = []Entry{e}
				return errStop
			}
			if len(id) > 0 && len(e.ID) > len(id) && e.ID[:len(id)] == id {
				found = append(found, e)
			}
			return nil
		})
	})
	if err != nil && !errors.Is(err, errStop) {
		return nil, err
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return &found[0], nil
	}
	return nil, fmt.Errorf("ambiguous history ID %q matches %d entries", id, len(found))
}

var errStop = errors.New("stop")

// Last returns the most recently recorded entry, or nil if there is none.
func (s *Store) Last() (*Entry, error) {
	var entry *Entry

	err := s.db.View(func(tx *bbolt.Tx) error {
		meta := tx.Bucket([]byte(bucketMeta))
		bucket := tx.Bucket([]byte(bucketHistory))
		if meta == nil || bucket == nil {
			return nil
		}

		key := meta.Get([]byte(keyLastRun))
		if key == nil {
			return nil
		}
		v := bucket.Get(key)
		if v == nil {
			return nil
		}

		var e Entry
		if err := json.Unmarshal(v, &e); err != nil {
			return err
		}
		entry = &e
		return nil
	})

	return entry, err
}

// Count returns the total number of entries.
func (s *Store) Count() (int, error) {
	var count int

	err := s.db.View(func(tx *bbolt.Tx) error {
		if bucket := tx.Bucket([]byte(bucketHistory)); bucket != nil {
			count = bucket.Stats().KeyN
		}
		return nil
	})

	return count, err
}

// Clear removes all history entries.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketHistory)); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}
		if meta := tx.Bucket([]byte(bucketMeta)); meta != nil {
			if err := meta.Delete([]byte(keyLastRun)); err != nil {
				return err
			}
		}
		_, err := tx.CreateBucket([]byte(bucketHistory))
		return err
	})
}

// Prune removes entries older than maxAge and returns how many were removed.
func (s *Store) Prune(maxAge time.Duration) (int, error) {
	cutoff := []byte(time.Now().Add(-maxAge).UTC().Format(keyLayout))
	var deleted int

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketHistory))
		if bucket == nil {
			return nil
		}

		// Keys sort chronologically, so everything before the cutoff is a prefix run.
		var toDelete [][]byte
		cursor := bucket.Cursor()
		for k, _ := cursor.First(); k != nil && string(k) < string(cutoff); k, _ = cursor.Next() {
			toDelete = append(toDelete, append([]byte(nil), k...))
		}

		for _, k := range toDelete {
			if err := bucket.Delete(k); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})

	return deleted, err
}

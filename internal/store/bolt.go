package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"log/slog"

	"github.com/boltdb/bolt"
)

var bucketName = []byte("conversations")

// BoltBackend persists conversation state in a bolt file so sessions
// survive a restart. Values are gob-encoded State records keyed by
// user id.
type BoltBackend struct {
	db *bolt.DB
}

func NewBoltBackend(path string) (*BoltBackend, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open state file: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltBackend{db: db}, nil
}

func (b *BoltBackend) Close() error {
	return b.db.Close()
}

func (b *BoltBackend) Load(userID string) (State, bool) {
	var state State
	var found bool
	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketName).Get([]byte(userID))
		if raw == nil {
			return nil
		}
		dec := gob.NewDecoder(bytes.NewReader(raw))
		if err := dec.Decode(&state); err != nil {
			return fmt.Errorf("failed to decode state for %s: %w", userID, err)
		}
		found = true
		return nil
	})
	if err != nil {
		// A corrupted record is treated as absent; the next Save
		// overwrites it.
		slog.Warn("dropping unreadable conversation state", "user", userID, "err", err)
		return State{}, false
	}
	if !found {
		return State{}, false
	}
	return state, true
}

func (b *BoltBackend) Save(userID string, state State) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		var val bytes.Buffer
		if err := gob.NewEncoder(&val).Encode(state); err != nil {
			return fmt.Errorf("failed to encode state for %s: %w", userID, err)
		}
		return tx.Bucket(bucketName).Put([]byte(userID), val.Bytes())
	})
}

func (b *BoltBackend) Delete(userID string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(userID))
	})
}

func (b *BoltBackend) Users() ([]string, error) {
	var users []string
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).ForEach(func(k, _ []byte) error {
			users = append(users, string(k))
			return nil
		})
	})
	return users, err
}

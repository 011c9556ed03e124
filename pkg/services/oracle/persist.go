package oracle

import (
	"encoding/binary"
	"time"

	bolt "go.etcd.io/bbolt"
)

var finishedBucket = []byte("finished")

// finishedStore persists finished_cache entries across restarts, so a
// node that restarts mid-TTL doesn't re-finalize (and double-submit) a
// request it already answered (spec §3 "finished_cache"). It is optional:
// a Service without FinishedCachePath configured runs with the in-memory
// LRU alone, the same as the teacher's own oracle tests do.
type finishedStore struct {
	db *bolt.DB
}

func openFinishedStore(path string) (*finishedStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(finishedBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &finishedStore{db: db}, nil
}

// Put records id as finished at t.
func (s *finishedStore) Put(id uint64, t time.Time) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		var key [8]byte
		binary.BigEndian.PutUint64(key[:], id)
		v, err := t.MarshalBinary()
		if err != nil {
			return err
		}
		return tx.Bucket(finishedBucket).Put(key[:], v)
	})
}

// LoadAll returns every persisted id -> finished-at timestamp, used to
// repopulate the in-memory LRU on startup.
func (s *finishedStore) LoadAll() (map[uint64]time.Time, error) {
	out := make(map[uint64]time.Time)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(finishedBucket).ForEach(func(k, v []byte) error {
			var t time.Time
			if err := t.UnmarshalBinary(v); err != nil {
				return err
			}
			out[binary.BigEndian.Uint64(k)] = t
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *finishedStore) Close() error {
	return s.db.Close()
}

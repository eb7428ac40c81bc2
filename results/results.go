// Package results persists per-trace idealization results, so that long
// batch evaluations can be interrupted and resumed.
package results

import (
	"encoding/json"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"
)

// log is the global logging variable.
var log = logging.MustGetLogger("results")

// MAIN is the bucket name for all stored results.
var MAIN = []byte("results")

// ResultIO provides operations on the result store. A nil database makes
// every operation a no-op, so callers need not special-case running
// without persistence.
type ResultIO struct {
	db *bolt.DB
}

// NewResultIO creates a new ResultIO on top of a bolt database.
func NewResultIO(db *bolt.DB) *ResultIO {
	return &ResultIO{db: db}
}

// key builds the store key for a trace analyzed by a method.
func key(method, name string) []byte {
	return []byte(method + "/" + name)
}

// Save stores a result value serialized as JSON.
func (s *ResultIO) Save(method, name string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		log.Error("Error serializing result", err)
		return err
	}
	err = SaveData(s.db, key(method, name), data)
	if err != nil {
		log.Error("Error saving result", err)
	}
	return err
}

// Load reads a previously stored result into value. The first return is
// false when no result is stored for this method and trace.
func (s *ResultIO) Load(method, name string, value interface{}) (bool, error) {
	b, err := LoadData(s.db, key(method, name))
	if err != nil || b == nil {
		return false, err
	}
	err = json.Unmarshal(b, value)
	if err != nil {
		return false, err
	}
	log.Debugf("Found stored %s result for %s", method, name)
	return true, nil
}

// SaveData saves values in bolt database.
func SaveData(db *bolt.DB, key []byte, data []byte) error {
	if db == nil {
		return nil
	}
	err := db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(MAIN)
		if err != nil {
			return err
		}

		err = b.Put(key, data)
		return err
	})
	return err
}

// LoadData loads data from bolt database.
func LoadData(db *bolt.DB, key []byte) ([]byte, error) {
	var data []byte
	if db == nil {
		return nil, nil
	}
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(MAIN)
		if b == nil {
			return nil
		}

		v := b.Get(key)
		if v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

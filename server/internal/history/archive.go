package history

import (
	"encoding/json"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var bucket = []byte("history")

// Archive keeps every record in bbolt, keyed by a time ordered uuid.
type Archive struct {
	db *bolt.DB
}

func NewArchive(db *bolt.DB) (*Archive, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Archive{db: db}, nil
}

func (a *Archive) Put(r Record) error {
	key, err := uuid.NewV7()
	if err != nil {
		return err
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	return a.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key.String()), data)
	})
}

// List returns up to limit records, newest first. A limit <= 0 returns all.
func (a *Archive) List(limit int) ([]Record, error) {
	records := make([]Record, 0)

	err := a.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucket).Cursor()

		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(records) >= limit {
				break
			}

			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			records = append(records, r)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

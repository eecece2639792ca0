package card

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	cardBucketName  = "cards"
	imageBucketName = "card_images"
)

// DB defines the interface for card persistence. Every call commits or fails
// as a unit.
type DB interface {
	// InitSchema creates the backing tables or buckets if they are missing
	InitSchema() error

	// InsertCard stores a new card and returns its ID
	InsertCard(details Details, imageData []byte) (uint64, error)

	// ListCards returns all cards ordered by ID
	ListCards() ([]*Card, error)

	// GetCard retrieves a card by ID; found is false when it does not exist
	GetCard(id uint64) (card *Card, found bool, err error)

	// UpdateCard replaces the details of an existing card
	UpdateCard(id uint64, details Details) error

	// DeleteCard removes a card; deleting a missing ID is not an error
	DeleteCard(id uint64) error

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB opens the database at path and initializes its buckets
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: opening boltdb: %w", ErrPersistence, err)
	}

	b := &BoltDB{db: db}
	if err := b.InitSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

// InitSchema creates the card and image buckets if they don't exist
func (b *BoltDB) InitSchema() error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(cardBucketName)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(imageBucketName)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: creating buckets: %w", ErrPersistence, err)
	}
	return nil
}

func idKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}

// InsertCard stores the details and image under the next bucket sequence
func (b *BoltDB) InsertCard(details Details, imageData []byte) (uint64, error) {
	if err := details.Validate(); err != nil {
		return 0, fmt.Errorf("%w: inserting card: %w", ErrPersistence, err)
	}

	var id uint64
	err := b.db.Update(func(tx *bbolt.Tx) error {
		cards := tx.Bucket([]byte(cardBucketName))
		seq, err := cards.NextSequence()
		if err != nil {
			return fmt.Errorf("allocating id: %w", err)
		}
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling card: %w", err)
		}
		if err := cards.Put(idKey(seq), data); err != nil {
			return err
		}
		if err := tx.Bucket([]byte(imageBucketName)).Put(idKey(seq), imageData); err != nil {
			return err
		}
		id = seq
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: inserting card: %w", ErrPersistence, err)
	}
	return id, nil
}

// ListCards returns all cards in ID order
func (b *BoltDB) ListCards() ([]*Card, error) {
	cards := make([]*Card, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		images := tx.Bucket([]byte(imageBucketName))
		return tx.Bucket([]byte(cardBucketName)).ForEach(func(k, v []byte) error {
			card, err := decodeCard(k, v, images.Get(k))
			if err != nil {
				return err
			}
			cards = append(cards, card)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: listing cards: %w", ErrPersistence, err)
	}
	return cards, nil
}

// GetCard retrieves a card by ID
func (b *BoltDB) GetCard(id uint64) (*Card, bool, error) {
	var card *Card
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(cardBucketName)).Get(idKey(id))
		if data == nil {
			return nil
		}
		var err error
		card, err = decodeCard(idKey(id), data, tx.Bucket([]byte(imageBucketName)).Get(idKey(id)))
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("%w: getting card %d: %w", ErrPersistence, id, err)
	}
	return card, card != nil, nil
}

// UpdateCard replaces the details of an existing card, keeping its image
func (b *BoltDB) UpdateCard(id uint64, details Details) error {
	if err := details.Validate(); err != nil {
		return fmt.Errorf("%w: updating card %d: %w", ErrPersistence, id, err)
	}

	err := b.db.Update(func(tx *bbolt.Tx) error {
		cards := tx.Bucket([]byte(cardBucketName))
		if cards.Get(idKey(id)) == nil {
			return fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling card: %w", err)
		}
		return cards.Put(idKey(id), data)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: updating card %d: %w", ErrPersistence, id, err)
	}
	return nil
}

// DeleteCard removes a card and its image
func (b *BoltDB) DeleteCard(id uint64) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket([]byte(cardBucketName)).Delete(idKey(id)); err != nil {
			return err
		}
		return tx.Bucket([]byte(imageBucketName)).Delete(idKey(id))
	})
	if err != nil {
		return fmt.Errorf("%w: deleting card %d: %w", ErrPersistence, id, err)
	}
	return nil
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}

// decodeCard builds a Card from bucket values. bbolt values are only valid
// inside the transaction, so the image is copied.
func decodeCard(key, data, image []byte) (*Card, error) {
	var details Details
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("unmarshaling card: %w", err)
	}
	return &Card{
		ID:        binary.BigEndian.Uint64(key),
		Details:   details,
		ImageData: append([]byte(nil), image...),
	}, nil
}

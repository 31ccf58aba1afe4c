package imapwatch

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/directorytree/go-imapengine"
)

// Watermark is the last UID reported for a mailbox.
type Watermark struct {
	UIDValidity uint32
	UID         imap.UID
}

// WatermarkStore persists watermarks, keyed by mailbox name.
type WatermarkStore interface {
	// Load returns the saved watermark. ok is false if there is none.
	Load(mailbox string) (mark Watermark, ok bool, err error)
	Save(mailbox string, mark Watermark) error
}

// MemoryStore keeps watermarks in memory.
type MemoryStore struct {
	mutex sync.Mutex
	marks map[string]Watermark
}

var _ WatermarkStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{marks: make(map[string]Watermark)}
}

func (s *MemoryStore) Load(mailbox string) (Watermark, bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	mark, ok := s.marks[mailbox]
	return mark, ok, nil
}

func (s *MemoryStore) Save(mailbox string, mark Watermark) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.marks[mailbox] = mark
	return nil
}

const boltBucketWatermarks = "watermarks"

// BoltStore keeps watermarks in a bbolt database file.
type BoltStore struct {
	db *bolt.DB
}

var _ WatermarkStore = (*BoltStore)(nil)

// OpenBoltStore opens or creates a BoltStore.
func OpenBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("imapwatch: failed to open watermark database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucketWatermarks))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Load(mailbox string) (Watermark, bool, error) {
	var (
		mark Watermark
		ok   bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(boltBucketWatermarks)).Get([]byte(mailbox))
		if v == nil {
			return nil
		}
		if len(v) != 8 {
			return fmt.Errorf("imapwatch: invalid watermark for %q", mailbox)
		}
		mark.UIDValidity = binary.BigEndian.Uint32(v[:4])
		mark.UID = imap.UID(binary.BigEndian.Uint32(v[4:]))
		ok = true
		return nil
	})
	return mark, ok, err
}

func (s *BoltStore) Save(mailbox string, mark Watermark) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		buf := make([]byte, 8)
		binary.BigEndian.PutUint32(buf[:4], mark.UIDValidity)
		binary.BigEndian.PutUint32(buf[4:], uint32(mark.UID))
		return tx.Bucket([]byte(boltBucketWatermarks)).Put([]byte(mailbox), buf)
	})
}

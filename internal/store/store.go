package store

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/holocron/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketPlanets = []byte("planets") // seq (big endian uint64) -> planet JSON
	bucketIndex   = []byte("index")   // planet URL -> seq key
)

// PlanetStore implements domain.CacheStore using BoltDB.
// Planets are kept in insertion order; the URL index makes Insert an upsert.
type PlanetStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects snapshot

	// In-memory snapshot for hot-path reads. In memory-only mode it is the
	// source of truth, otherwise it is rebuilt lazily after each write.
	snapshot []domain.Planet
	valid    bool

	subMu  sync.Mutex
	subs   map[int]chan []domain.Planet
	nextID int
	closed bool
}

// NewPlanetStore opens the cache under baseCacheDir. Each catalog server gets
// its own subdirectory. An empty baseCacheDir selects memory-only mode.
func NewPlanetStore(baseCacheDir, serverURL string) (*PlanetStore, error) {
	s := &PlanetStore{subs: make(map[int]chan []domain.Planet)}

	if baseCacheDir == "" {
		s.valid = true
		return s, nil
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "holocron.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketPlanets, bucketIndex} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

// Close closes the database and every observer channel
func (s *PlanetStore) Close() error {
	s.subMu.Lock()
	if !s.closed {
		s.closed = true
		for id, ch := range s.subs {
			close(ch)
			delete(s.subs, id)
		}
	}
	s.subMu.Unlock()

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// All returns the cached planets in insertion order
func (s *PlanetStore) All() ([]domain.Planet, error) {
	s.mu.RLock()
	if s.valid {
		out := clonePlanets(s.snapshot)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		planets, err := s.readAll()
		if err != nil {
			return nil, err
		}
		s.snapshot = planets
		s.valid = true
	}
	return clonePlanets(s.snapshot), nil
}

// Observe emits the current snapshot and then a new one after every write.
// Slow observers only see the latest snapshot.
func (s *PlanetStore) Observe(ctx context.Context) <-chan []domain.Planet {
	ch := make(chan []domain.Planet, 1)

	s.subMu.Lock()
	if s.closed {
		s.subMu.Unlock()
		close(ch)
		return ch
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	if planets, err := s.All(); err == nil {
		s.deliver(id, planets)
	}

	go func() {
		<-ctx.Done()
		s.subMu.Lock()
		if sub, ok := s.subs[id]; ok {
			close(sub)
			delete(s.subs, id)
		}
		s.subMu.Unlock()
	}()

	return ch
}

// ReplaceAll swaps the cache contents for planets in one transaction
func (s *PlanetStore) ReplaceAll(planets []domain.Planet) error {
	return s.write(func(tx *bolt.Tx) error {
		if err := clearTx(tx); err != nil {
			return err
		}
		return insertTx(tx, planets)
	}, func(snapshot []domain.Planet) []domain.Planet {
		return upsert(nil, planets)
	})
}

// Insert upserts planets; a planet already cached keeps its position
func (s *PlanetStore) Insert(planets []domain.Planet) error {
	return s.write(func(tx *bolt.Tx) error {
		return insertTx(tx, planets)
	}, func(snapshot []domain.Planet) []domain.Planet {
		return upsert(snapshot, planets)
	})
}

// Clear removes every cached planet
func (s *PlanetStore) Clear() error {
	return s.write(clearTx, func([]domain.Planet) []domain.Planet {
		return nil
	})
}

// write applies a change to BoltDB (or the memory snapshot in memory-only mode)
// and notifies observers.
func (s *PlanetStore) write(update func(tx *bolt.Tx) error, apply func([]domain.Planet) []domain.Planet) error {
	s.mu.Lock()
	if s.db == nil {
		s.snapshot = apply(s.snapshot)
	} else {
		if err := s.db.Update(update); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
		}
		s.valid = false
		s.snapshot = nil
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *PlanetStore) notify() {
	s.subMu.Lock()
	empty := len(s.subs) == 0
	s.subMu.Unlock()
	if empty {
		return
	}

	planets, err := s.All()
	if err != nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		replaceLatest(ch, clonePlanets(planets))
	}
}

func (s *PlanetStore) deliver(id int, planets []domain.Planet) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if ch, ok := s.subs[id]; ok {
		replaceLatest(ch, planets)
	}
}

// replaceLatest drops a pending snapshot so the channel always holds the newest one
func replaceLatest(ch chan []domain.Planet, planets []domain.Planet) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- planets:
	default:
	}
}

func (s *PlanetStore) readAll() ([]domain.Planet, error) {
	var planets []domain.Planet
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPlanets)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var p domain.Planet
			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}
			planets = append(planets, p)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return planets, nil
}

func clearTx(tx *bolt.Tx) error {
	for _, bucket := range [][]byte{bucketPlanets, bucketIndex} {
		if err := tx.DeleteBucket(bucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		if _, err := tx.CreateBucket(bucket); err != nil {
			return err
		}
	}
	return nil
}

func insertTx(tx *bolt.Tx, planets []domain.Planet) error {
	b := tx.Bucket(bucketPlanets)
	idx := tx.Bucket(bucketIndex)
	for _, p := range planets {
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}

		if existing := idx.Get([]byte(p.URL)); existing != nil {
			key := append([]byte(nil), existing...)
			if err := b.Put(key, data); err != nil {
				return err
			}
			continue
		}

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		key := itob(seq)
		if err := b.Put(key, data); err != nil {
			return err
		}
		if err := idx.Put([]byte(p.URL), key); err != nil {
			return err
		}
	}
	return nil
}

// upsert mirrors insertTx for the in-memory snapshot
func upsert(snapshot, planets []domain.Planet) []domain.Planet {
	out := clonePlanets(snapshot)
	pos := make(map[string]int, len(out))
	for i, p := range out {
		pos[p.URL] = i
	}
	for _, p := range planets {
		if i, ok := pos[p.URL]; ok {
			out[i] = p
			continue
		}
		pos[p.URL] = len(out)
		out = append(out, p)
	}
	return out
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func clonePlanets(planets []domain.Planet) []domain.Planet {
	if planets == nil {
		return nil
	}
	out := make([]domain.Planet, len(planets))
	copy(out, planets)
	return out
}

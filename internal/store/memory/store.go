// Package memory is the in-process verification store. It is the default
// backend for single-process deployments; multi-process deployments should
// use the dynamo or redis backend instead.
package memory

import (
	"context"
	"crypto/subtle"
	"hash/fnv"
	"sync"
	"time"
)

const shardCount = 64

type record struct {
	code      string
	expiresAt time.Time
}

type shard struct {
	mu   sync.Mutex
	recs map[string]record
}

// Store keeps pending verification records in a sharded map. Each shard has
// its own mutex, so Put/Consume are atomic per receiver without serializing
// unrelated receivers. Expiry is enforced lazily at Consume time; no
// background sweeper runs.
type Store struct {
	shards [shardCount]*shard
	now    func() time.Time
}

// New returns a Store using the wall clock.
func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock returns a Store with an injectable clock, used by expiry
// tests.
func NewWithClock(now func() time.Time) *Store {
	s := &Store{now: now}
	for i := range s.shards {
		s.shards[i] = &shard{recs: make(map[string]record)}
	}
	return s
}

func (s *Store) shardFor(receiver string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(receiver))
	return s.shards[h.Sum32()%shardCount]
}

// Put creates or replaces the record for receiver. It never fails.
func (s *Store) Put(_ context.Context, receiver, code string, ttl time.Duration) error {
	sh := s.shardFor(receiver)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.recs[receiver] = record{code: code, expiresAt: s.now().Add(ttl)}
	return nil
}

// Consume redeems the record for receiver if code matches and the record has
// not expired. Expired records are deleted on first touch; a mismatched code
// leaves the record intact so the receiver may retry within the TTL window.
func (s *Store) Consume(_ context.Context, receiver, code string) (bool, error) {
	sh := s.shardFor(receiver)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.recs[receiver]
	if !ok {
		return false, nil
	}
	if s.now().After(rec.expiresAt) {
		delete(sh.recs, receiver)
		return false, nil
	}
	if subtle.ConstantTimeCompare([]byte(rec.code), []byte(code)) == 1 {
		delete(sh.recs, receiver)
		return true, nil
	}
	return false, nil
}

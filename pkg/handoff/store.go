package handoff

import (
	"encoding/json"
	"strings"
	"sync"
)

// Persisted keys. The payload lives under the same key in both scopes; the
// durable store additionally keeps the last known tier and score as a light
// fallback for later visits.
const (
	PayloadKey   = "autoReplyPayload"
	LastTierKey  = "ssh_last_tier"
	LastScoreKey = "ssh_last_score"
)

// GuardKey returns the per-template "already notified" guard key.
func GuardKey(templateID string) string {
	return "sent:" + templateID
}

// Store is the minimal key-value surface the session and durable scopes
// expose. Implementations are environment adapters (browser storage, a file,
// a cookie jar); MemoryStore serves tests and the CLI.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the stored value for key.
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	return value, ok
}

// Set stores value under key.
func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Delete removes key.
func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Channels bundles the redundant transport targets in most-to-least durable
// write order: URL fragment, session store, durable backup.
type Channels struct {
	Session Store
	Durable Store
}

// NewChannels creates Channels backed by fresh memory stores for any scope
// left nil.
func NewChannels(session, durable Store) Channels {
	if session == nil {
		session = NewMemoryStore()
	}
	if durable == nil {
		durable = NewMemoryStore()
	}
	return Channels{Session: session, Durable: durable}
}

// Write persists the payload to all three channels and returns the
// destination URL carrying the fragment. The durable store also records the
// last known tier and score.
func (c Channels) Write(p Payload, destination string) (string, error) {
	target, err := EncodeFragment(p, destination)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	c.Session.Set(PayloadKey, string(raw))
	c.Durable.Set(PayloadKey, string(raw))
	if p.LeadTier != "" {
		c.Durable.Set(LastTierKey, p.LeadTier)
	}
	if score := p.ScoreString(); score != "" {
		c.Durable.Set(LastScoreKey, score)
	}
	return target, nil
}

// Read recovers the payload in reverse-priority fallback order: fragment
// first, then session store, then durable backup, finally an empty record.
// Re-reads are idempotent; nothing is consumed.
func (c Channels) Read(fragment string) Payload {
	if p, ok := DecodeFragment(fragment); ok {
		return p
	}
	if p, ok := c.readStore(c.Session); ok {
		return p
	}
	if p, ok := c.readStore(c.Durable); ok {
		return p
	}
	return Payload{}
}

func (c Channels) readStore(store Store) (Payload, bool) {
	raw, ok := store.Get(PayloadKey)
	if !ok || strings.TrimSpace(raw) == "" {
		return Payload{}, false
	}
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Payload{}, false
	}
	return p, true
}

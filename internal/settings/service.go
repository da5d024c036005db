package settings

import (
	"context"
	"io"
	"log"
)

// Store is the key-value backend for the settings record.
type Store interface {
	// Get returns the value for key, or nil if none is stored.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Service loads and saves settings. Storage failures are logged and never
// returned: the service keeps an in-memory copy and serves it instead.
type Service struct {
	store  Store
	logger *log.Logger

	// mem is the last saved value, used when the store is unavailable.
	mem *Settings
	// degraded is set while the last write failed; Load then serves mem
	// (or the defaults after a failed Clear) instead of the store.
	degraded bool
}

// NewService creates a Service. store may be nil for in-memory only use;
// a nil logger discards output.
func NewService(store Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{store: store, logger: logger}
}

// Load returns the stored settings and true, or the defaults and false when
// nothing usable is stored.
func (s *Service) Load(ctx context.Context) (Settings, bool) {
	if s.store == nil || s.degraded {
		return s.fromMemory()
	}

	raw, err := s.store.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Printf("settings: load failed, using in-memory copy: %v", err)
		return s.fromMemory()
	}
	if raw == nil {
		return Defaults(), false
	}

	st, notes, err := Decode(raw)
	if err != nil {
		s.logger.Printf("settings: stored record unreadable, using defaults: %v", err)
		return Defaults(), false
	}
	for _, n := range notes {
		s.logger.Printf("settings: %s", n)
	}
	return st, true
}

// Save normalizes and persists st, returning the value actually saved.
func (s *Service) Save(ctx context.Context, st Settings) Settings {
	st = st.Normalize()
	s.mem = &st

	if s.store == nil {
		return st
	}

	raw, err := Encode(st)
	if err != nil {
		s.logger.Printf("settings: encode failed: %v", err)
		s.degraded = true
		return st
	}
	if err := s.store.Put(ctx, StorageKey, raw); err != nil {
		s.logger.Printf("settings: save failed, kept in memory: %v", err)
		s.degraded = true
		return st
	}
	s.degraded = false
	return st
}

// Clear removes the stored record so the next Load returns the defaults.
func (s *Service) Clear(ctx context.Context) {
	s.mem = nil
	if s.store == nil {
		return
	}
	if err := s.store.Delete(ctx, StorageKey); err != nil {
		s.logger.Printf("settings: clear failed, using defaults in memory: %v", err)
		s.degraded = true
		return
	}
	s.degraded = false
}

func (s *Service) fromMemory() (Settings, bool) {
	if s.mem == nil {
		return Defaults(), false
	}
	return *s.mem, true
}

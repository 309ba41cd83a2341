package localstore

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Store is a durable key/value store backed by one JSON file per key in a
// data directory. A filesystem watcher turns writes made by other processes
// sharing the directory into change notifications, so in-memory state can
// follow the last writer. There is no merging: subscribers are expected to
// replace their state wholesale with the notified value.
type Store struct {
	dir     string
	logger  *zap.Logger
	watcher *fsnotify.Watcher

	mu        sync.Mutex
	subs      []func(key string, value []byte)
	lastWrite map[string][]byte

	done chan struct{}
}

// Open creates the data directory if needed and starts watching it
func Open(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	s := &Store{
		dir:       dir,
		logger:    logger,
		watcher:   watcher,
		lastWrite: make(map[string][]byte),
		done:      make(chan struct{}),
	}
	go s.watch()

	return s, nil
}

// Get returns the stored value for key, or false if it was never set
func (s *Store) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set persists value under key. The write itself is the durability point;
// callers treat failures as log-only since local persistence is best effort.
func (s *Store) Set(key string, value []byte) error {
	s.mu.Lock()
	s.lastWrite[key] = append([]byte(nil), value...)
	s.mu.Unlock()
	return os.WriteFile(s.path(key), value, 0o644)
}

// Subscribe registers a change listener. This process's own writes are
// suppressed: during a burst of mutations the watcher can deliver events
// out of order, and replaying a stale self-write would transiently roll
// in-memory state backwards.
func (s *Store) Subscribe(fn func(key string, value []byte)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Close stops the watcher
func (s *Store) Close() error {
	close(s.done)
	return s.watcher.Close()
}

func (s *Store) watch() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			key, ok := keyFromPath(event.Name)
			if !ok {
				continue
			}
			value, err := os.ReadFile(event.Name)
			if err != nil {
				continue
			}
			if s.isOwnWrite(key, value) {
				continue
			}
			s.notify(key, value)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("local store watcher error", zap.Error(err))
		}
	}
}

func (s *Store) isOwnWrite(key string, value []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.lastWrite[key]
	return ok && bytes.Equal(last, value)
}

func (s *Store) notify(key string, value []byte) {
	s.mu.Lock()
	subs := make([]func(string, []byte), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(key, value)
	}
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func keyFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".json") {
		return "", false
	}
	return strings.TrimSuffix(base, ".json"), true
}

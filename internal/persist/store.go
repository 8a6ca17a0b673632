package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"pkt.systems/matrixterm/schema"
	"pkt.systems/pslog"
)

// Snapshot is the persisted key-value state of one client.
type Snapshot struct {
	Values map[string]string `json:"values"`
}

// Store persists client snapshots under <dir>/<client>.json.
type Store struct {
	dir string
	log pslog.Logger
	mu  sync.Mutex
}

// NewStore constructs a persistent store at the given directory.
func NewStore(dir string) (*Store, error) {
	return NewStoreWithLogger(dir, nil)
}

// NewStoreWithLogger constructs a persistent store with logging.
func NewStoreWithLogger(dir string, logger pslog.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("state directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	if logger != nil {
		logger = logger.With("state_dir", dir)
	}
	return &Store{dir: dir, log: logger}, nil
}

// Load reads a client snapshot from disk.
func (s *Store) Load(clientID schema.ClientID) (Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(clientID)
}

func (s *Store) loadLocked(clientID schema.ClientID) (Snapshot, bool, error) {
	path := s.pathForClient(clientID)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.debug("state load miss", "client", clientID)
			return Snapshot{}, false, nil
		}
		s.warn("state load failed", "client", clientID, "err", err)
		return Snapshot{}, false, err
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		s.warn("state load failed", "client", clientID, "err", err)
		return Snapshot{}, false, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	s.debug("state load ok", "client", clientID, "values", len(snapshot.Values))
	return snapshot, true, nil
}

// Save writes a client snapshot to disk.
func (s *Store) Save(clientID schema.ClientID, snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(clientID, snapshot)
}

func (s *Store) saveLocked(clientID schema.ClientID, snapshot Snapshot) error {
	path := s.pathForClient(clientID)
	if err := s.writeAtomic(path, snapshot); err != nil {
		s.warn("state save failed", "client", clientID, "err", err)
		return err
	}
	if s.log != nil {
		s.log.Trace("state save ok", "client", clientID, "values", len(snapshot.Values))
	}
	return nil
}

func (s *Store) writeAtomic(path string, snapshot Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "state-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Scope returns a key-value view bound to one client.
func (s *Store) Scope(clientID schema.ClientID) (*Scope, error) {
	if err := schema.ValidateClientID(clientID); err != nil {
		return nil, fmt.Errorf("%w: %q", err, clientID)
	}
	return &Scope{store: s, client: clientID}, nil
}

// Scope reads and writes single values of one client's snapshot.
type Scope struct {
	store  *Store
	client schema.ClientID
}

// Client returns the client the scope is bound to.
func (c *Scope) Client() schema.ClientID {
	return c.client
}

// Get returns the value stored under key.
func (c *Scope) Get(key string) (string, bool, error) {
	snapshot, ok, err := c.store.Load(c.client)
	if err != nil || !ok {
		return "", false, err
	}
	value, ok := snapshot.Values[key]
	return value, ok, nil
}

// Set stores value under key. Concurrent writers of the same client are
// serialized; the last one wins.
func (c *Scope) Set(key, value string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	snapshot, _, err := c.store.loadLocked(c.client)
	if err != nil {
		snapshot = Snapshot{}
	}
	if snapshot.Values == nil {
		snapshot.Values = map[string]string{}
	}
	snapshot.Values[key] = value
	return c.store.saveLocked(c.client, snapshot)
}

func (s *Store) pathForClient(clientID schema.ClientID) string {
	name := sanitize(string(clientID))
	if name == "" {
		name = "unknown"
	}
	return filepath.Join(s.dir, name+".json")
}

func (s *Store) debug(msg string, keyvals ...any) {
	if s.log != nil {
		s.log.Debug(msg, keyvals...)
	}
}

func (s *Store) warn(msg string, keyvals ...any) {
	if s.log != nil {
		s.log.Warn(msg, keyvals...)
	}
}

func sanitize(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		if r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	return b.String()
}

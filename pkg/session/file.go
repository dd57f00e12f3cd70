package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/prgraph/pkg/dataset"
	pio "github.com/matzehuels/prgraph/pkg/io"
)

// FileStore is a file-based session store.
// Each session is one JSON file holding its metadata and a dataset snapshot.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

type fileSession struct {
	*Session
	Snapshot json.RawMessage `json:"snapshot"`
}

// NewFileStore creates a file-based session store in baseDir.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("session dir cannot be empty")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) sessionPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(_ context.Context, id string) (*Session, error) {
	if !ValidID(id) {
		return nil, ErrNotFound
	}

	s.mu.RLock()
	data, err := os.ReadFile(s.sessionPath(id))
	s.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	sess, err := decode(data)
	if err != nil {
		return nil, err
	}
	if sess.IsExpired() {
		_ = s.Delete(context.Background(), id)
		return nil, ErrNotFound
	}
	return sess, nil
}

func decode(data []byte) (*Session, error) {
	fs := fileSession{Session: &Session{}}
	if err := json.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	ds, err := pio.ReadJSON(bytes.NewReader(fs.Snapshot), dataset.Schema{})
	if err != nil {
		return nil, fmt.Errorf("parse session dataset: %w", err)
	}
	fs.Session.Dataset = ds
	return fs.Session, nil
}

func (s *FileStore) Set(_ context.Context, sess *Session) error {
	var snap bytes.Buffer
	if err := pio.WriteJSON(sess.Dataset, &snap); err != nil {
		return fmt.Errorf("encode session dataset: %w", err)
	}
	data, err := json.Marshal(fileSession{Session: sess, Snapshot: snap.Bytes()})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tmp := s.sessionPath(sess.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return os.Rename(tmp, s.sessionPath(sess.ID))
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if !ValidID(id) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.sessionPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// Cleanup removes expired session files. Files that cannot be parsed are
// left in place.
func (s *FileStore) Cleanup(context.Context) ([]*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read session dir: %w", err)
	}

	var expired []*Session
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		sess, err := decode(data)
		if err != nil {
			continue
		}
		if sess.IsExpired() {
			expired = append(expired, sess)
			_ = os.Remove(path)
		}
	}
	return expired, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for session files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)

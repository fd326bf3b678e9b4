package drafts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

var storeKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ErrInvalidKey is returned for keys that cannot be stored as a single file.
var ErrInvalidKey = errors.New("invalid draft key")

// Store persists drafts on disk, one file per draft key.
type Store struct {
	d        *diskv.Diskv
	basePath string
}

// DefaultDir returns the draft directory under the user's home.
func DefaultDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".sidechat", "drafts")
}

// OpenStore creates a Store rooted at dir. An empty dir uses DefaultDir.
func OpenStore(dir string) (*Store, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create draft dir: %w", err)
	}
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			CacheSizeMax: 256 * 1024,
			FilePerm:     0600,
			PathPerm:     0700,
		}),
		basePath: dir,
	}, nil
}

// Path returns the directory holding draft files.
func (s *Store) Path() string {
	return s.basePath
}

// Load reads every persisted draft. Cleared drafts come back as empty strings.
func (s *Store) Load(ctx context.Context) (Drafts, error) {
	out := make(Drafts)
	for key := range s.d.Keys(ctx.Done()) {
		if !strings.HasPrefix(key, KeyPrefix) {
			continue
		}
		val, err := s.d.Read(key)
		if err != nil {
			return nil, fmt.Errorf("read draft %s: %w", key, err)
		}
		out[DraftKey(key)] = string(val)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Save writes text as the draft for key. Empty text clears the draft.
func (s *Store) Save(key DraftKey, text string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.d.Write(string(key), []byte(text)); err != nil {
		return fmt.Errorf("write draft %s: %w", key, err)
	}
	return nil
}

// Clear empties the draft for key but keeps the entry, so it still reads as a
// cleared draft rather than one that never existed.
func (s *Store) Clear(key DraftKey) error {
	return s.Save(key, "")
}

// Erase removes the entry for key entirely.
func (s *Store) Erase(key DraftKey) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if !s.d.Has(string(key)) {
		return nil
	}
	if err := s.d.Erase(string(key)); err != nil {
		return fmt.Errorf("erase draft %s: %w", key, err)
	}
	return nil
}

func validateKey(key DraftKey) error {
	if _, ok := key.ReportID(); !ok || !storeKeyPattern.MatchString(string(key)) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Package storage persists uploaded voice samples and synthesized audio on
// the local filesystem. Every write gets a fresh random name, so concurrent
// requests never collide and existing files are never overwritten.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const voicesDir = "voices"

var (
	// ErrFileNotFound reports a file that is absent from the store. Callers
	// must treat it as recoverable: a ledger record may outlive its files.
	ErrFileNotFound = errors.New("file not found in store")

	ErrInvalidPath = errors.New("invalid store path")
)

// Store is a local-disk artifact store rooted at a single directory.
// Voice samples live under voices/, generated outputs directly under the
// root. All paths exchanged with callers are relative to the root.
type Store struct {
	root string
}

func New(root string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(root, voicesDir), 0o755); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// SaveVoiceSample writes an uploaded reference voice under voices/ with a
// fresh unique name, preserving the original extension.
func (s *Store) SaveVoiceSample(data []byte, ext string) (string, error) {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "wav"
	}
	rel := filepath.Join(voicesDir, fmt.Sprintf("voice_%s.%s", uuid.New().String(), ext))
	if err := s.write(rel, data); err != nil {
		return "", err
	}
	return rel, nil
}

// SaveOutput writes a synthesized waveform under the store root with a fresh
// unique name.
func (s *Store) SaveOutput(data []byte) (string, error) {
	rel := fmt.Sprintf("xtts_output_%s.wav", uuid.New().String())
	if err := s.write(rel, data); err != nil {
		return "", err
	}
	return rel, nil
}

// Read returns the contents of a stored file. A missing file yields
// ErrFileNotFound.
func (s *Store) Read(rel string) ([]byte, error) {
	abs, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, rel)
		}
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	return data, nil
}

// Delete removes a stored file. Deleting an absent file is a success: the
// goal is ensuring absence, not asserting prior presence.
func (s *Store) Delete(rel string) error {
	abs, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", rel, err)
	}
	return nil
}

// Abs resolves a store-relative path to an absolute one, for handing to the
// external synthesis service.
func (s *Store) Abs(rel string) (string, error) {
	resolved, err := s.resolve(rel)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}

// Entry describes one stored file, for the orphan sweep.
type Entry struct {
	Path    string // store-relative
	ModTime time.Time
}

// List walks the store and returns every regular file it holds.
func (s *Store) List() ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{Path: rel, ModTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list store: %w", err)
	}
	return entries, nil
}

func (s *Store) write(rel string, data []byte) error {
	abs, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}

// resolve rejects paths that would escape the store root.
func (s *Store) resolve(rel string) (string, error) {
	if rel == "" || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, rel)
	}
	clean := filepath.Clean(rel)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, rel)
	}
	return filepath.Join(s.root, clean), nil
}

package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/codeg-cli/internal/core/domain"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driven"
	"github.com/custodia-labs/codeg-cli/internal/logger"
)

// Ensure ProfileStore implements the interfaces.
var (
	_ driven.ProfileStore   = (*ProfileStore)(nil)
	_ driven.ProfileWatcher = (*ProfileStore)(nil)
)

// ProfileStore persists the profile as <dir>/code-g-company-profile.json.
type ProfileStore struct {
	dir  string
	path string
}

// NewProfileStore creates a file-backed profile store in dir.
// If dir is empty, defaults to ~/.codeg/data.
func NewProfileStore(dir string) (*ProfileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".codeg", "data")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &ProfileStore{
		dir:  dir,
		path: filepath.Join(dir, driven.ProfileKey+".json"),
	}, nil
}

// Path returns the profile file path.
func (s *ProfileStore) Path() string {
	return s.path
}

// Load reads the profile file. Any failure yields the default profile.
func (s *ProfileStore) Load(_ context.Context) domain.CompanyProfile {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("profile unreadable, using defaults: %v", err)
		}
		return domain.DefaultCompanyProfile()
	}

	profile, err := domain.DecodeProfile(data)
	if err != nil {
		logger.Warn("profile file %s is corrupt, using defaults: %v", s.path, err)
	}
	return profile
}

// Save writes the profile to a temporary file and renames it into place.
func (s *ProfileStore) Save(_ context.Context, profile domain.CompanyProfile) error {
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling profile: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".profile-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing profile: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing profile: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing profile: %w", err)
	}
	return nil
}

// Watch signals each time the profile file is created, written, replaced or
// removed. The directory is watched rather than the file, since Save
// replaces the file's inode. Signals are coalesced: a slow reader sees one
// pending signal, not one per event.
func (s *ProfileStore) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", s.dir, err)
	}

	changes := make(chan struct{}, 1)

	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !s.isProfileEvent(event) {
					continue
				}
				select {
				case changes <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("profile watcher: %v", err)
			}
		}
	}()

	return changes, nil
}

// isProfileEvent reports whether event changes the profile file's content.
func (s *ProfileStore) isProfileEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != s.path {
		return false
	}
	return event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) ||
		event.Has(fsnotify.Rename)
}

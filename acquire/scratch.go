package acquire

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ScratchRegistry tracks temporary files created on behalf of one job.
// Files are normally removed by the call that created them; ReleaseAll
// removes whatever is left. Safe for concurrent use.
type ScratchRegistry struct {
	mu    sync.Mutex
	dir   string
	owner string
	paths map[string]struct{}
}

// NewScratchRegistry creates a registry placing files in dir (the OS temp
// directory when empty). owner is embedded in file names, typically a job ID.
func NewScratchRegistry(dir, owner string) *ScratchRegistry {
	if dir == "" {
		dir = os.TempDir()
	}
	return &ScratchRegistry{dir: dir, owner: owner, paths: make(map[string]struct{})}
}

// Create opens a new, uniquely named scratch file and registers it.
func (r *ScratchRegistry) Create() (*os.File, error) {
	name := fmt.Sprintf("scoremix-%s-%s.part", r.owner, uuid.NewString())
	path := filepath.Join(r.dir, name)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create scratch file: %w", err)
	}

	r.mu.Lock()
	r.paths[path] = struct{}{}
	r.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "ScratchRegistry.Create",
		"path":     path,
	}).Debug("Created scratch file")

	return f, nil
}

// Remove deletes one registered file. Removing a path twice is not an error.
func (r *ScratchRegistry) Remove(path string) error {
	r.mu.Lock()
	delete(r.paths, path)
	r.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.WithFields(logrus.Fields{
			"function": "ScratchRegistry.Remove",
			"path":     path,
			"error":    err.Error(),
		}).Warn("Failed to remove scratch file")
		return err
	}
	return nil
}

// Pending returns the registered paths not yet removed.
func (r *ScratchRegistry) Pending() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.paths))
	for p := range r.paths {
		out = append(out, p)
	}
	return out
}

// ReleaseAll removes every remaining file and reports any failures joined.
func (r *ScratchRegistry) ReleaseAll() error {
	var errs []error
	for _, p := range r.Pending() {
		if err := r.Remove(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

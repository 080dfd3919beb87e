package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"aicd-directory/pkg/models"
)

const sectionsFile = "sections.json"

// FileStore persists the content tree as one pretty-printed JSON document
// on local disk. Replace writes to a temp file in the same directory and
// renames it over the target, so a failed write never leaves a partial
// tree behind.
type FileStore struct {
	dir    string
	logger *zap.Logger

	mu sync.Mutex
}

func NewFileStore(dir string, logger *zap.Logger) *FileStore {
	return &FileStore{dir: dir, logger: logger}
}

func (s *FileStore) path() string {
	return filepath.Join(s.dir, sectionsFile)
}

func (s *FileStore) Load(_ context.Context) ([]models.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// No data yet is a valid state.
			return []models.Section{}, nil
		}
		return nil, fmt.Errorf("%w: read sections: %v", ErrUnavailable, err)
	}

	var sections []models.Section
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("%w: decode sections: %v", ErrUnavailable, err)
	}
	return models.NormalizeSections(sections), nil
}

func (s *FileStore) Replace(_ context.Context, sections []models.Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("%w: create data dir: %v", ErrUnavailable, err)
	}

	data, err := json.MarshalIndent(models.NormalizeSections(sections), "", "  ")
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, sectionsFile+".*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write sections: %v", ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: write sections: %v", ErrUnavailable, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("%w: write sections: %v", ErrUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), s.path()); err != nil {
		return fmt.Errorf("%w: replace sections: %v", ErrUnavailable, err)
	}

	s.logger.Debug("sections replaced on disk",
		zap.String("path", s.path()),
		zap.Int("sections", len(sections)))
	return nil
}

// Degraded is always false for the file store; read failures surface to
// the caller, which falls back to placeholder content itself.
func (s *FileStore) Degraded() bool { return false }

func (s *FileStore) Close(context.Context) error { return nil }

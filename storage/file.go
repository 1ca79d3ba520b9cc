package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/mbolis/survey-intake/model"
)

// FileSink appends one JSON object per line to a file.
type FileSink struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// OpenFile opens (creating it and its directory if needed) the file at path for appending.
func OpenFile(path string) (*FileSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "creating data directory %s", dir)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	return &FileSink{path: path, file: f}, nil
}

// Append writes the record as a single line with one write call and syncs it.
func (s *FileSink) Append(ctx context.Context, record model.HashedRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "encoding record")
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return errors.Errorf("append to closed sink %s", s.path)
	}
	if _, err = s.file.Write(line); err != nil {
		return errors.Wrapf(err, "appending to %s", s.path)
	}
	return errors.Wrapf(s.file.Sync(), "syncing %s", s.path)
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// Package deadletter stores requests the custodian gave up on.
package deadletter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/owlprotocol/denote-workspace-sub000/custodian"
)

const (
	filePrefix = "deadletter_"
	fileSuffix = ".jsonl"

	defaultMaxSize  = 10 * 1024 * 1024
	defaultMaxFiles = 10
)

var _ custodian.DeadLetterSink = (*FileSink)(nil)

// FileSink appends dead letters as JSON lines to a rotating file in dir.
type FileSink struct {
	mu       sync.Mutex
	dir      string
	file     *os.File
	closed   bool
	maxSize  int64
	maxFiles int
}

// FileOption configures a FileSink.
type FileOption func(*FileSink)

// WithMaxSize sets the size in bytes at which the file is rotated. Zero or
// less never rotates.
func WithMaxSize(n int64) FileOption {
	return func(s *FileSink) { s.maxSize = n }
}

// WithMaxFiles sets how many files are kept after rotation. Zero or less
// keeps every file.
func WithMaxFiles(n int) FileOption {
	return func(s *FileSink) { s.maxFiles = n }
}

// NewFileSink creates dir if needed and opens a new file in it.
func NewFileSink(dir string, opts ...FileOption) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create dead letter directory: %w", err)
	}
	s := &FileSink{dir: dir, maxSize: defaultMaxSize, maxFiles: defaultMaxFiles}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.rotate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Write appends dl to the current file.
func (s *FileSink) Write(_ context.Context, dl custodian.DeadLetter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("dead letter sink is closed")
	}
	if s.file == nil || s.full() {
		if err := s.rotate(); err != nil {
			return err
		}
	}

	if dl.At.IsZero() {
		dl.At = time.Now().UTC()
	}
	line, err := json.Marshal(dl)
	if err != nil {
		return fmt.Errorf("failed to marshal dead letter: %w", err)
	}
	if _, err := s.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write dead letter: %w", err)
	}
	return s.file.Sync()
}

// Files returns the dead letter files in dir, oldest first.
func (s *FileSink) Files() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(s.dir, filePrefix+"*"+fileSuffix))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Close closes the current file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

func (s *FileSink) full() bool {
	if s.maxSize <= 0 {
		return false
	}
	info, err := s.file.Stat()
	return err == nil && info.Size() >= s.maxSize
}

// rotate switches to a new timestamped file and removes the oldest ones. On
// failure s.file is left nil so the next Write tries again.
func (s *FileSink) rotate() error {
	if s.file != nil {
		_ = s.file.Close()
		s.file = nil
	}

	path := filepath.Join(s.dir, filePrefix+time.Now().UTC().Format("20060102T150405.000000000")+fileSuffix)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open dead letter file: %w", err)
	}
	s.file = file

	if s.maxFiles <= 0 {
		return nil
	}
	files, err := s.Files()
	if err != nil {
		return nil
	}
	for i := 0; i < len(files)-s.maxFiles; i++ {
		if files[i] != path {
			_ = os.Remove(files[i])
		}
	}
	return nil
}

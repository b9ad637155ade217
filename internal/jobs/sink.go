package jobs

import (
	"fmt"
	"os"
	"sync"
)

// Sink appends plain lines to a log file. The path is injected through
// Config rather than hardcoded in each job.
type Sink struct {
	mu   sync.Mutex
	path string
}

func NewSink(path string) *Sink {
	return &Sink{path: path}
}

func (s *Sink) Append(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()
	if _, err := fmt.Fprintln(f, line); err != nil {
		return fmt.Errorf("append to %s: %w", s.path, err)
	}
	return nil
}

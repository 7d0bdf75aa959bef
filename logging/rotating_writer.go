package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// RotatingWriter writes to one log file per day, starting a numbered file
// when the current one reaches maxFileSize.
type RotatingWriter struct {
	logDir      string
	retention   time.Duration
	maxFileSize int64
	now         func() time.Time

	mu          sync.Mutex
	currentFile *os.File
	currentDay  string
	currentSize int64
	sequence    int
	stop        chan struct{}
	stopped     chan struct{}
}

// NewRotatingWriter creates the log directory and opens today's file
func NewRotatingWriter(logDir string, retentionDays int, maxFileSize int64) (*RotatingWriter, error) {
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
	}

	rw := &RotatingWriter{
		logDir:      logDir,
		retention:   time.Duration(retentionDays) * 24 * time.Hour,
		maxFileSize: maxFileSize,
		now:         time.Now,
		stop:        make(chan struct{}),
		stopped:     make(chan struct{}),
	}

	rw.mu.Lock()
	err := rw.rotate(dayKey(rw.now()))
	rw.mu.Unlock()
	if err != nil {
		return nil, err
	}

	go rw.cleanupLoop()

	return rw, nil
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func (rw *RotatingWriter) fileName(day string, seq int) string {
	if seq == 0 {
		return fmt.Sprintf("app-%s.log", day)
	}
	return fmt.Sprintf("app-%s_%02d.log", day, seq)
}

// rotate opens the file for day; caller must hold mu
func (rw *RotatingWriter) rotate(day string) error {
	if rw.currentFile != nil {
		_ = rw.currentFile.Close()
		rw.currentFile = nil
	}

	if day != rw.currentDay {
		rw.sequence = 0
	}

	for {
		path := filepath.Join(rw.logDir, rw.fileName(day, rw.sequence))
		info, err := os.Stat(path)
		if err == nil && rw.maxFileSize > 0 && info.Size() >= rw.maxFileSize {
			rw.sequence++
			continue
		}

		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", path, err)
		}

		rw.currentFile = file
		rw.currentDay = day
		rw.currentSize = 0
		if info != nil {
			rw.currentSize = info.Size()
		}
		return nil
	}
}

// Write implements io.Writer
func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	day := dayKey(rw.now())
	switch {
	case day != rw.currentDay:
		if err := rw.rotate(day); err != nil {
			return 0, err
		}
	case rw.maxFileSize > 0 && rw.currentSize > 0 && rw.currentSize+int64(len(p)) > rw.maxFileSize:
		rw.sequence++
		if err := rw.rotate(day); err != nil {
			return 0, err
		}
	}

	if rw.currentFile == nil {
		return 0, fmt.Errorf("no log file available")
	}

	n, err := rw.currentFile.Write(p)
	rw.currentSize += int64(n)
	return n, err
}

// CleanupOldLogs removes log files last modified before the retention window
func (rw *RotatingWriter) CleanupOldLogs() (int, error) {
	entries, err := os.ReadDir(rw.logDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := rw.now().Add(-rw.retention)
	deleted := 0

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "app-") || !strings.HasSuffix(name, ".log") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(rw.logDir, name)); err == nil {
				deleted++
			}
		}
	}

	return deleted, nil
}

func (rw *RotatingWriter) cleanupLoop() {
	defer close(rw.stopped)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-rw.stop:
			return
		case <-ticker.C:
			if n, err := rw.CleanupOldLogs(); err != nil {
				fmt.Fprintf(os.Stderr, "log cleanup failed: %v\n", err)
			} else if n > 0 {
				// Console only, logging here would recurse into Write
				fmt.Printf("Cleaned up %d old log files\n", n)
			}
		}
	}
}

// Close stops background cleanup and closes the current file
func (rw *RotatingWriter) Close() error {
	select {
	case <-rw.stop:
	default:
		close(rw.stop)
	}
	<-rw.stopped

	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.currentFile != nil {
		err := rw.currentFile.Close()
		rw.currentFile = nil
		return err
	}
	return nil
}

// Package lockfile keeps two MoyoCare processes from writing the same SQLite
// database at once.
//
// The lock is an advisory flock on a file beside the database. The kernel drops
// it when the process exits, so a crash never leaves the database locked; only
// the file itself may linger.
package lockfile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// FileName is the lock file created in the database directory.
const FileName = "moyo.lock"

// ErrHeld is matched by errors.Is when another process holds the lock.
var ErrHeld = errors.New("database lock held by another process")

// Lock is a held lock on a data directory.
type Lock struct {
	file *os.File
	path string
}

// HeldError describes the process that holds a lock.
type HeldError struct {
	Path   string
	Holder string
	Cause  error
}

func (e *HeldError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "another MoyoCare instance is using this database (lock file %s", e.Path)
	if e.Holder != "" {
		fmt.Fprintf(&b, ", held by %s", e.Holder)
	}
	b.WriteString(")")
	fmt.Fprintf(&b, "; if no other instance is running, remove %s and retry", e.Path)
	return b.String()
}

func (e *HeldError) Is(target error) bool { return target == ErrHeld }

func (e *HeldError) Unwrap() error { return e.Cause }

// Acquire takes the lock for dir, creating the directory if needed. It never
// blocks: a lock held elsewhere returns a *HeldError.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, FileName)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		f.Close()
		held := &HeldError{Path: path, Holder: describeHolder(path), Cause: err}
		slog.Error("lockfile.Acquire: lock is held", "lock_path", path, "holder", held.Holder)
		return nil, held
	}

	// Only the holder rewrites the contents, after the flock succeeds.
	if err := writePID(f); err != nil {
		syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		f.Close()
		return nil, fmt.Errorf("write lock file %s: %w", path, err)
	}

	slog.Info("lockfile.Acquire: lock acquired", "lock_path", path, "pid", os.Getpid())
	return &Lock{file: f, path: path}, nil
}

// AcquireForDatabase locks the directory containing a SQLite database path.
func AcquireForDatabase(dbPath string) (*Lock, error) {
	return Acquire(filepath.Dir(dbPath))
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release unlocks and removes the lock file. Calling it more than once is a
// no-op.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	var errs []error
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		errs = append(errs, err)
	}
	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		errs = append(errs, err)
	}
	if err := l.file.Close(); err != nil {
		errs = append(errs, err)
	}
	l.file = nil
	if err := errors.Join(errs...); err != nil {
		slog.Warn("lockfile.Release: release incomplete", "lock_path", l.path, "error", err)
		return err
	}
	slog.Debug("lockfile.Release: lock released", "lock_path", l.path)
	return nil
}

func writePID(f *os.File) error {
	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.WriteAt([]byte("pid="+strconv.Itoa(os.Getpid())+"\n"), 0); err != nil {
		return err
	}
	return f.Sync()
}

// describeHolder reads the lock file for the holder's PID.
func describeHolder(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	pid := parsePID(string(data))
	if pid <= 0 {
		return ""
	}
	if processAlive(pid) {
		return fmt.Sprintf("pid %d", pid)
	}
	return fmt.Sprintf("pid %d, not running", pid)
}

// parsePID extracts N from a "pid=N" line, or returns 0.
func parsePID(content string) int {
	for _, line := range strings.Split(content, "\n") {
		v, ok := strings.CutPrefix(strings.TrimSpace(line), "pid=")
		if !ok {
			continue
		}
		if pid, err := strconv.Atoi(v); err == nil {
			return pid
		}
	}
	return 0
}

func processAlive(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}

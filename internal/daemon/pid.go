package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

const (
	stateDirName = "mcbridge"
	pidFile      = "watch.pid"
)

// ErrAlreadyRunning is returned when another watcher owns the data directory.
var ErrAlreadyRunning = errors.New("watcher already running")

// StateDir returns the per-data-directory state directory under the user
// cache dir. It lives outside the data directory, which is published.
func StateDir(dataDir string) (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate cache dir: %w", err)
	}
	abs, err := filepath.Abs(dataDir)
	if err != nil {
		return "", err
	}
	key := strings.NewReplacer(string(filepath.Separator), "-", ":", "-").Replace(abs)
	return filepath.Join(base, stateDirName, key), nil
}

// PIDFilePath returns the path to the PID file
func PIDFilePath(stateDir string) string {
	return filepath.Join(stateDir, pidFile)
}

// EnsureStateDir creates the state directory if it doesn't exist
func EnsureStateDir(stateDir string) error {
	return os.MkdirAll(stateDir, 0755)
}

// WritePID writes the current process PID to the PID file
func WritePID(stateDir string) error {
	if err := EnsureStateDir(stateDir); err != nil {
		return fmt.Errorf("failed to create state directory %s: %w", stateDir, err)
	}
	return os.WriteFile(PIDFilePath(stateDir), []byte(strconv.Itoa(os.Getpid())), 0644)
}

// AcquirePID writes the PID file unless a live process other than this one
// already holds it. A stale PID file is replaced.
func AcquirePID(stateDir string) error {
	if pid := GetRunningPID(stateDir); pid != 0 && pid != os.Getpid() {
		return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
	}
	return WritePID(stateDir)
}

// ReadPID reads the PID from the PID file
func ReadPID(stateDir string) (int, error) {
	data, err := os.ReadFile(PIDFilePath(stateDir))
	if err != nil {
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %w", err)
	}
	return pid, nil
}

// RemovePID removes the PID file
func RemovePID(stateDir string) error {
	err := os.Remove(PIDFilePath(stateDir))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// IsProcessRunning checks if a process with the given PID is running
func IsProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// On Unix, FindProcess always succeeds, so send signal 0 to probe
	return process.Signal(syscall.Signal(0)) == nil
}

// IsRunning checks if a watcher currently holds stateDir
func IsRunning(stateDir string) bool {
	return GetRunningPID(stateDir) != 0
}

// GetRunningPID returns the PID of the running watcher, or 0 if not running
func GetRunningPID(stateDir string) int {
	pid, err := ReadPID(stateDir)
	if err != nil {
		return 0
	}
	if !IsProcessRunning(pid) {
		return 0
	}
	return pid
}

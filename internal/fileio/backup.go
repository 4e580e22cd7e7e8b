// Package fileio provides the file operations the editor trusts with user
// data: backup-aware opening and atomic writes.
package fileio

import (
	"fmt"
	"io"
	"os"
	"time"
)

// defaultBackupSuffix is appended to the original path for backup copies.
const defaultBackupSuffix = ".backup"

// backupConfig holds settings for BackupOpen.
type backupConfig struct {
	suffix    string
	timestamp bool
	now       func() time.Time
}

// Option configures BackupOpen.
type Option func(*backupConfig)

// WithSuffix sets the backup filename suffix (default ".backup").
func WithSuffix(suffix string) Option {
	return func(c *backupConfig) {
		if suffix != "" {
			c.suffix = suffix
		}
	}
}

// WithTimestamp appends a timestamp to the backup name, producing
// "name.backup.20060102-150405" instead of overwriting a single backup.
func WithTimestamp() Option {
	return func(c *backupConfig) { c.timestamp = true }
}

// withClock pins the timestamp source for tests.
func withClock(now func() time.Time) Option {
	return func(c *backupConfig) { c.now = now }
}

// BackupOpen opens path with the given flag and permissions. If the file
// already exists and the flag permits writing, its current content is first
// copied to a backup path; only after the backup is safely on disk is the
// original opened. A failed backup aborts the open and returns the error,
// so the original is never truncated after a backup failure.
//
// The returned backupPath is empty when no backup was taken (missing file
// or read-only open).
func BackupOpen(path string, flag int, perm os.FileMode, opts ...Option) (f *os.File, backupPath string, err error) {
	config := backupConfig{
		suffix: defaultBackupSuffix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&config)
	}

	if flag&(os.O_WRONLY|os.O_RDWR) != 0 {
		backupPath, err = writeBackup(path, config)
		if err != nil {
			return nil, "", err
		}
	}

	f, err = os.OpenFile(path, flag, perm)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", path, err)
	}
	return f, backupPath, nil
}

// writeBackup copies path's current content to its backup path. Returns
// the empty string when the original does not exist.
func writeBackup(path string, config backupConfig) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("open %s for backup: %w", path, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	backupPath := path + config.suffix
	if config.timestamp {
		backupPath += "." + config.now().Format("20060102-150405")
	}

	dst, err := os.OpenFile(backupPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return "", fmt.Errorf("create backup %s: %w", backupPath, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("write backup %s: %w", backupPath, err)
	}
	if err := dst.Sync(); err != nil {
		dst.Close()
		return "", fmt.Errorf("sync backup %s: %w", backupPath, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close backup %s: %w", backupPath, err)
	}
	return backupPath, nil
}

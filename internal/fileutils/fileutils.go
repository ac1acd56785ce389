// Package fileutils provides common file operations used throughout the application.
package fileutils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"momoledger/momo-ingest/internal/models"
)

// HashChunkSize is the read size used when fingerprinting files.
const HashChunkSize = 4096

// Fingerprint identifies the content of an archive file.
type Fingerprint struct {
	Name    string
	AbsPath string
	Size    int64
	Hash    string // hex SHA-256
}

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if !DirectoryExists(dirPath) {
		if err := os.MkdirAll(dirPath, models.PermissionDirectory); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// CreateFile creates or truncates a file for writing
func CreateFile(filePath string) (*os.File, error) {
	// Create parent directories if they don't exist
	dir := filepath.Dir(filePath)
	if err := EnsureDirectoryExists(dir); err != nil {
		return nil, err
	}

	file, err := os.Create(filePath) // #nosec G304 -- output path chosen by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return file, nil
}

// ListFilesWithExtension returns the files directly inside dirPath whose
// extension matches, ignoring case, sorted by path.
func ListFilesWithExtension(dirPath, extension string) ([]string, error) {
	if !DirectoryExists(dirPath) {
		return nil, fmt.Errorf("directory does not exist: %s", dirPath)
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), extension) {
			files = append(files, filepath.Join(dirPath, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// FingerprintFile streams the file through SHA-256 in HashChunkSize reads.
func FingerprintFile(filePath string) (fp Fingerprint, err error) {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("failed to resolve path: %w", err)
	}

	f, err := os.Open(abs) // #nosec G304 -- archive path chosen by the operator
	if err != nil {
		return Fingerprint{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	h := sha256.New()
	buf := make([]byte, HashChunkSize)
	var size int64
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
			size += int64(n)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return Fingerprint{}, fmt.Errorf("failed to hash file: %w", rerr)
		}
	}

	return Fingerprint{
		Name:    filepath.Base(abs),
		AbsPath: abs,
		Size:    size,
		Hash:    hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// ABOUTME: Diary log directory storage: collision-free names, markdown and sidecar writes
// ABOUTME: One markdown file per document plus a JSON embedding sidecar sharing its base name
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/harper/diary/internal/models"
)

const (
	// DocumentExt is the extension of diary markdown files
	DocumentExt = "md"
	// SidecarExt is the extension of embedding sidecar files
	SidecarExt = "json"
)

// ErrFilesystem marks directory creation, read or write failures
var ErrFilesystem = errors.New("filesystem error")

// Storage manages the diary log directory
type Storage struct {
	logDir string
}

// NewStorage creates the log directory if needed
func NewStorage(logDir string) (*Storage, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating log directory %s: %w", ErrFilesystem, logDir, err)
	}
	return &Storage{logDir: logDir}, nil
}

// LogDir returns the directory holding diary files
func (s *Storage) LogDir() string {
	return s.logDir
}

// UniqueFilename returns the first candidate path in dir that does not exist:
// base.ext, then base_a.ext through base_z.ext, then base_aa.ext, base_ab.ext
// and so on.
func UniqueFilename(dir, base, ext string) (string, error) {
	for n := 0; ; n++ {
		name := base + "." + ext
		if n > 0 {
			name = base + "_" + suffix(n) + "." + ext
		}
		path := filepath.Join(dir, name)

		_, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", fmt.Errorf("%w: checking %s: %w", ErrFilesystem, path, err)
		}
	}
}

// suffix maps 1->a ... 26->z, 27->aa, 28->ab ... (bijective base 26)
func suffix(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('a' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

// UniqueFilename returns a free document path for base in the log directory
func (s *Storage) UniqueFilename(base string) (string, error) {
	return UniqueFilename(s.logDir, base, DocumentExt)
}

// SidecarPath returns the embedding sidecar path for a document path
func SidecarPath(documentPath string) string {
	return strings.TrimSuffix(documentPath, filepath.Ext(documentPath)) + "." + SidecarExt
}

// WriteDocument writes content to path, replacing any existing file
func WriteDocument(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrFilesystem, path, err)
	}
	return nil
}

// WriteEmbedding writes vector to path as a single JSON array
func WriteEmbedding(path string, vector []float64) error {
	if vector == nil {
		vector = []float64{}
	}
	data, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("encoding embedding: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrFilesystem, path, err)
	}
	return nil
}

// ReadEmbedding loads a sidecar written by WriteEmbedding
func ReadEmbedding(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrFilesystem, path, err)
	}
	var vector []float64
	if err := json.Unmarshal(data, &vector); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return vector, nil
}

// Entries lists diary documents in the log directory sorted by name
func (s *Storage) Entries() ([]models.Entry, error) {
	dirEntries, err := os.ReadDir(s.logDir)
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %w", ErrFilesystem, s.logDir, err)
	}

	var entries []models.Entry
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != "."+DocumentExt {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(s.logDir, de.Name())
		_, sidecarErr := os.Stat(SidecarPath(path))
		entries = append(entries, models.Entry{
			Name:       de.Name(),
			Path:       path,
			Date:       entryDate(de.Name()),
			HasSidecar: sidecarErr == nil,
			ModTime:    info.ModTime(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// entryDate strips the extension and any collision suffix: 2024_01_01_b.md -> 2024_01_01
func entryDate(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if len(stem) >= len(models.DateLayout) {
		return stem[:len(models.DateLayout)]
	}
	return stem
}

// ReadEntry returns the markdown of the named document. The name must refer
// to a file directly inside the log directory.
func (s *Storage) ReadEntry(name string) (string, error) {
	path, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %w", ErrFilesystem, path, err)
	}
	return string(data), nil
}

func (s *Storage) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid entry name %q", name)
	}
	if filepath.Ext(name) == "" {
		name += "." + DocumentExt
	}
	if filepath.Ext(name) != "."+DocumentExt {
		return "", fmt.Errorf("invalid entry name %q: not a .%s file", name, DocumentExt)
	}
	return filepath.Join(s.logDir, name), nil
}

package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/fortee-timetable/internal/timetable"
)

// Storage writes published timetables and diagnostic dumps to disk.
type Storage struct {
	path     string
	dumpPath string
}

// New creates a Storage for the timetable at path and the raw-markup dump
// at dumpPath. A leading ~/ expands to the home directory.
func New(path, dumpPath string) (*Storage, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	dumpPath, err = expandHome(dumpPath)
	if err != nil {
		return nil, err
	}
	return &Storage{path: path, dumpPath: dumpPath}, nil
}

func expandHome(p string) (string, error) {
	if !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, p[2:]), nil
}

// Path returns the timetable file location.
func (s *Storage) Path() string { return s.path }

// DumpPath returns the markup dump location.
func (s *Storage) DumpPath() string { return s.dumpPath }

// Encode renders doc as indented JSON with non-ASCII and HTML characters
// left unescaped.
func Encode(doc *timetable.Document) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding timetable: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes doc to the timetable path, creating parent directories.
func (s *Storage) Save(doc *timetable.Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	return writeFile(s.path, data)
}

// Load reads the timetable at the configured path. A missing file returns
// nil without error.
func (s *Storage) Load() (*timetable.Document, error) {
	return LoadFile(s.path)
}

// LoadFile reads a published timetable. A missing file returns nil without
// error.
func LoadFile(path string) (*timetable.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading timetable: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses a published timetable from r.
func Decode(r io.Reader) (*timetable.Document, error) {
	var doc timetable.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing timetable: %w", err)
	}
	return &doc, nil
}

// Dump saves the raw fetched markup for diagnosis.
func (s *Storage) Dump(markup string) error {
	return writeFile(s.dumpPath, []byte(markup))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

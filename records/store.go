package records

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jrsteele09/amazon-oauth-callback/internal/errors"
)

const (
	dateLayout   = "2006-01-02 15:04:05"
	fallbackName = "unnamed"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeName lowercases name and replaces whitespace runs with underscores.
// Path separators are replaced too so a name cannot leave its directory.
func NormalizeName(name string) string {
	n := whitespaceRun.ReplaceAllString(strings.ToLower(name), "_")
	return strings.NewReplacer("/", "_", `\`, "_").Replace(n)
}

// FileStore writes one pretty-printed JSON file per record.
type FileStore struct {
	root string
	now  func() time.Time
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root, now: time.Now}
}

// WithClock replaces the clock used to stamp records.
func (s *FileStore) WithClock(now func() time.Time) *FileStore {
	s.now = now
	return s
}

// Path returns the file a record named name is written to under dir.
func (s *FileStore) Path(dir, name string) string {
	filename := NormalizeName(name)
	if filename == "" || filename == "." || filename == ".." {
		filename = fallbackName
	}
	return filepath.Join(s.root, dir, filename+".json")
}

// Write stamps rec with the current date and writes it to dir, replacing any
// existing file with the same normalized name. It returns the written path.
func (s *FileStore) Write(dir string, rec Record) (string, error) {
	rec.Date = s.now().Format(dateLayout)

	data, err := json.MarshalIndent(rec, "", "    ")
	if err != nil {
		return "", errors.Wrapf(errors.ErrPersistenceFailure, "marshal record (%v)", err)
	}

	path := s.Path(dir, rec.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrapf(errors.ErrPersistenceFailure, "create %s (%v)", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", errors.Wrapf(errors.ErrPersistenceFailure, "write %s (%v)", path, err)
	}
	return path, nil
}

// Read loads a previously written record.
func (s *FileStore) Read(dir, name string) (Record, error) {
	var rec Record
	data, err := os.ReadFile(s.Path(dir, name))
	if err != nil {
		return rec, fmt.Errorf("read record: %w", err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

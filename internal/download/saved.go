package download

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const maxSavedName = 120

// savedStore keeps one file per URL under dir.
type savedStore struct {
	dir string
}

// SavedName returns the file name a response for url is stored under.
func SavedName(url string) string {
	s := url
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), "_.")

	if len(name) > maxSavedName {
		sum := sha256.Sum256([]byte(url))
		name = name[:maxSavedName-17] + "_" + hex.EncodeToString(sum[:8])
	}
	return name
}

func (s *savedStore) path(url, ext string) string {
	return filepath.Join(s.dir, SavedName(url)+ext)
}

// read returns the saved body for url. A saved 404 is replayed as *HTTPError.
func (s *savedStore) read(url string) ([]byte, error) {
	body, err := os.ReadFile(s.path(url, ".data"))
	if errors.Is(err, fs.ErrNotExist) {
		if _, statErr := os.Stat(s.path(url, ".404")); statErr == nil {
			return nil, &HTTPError{URL: url, StatusCode: http.StatusNotFound}
		}
		return nil, fmt.Errorf("no saved data for %s in %s", url, s.dir)
	}
	if err != nil {
		return nil, fmt.Errorf("read saved data: %w", err)
	}
	return body, nil
}

func (s *savedStore) write(url string, body []byte) error {
	return s.writeFile(s.path(url, ".data"), body)
}

func (s *savedStore) writeNotFound(url string) error {
	return s.writeFile(s.path(url, ".404"), nil)
}

func (s *savedStore) writeFile(path string, body []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create saved data directory: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("save data: %w", err)
	}
	return nil
}

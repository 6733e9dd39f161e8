package sc13dg

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DirCache keeps fetched documents on disk in EDGAR's archive layout,
// <dir>/edgar/data/<cik>/<accession without dashes>/<document>, and
// falls back to Next on a miss.
type DirCache struct {
	Dir  string
	Next TextFetcher
}

// NewDirCache returns a cache rooted at dir in front of next.
func NewDirCache(dir string, next TextFetcher) *DirCache {
	return &DirCache{Dir: dir, Next: next}
}

// Path returns where ref is stored.
func (c *DirCache) Path(ref FilingRef) string {
	name := ref.Document
	if name == "" {
		name = ref.Accession() + ".txt"
	}
	return filepath.Join(c.Dir, "edgar", "data", ref.directoryCIK(), accessionPath(ref.Accession()), name)
}

// FetchFilingText reads ref from disk, fetching and storing it on a miss.
func (c *DirCache) FetchFilingText(ctx context.Context, ref FilingRef) (string, error) {
	path := c.Path(ref)
	data, err := os.ReadFile(path)
	if err == nil {
		return string(data), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to read cached %s: %w", path, err)
	}
	if c.Next == nil {
		return "", fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
	}

	text, err := c.Next.FetchFilingText(ctx, ref)
	if err != nil {
		return "", err
	}
	if err := writeFileAtomic(path, []byte(text)); err != nil {
		return "", err
	}
	return text, nil
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".fetch-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}

package edgar

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileCache provides file-based caching for raw EDGAR API responses.
// Cached data is treated as read-only by everything downstream.
type FileCache struct {
	cacheDir string
}

// NewFileCache creates a cache rooted at .cache/edgar in the working directory.
func NewFileCache() *FileCache {
	return NewFileCacheWithDir(filepath.Join(".cache", "edgar"))
}

// NewFileCacheWithDir creates a cache with a custom directory.
func NewFileCacheWithDir(dir string) *FileCache {
	os.MkdirAll(dir, 0755)
	return &FileCache{cacheDir: dir}
}

func (c *FileCache) filePath(kind, cik string) string {
	return filepath.Join(c.cacheDir, fmt.Sprintf("%s_%s.json", kind, cik))
}

// Get retrieves a cached response, nil when absent.
func (c *FileCache) Get(kind, cik string) []byte {
	data, err := os.ReadFile(c.filePath(kind, cik))
	if err != nil {
		return nil
	}
	return data
}

// Set stores a response in the cache.
func (c *FileCache) Set(kind, cik string, data []byte) error {
	return os.WriteFile(c.filePath(kind, cik), data, 0644)
}

// Has checks whether a response is cached.
func (c *FileCache) Has(kind, cik string) bool {
	_, err := os.Stat(c.filePath(kind, cik))
	return err == nil
}

// ClearCache removes all cached responses.
func (c *FileCache) ClearCache() error {
	return os.RemoveAll(c.cacheDir)
}

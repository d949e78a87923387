package api

import (
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/samcharles93/profinfo/pkg/profinfo"
)

const DefaultCacheSize = 16

type cacheKey struct {
	path    string
	size    int64
	modTime int64
}

// ProfileCache keeps recently decoded dumps keyed by path, size and
// modification time, so a rewritten file is decoded again.
type ProfileCache struct {
	tool  string
	cache *lru.Cache[cacheKey, *profinfo.Session]
	load  func(tool, path string) (*profinfo.Session, error)
}

func NewProfileCache(tool string, size int) (*ProfileCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[cacheKey, *profinfo.Session](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}
	return &ProfileCache{tool: tool, cache: cache, load: profinfo.Load}, nil
}

// Load returns a private copy of the session decoded from path and whether
// it came from the cache.
func (c *ProfileCache) Load(path string) (*profinfo.Session, bool, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, false, err
	}
	key := cacheKey{path: path, size: st.Size(), modTime: st.ModTime().UnixNano()}
	if s, ok := c.cache.Get(key); ok {
		return s.Clone(), true, nil
	}

	s, err := c.load(c.tool, path)
	if err != nil {
		return nil, false, err
	}
	c.cache.Add(key, s)
	return s.Clone(), false, nil
}

func (c *ProfileCache) Len() int {
	return c.cache.Len()
}

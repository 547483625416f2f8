package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Open returns the backend described by location:
//
//	""  or "none"               NullCache
//	"redis://..." "rediss://..." RedisCache
//	"file:///path" or a path    FileCache ("~/" expands to the home directory)
func Open(ctx context.Context, location string) (Cache, error) {
	location = strings.TrimSpace(location)
	switch {
	case location == "" || location == "none":
		return NewNullCache(), nil
	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		c, err := NewRedisCache(ctx, location)
		if err != nil {
			return nil, err
		}
		return c, nil
	}

	dir := strings.TrimPrefix(location, "file://")
	if rest, ok := strings.CutPrefix(dir, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, rest)
	}
	c, err := NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Describe returns a short human-readable label for a backend.
func Describe(c Cache) string {
	switch v := c.(type) {
	case *FileCache:
		return "file " + v.Dir()
	case *RedisCache:
		return "redis " + v.client.Options().Addr
	case *NullCache:
		return "disabled"
	}
	return "custom"
}

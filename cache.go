package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Cache.Get when no entry exists for the key or
// the entry has aged past the freshness window.
var ErrCacheMiss = errors.New("cache entry missing or stale")

// Cache stores verbatim provider payloads keyed by the daily cache key.
// Implementations enforce the freshness window themselves: a Get never
// returns a payload older than the window the cache was constructed with.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte) error
	Flush(ctx context.Context) error
}

// FileCache is the default backend: one {key}.json file per entry under a
// dedicated directory. The key identifies the file; a modification-time
// check gates reuse independently of the key's day granularity, so a file
// from earlier today is still refetched once it exceeds the window.
type FileCache struct {
	dir    string
	window time.Duration
}

func NewFileCache(dir string, window time.Duration) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &FileCache{dir: dir, window: window}, nil
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func (c *FileCache) Get(_ context.Context, key string) ([]byte, error) {
	path := c.path(key)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	if time.Since(info.ModTime()) >= c.window {
		// Stale files stay in place; the next successful fetch overwrites them.
		return nil, ErrCacheMiss
	}
	return os.ReadFile(path)
}

// Set writes through a temp file and renames it into place, so a concurrent
// Get never observes a truncated payload. Handlers run on separate
// goroutines and the refresher writes the same keys.
func (c *FileCache) Set(_ context.Context, key string, payload []byte) error {
	tmp, err := os.CreateTemp(c.dir, key+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.path(key))
}

func (c *FileCache) Flush(_ context.Context) error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// RedisCache is an optional backend for deployments where several instances
// should share the same-day cache. The freshness window maps directly onto
// the key TTL.
type RedisCache struct {
	client *redis.Client
	window time.Duration
}

func NewRedisCache(client *redis.Client, window time.Duration) *RedisCache {
	return &RedisCache{client: client, window: window}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, payload []byte) error {
	return c.client.Set(ctx, key, payload, c.window).Err()
}

func (c *RedisCache) Flush(ctx context.Context) error {
	return c.client.FlushDB(ctx).Err()
}

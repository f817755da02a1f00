package transcripts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"resound/internal/logging"
)

// Tag distinguishes what kind of source produced a transcript.
type Tag string

const (
	// TagVideo marks a transcript extracted from a reference video.
	TagVideo Tag = "video"
	// TagAudio marks a transcript of a standalone candidate recording.
	TagAudio Tag = "audio"
)

// Entry is a cached transcript for one source file.
type Entry struct {
	Key      string    `json:"key"`
	Text     string    `json:"text"`
	CachedAt time.Time `json:"cached_at"`
}

// Cache provides thread-safe, durably persisted transcript storage.
type Cache struct {
	path   string
	logger *slog.Logger
	group  singleflight.Group
	mu     sync.RWMutex
	entries map[string]Entry
}

// NewCache creates a cache backed by the given file. If path is empty the
// cache holds entries in memory only (useful for tests and one-shot runs).
// An existing cache file is loaded immediately.
func NewCache(path string, logger *slog.Logger) *Cache {
	logger = logging.NewComponentLogger(logger, "transcripts")

	c := &Cache{
		path:    path,
		logger:  logger,
		entries: make(map[string]Entry),
	}

	if path == "" {
		return c
	}

	if err := c.load(); err != nil {
		logger.Warn("failed to load transcript cache",
			logging.Error(err),
			logging.String("path", path))
	}

	return c
}

// Key builds the composite cache key for a source file. The path is made
// absolute so the same file is never cached twice under different spellings.
func Key(tag Tag, path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return string(tag) + ":" + path
}

// Lookup returns the cached transcript for the given key if present.
func (c *Cache) Lookup(key string) (string, bool) {
	if strings.TrimSpace(key) == "" {
		return "", false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[key]
	return entry.Text, found
}

// Store adds or replaces a transcript and persists the cache to disk.
func (c *Cache) Store(key, text string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("cache key cannot be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{Key: key, Text: text, CachedAt: time.Now()}

	if c.path == "" {
		return nil
	}
	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("cached transcript",
		logging.String("key", key),
		logging.Int("length", len(text)))

	return nil
}

// Transcript returns the cached text for (tag, path), or runs compute once
// and stores its result. Concurrent callers for the same key share a single
// computation: one computes, the rest wait for its result.
func (c *Cache) Transcript(ctx context.Context, tag Tag, path string, compute func(context.Context) (string, error)) (string, error) {
	key := Key(tag, path)
	if text, ok := c.Lookup(key); ok {
		return text, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under the group: another flight may have stored the
		// entry between our Lookup miss and this call.
		if text, ok := c.Lookup(key); ok {
			return text, nil
		}
		text, err := compute(ctx)
		if err != nil {
			return "", err
		}
		if err := c.Store(key, text); err != nil {
			return "", err
		}
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// Count returns the number of cached transcripts.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Entries returns all cached entries sorted newest first.
func (c *Cache) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CachedAt.After(entries[j].CachedAt)
	})
	return entries
}

// Clear removes all entries and persists the empty cache.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)
	if c.path == "" {
		return nil
	}
	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	return nil
}

func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // fresh start
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	c.entries = make(map[string]Entry, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry.Key) != "" {
			c.entries[entry.Key] = entry
		}
	}

	c.logger.Debug("loaded transcript cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))

	return nil
}

// save writes the cache atomically via a temp file. Callers hold c.mu.
func (c *Cache) save() error {
	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

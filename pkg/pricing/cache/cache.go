// Package cache holds supplier query results for the lifetime of one run,
// optionally backed by a directory of JSON files so repeated runs against
// the same schematic avoid duplicate network calls. Keys are
// (lookup-mode, part-code) pairs: the same part code searched as a
// supplier order code and as a manufacturer part number are distinct
// entries.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Cache is a run-scoped query cache. The in-memory layer is authoritative
// for the run; the disk layer is best effort and I/O failures are
// swallowed, since a cold cache only costs a network call.
type Cache struct {
	dir string
	mem map[string][]byte
}

// New creates a cache. dir may be "" for a memory-only cache; otherwise
// it is created if missing.
func New(dir string) *Cache {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			dir = ""
		}
	}
	return &Cache{dir: dir, mem: make(map[string][]byte)}
}

// Load fetches the cached result for (mode, code) into v, reporting
// whether an entry existed.
func (c *Cache) Load(mode, code string, v any) bool {
	key := cacheKey(mode, code)

	data, ok := c.mem[key]
	if !ok && c.dir != "" {
		fileData, err := os.ReadFile(filepath.Join(c.dir, key+".json"))
		if err != nil {
			return false
		}
		data = fileData
		c.mem[key] = data
		ok = true
	}
	if !ok {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// Store records the result for (mode, code).
func (c *Cache) Store(mode, code string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	key := cacheKey(mode, code)
	c.mem[key] = data
	if c.dir != "" {
		_ = os.WriteFile(filepath.Join(c.dir, key+".json"), data, 0o644)
	}
}

// cacheKey builds a filesystem-safe key from the lookup mode and part
// code.
func cacheKey(mode, code string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, code)
	return mode + "_" + sanitized
}

// Package registryclient implements the RegistryClient boundary of
// SPEC_FULL.md §4.3/§4.6 (version listing for completion fallback and for
// the resolver adapter's registry queries), grounded on
// internal/packagemanager_orig/registry.go's InMemoryRegistry.List/All, with
// a TTL added on top since this client serves interactive editor requests
// rather than a one-shot resolve.
package registryclient

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/orizon-lang/manifest-lsp/internal/semver"
)

// Client is the boundary to a package registry's version listing, queried
// both by the resolver adapter (internal/resolverclient) and by completion
// fallback (internal/controller's completion dispatcher) when a dependency
// name exists but hasn't been resolved yet.
type Client interface {
	Versions(ctx context.Context, registryName, packageName string) ([]*semver.Version, error)
}

// Source fetches the full, unsorted version list for a package from a
// named registry ("" for the default registry). Implementations talk to
// whatever transport the registry actually uses (HTTP index, local mirror,
// orizon-pkg subprocess); Cached wraps any Source with a TTL.
type Source interface {
	FetchVersions(ctx context.Context, registryName, packageName string) ([]string, error)
}

type cacheEntry struct {
	versions []*semver.Version
	expires  time.Time
}

// Cached wraps a Source with a per-(registry,package) TTL cache, mirroring
// InMemoryRegistry's in-process index but adding expiry so long-lived LSP
// sessions don't serve stale version lists forever.
type Cached struct {
	source Source
	ttl    time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewCached constructs a Cached client; ttl <= 0 disables caching (every
// call hits source).
func NewCached(source Source, ttl time.Duration) *Cached {
	return &Cached{source: source, ttl: ttl, cache: make(map[string]cacheEntry)}
}

// Versions returns every known version for packageName, sorted descending,
// invalid version strings from the source silently skipped.
func (c *Cached) Versions(ctx context.Context, registryName, packageName string) ([]*semver.Version, error) {
	key := registryName + "\x00" + packageName

	c.mu.Lock()
	if entry, ok := c.cache[key]; ok && c.ttl > 0 && time.Now().Before(entry.expires) {
		c.mu.Unlock()
		return entry.versions, nil
	}
	c.mu.Unlock()

	raw, err := c.source.FetchVersions(ctx, registryName, packageName)
	if err != nil {
		return nil, err
	}

	versions := make([]*semver.Version, 0, len(raw))
	for _, s := range raw {
		v, err := semver.Parse(s)
		if err != nil {
			continue
		}
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].GreaterThan(versions[j]) })

	c.mu.Lock()
	c.cache[key] = cacheEntry{versions: versions, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return versions, nil
}

// InMemory is a Source backed directly by an in-process index, the
// in-test stand-in for a real registry (adapted from InMemoryRegistry's
// local map, dropping peer replication since a test fixture never needs
// it).
type InMemory struct {
	mu     sync.RWMutex
	byName map[string][]string // packageName -> version strings
}

// NewInMemory constructs an empty InMemory registry source.
func NewInMemory() *InMemory {
	return &InMemory{byName: make(map[string][]string)}
}

// Seed installs version strings for a package, replacing any prior entry.
func (m *InMemory) Seed(packageName string, versions ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byName[packageName] = append([]string(nil), versions...)
}

// FetchVersions implements Source. registryName is ignored: a single
// InMemory instance models one registry.
func (m *InMemory) FetchVersions(_ context.Context, _ string, packageName string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.byName[packageName]...), nil
}

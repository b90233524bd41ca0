// Package resolvertask fans the resolver adapter's per-(registry,package)
// version queries out across a bounded worker pool, grounded on
// internal/packagemanager_orig/manager.go's ResolveAndFetch, which uses
// errgroup.Group.SetLimit to cap concurrent network fetches rather than
// firing one goroutine per dependency unconditionally.
package resolvertask

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/manifest-lsp/internal/semver"
)

// VersionFetcher is the narrow slice of resolver.Client this package needs,
// kept separate so callers don't have to construct a full resolver.Client
// just to batch version queries.
type VersionFetcher interface {
	AvailableVersions(ctx context.Context, registryName, packageName string) ([]*semver.Version, error)
}

// Request is one distinct (registry, package) pair to query.
type Request struct {
	RegistryName string
	PackageName  string
}

func (r Request) key() string { return r.RegistryName + "\x00" + r.PackageName }

// maxConcurrency bounds simultaneous in-flight registry queries, mirroring
// manager.go's fixed worker-pool size for fetch fan-out.
const maxConcurrency = 8

// FetchAll queries every distinct request concurrently (deduplicated, bound
// to maxConcurrency in flight) and returns the descending-sorted version
// list per request. The first query error cancels the remaining in-flight
// work and is returned, matching errgroup's fail-fast convention.
func FetchAll(ctx context.Context, fetcher VersionFetcher, requests []Request) (map[Request][]*semver.Version, error) {
	dedup := make(map[string]Request, len(requests))
	for _, r := range requests {
		dedup[r.key()] = r
	}

	var mu sync.Mutex
	results := make(map[Request][]*semver.Version, len(dedup))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)

	for _, r := range dedup {
		r := r
		g.Go(func() error {
			versions, err := fetcher.AvailableVersions(gctx, r.RegistryName, r.PackageName)
			if err != nil {
				return err
			}
			semver.SortDescending(versions)

			mu.Lock()
			results[r] = versions
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

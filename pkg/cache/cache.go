// Package cache stores computed results keyed by a hash of their inputs.
//
// Two backends are provided: [FileCache] for the CLI and [RedisCache] for
// the API server. [NullCache] disables caching. Keys come from a [Keyer],
// which folds every input that changes a result into the key so that a
// network computed with a different tolerance or sizing profile never
// reads a stale entry.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
// A miss is reported as (nil, false, nil), not as an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// Keyer derives cache keys.
type Keyer interface {
	// ResultKey identifies a computed result for a network document.
	ResultKey(networkHash string, opts ResultKeyOpts) string

	// RenderKey identifies a rendered artifact of a computed result.
	RenderKey(resultHash string, opts RenderKeyOpts) string
}

// ResultKeyOpts lists the computation inputs besides the document itself.
type ResultKeyOpts struct {
	Tolerance float64 `json:"tolerance"`
	Scale     float64 `json:"scale"`
	Sizing    string  `json:"sizing,omitempty"`
	Fixed     bool    `json:"fixed,omitempty"`
}

// RenderKeyOpts lists the rendering inputs.
type RenderKeyOpts struct {
	Format    string  `json:"format"`
	Detail    bool    `json:"detail,omitempty"`
	Highlight bool    `json:"highlight,omitempty"`
	Scale     float64 `json:"scale,omitempty"`
}

// Default entry lifetimes. Results only depend on their key, so these
// bound disk and memory use rather than staleness.
const (
	TTLResult = 7 * 24 * time.Hour
	TTLRender = 7 * 24 * time.Hour
)

// DefaultKeyer produces "result:<sha256>" and "render:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey implements Keyer.
func (DefaultKeyer) ResultKey(networkHash string, opts ResultKeyOpts) string {
	return hashKey("result", networkHash, opts)
}

// RenderKey implements Keyer.
func (DefaultKeyer) RenderKey(resultHash string, opts RenderKeyOpts) string {
	return hashKey("render", resultHash, opts)
}

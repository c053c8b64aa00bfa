package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cablemoment/pkg/cache"
	"github.com/matzehuels/cablemoment/pkg/errors"
	"github.com/matzehuels/cablemoment/pkg/io"
	"github.com/matzehuels/cablemoment/pkg/network"
	"github.com/matzehuels/cablemoment/pkg/observability"
	"github.com/matzehuels/cablemoment/pkg/sizing"
	"github.com/matzehuels/cablemoment/pkg/store"
)

// Cache key types reported to observability hooks.
const (
	keyTypeResult = "result"
	keyTypeRender = "render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so that caching and persistence behave the same
// everywhere.
//
// The Runner holds no per-run state. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store // nil disables Options.Persist
	Logger *log.Logger
	TTL    time.Duration // Entry lifetime; zero uses the cache package defaults
}

// NewRunner creates a runner with the given cache, keyer, and store.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, st store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  st,
		Logger: logger,
	}
}

// Execute runs compute and render with caching.
func (r *Runner) Execute(ctx context.Context, doc *io.Network, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	computeStart := time.Now()
	rec, hit, err := r.ComputeWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Record = rec
	result.Stats.ComputeTime = time.Since(computeStart)
	result.Stats.Segments = len(doc.Segments)
	result.Stats.Loads = len(doc.Loads)
	result.CacheInfo.ComputeHit = hit

	r.Logger.Info("computed moment",
		"root", rec.Result.Root,
		"power_kw", rec.Result.Power/1000,
		"moment", rec.Result.Moment,
		"cached", hit,
		"duration", result.Stats.ComputeTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, rec, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComputeWithCacheInfo computes, sizes, and optionally persists a network,
// and reports whether the record came from cache.
//
// Records read from cache are marked Cached. With Options.Persist, a cached
// record that was never stored is saved on the way out.
func (r *Runner) ComputeWithCacheInfo(ctx context.Context, doc *io.Network, opts Options) (*store.Record, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForCompute(); err != nil {
		return nil, false, err
	}
	if opts.Persist && r.Store == nil {
		return nil, false, errors.New(errors.ErrCodeUnsupported, "persistence requested but no store is configured")
	}

	hash, err := cache.HashJSON(doc)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "hash network")
	}
	key := r.Keyer.ResultKey(hash, opts.ResultKeyOpts())

	if !opts.Refresh {
		if rec, ok := r.cachedRecord(ctx, key); ok {
			if opts.Persist && rec.ID == "" {
				if err := r.Store.SaveResult(ctx, rec); err != nil {
					return nil, false, err
				}
				r.setCache(ctx, key, keyTypeResult, rec, r.ttl(cache.TTLResult))
			}
			rec.Cached = true
			return rec, true, nil
		}
	}

	rec, err := r.compute(ctx, doc, hash, opts)
	if err != nil {
		return nil, false, err
	}
	if opts.Persist {
		if err := r.Store.SaveResult(ctx, rec); err != nil {
			return nil, false, err
		}
		r.Logger.Debug("stored result", "id", rec.ID)
	}
	r.setCache(ctx, key, keyTypeResult, rec, r.ttl(cache.TTLResult))
	return rec, false, nil
}

// Compute is a convenience wrapper that discards the cache hit info.
func (r *Runner) Compute(ctx context.Context, doc *io.Network, opts Options) (*store.Record, error) {
	rec, _, err := r.ComputeWithCacheInfo(ctx, doc, opts)
	return rec, err
}

func (r *Runner) compute(ctx context.Context, doc *io.Network, hash string, opts Options) (*store.Record, error) {
	netOpts := opts.NetworkOptions()
	out := doc
	if opts.Fix {
		out = doc.Clone()
		netOpts.Reverser = out
	}

	segments, loads := doc.Geometry()
	observability.Pipeline().OnComputeStart(ctx, len(segments), len(loads))
	start := time.Now()
	res, err := network.Compute(ctx, segments, loads, netOpts)
	root, moment := "", 0.0
	if res != nil {
		root, moment = res.Root, res.Moment
	}
	observability.Pipeline().OnComputeComplete(ctx, root, moment, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	for _, w := range res.Warnings {
		opts.Logger.Warn(w.Message, "kind", w.Kind, "subject", w.Subject)
	}
	if len(res.Reversed) > 0 {
		opts.Logger.Debug("reoriented segments", "ids", res.Reversed)
	}

	rec := &store.Record{
		Name:        doc.Name,
		NetworkHash: hash,
		Network:     out,
		Result:      *res,
	}
	if opts.Sizing != nil && res.Power > 0 {
		sel, err := sizing.Select(res.Moment, res.Power/1000, *opts.Sizing)
		if err != nil {
			if !errors.Is(err, errors.ErrCodeNoConductor) {
				return nil, err
			}
			rec.SizingError = errors.UserMessage(err)
			opts.Logger.Warn("no conductor fits", "moment", res.Moment, "power_kw", res.Power/1000)
		} else {
			rec.Sizing = &sel
		}
	}
	return rec, nil
}

// cachedRecord returns the record under key. Decode failures count as a miss.
func (r *Runner) cachedRecord(ctx context.Context, key string) (*store.Record, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeResult)
		return nil, false
	}
	var rec store.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		r.Logger.Debug("discarding undecodable cache entry", "key", key, "err", err)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeResult)
	return &rec, true
}

// setCache stores v as JSON. Cache write failures are logged, not returned:
// the computed value is still correct.
func (r *Runner) setCache(ctx context.Context, key, keyType string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		r.Logger.Warn("cache encode failed", "err", err)
		return
	}
	r.setCacheBytes(ctx, key, keyType, data, ttl)
}

func (r *Runner) setCacheBytes(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// Close releases resources held by the runner: the cache and the store.
func (r *Runner) Close(ctx context.Context) error {
	var cerr, serr error
	if r.Cache != nil {
		cerr = r.Cache.Close()
	}
	if r.Store != nil {
		serr = r.Store.Close(ctx)
	}
	if cerr != nil {
		return cerr
	}
	return serr
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/cablemoment/pkg/cache"
	"github.com/matzehuels/cablemoment/pkg/observability"
	"github.com/matzehuels/cablemoment/pkg/render"
	"github.com/matzehuels/cablemoment/pkg/render/nodelink"
	"github.com/matzehuels/cablemoment/pkg/store"
)

// RenderWithCacheInfo produces every requested format for rec and reports
// whether all of them came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, rec *store.Record, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	resultHash, err := cache.HashJSON(rec.Result)
	if err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true
	for _, format := range opts.Formats {
		key := r.Keyer.RenderKey(resultHash, opts.RenderKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, keyTypeRender)
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeRender)
		allCached = false

		data, err := r.renderFormat(ctx, rec, format, opts)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data
		r.setCacheBytes(ctx, key, keyTypeRender, data, r.ttl(cache.TTLRender))
	}
	return artifacts, allCached, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, rec *store.Record, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, rec, opts)
	return artifacts, err
}

func (r *Runner) renderFormat(ctx context.Context, rec *store.Record, format string, opts Options) (data []byte, err error) {
	observability.Pipeline().OnRenderStart(ctx, format)
	start := time.Now()
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	}()

	return RenderRecord(ctx, rec, format, opts)
}

// RenderRecord renders one format without caching.
func RenderRecord(ctx context.Context, rec *store.Record, format string, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if format == FormatJSON {
		return json.MarshalIndent(rec, "", "  ")
	}

	dot := nodelink.ToDOT(&rec.Result, nodelink.Options{
		Detailed:  opts.Detailed,
		Highlight: opts.Highlight,
	})
	if format == FormatDOT {
		return []byte(dot), nil
	}

	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatPNG:
		scale := opts.PNGScale
		if scale == 0 {
			scale = DefaultPNGScale
		}
		return render.ToPNG(svg, scale)
	case FormatPDF:
		return render.ToPDF(svg)
	}
	return svg, nil
}

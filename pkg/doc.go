// Package pkg provides the core libraries for Cablemoment electrical moment
// reduction.
//
// # Overview
//
// Cablemoment takes the cable runs of a distribution network, drawn as
// polylines, together with point loads, and reduces the resulting feeder
// tree to one number: the worst-case moment (power times distance) at the
// feed point. That moment drives conductor selection. The pkg directory is
// organized into four areas:
//
//  1. Domain logic: [geom], [network], [sizing]
//  2. Documents and output: [io], [render]
//  3. Infrastructure: [cache], [store], [config], [errors], [observability]
//  4. Orchestration: [pipeline], [api]
//
// # Architecture
//
// The typical data flow:
//
//	Network document (JSON or TOML)
//	         ↓
//	    [io] package (segments, loads)
//	         ↓
//	    [network] package (topology → root → reduction)
//	         ↓
//	    [sizing] package (cross-section, breaker)
//	         ↓
//	    [render] package (feeder tree as DOT/SVG/PDF/PNG)
//
// # Quick Start
//
//	doc, _ := io.Import("yard.json")
//	segments, loads := doc.Geometry()
//	res, err := network.Compute(ctx, segments, loads, network.Options{})
//	if err != nil {
//	    return err
//	}
//	sel, _ := sizing.Select(res.Moment, res.Power/1000, sizing.Options{})
//
// # Main Packages
//
// [geom] - Polyline segments on top of orb: projection, arc-length offsets,
// in-place reversal.
//
// [network] - Topology building with tolerance-based attachment, node
// sequencing, root selection, and the backward moment reduction.
//
// [sizing] - Copper cross-section and breaker selection from moment and power.
//
// [io] - Network documents and their JSON/TOML encodings.
//
// [render/nodelink] - Feeder tree diagrams using Graphviz.
//
// [cache] - Result and rendering cache with file, Redis, and null backends.
//
// [store] - Result persistence with memory and MongoDB backends.
//
// [pipeline] - The compute → size → render chain used by both the CLI and
// the API. Ensures consistent behavior across entry points.
//
// [api] - The HTTP API built on chi.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/cablemoment/pkg/geom
// [network]: https://pkg.go.dev/github.com/matzehuels/cablemoment/pkg/network
// [sizing]: https://pkg.go.dev/github.com/matzehuels/cablemoment/pkg/sizing
// [io]: https://pkg.go.dev/github.com/matzehuels/cablemoment/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/cablemoment/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/cablemoment/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/cablemoment/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/cablemoment/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/cablemoment/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/cablemoment/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/cablemoment/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/cablemoment/pkg/pipeline
// [api]: https://pkg.go.dev/github.com/matzehuels/cablemoment/pkg/api
package pkg

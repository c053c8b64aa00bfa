package network

import (
	"strings"

	"github.com/matzehuels/cablemoment/pkg/errors"
)

// SelectRoot returns the feed branch: the one segment no other segment
// feeds.
//
// When several segments are unparented but exactly one of them carries
// anything (loads or child segments), the empty ones are stray geometry:
// they are reported as unattached on t and the loaded one is returned.
// Otherwise zero candidates yield NO_ROOT and several yield MULTIPLE_ROOTS.
func SelectRoot(t *Topology) (*Branch, error) {
	var candidates []*Branch
	for _, b := range t.Branches {
		if !b.IsChild {
			candidates = append(candidates, b)
		}
	}

	switch len(candidates) {
	case 0:
		return nil, errors.New(errors.ErrCodeNoRoot, "every segment is attached to another; the network has no feed point")
	case 1:
		return candidates[0], nil
	}

	var loaded []*Branch
	for _, b := range candidates {
		if len(b.Children) > 1 {
			loaded = append(loaded, b)
		}
	}
	if len(loaded) != 1 {
		ids := make([]string, len(candidates))
		for i, b := range candidates {
			ids[i] = b.ID()
		}
		return nil, errors.New(errors.ErrCodeMultipleRoots,
			"%d segments have no parent: %s", len(candidates), strings.Join(ids, ", "))
	}

	for _, b := range candidates {
		if b != loaded[0] {
			t.warn(WarnUnattached, "segment "+b.ID(), "not connected to the network")
		}
	}
	return loaded[0], nil
}

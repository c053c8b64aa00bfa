package network

// Reduce folds b and everything below it into b's origin node and returns
// that node.
//
// Nested branches are reduced first so that each one is represented by its
// lumped power and worst-case moment. The children are then walked from the
// far end back to the origin: power accumulates toward the origin, and the
// running moment grows by power × gap × scale at every step. Where a branch
// joins, the larger of the running moment and the branch's own moment
// continues toward the origin.
//
// Reduce overwrites Power and Moment on the nodes of b. Calling it again on
// the same branch returns the already reduced origin.
func Reduce(b *Branch, scale float64) *Node {
	if b.reduced || len(b.Children) == 0 {
		return b.Origin()
	}

	nodes := b.Children
	for _, n := range nodes[1:] {
		if n.Kind == KindBranch {
			eq := Reduce(n.Branch, scale)
			n.Power = eq.Power
			n.Moment = eq.Moment
		}
	}

	last := len(nodes) - 1
	running := nodes[last].Moment
	for i := last; i >= 1; i-- {
		cur, prev := nodes[i], nodes[i-1]
		prev.Power += cur.Power
		running += cur.Power * cur.Distance * scale
		if running > prev.Moment {
			prev.Moment = running
		} else {
			running = prev.Moment
		}
	}

	b.reduced = true
	return nodes[0]
}

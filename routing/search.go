package routing

import (
	"errors"
	"fmt"
	"math/rand"

	"chanroute/cost"
	"chanroute/graph"
	"chanroute/netbuild"
	"chanroute/util"
)

// ErrArcUnroutable is returned when a single arc's search exhausts the
// priority queue without reaching its sink. Callers may retry with a
// larger bounding box; if that also fails, the spec carries the arc
// unrouted into the next outer iteration.
var ErrArcUnroutable = errors.New("arc unroutable")

// SearchArc runs a best-first (A*) search for one arc from whatever is
// already bound to net (including its driver) toward arc's sink,
// constrained to bbox, and binds the resulting path on success.
func SearchArc(g *graph.Grid, net *netbuild.PerNetData, arc *netbuild.PerArcData, w cost.Weights, bbox graph.BBox, rng *rand.Rand) error {
	pq := util.NewPriorityQueue[graph.ChannelNode](64)
	dirty := make([]graph.ChannelNode, 0, 64)
	defer func() {
		for _, n := range dirty {
			g.Node(n).Visit = graph.VisitScratch{}
		}
	}()

	touch := func(n graph.ChannelNode) *graph.NodeData {
		nd := g.Node(n)
		if !nd.Visit.Dirty {
			nd.Visit.Dirty = true
			dirty = append(dirty, n)
		}
		return nd
	}

	seeded := make(map[graph.ChannelNode]bool)
	seed := func(n graph.ChannelNode) {
		if seeded[n] {
			return
		}
		seeded[n] = true
		nd := touch(n)
		su := cost.SourceUses(nd, net.ID)
		h := cost.Togo(n, arc.SinkNode, su, w)
		nd.Visit.Enqueued = true
		nd.Visit.HasBwd = false
		nd.Visit.G = 0
		nd.Visit.H = h
		pq.Enqueue(n, h, rng.Uint64())
	}

	if net.HasDriver {
		seed(net.SrcNode)
	}
	for _, n := range net.BoundNodes {
		seed(n)
	}

	for {
		n, ok := pq.Dequeue()
		if !ok {
			return fmt.Errorf("%w: net %q arc %d", ErrArcUnroutable, net.Name, arc.User)
		}
		nd := touch(n)
		if nd.Visit.Visited {
			continue // stale entry for an already-CLOSED node
		}
		nd.Visit.Visited = true

		if n == arc.SinkNode {
			path, err := reconstructPath(g, n)
			if err != nil {
				return err
			}
			if err := bindPath(g, net, path); err != nil {
				return err
			}
			arc.Routed = true
			arc.Path = path
			return nil
		}

		g0 := nd.Visit.G
		for _, m := range nd.Downhill {
			mstatic := g.Node(m)
			if mstatic.Unavailable {
				continue
			}
			if mstatic.ReservedNet != -1 && mstatic.ReservedNet != net.ID {
				continue
			}
			if !bbox.Contains(m) {
				continue
			}
			if mstatic.Visit.Visited {
				continue
			}

			ct := g.Types[m.Type]
			su := cost.SourceUses(mstatic, net.ID)
			sc := cost.Score(m, ct, mstatic, net, net.ID, w)
			gPrime := g0 + sc
			h := cost.Togo(m, arc.SinkNode, su, w)
			fPrime := gPrime + h

			mnd := touch(m)
			if !mnd.Visit.Enqueued || fPrime < mnd.Visit.G+mnd.Visit.H {
				mnd.Visit.Enqueued = true
				mnd.Visit.HasBwd = true
				mnd.Visit.Bwd = n
				mnd.Visit.G = gPrime
				mnd.Visit.H = h
				pq.Enqueue(m, fPrime, rng.Uint64())
			}
		}
	}
}

// reconstructPath walks backward from sink through Bwd pointers until
// it reaches a seed node (no backpointer), then reverses the result so
// it runs from the seed to sink.
func reconstructPath(g *graph.Grid, sink graph.ChannelNode) ([]graph.ChannelNode, error) {
	path := []graph.ChannelNode{sink}
	cur := sink
	for {
		nd := g.Node(cur)
		if !nd.Visit.HasBwd {
			break
		}
		cur = nd.Visit.Bwd
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// bindPath binds every node of path in order, treating the first node
// (the seed the search grew from) as either the driver -- bound with
// itself as uphill sentinel -- or an already-bound tree node that is
// simply reused.
func bindPath(g *graph.Grid, net *netbuild.PerNetData, path []graph.ChannelNode) error {
	seedNode := path[0]
	if _, ok := g.Node(seedNode).BoundNets[net.ID]; !ok {
		if seedNode != net.SrcNode {
			return fmt.Errorf("%w: search seed %v for net %q is neither bound nor the driver", ErrInvariantViolation, seedNode, net.Name)
		}
		if err := Bind(g, net, seedNode, seedNode); err != nil {
			return err
		}
	}
	for i := 1; i < len(path); i++ {
		if err := Bind(g, net, path[i], path[i-1]); err != nil {
			return err
		}
	}
	return nil
}

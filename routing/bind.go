package routing

import (
	"errors"
	"fmt"

	"chanroute/graph"
	"chanroute/netbuild"
)

// ErrInvariantViolation indicates a net arrived at a node from a
// different uphill than previously recorded -- a bug, not a routing
// failure. Callers should abort the run rather than retry.
var ErrInvariantViolation = errors.New("invariant violation")

// Bind records that net passes through n, arriving from uphill. On the
// first use it fixes uphill for every future arc of this net that
// reaches n; a later bind with a different uphill is a tree violation.
func Bind(g *graph.Grid, net *netbuild.PerNetData, n, uphill graph.ChannelNode) error {
	nd := g.Node(n)
	be, ok := nd.BoundNets[net.ID]
	if !ok {
		nd.BoundNets[net.ID] = &graph.BoundEntry{UseCount: 1, Uphill: uphill}
		net.BoundNodes = append(net.BoundNodes, n)
		return nil
	}
	if be.Uphill != uphill {
		return fmt.Errorf("%w: net %q already reaches %v via %v, cannot also arrive via %v", ErrInvariantViolation, net.Name, n, be.Uphill, uphill)
	}
	be.UseCount++
	return nil
}

// Unbind removes one use of net from n, erasing the entry once its
// use_count reaches zero.
func Unbind(g *graph.Grid, net *netbuild.PerNetData, n graph.ChannelNode) {
	nd := g.Node(n)
	be, ok := nd.BoundNets[net.ID]
	if !ok {
		return
	}
	be.UseCount--
	if be.UseCount <= 0 {
		delete(nd.BoundNets, net.ID)
		removeBoundNode(net, n)
	}
}

func removeBoundNode(net *netbuild.PerNetData, n graph.ChannelNode) {
	out := net.BoundNodes[:0]
	for _, x := range net.BoundNodes {
		if x != n {
			out = append(out, x)
		}
	}
	net.BoundNodes = out
}

// RipUpArc walks arc's bound path from its sink back to the driver,
// unbinding every node, and marks it unrouted. It is a no-op if the
// arc was never routed.
func RipUpArc(g *graph.Grid, net *netbuild.PerNetData, arc *netbuild.PerArcData) {
	if !arc.Routed {
		return
	}
	cur := arc.SinkNode
	for {
		nd := g.Node(cur)
		be, ok := nd.BoundNets[net.ID]
		if !ok {
			break
		}
		up := be.Uphill
		Unbind(g, net, cur)
		if cur == net.SrcNode {
			break
		}
		cur = up
	}
	arc.Routed = false
	arc.Path = nil
}

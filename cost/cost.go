package cost

import (
	"chanroute/graph"
	"chanroute/netbuild"
)

// Weights bundles the cost-model tunables that change across outer
// iterations (CurrCong) or are fixed for a run (the rest), so search
// code can pass a single value instead of threading individual floats.
type Weights struct {
	CurrCong   float64
	TogoDX     float64
	TogoDY     float64
	TogoAdder  float64
	BiasFactor float64
}

// Present computes the capacity-aware congestion cost of binding net
// netID to node nd, whose channel type has the given width.
func Present(nd *graph.NodeData, width int32, netID int, currCongWeight float64) float64 {
	over := len(nd.BoundNets) - int(width-1)
	if _, ok := nd.BoundNets[netID]; ok {
		over--
	}
	if over <= 0 {
		return 1
	}
	return 1 + float64(over)*currCongWeight
}

// OverCapacity is the plain legality measure from invariant 3 --
// how many more nets share nd than its channel width allows, with no
// per-net self-discount. It is distinct from the net-relative `over`
// term inside Present, which exists only to shape search cost.
func OverCapacity(nd *graph.NodeData, width int32) int {
	return len(nd.BoundNets) - int(width)
}

// SourceUses returns netID's current use_count at nd, or 0 if the net
// does not yet use this node.
func SourceUses(nd *graph.NodeData, netID int) int {
	if be, ok := nd.BoundNets[netID]; ok {
		return be.UseCount
	}
	return 0
}

// Score is the per-node relaxation cost when extending net's arc
// search through node n, whose channel type is ct and whose mutable
// state is nd.
func Score(n graph.ChannelNode, ct graph.ChannelType, nd *graph.NodeData, net *netbuild.PerNetData, netID int, w Weights) float64 {
	sourceUses := SourceUses(nd, netID)
	present := Present(nd, ct.Width, netID, w.CurrCong)
	bias := bias(n, ct, net, w.BiasFactor)
	return ct.Cost*nd.HistCongCost*present/(1+float64(sourceUses)) + bias
}

func bias(n graph.ChannelNode, ct graph.ChannelType, net *netbuild.PerNetData, biasFactor float64) float64 {
	if len(net.Arcs) == 0 {
		return 0
	}
	manhattanToCentroid := absF(float64(n.X)-net.Cx) + absF(float64(n.Y)-net.Cy)
	return biasFactor * (ct.Cost / float64(len(net.Arcs))) * manhattanToCentroid / net.HPWL
}

// Togo is the A* heuristic from n to sink, discounted by 1/(1+sourceUses)
// the same way Score is -- intentionally non-admissible once the net has
// already laid wire, to encourage branching off the existing tree.
func Togo(n, sink graph.ChannelNode, sourceUses int, w Weights) float64 {
	dx := absI32(n.X - sink.X)
	dy := absI32(n.Y - sink.Y)
	return (w.TogoDX*float64(dx) + w.TogoDY*float64(dy) + w.TogoAdder) / (1 + float64(sourceUses))
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func absI32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

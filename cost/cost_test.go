package cost

import (
	"math"
	"testing"

	"chanroute/graph"
	"chanroute/netbuild"
)

func newNode() *graph.NodeData {
	return &graph.NodeData{BoundNets: map[int]*graph.BoundEntry{}, HistCongCost: 1.0, ReservedNet: -1}
}

func TestPresentUnderCapacityIsOne(t *testing.T) {
	nd := newNode()
	nd.BoundNets[0] = &graph.BoundEntry{UseCount: 1}
	if got := Present(nd, 2, 0, 10); got != 1 {
		t.Errorf("Present = %v; want 1", got)
	}
}

func TestPresentOverCapacityScalesWithCurrCongWeight(t *testing.T) {
	nd := newNode()
	nd.BoundNets[0] = &graph.BoundEntry{UseCount: 1}
	nd.BoundNets[1] = &graph.BoundEntry{UseCount: 1}
	// width=1: over = 2 - 0 - 1(self) = 1
	got := Present(nd, 1, 0, 5)
	if got != 1+1*5 {
		t.Errorf("Present = %v; want 6", got)
	}
}

func TestPresentDiscountsSelfOccupancy(t *testing.T) {
	nd := newNode()
	nd.BoundNets[0] = &graph.BoundEntry{UseCount: 3}
	// a net already reusing its own node should not see itself as congestion
	if got := Present(nd, 1, 0, 10); got != 1 {
		t.Errorf("Present = %v; want 1", got)
	}
}

func TestOverCapacityIgnoresSelfDiscount(t *testing.T) {
	nd := newNode()
	nd.BoundNets[0] = &graph.BoundEntry{UseCount: 1}
	nd.BoundNets[1] = &graph.BoundEntry{UseCount: 1}
	if got := OverCapacity(nd, 1); got != 1 {
		t.Errorf("OverCapacity = %v; want 1", got)
	}
	if got := OverCapacity(nd, 2); got != 0 {
		t.Errorf("OverCapacity = %v; want 0", got)
	}
}

func TestSourceUsesDiscountsScore(t *testing.T) {
	net := &netbuild.PerNetData{Arcs: []*netbuild.PerArcData{{}}, HPWL: 1, Cx: 0, Cy: 0}
	ct := graph.ChannelType{Cost: 2, Width: 4}
	n := graph.ChannelNode{X: 0, Y: 0}

	fresh := newNode()
	scoreFresh := Score(n, ct, fresh, net, 0, Weights{CurrCong: 1})

	reused := newNode()
	reused.BoundNets[0] = &graph.BoundEntry{UseCount: 3}
	scoreReused := Score(n, ct, reused, net, 0, Weights{CurrCong: 1})

	if scoreReused >= scoreFresh {
		t.Errorf("scoreReused=%v should be < scoreFresh=%v (discount for reuse)", scoreReused, scoreFresh)
	}
}

func TestTogoDiscountedBySourceUses(t *testing.T) {
	w := Weights{TogoDX: 1, TogoDY: 1, TogoAdder: 0}
	n := graph.ChannelNode{X: 0, Y: 0}
	sink := graph.ChannelNode{X: 3, Y: 4}

	base := Togo(n, sink, 0, w)
	discounted := Togo(n, sink, 6, w)

	if base != 7 {
		t.Errorf("Togo(0 uses) = %v; want 7", base)
	}
	if math.Abs(discounted-1) > 1e-9 {
		t.Errorf("Togo(6 uses) = %v; want 1", discounted)
	}
}

func TestBiasPullsTowardCentroid(t *testing.T) {
	net := &netbuild.PerNetData{Arcs: []*netbuild.PerArcData{{}}, HPWL: 10, Cx: 5, Cy: 5}
	ct := graph.ChannelType{Cost: 1, Width: 1}

	near := bias(graph.ChannelNode{X: 5, Y: 5}, ct, net, 1.0)
	far := bias(graph.ChannelNode{X: 0, Y: 0}, ct, net, 1.0)

	if near != 0 {
		t.Errorf("bias at centroid = %v; want 0", near)
	}
	if far <= near {
		t.Errorf("bias far=%v should exceed bias near=%v", far, near)
	}
}

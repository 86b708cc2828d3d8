package netbuild

import (
	"testing"

	"chanroute/graph"
)

// fakeGraph is a minimal SinkLookup for tests.
type fakeGraph struct {
	drivers map[string]graph.ChannelNode
	users   map[string][]graph.ChannelNode
}

func (self *fakeGraph) SourceNode(net string) (graph.ChannelNode, bool) {
	n, ok := self.drivers[net]
	return n, ok
}

func (self *fakeGraph) SinkNode(net string, user int) (graph.ChannelNode, bool) {
	users, ok := self.users[net]
	if !ok || user < 0 || user >= len(users) {
		return graph.ChannelNode{}, false
	}
	return users[user], true
}

type fakeNetlist struct {
	specs []NetSpec
}

func (self *fakeNetlist) Nets() []NetSpec { return self.specs }

func TestBuildOrdersByCanonicalName(t *testing.T) {
	gp := &fakeGraph{
		drivers: map[string]graph.ChannelNode{
			"zeta": {X: 0, Y: 0},
			"beta": {X: 1, Y: 1},
		},
		users: map[string][]graph.ChannelNode{
			"zeta": {{X: 2, Y: 0}},
			"beta": {{X: 3, Y: 1}},
		},
	}
	np := &fakeNetlist{specs: []NetSpec{
		{Name: "zeta", HasDriver: true, Users: 1},
		{Name: "beta", HasDriver: true, Users: 1},
	}}

	nets := Build(gp, np)
	if len(nets) != 2 {
		t.Fatalf("len(nets) = %d; want 2", len(nets))
	}
	if nets[0].Name != "beta" || nets[0].ID != 0 {
		t.Errorf("nets[0] = %+v; want beta with id 0", nets[0])
	}
	if nets[1].Name != "zeta" || nets[1].ID != 1 {
		t.Errorf("nets[1] = %+v; want zeta with id 1", nets[1])
	}
}

func TestBuildComputesBBoxCentroidAndHPWL(t *testing.T) {
	gp := &fakeGraph{
		drivers: map[string]graph.ChannelNode{"n0": {X: 0, Y: 0}},
		users: map[string][]graph.ChannelNode{
			"n0": {{X: 2, Y: 0}, {X: 0, Y: 2}},
		},
	}
	np := &fakeNetlist{specs: []NetSpec{{Name: "n0", HasDriver: true, Users: 2}}}

	nets := Build(gp, np)
	net := nets[0]
	if net.BBox != (graph.BBox{X0: 0, Y0: 0, X1: 2, Y1: 2}) {
		t.Errorf("BBox = %+v", net.BBox)
	}
	if net.Cx != (0.0+2.0+0.0)/3.0 || net.Cy != (0.0+0.0+2.0)/3.0 {
		t.Errorf("centroid = (%v,%v)", net.Cx, net.Cy)
	}
	if net.HPWL != 4 {
		t.Errorf("HPWL = %v; want 4", net.HPWL)
	}
}

func TestBuildSortsArcsByDistanceFromDriver(t *testing.T) {
	gp := &fakeGraph{
		drivers: map[string]graph.ChannelNode{"n0": {X: 0, Y: 0}},
		users: map[string][]graph.ChannelNode{
			"n0": {{X: 5, Y: 0}, {X: 1, Y: 0}, {X: 3, Y: 0}},
		},
	}
	np := &fakeNetlist{specs: []NetSpec{{Name: "n0", HasDriver: true, Users: 3}}}

	nets := Build(gp, np)
	arcs := nets[0].Arcs
	want := []int32{1, 3, 5}
	for i, x := range want {
		if arcs[i].SinkNode.X != x {
			t.Fatalf("arcs[%d].SinkNode.X = %d; want %d", i, arcs[i].SinkNode.X, x)
		}
	}
}

func TestBuildSkipsNetsWithoutDriver(t *testing.T) {
	gp := &fakeGraph{}
	np := &fakeNetlist{specs: []NetSpec{{Name: "floating", HasDriver: false, Users: 1}}}

	nets := Build(gp, np)
	if len(nets) != 1 {
		t.Fatalf("len(nets) = %d; want 1", len(nets))
	}
	if nets[0].HasDriver || nets[0].HPWL != 0 {
		t.Errorf("net = %+v; want HasDriver=false HPWL=0", nets[0])
	}
}

func TestBuildOneUserSinkEqualsDriver(t *testing.T) {
	gp := &fakeGraph{
		drivers: map[string]graph.ChannelNode{"n0": {X: 1, Y: 1}},
		users:   map[string][]graph.ChannelNode{"n0": {{X: 1, Y: 1}}},
	}
	np := &fakeNetlist{specs: []NetSpec{{Name: "n0", HasDriver: true, Users: 1}}}

	nets := Build(gp, np)
	net := nets[0]
	if len(net.Arcs) != 1 || net.Arcs[0].SinkNode != net.SrcNode {
		t.Fatalf("arc sink = %+v; want driver node %+v", net.Arcs[0].SinkNode, net.SrcNode)
	}
	if net.HPWL != 1 {
		t.Errorf("HPWL = %v; want 1 (floor)", net.HPWL)
	}
}

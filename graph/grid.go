package graph

import (
	"errors"
	"fmt"
)

// ErrGraphInconsistent is returned by Build when the device template
// places a junction's source anchor outside the grid, or references a
// destination channel type index that does not exist. A junction whose
// destination falls outside the grid is omitted, not rejected. It is fatal: routing never
// starts against an inconsistent graph.
var ErrGraphInconsistent = errors.New("graph inconsistent")

//*******************************************
// per-node data
//*******************************************

// BoundEntry records how many arcs of one net pass through a node, and
// the single uphill neighbor they all arrive from.
type BoundEntry struct {
	UseCount int
	Uphill   ChannelNode
}

// VisitScratch is the A* search state for one node, valid only for the
// duration of a single arc search. It is reset through the search's
// dirty list, never by scanning the whole grid.
type VisitScratch struct {
	Dirty    bool
	Visited  bool
	Enqueued bool
	HasBwd   bool
	Bwd      ChannelNode
	G, H     float64
}

// NodeData is the mutable per-(x,y,type) slot: congestion accounting,
// locking, and search scratch.
type NodeData struct {
	Downhill []ChannelNode
	Uphill   []ChannelNode

	BoundNets    map[int]*BoundEntry
	HistCongCost float64
	Unavailable  bool
	ReservedNet  int // -1 means unreserved

	Visit VisitScratch
}

func newNodeData() NodeData {
	return NodeData{
		BoundNets:    make(map[int]*BoundEntry),
		HistCongCost: 1.0,
		ReservedNet:  -1,
	}
}

//*******************************************
// grid
//*******************************************

// Grid is the channel resource graph: one NodeData per (x, y, type)
// triple, built once from a device template and then mutated in place
// by the router for the lifetime of the run.
type Grid struct {
	W, H  int
	Types []ChannelType

	nodes []NodeData
}

func (self *Grid) index(n ChannelNode) int {
	return (int(n.Y)*self.W+int(n.X))*len(self.Types) + int(n.Type)
}

func (self *Grid) Node(n ChannelNode) *NodeData {
	return &self.nodes[self.index(n)]
}

func (self *Grid) InBounds(n ChannelNode) bool {
	return n.X >= 0 && n.X < int32(self.W) && n.Y >= 0 && n.Y < int32(self.H) &&
		n.Type >= 0 && int(n.Type) < len(self.Types)
}

// ForEachNode calls fn for every (x, y, type) triple in the grid. It is
// used by the outer loop's once-per-iteration bookkeeping (overflow
// count, history bump) -- never by a single arc search.
func (self *Grid) ForEachNode(fn func(ChannelNode, *NodeData)) {
	for y := 0; y < self.H; y++ {
		for x := 0; x < self.W; x++ {
			for t := range self.Types {
				n := ChannelNode{X: int32(x), Y: int32(y), Type: int16(t)}
				fn(n, self.Node(n))
			}
		}
	}
}

//*******************************************
// explorer
//*******************************************

// Explorer is a thin read-only view over a Grid's adjacency, mirroring
// the adjacency-callback shape used elsewhere for graph traversal so
// the search package never touches Grid internals directly.
type Explorer struct {
	g *Grid
}

func (self *Grid) Explorer() *Explorer {
	return &Explorer{g: self}
}

func (self *Explorer) ForDownhill(n ChannelNode, callback func(ChannelNode)) {
	for _, m := range self.g.Node(n).Downhill {
		callback(m)
	}
}

func (self *Explorer) ForUphill(n ChannelNode, callback func(ChannelNode)) {
	for _, m := range self.g.Node(n).Uphill {
		callback(m)
	}
}

//*******************************************
// builder (C2)
//*******************************************

// Build materializes the downhill/uphill adjacency of every grid node
// from the device template. Both the junction's source point and its
// destination point are computed by displacing the SAME origin cell
// opposite to each channel's own direction -- this mirrors the
// reference channel router's setup_nodes, which intentionally does not
// chain the destination offset off of the source offset.
//
// A template is applied uniformly to every cell of its source type, so
// a direction-following template naturally tries to walk past the grid
// edge for the last row or column it is applied to. An invalid source
// anchor is a malformed template and fails the whole build; an invalid
// destination is treated as the channel simply not continuing past the
// device edge, and that one junction is omitted rather than rejected.
func Build(types []ChannelType, w, h int) (*Grid, error) {
	g := &Grid{
		W:     w,
		H:     h,
		Types: types,
		nodes: make([]NodeData, w*h*len(types)),
	}
	for i := range g.nodes {
		g.nodes[i] = newNodeData()
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for t, ct := range types {
				src := ChannelNode{X: int32(x), Y: int32(y), Type: int16(t)}
				for _, dh := range ct.Downhill {
					if int(dh.DstType) < 0 || int(dh.DstType) >= len(types) {
						return nil, fmt.Errorf("%w: %v downhill references unknown channel type %d", ErrGraphInconsistent, src, dh.DstType)
					}
					dstType := types[dh.DstType]

					start, err := originOf(src, ct.Dir, dh.SrcAlong, w, h)
					if err != nil {
						return nil, fmt.Errorf("%w: %v downhill src_along=%d: %v", ErrGraphInconsistent, src, dh.SrcAlong, err)
					}
					end, err := originOf(ChannelNode{X: src.X, Y: src.Y, Type: dh.DstType}, dstType.Dir, dh.DstAlong, w, h)
					if err != nil {
						continue // channel runs off the device edge here; no junction to record
					}

					dst := ChannelNode{X: end.X, Y: end.Y, Type: dh.DstType}

					g.Node(start).Downhill = append(g.Node(start).Downhill, dst)
					g.Node(dst).Uphill = append(g.Node(dst).Uphill, start)
				}
			}
		}
	}
	return g, nil
}

// originOf displaces n opposite to dir by along grid units, and fails
// if the result falls outside [0,w) x [0,h).
func originOf(n ChannelNode, dir Direction, along int32, w, h int) (ChannelNode, error) {
	dx, dy := dir.delta()
	out := ChannelNode{X: n.X - dx*along, Y: n.Y - dy*along, Type: n.Type}
	if out.X < 0 || out.X >= int32(w) || out.Y < 0 || out.Y >= int32(h) {
		return out, fmt.Errorf("displaced coordinate (%d,%d) outside grid %dx%d", out.X, out.Y, w, h)
	}
	return out, nil
}

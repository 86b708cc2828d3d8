package netbuild

import (
	"sort"

	"chanroute/graph"
)

//*******************************************
// external interfaces (consumed, not owned)
//*******************************************

// SinkLookup is the half of the device/placement collaborator that the
// net/arc builder actually needs: where each net's driver and users
// land. Build takes this narrower interface so a netlist-only fixture
// can satisfy it without also carrying grid/channel-template data.
type SinkLookup interface {
	SourceNode(netName string) (graph.ChannelNode, bool)
	SinkNode(netName string, user int) (graph.ChannelNode, bool)
}

// ChannelGraphProvider is the full device/placement collaborator named
// in the core's external interfaces: grid dimensions, channel
// templates, and sink lookups. Nothing in this module implements it;
// Build needs only the SinkLookup half.
type ChannelGraphProvider interface {
	SinkLookup
	Width() int
	Height() int
	Channels() []graph.ChannelType
}

// NetSpec is one entry of a netlist: a canonical name used for stable
// ordering, whether it has a driver, and how many users it has.
type NetSpec struct {
	Name      string
	HasDriver bool
	Users     int
}

// NetlistProvider is the netlist collaborator: an enumerable collection
// of nets, each with a canonical name, an optional driver, and an
// ordered list of users.
type NetlistProvider interface {
	Nets() []NetSpec
}

//*******************************************
// per-arc / per-net records
//*******************************************

type PerArcData struct {
	User     int
	SinkNode graph.ChannelNode
	BBox     graph.BBox
	Routed   bool

	// Path is the most recently bound driver-to-sink path, kept only
	// for rip-up-on-overcapacity checks and diagnostics; it is not an
	// independent source of truth (bound_nets/uphill links are).
	Path []graph.ChannelNode
}

type PerNetData struct {
	ID        int
	Name      string
	HasDriver bool
	SrcNode   graph.ChannelNode
	Arcs      []*PerArcData
	BBox      graph.BBox
	Cx, Cy    float64
	HPWL      float64

	// BoundNodes is every node currently bound to this net, in the
	// order it became bound. It seeds the next arc's search so a new
	// sink can branch off any existing point in the tree (4.5).
	BoundNodes []graph.ChannelNode
}

//*******************************************
// builder (C3)
//*******************************************

// Build constructs PerNetData/PerArcData records for every net in np,
// in a stable, deterministic order (canonical name), assigning dense
// ids in that order. Arcs within a net are pre-sorted by increasing
// Manhattan distance from the driver per 4.6, so the router can
// route them in that order without re-sorting every iteration.
func Build(gp SinkLookup, np NetlistProvider) []*PerNetData {
	specs := append([]NetSpec(nil), np.Nets()...)
	sort.SliceStable(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })

	nets := make([]*PerNetData, 0, len(specs))
	for id, spec := range specs {
		net := &PerNetData{ID: id, Name: spec.Name, HasDriver: spec.HasDriver}
		if !spec.HasDriver {
			net.HPWL = 0
			nets = append(nets, net)
			continue
		}

		src, ok := gp.SourceNode(spec.Name)
		if !ok {
			net.HasDriver = false
			net.HPWL = 0
			nets = append(nets, net)
			continue
		}
		net.SrcNode = src
		net.BBox = graph.NewBBox(src)
		cx, cy := float64(src.X), float64(src.Y)

		arcs := make([]*PerArcData, 0, spec.Users)
		for u := 0; u < spec.Users; u++ {
			sink, ok := gp.SinkNode(spec.Name, u)
			if !ok {
				continue
			}
			arc := &PerArcData{
				User:     u,
				SinkNode: sink,
				BBox:     graph.NewBBox(src).Union(sink),
			}
			arcs = append(arcs, arc)
			net.BBox = net.BBox.Union(sink)
			cx += float64(sink.X)
			cy += float64(sink.Y)
		}

		denom := float64(len(arcs) + 1)
		net.Cx = cx / denom
		net.Cy = cy / denom
		hpwl := float64(absI32(net.BBox.X1-net.BBox.X0) + absI32(net.BBox.Y1-net.BBox.Y0))
		if hpwl < 1 {
			hpwl = 1
		}
		net.HPWL = hpwl

		sortArcsByDistanceFromDriver(arcs, src)
		net.Arcs = arcs

		nets = append(nets, net)
	}
	return nets
}

func sortArcsByDistanceFromDriver(arcs []*PerArcData, src graph.ChannelNode) {
	sort.SliceStable(arcs, func(i, j int) bool {
		return manhattan(src, arcs[i].SinkNode) < manhattan(src, arcs[j].SinkNode)
	})
}

func manhattan(a, b graph.ChannelNode) int64 {
	return int64(absI32(a.X-b.X)) + int64(absI32(a.Y-b.Y))
}

func absI32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

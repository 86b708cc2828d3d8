package graph

//*******************************************
// directions
//*******************************************

type Direction byte

const (
	EAST Direction = iota
	WEST
	NORTH
	SOUTH
)

func (self Direction) String() string {
	switch self {
	case EAST:
		return "east"
	case WEST:
		return "west"
	case NORTH:
		return "north"
	case SOUTH:
		return "south"
	default:
		panic("unknown direction")
	}
}

// delta returns the (dx, dy) unit step of travelling one grid unit in
// this direction.
func (self Direction) delta() (int32, int32) {
	switch self {
	case EAST:
		return 1, 0
	case WEST:
		return -1, 0
	case NORTH:
		return 0, 1
	case SOUTH:
		return 0, -1
	default:
		panic("unknown direction")
	}
}

//*******************************************
// channel node
//*******************************************

// ChannelNode identifies one routable endpoint within a channel at a
// grid coordinate. Equality is structural on all three fields, so it
// can be used directly as a map key.
type ChannelNode struct {
	X, Y int32
	Type int16
}

//*******************************************
// channel type template
//*******************************************

// DownhillTemplate describes a junction from a source channel to a
// neighboring channel, expressed as offsets along each channel's run
// rather than absolute coordinates, so the same template applies to
// every grid cell of the source type. Both offsets displace backward
// against their own channel's direction; a negative along therefore
// reaches past this tile into a neighboring one (e.g. DstAlong: -1
// steps the destination one grid unit further along the destination
// channel's own direction).
type DownhillTemplate struct {
	SrcAlong int32
	DstType  int16
	DstAlong int32
}

// ChannelType is the static, immutable template describing one channel
// family: its direction, run length, per-node routing cost, legal
// sharing width, and the junctions it offers downhill.
type ChannelType struct {
	Dir      Direction
	Length   int32
	Cost     float64
	Width    int32
	Downhill []DownhillTemplate
}

//*******************************************
// bounding box
//*******************************************

type BBox struct {
	X0, Y0, X1, Y1 int32
}

func NewBBox(n ChannelNode) BBox {
	return BBox{X0: n.X, Y0: n.Y, X1: n.X, Y1: n.Y}
}

func (self BBox) Union(n ChannelNode) BBox {
	if n.X < self.X0 {
		self.X0 = n.X
	}
	if n.X > self.X1 {
		self.X1 = n.X
	}
	if n.Y < self.Y0 {
		self.Y0 = n.Y
	}
	if n.Y > self.Y1 {
		self.Y1 = n.Y
	}
	return self
}

func (self BBox) UnionBox(other BBox) BBox {
	return self.Union(ChannelNode{X: other.X0, Y: other.Y0}).Union(ChannelNode{X: other.X1, Y: other.Y1})
}

func (self BBox) Expand(dx, dy int32) BBox {
	return BBox{X0: self.X0 - dx, Y0: self.Y0 - dy, X1: self.X1 + dx, Y1: self.Y1 + dy}
}

func (self BBox) Contains(n ChannelNode) bool {
	return n.X >= self.X0 && n.X <= self.X1 && n.Y >= self.Y0 && n.Y <= self.Y1
}

func (self BBox) Area() int64 {
	return int64(self.X1-self.X0+1) * int64(self.Y1-self.Y0+1)
}

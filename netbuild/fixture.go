package netbuild

import (
	"os"

	"chanroute/graph"

	"gopkg.in/yaml.v3"
)

//*******************************************
// netlist fixture (YAML)
//*******************************************

// NodeYAML pins one endpoint to an absolute grid coordinate. Real
// placement is out of scope for the core (see SPEC_FULL); fixtures
// bake coordinates directly into the netlist file instead.
type NodeYAML struct {
	X    int32 `yaml:"x"`
	Y    int32 `yaml:"y"`
	Type int16 `yaml:"type"`
}

func (self NodeYAML) node() graph.ChannelNode {
	return graph.ChannelNode{X: self.X, Y: self.Y, Type: self.Type}
}

type NetYAML struct {
	Name   string     `yaml:"name"`
	Driver *NodeYAML  `yaml:"driver"`
	Users  []NodeYAML `yaml:"users"`
}

// NetlistFixture implements both SinkLookup and NetlistProvider over a
// flat YAML file -- a stand-in for the real
// placement/device collaborators, used only by tests and cmd/chanroute.
type NetlistFixture struct {
	Width  int       `yaml:"width"`
	Height int       `yaml:"height"`
	NetList []NetYAML `yaml:"nets"`
}

func LoadNetlistYAML(path string) (*NetlistFixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fixture NetlistFixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, err
	}
	return &fixture, nil
}

func (self *NetlistFixture) Nets() []NetSpec {
	out := make([]NetSpec, len(self.NetList))
	for i, n := range self.NetList {
		out[i] = NetSpec{Name: n.Name, HasDriver: n.Driver != nil, Users: len(n.Users)}
	}
	return out
}

func (self *NetlistFixture) netByName(name string) *NetYAML {
	for i := range self.NetList {
		if self.NetList[i].Name == name {
			return &self.NetList[i]
		}
	}
	return nil
}

func (self *NetlistFixture) SourceNode(netName string) (graph.ChannelNode, bool) {
	n := self.netByName(netName)
	if n == nil || n.Driver == nil {
		return graph.ChannelNode{}, false
	}
	return n.Driver.node(), true
}

func (self *NetlistFixture) SinkNode(netName string, user int) (graph.ChannelNode, bool) {
	n := self.netByName(netName)
	if n == nil || user < 0 || user >= len(n.Users) {
		return graph.ChannelNode{}, false
	}
	return n.Users[user].node(), true
}

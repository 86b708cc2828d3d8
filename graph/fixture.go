package graph

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//*******************************************
// device fixture (YAML)
//*******************************************

// DeviceFixture is a flat, file-based stand-in for the device-description
// loader named in the core's external interfaces (see SPEC_FULL for
// why the real loader is out of scope). It is
// only ever used by cmd/chanroute and by tests.
type DeviceFixture struct {
	Width  int                `yaml:"width"`
	Height int                `yaml:"height"`
	Types  []ChannelTypeYAML `yaml:"types"`
}

type ChannelTypeYAML struct {
	Dir      string               `yaml:"dir"`
	Length   int32                `yaml:"length"`
	Cost     float64              `yaml:"cost"`
	Width    int32                `yaml:"width"`
	Downhill []DownhillTemplateYAML `yaml:"downhill"`
}

type DownhillTemplateYAML struct {
	SrcAlong int32 `yaml:"src_along"`
	DstType  int16 `yaml:"dst_type"`
	DstAlong int32 `yaml:"dst_along"`
}

func LoadDeviceYAML(path string) (*DeviceFixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fixture DeviceFixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, err
	}
	return &fixture, nil
}

// Channels converts the YAML representation into the ChannelType slice
// Build expects.
func (self *DeviceFixture) Channels() ([]ChannelType, error) {
	out := make([]ChannelType, len(self.Types))
	for i, t := range self.Types {
		dir, err := directionFromString(t.Dir)
		if err != nil {
			return nil, fmt.Errorf("type %d: %w", i, err)
		}
		downhill := make([]DownhillTemplate, len(t.Downhill))
		for j, dh := range t.Downhill {
			downhill[j] = DownhillTemplate{SrcAlong: dh.SrcAlong, DstType: dh.DstType, DstAlong: dh.DstAlong}
		}
		out[i] = ChannelType{Dir: dir, Length: t.Length, Cost: t.Cost, Width: t.Width, Downhill: downhill}
	}
	return out, nil
}

func directionFromString(s string) (Direction, error) {
	switch s {
	case "east":
		return EAST, nil
	case "west":
		return WEST, nil
	case "north":
		return NORTH, nil
	case "south":
		return SOUTH, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// Build parses and materializes the channel graph in one step.
func (self *DeviceFixture) Build() (*Grid, error) {
	types, err := self.Channels()
	if err != nil {
		return nil, err
	}
	return Build(types, self.Width, self.Height)
}

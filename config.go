package chanroute

import (
	"os"

	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"

	"chanroute/router"
)

// ReadConfig loads and parses a run configuration, panicking on any
// read or parse failure -- a router run is never useful with a bad
// config, so there is nothing to recover into.
func ReadConfig(file string) Config {
	data, err := os.ReadFile(file)
	if err != nil {
		panic(err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		panic(err)
	}
	return config
}

// Config is the cmd/chanroute run configuration: where the device and
// netlist fixtures live, plus the outer-loop tunables from
// router.Config (flattened into this file rather than nested, since a
// run config only ever has one of each).
type Config struct {
	Device   string `yaml:"device"`
	Netlist  string `yaml:"netlist"`
	LogLevel string `yaml:"log-level"`

	BBMarginX int `yaml:"bb-margin-x"`
	BBMarginY int `yaml:"bb-margin-y"`
	BBGrow    int `yaml:"bb-grow"`

	TogoCostDX     float64 `yaml:"togo-cost-dx"`
	TogoCostDY     float64 `yaml:"togo-cost-dy"`
	TogoCostAdder  float64 `yaml:"togo-cost-adder"`
	BiasCostFactor float64 `yaml:"bias-cost-factor"`

	InitCurrCong float64 `yaml:"init-curr-cong"`
	InitHistCong float64 `yaml:"init-hist-cong"`
	CurrCongMult float64 `yaml:"curr-cong-mult"`

	MaxIter int   `yaml:"max-iter"`
	Seed    int64 `yaml:"seed"`
}

func DefaultConfig() Config {
	rc := router.DefaultConfig()
	return Config{
		Device:   "./testdata/device.yaml",
		Netlist:  "./testdata/netlist.yaml",
		LogLevel: "info",

		BBMarginX: rc.BBMarginX, BBMarginY: rc.BBMarginY, BBGrow: rc.BBGrow,
		TogoCostDX: rc.TogoCostDX, TogoCostDY: rc.TogoCostDY, TogoCostAdder: rc.TogoCostAdder,
		BiasCostFactor: rc.BiasCostFactor,
		InitCurrCong:   rc.InitCurrCong, InitHistCong: rc.InitHistCong, CurrCongMult: rc.CurrCongMult,
		MaxIter: rc.MaxIter, Seed: rc.Seed,
	}
}

// RouterConfig extracts the outer-loop tunables as a router.Config.
func (c Config) RouterConfig() router.Config {
	return router.Config{
		BBMarginX: c.BBMarginX, BBMarginY: c.BBMarginY, BBGrow: c.BBGrow,
		TogoCostDX: c.TogoCostDX, TogoCostDY: c.TogoCostDY, TogoCostAdder: c.TogoCostAdder,
		BiasCostFactor: c.BiasCostFactor,
		InitCurrCong:   c.InitCurrCong, InitHistCong: c.InitHistCong, CurrCongMult: c.CurrCongMult,
		MaxIter: c.MaxIter, Seed: c.Seed,
	}
}

func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

package main

import (
	"context"
	"fmt"
	"os"

	"chanroute"
	"chanroute/graph"
	"chanroute/netbuild"
	"chanroute/router"
	"chanroute/util"
)

func main() {
	cfgPath := "./config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	var cfg chanroute.Config
	if _, err := os.Stat(cfgPath); err == nil {
		cfg = chanroute.ReadConfig(cfgPath)
	} else {
		cfg = chanroute.DefaultConfig()
	}
	logger := chanroute.NewLogger(os.Stdout, cfg.SlogLevel())

	device, err := graph.LoadDeviceYAML(cfg.Device)
	if err != nil {
		logger.Error("failed to load device fixture", "err", err)
		os.Exit(1)
	}
	g, err := device.Build()
	if err != nil {
		logger.Error("failed to build channel graph", "err", err, "kind", router.ClassifyError(err))
		os.Exit(1)
	}

	netlist, err := netbuild.LoadNetlistYAML(cfg.Netlist)
	if err != nil {
		logger.Error("failed to load netlist fixture", "err", err)
		os.Exit(1)
	}
	nets := netbuild.Build(netlist, netlist)

	r := router.New(g, nets, cfg.RouterConfig(), logger)
	result, err := r.Run(context.Background(), func(stats router.IterationStats) {
		logger.Info("iteration",
			"n", stats.Iteration, "routed", stats.NetsRouted,
			"ripped_up", stats.ArcsRippedUp, "overflow", stats.Overflow,
			"elapsed", stats.Elapsed)
	})
	if err != nil {
		logger.Error("router run failed", "err", err, "kind", result.Kind)
		os.Exit(1)
	}

	fmt.Printf("status=%s kind=%s iterations=%d overflow=%d\n", result.Status, result.Kind, result.Iterations, result.Overflow)
	if result.Status != router.Success {
		if err := util.WriteJSONToFile(result, "./overflow.json"); err != nil {
			logger.Warn("failed to write overflow diagnostics", "err", err)
		} else {
			logger.Info("wrote overflow diagnostics", "file", "./overflow.json")
		}
		os.Exit(1)
	}
}

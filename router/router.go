package router

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"time"

	"golang.org/x/exp/slog"

	"chanroute/cost"
	"chanroute/graph"
	"chanroute/netbuild"
	"chanroute/routing"
)

//*******************************************
// configuration
//*******************************************

// Config bundles every outer-loop tunable named in the core's external
// interface. All fields are required; DefaultConfig supplies a
// conventional negotiated-congestion schedule.
type Config struct {
	BBMarginX, BBMarginY int
	BBGrow               int

	TogoCostDX, TogoCostDY, TogoCostAdder float64
	BiasCostFactor                        float64

	InitCurrCong, InitHistCong, CurrCongMult float64

	MaxIter int
	Seed    int64
}

func DefaultConfig() Config {
	return Config{
		BBMarginX: 2, BBMarginY: 2,
		BBGrow:         4,
		TogoCostDX:     1, TogoCostDY: 1, TogoCostAdder: 0,
		BiasCostFactor: 0.25,
		InitCurrCong:   1, InitHistCong: 1, CurrCongMult: 1.2,
		MaxIter: 100,
		Seed:    1,
	}
}

func (c Config) weights(currCong float64) cost.Weights {
	return cost.Weights{
		CurrCong:   currCong,
		TogoDX:     c.TogoCostDX,
		TogoDY:     c.TogoCostDY,
		TogoAdder:  c.TogoCostAdder,
		BiasFactor: c.BiasCostFactor,
	}
}

//*******************************************
// result / status
//*******************************************

type Status int

const (
	Success Status = iota
	Failure
	Canceled
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

type Result struct {
	Status     Status
	Kind       Kind
	Overflow   int
	Iterations int
}

// IterationStats is reported once per outer iteration through the
// caller-supplied onIteration callback, mirroring the teacher's
// callback-based progress observer rather than a channel the core owns.
type IterationStats struct {
	Iteration    int
	NetsRouted   int
	ArcsRippedUp int
	Overflow     int
	Elapsed      time.Duration
}

//*******************************************
// router
//*******************************************

// Router runs the outer negotiated-congestion loop over a fixed grid
// and net set. It owns no state beyond the loop's own bookkeeping; all
// persistent mutation lives on the grid and nets it was built from.
type Router struct {
	g      *graph.Grid
	nets   []*netbuild.PerNetData
	cfg    Config
	rng    *rand.Rand
	logger *slog.Logger
}

func New(g *graph.Grid, nets []*netbuild.PerNetData, cfg Config, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		g:      g,
		nets:   nets,
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		logger: logger,
	}
}

// Run executes the outer loop of 4.7. onIteration, if non-nil, is
// called once per completed iteration; it must not retain the stats
// value's identity across calls (a new IterationStats is reused by
// value, not by pointer, so this is safe regardless).
func (r *Router) Run(ctx context.Context, onIteration func(IterationStats)) (Result, error) {
	currCongWeight := r.cfg.InitCurrCong
	histCongWeight := r.cfg.InitHistCong

	orderedNets := make([]*netbuild.PerNetData, len(r.nets))
	copy(orderedNets, r.nets)
	sort.SliceStable(orderedNets, func(i, j int) bool {
		return orderedNets[i].BBox.Area() > orderedNets[j].BBox.Area()
	})
	for _, net := range orderedNets {
		if !net.HasDriver {
			r.logger.Warn("net has no driver, skipping", "net", net.Name, "kind", KindNoDriver)
		}
	}

	for iter := 1; iter <= r.cfg.MaxIter; iter++ {
		start := time.Now()
		stats := IterationStats{Iteration: iter}

		for _, net := range orderedNets {
			if !net.HasDriver {
				continue
			}
			netRouted := false
			for _, arc := range net.Arcs {
				select {
				case <-ctx.Done():
					return Result{Status: Canceled, Kind: KindCanceled, Iterations: iter - 1}, nil
				default:
				}

				if arc.Routed && r.arcOverCapacity(net, arc) {
					routing.RipUpArc(r.g, net, arc)
					stats.ArcsRippedUp++
				}
				if arc.Routed {
					continue
				}

				w := r.cfg.weights(currCongWeight)
				bbox := arc.BBox.Expand(int32(r.cfg.BBMarginX), int32(r.cfg.BBMarginY))
				err := routing.SearchArc(r.g, net, arc, w, bbox, r.rng)
				if err != nil {
					if !errors.Is(err, routing.ErrArcUnroutable) {
						return Result{Kind: ClassifyError(err)}, err
					}
					grown := bbox.Expand(int32(r.cfg.BBGrow), int32(r.cfg.BBGrow))
					err = routing.SearchArc(r.g, net, arc, w, grown, r.rng)
					if err != nil && !errors.Is(err, routing.ErrArcUnroutable) {
						return Result{Kind: ClassifyError(err)}, err
					}
				}
				if arc.Routed {
					netRouted = true
				}
			}
			if netRouted {
				stats.NetsRouted++
			}
		}

		overflow := r.countOverflowAndBumpHistory(histCongWeight)
		stats.Overflow = overflow
		stats.Elapsed = time.Since(start)
		r.logger.Info("outer iteration complete",
			"iteration", iter, "overflow", overflow,
			"curr_cong_weight", currCongWeight, "hist_cong_weight", histCongWeight)
		if onIteration != nil {
			onIteration(stats)
		}

		if overflow == 0 {
			r.logger.Info("routing succeeded", "iterations", iter)
			return Result{Status: Success, Iterations: iter}, nil
		}
		if iter == r.cfg.MaxIter {
			r.logger.Info("routing failed", "iterations", iter, "overflow", overflow)
			return Result{Status: Failure, Kind: KindOverflow, Overflow: overflow, Iterations: iter}, nil
		}
		currCongWeight *= r.cfg.CurrCongMult
	}
	return Result{Status: Failure, Kind: KindOverflow, Iterations: r.cfg.MaxIter}, nil
}

// arcOverCapacity reports whether any node currently on arc's bound
// path exceeds its channel type's width.
func (r *Router) arcOverCapacity(net *netbuild.PerNetData, arc *netbuild.PerArcData) bool {
	for _, n := range arc.Path {
		ct := r.g.Types[n.Type]
		if cost.OverCapacity(r.g.Node(n), ct.Width) > 0 {
			return true
		}
	}
	return false
}

// countOverflowAndBumpHistory scans the whole grid once per iteration
// (the only place a full scan is allowed -- see graph.Grid.ForEachNode)
// counting over-capacity nodes and bumping their historical congestion
// cost by histCongWeight, as required at the end of every outer pass.
func (r *Router) countOverflowAndBumpHistory(histCongWeight float64) int {
	overflow := 0
	r.g.ForEachNode(func(n graph.ChannelNode, nd *graph.NodeData) {
		ct := r.g.Types[n.Type]
		over := cost.OverCapacity(nd, ct.Width)
		if over <= 0 {
			return
		}
		overflow++
		nd.HistCongCost += histCongWeight * float64(over)
	})
	return overflow
}

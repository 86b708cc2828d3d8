package router

import (
	"errors"

	"chanroute/graph"
	"chanroute/routing"
)

// Kind classifies why a run did not end in Success, the way the
// teacher's config.go classifies ProfileType/MetricType/VehicleType as
// byte enums with a String() method -- here Kind also satisfies error
// so a caller can return it directly.
type Kind byte

const (
	KindNone Kind = iota
	KindGraphInconsistent
	KindNoDriver
	KindArcUnroutable
	KindOverflow
	KindCanceled
	KindInvariantViolation
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindGraphInconsistent:
		return "graph_inconsistent"
	case KindNoDriver:
		return "no_driver"
	case KindArcUnroutable:
		return "arc_unroutable"
	case KindOverflow:
		return "overflow"
	case KindCanceled:
		return "canceled"
	case KindInvariantViolation:
		return "invariant_violation"
	default:
		panic("unknown kind")
	}
}

func (k Kind) Error() string {
	return k.String()
}

// ClassifyError maps a sentinel error returned by graph.Build or the
// routing package to the Kind it represents. It returns KindNone for
// nil and for errors it does not recognize.
func ClassifyError(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, graph.ErrGraphInconsistent):
		return KindGraphInconsistent
	case errors.Is(err, routing.ErrInvariantViolation):
		return KindInvariantViolation
	case errors.Is(err, routing.ErrArcUnroutable):
		return KindArcUnroutable
	default:
		return KindNone
	}
}

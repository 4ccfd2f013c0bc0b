// Package action holds the editing operations. An action maps a graph to a
// new graph; previewable actions also accept a fraction in [0,1] that
// blends between the unchanged and the fully applied state.
package action

import (
	"math"

	"github.com/rubenv/osmgraph/graph"
)

// Reason explains why an action can't be applied. The empty reason means
// it can.
type Reason string

const (
	Feasible        Reason = ""
	NotClosed       Reason = "not_closed"
	AlreadyCircular Reason = "already_circular"
	Incomplete      Reason = "incomplete"
	Degenerate      Reason = "degenerate"
	NotEligible     Reason = "not_eligible"
	IncompleteGroup Reason = "incomplete_group"
	Missing         Reason = "missing"
)

type Action interface {
	// Apply returns the graph with the action applied to fraction t.
	// Actions that aren't previewable ignore t. Callers check Feasibility
	// first; applying an infeasible action may panic.
	Apply(g *graph.Graph, t float64) *graph.Graph
	Feasibility(g *graph.Graph) Reason
	Previewable() bool
}

// Clamp limits t to [0,1]. NaN means fully applied.
func Clamp(t float64) float64 {
	if math.IsNaN(t) {
		return 1
	}
	return math.Min(math.Max(t, 0), 1)
}

// Func turns a plain function into an always feasible action.
type Func func(g *graph.Graph) *graph.Graph

func (f Func) Apply(g *graph.Graph, _ float64) *graph.Graph { return f(g) }
func (f Func) Feasibility(*graph.Graph) Reason              { return Feasible }
func (f Func) Previewable() bool                            { return false }

// Noop leaves the graph as it is.
func Noop() Action {
	return Func(func(g *graph.Graph) *graph.Graph { return g })
}

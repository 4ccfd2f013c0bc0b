// Package history keeps the undo stack of graphs produced by actions.
package history

import (
	"fmt"

	"github.com/rubenv/osmgraph/action"
	"github.com/rubenv/osmgraph/entity"
	"github.com/rubenv/osmgraph/graph"
)

type InfeasibleError struct {
	Reason action.Reason
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("Action not possible: %s", e.Reason)
}

type state struct {
	graph      *graph.Graph
	annotation string
	preview    bool
}

// History is a stack of graphs. Only annotated states are undo points;
// states pushed without annotation are skipped when undoing.
type History struct {
	stack []state
	index int
}

func New(g *graph.Graph) *History {
	return &History{
		stack: []state{{graph: g}},
	}
}

// Graph returns the current head.
func (h *History) Graph() *graph.Graph {
	return h.stack[h.index].graph
}

// Base returns the graph the history started from.
func (h *History) Base() *graph.Graph {
	return h.stack[0].graph
}

// Graphs returns every graph on the stack, oldest first.
func (h *History) Graphs() []*graph.Graph {
	out := make([]*graph.Graph, len(h.stack))
	for i, s := range h.stack {
		out[i] = s.graph
	}
	return out
}

func (h *History) apply(g *graph.Graph, actions []action.Action) (*graph.Graph, error) {
	for _, a := range actions {
		if r := a.Feasibility(g); r != action.Feasible {
			return nil, &InfeasibleError{Reason: r}
		}
		g = a.Apply(g, 1)
	}
	return g, nil
}

func (h *History) dropPreview() {
	if h.stack[h.index].preview {
		h.stack = h.stack[:h.index]
		h.index--
	}
}

// Perform applies the actions to the head and pushes the result. States
// after the head are discarded. An active preview is dropped first. If any
// action is infeasible nothing changes.
func (h *History) Perform(annotation string, actions ...action.Action) (*graph.Diff, error) {
	h.dropPreview()
	previous := h.Graph()

	g, err := h.apply(previous, actions)
	if err != nil {
		return nil, err
	}

	h.stack = append(h.stack[:h.index+1], state{graph: g, annotation: annotation})
	h.index++
	return graph.Difference(previous, g), nil
}

// Replace applies the actions to the head and swaps the head for the
// result.
func (h *History) Replace(annotation string, actions ...action.Action) (*graph.Diff, error) {
	previous := h.Graph()

	g, err := h.apply(previous, actions)
	if err != nil {
		return nil, err
	}

	h.stack = h.stack[:h.index+1]
	h.stack[h.index] = state{graph: g, annotation: annotation}
	return graph.Difference(previous, g), nil
}

// Preview shows a previewable action at fraction t without creating an
// undo point. Repeated previews replace each other; Perform or Cancel end
// the preview.
func (h *History) Preview(a action.Action, t float64) (*graph.Diff, error) {
	previous := h.Graph()
	h.dropPreview()
	under := h.Graph()

	if r := a.Feasibility(under); r != action.Feasible {
		return nil, &InfeasibleError{Reason: r}
	}
	if !a.Previewable() {
		t = 1
	}
	g := a.Apply(under, t)

	h.stack = append(h.stack[:h.index+1], state{graph: g, preview: true})
	h.index++
	return graph.Difference(previous, g), nil
}

// Cancel drops an active preview.
func (h *History) Cancel() *graph.Diff {
	previous := h.Graph()
	h.dropPreview()
	return graph.Difference(previous, h.Graph())
}

// Pop removes the top n states; the base is never popped.
func (h *History) Pop(n int) *graph.Diff {
	previous := h.Graph()
	if n < 0 {
		n = 1
	}
	for ; n > 0 && h.index > 0; n-- {
		h.index--
		h.stack = h.stack[:h.index+1]
	}
	return graph.Difference(previous, h.Graph())
}

// Undo moves the head back to the previous annotated state, or the base.
func (h *History) Undo() *graph.Diff {
	previous := h.Graph()
	h.dropPreview()
	for h.index > 0 {
		h.index--
		if h.stack[h.index].annotation != "" {
			break
		}
	}
	return graph.Difference(previous, h.Graph())
}

// Redo moves the head forward to the next annotated state.
func (h *History) Redo() *graph.Diff {
	previous := h.Graph()
	for i := h.index + 1; i < len(h.stack); i++ {
		if h.stack[i].annotation != "" {
			h.index = i
			break
		}
	}
	return graph.Difference(previous, h.Graph())
}

func (h *History) CanUndo() bool {
	return h.UndoAnnotation() != ""
}

func (h *History) CanRedo() bool {
	return h.RedoAnnotation() != ""
}

// UndoAnnotation describes the change Undo would revert.
func (h *History) UndoAnnotation() string {
	for i := h.index; i > 0; i-- {
		if h.stack[i].annotation != "" {
			return h.stack[i].annotation
		}
	}
	return ""
}

// RedoAnnotation describes the change Redo would reapply.
func (h *History) RedoAnnotation() string {
	for i := h.index + 1; i < len(h.stack); i++ {
		if h.stack[i].annotation != "" {
			return h.stack[i].annotation
		}
	}
	return ""
}

// Difference compares the base with the head.
func (h *History) Difference() *graph.Diff {
	return graph.Difference(h.Base(), h.Graph())
}

// Merge loads entities into the shared base of every graph on the stack.
// Entities already known are left alone.
func (h *History) Merge(entities []entity.Entity) {
	h.Base().Rebase(entities, h.Graphs(), false)
}

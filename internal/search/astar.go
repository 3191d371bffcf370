// Package search implements the two generic search engines of §4.4: a
// best-first A* over any comparable state, and a simulated-annealing
// local search over any state type.
package search

import "container/heap"

// Problem is the capability set an A* caller must supply for state S.
type Problem[S comparable] interface {
	// Start returns the search's initial state.
	Start() S
	// IsGoal reports whether state is a goal state.
	IsGoal(state S) bool
	// Neighbors returns every state reachable from state in one step,
	// paired with its step cost.
	Neighbors(state S) []Step[S]
	// Heuristic returns an admissible, monotone lower bound on the
	// remaining cost to any goal from state.
	Heuristic(state S) float64
}

// Step is one candidate transition out of a state.
type Step[S comparable] struct {
	State S
	Cost  float64
}

// Options bounds an A* run. MaxExplored caps the number of states popped
// off the open set; zero means unbounded.
type Options struct {
	MaxExplored int
}

// Result is a successful A* run's output.
type Result[S comparable] struct {
	Path      []S
	TotalCost float64
	Explored  int
}

// NoPathReason explains why AStar failed, mirroring rherrors.NoPathReason
// so callers can translate directly.
type NoPathReason int

const (
	ReasonUnreachable NoPathReason = iota
	ReasonOverBudget
	// ReasonBlocked is distinct from ReasonUnreachable: it fires when the
	// start state itself has no outgoing step at all, rather than when
	// the search explores the space and simply never reaches a goal.
	ReasonBlocked
)

// NoPathError is AStar's failure value; callers typically wrap it into
// rherrors.NoPath with their own network/component identity.
type NoPathError struct {
	Reason NoPathReason
}

func (e *NoPathError) Error() string {
	switch e.Reason {
	case ReasonOverBudget:
		return "search exceeded its explored-state budget"
	case ReasonBlocked:
		return "start state has no outgoing step"
	default:
		return "no path to any goal state"
	}
}

type openEntry[S comparable] struct {
	state S
	g, f  float64
	seq   int
}

type openHeap[S comparable] []openEntry[S]

func (h openHeap[S]) Len() int { return len(h) }
func (h openHeap[S]) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h openHeap[S]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *openHeap[S]) Push(x any)   { *h = append(*h, x.(openEntry[S])) }
func (h *openHeap[S]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// AStar runs best-first search from p.Start() until a goal state is
// reached, the open set is exhausted, or opts.MaxExplored is exceeded.
// Ties in f = g + h are broken FIFO by insertion order.
func AStar[S comparable](p Problem[S], opts Options) (Result[S], error) {
	start := p.Start()

	open := &openHeap[S]{{state: start, g: 0, f: p.Heuristic(start), seq: 0}}
	heap.Init(open)

	bestG := map[S]float64{start: 0}
	cameFrom := map[S]S{}
	closed := map[S]bool{}

	seq := 1
	explored := 0

	for open.Len() > 0 {
		if opts.MaxExplored > 0 && explored >= opts.MaxExplored {
			return Result[S]{}, &NoPathError{Reason: ReasonOverBudget}
		}

		current := heap.Pop(open).(openEntry[S])
		if closed[current.state] {
			continue
		}
		closed[current.state] = true
		explored++

		if p.IsGoal(current.state) {
			return Result[S]{
				Path:      reconstructPath(cameFrom, start, current.state),
				TotalCost: current.g,
				Explored:  explored,
			}, nil
		}

		steps := p.Neighbors(current.state)
		if explored == 1 && len(steps) == 0 {
			return Result[S]{}, &NoPathError{Reason: ReasonBlocked}
		}

		for _, step := range steps {
			g := current.g + step.Cost
			if prior, ok := bestG[step.State]; ok && g >= prior {
				continue
			}
			bestG[step.State] = g
			cameFrom[step.State] = current.state
			heap.Push(open, openEntry[S]{state: step.State, g: g, f: g + p.Heuristic(step.State), seq: seq})
			seq++
		}
	}

	return Result[S]{}, &NoPathError{Reason: ReasonUnreachable}
}

func reconstructPath[S comparable](cameFrom map[S]S, start, goal S) []S {
	path := []S{goal}
	state := goal
	for state != start {
		parent, ok := cameFrom[state]
		if !ok {
			break
		}
		path = append(path, parent)
		state = parent
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

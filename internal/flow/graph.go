package flow

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ziadkadry99/shop-scout/internal/session"
)

// DefaultCycleLimit bounds how often a single stage may be revisited within
// one session before the run fails with a CycleError.
const DefaultCycleLimit = 50

// Result is what a stage run produces besides mutating the context.
type Result struct {
	// Next, when non-empty, overrides the statically wired edge. It lets a
	// stage jump somewhere the linear wiring does not reach, e.g. back to
	// clarification after the user rejects every recommendation.
	Next string
}

// StageFunc is one unit of pipeline work. It mutates the session context in
// place and may return an explicit next-stage override. Returning a
// *Suspension error pauses the session; any other error halts it.
type StageFunc func(ctx context.Context, sc *session.Context) (Result, error)

// Router selects among multiple possible successors. It must be total over
// any context it can plausibly see: missing or false fields route to the
// non-looping branch, never panic.
type Router func(sc *session.Context) string

type conditionalEdge struct {
	router  Router
	targets map[string]bool
}

// Builder accumulates stages and edges and validates the wiring on Build.
type Builder struct {
	stages  map[string]StageFunc
	edges   map[string]string
	routers map[string]conditionalEdge
	entry   string
}

// NewBuilder creates an empty graph builder.
func NewBuilder() *Builder {
	return &Builder{
		stages:  make(map[string]StageFunc),
		edges:   make(map[string]string),
		routers: make(map[string]conditionalEdge),
	}
}

// AddStage declares a named stage.
func (b *Builder) AddStage(name string, fn StageFunc) *Builder {
	b.stages[name] = fn
	return b
}

// AddEdge wires a fixed successor. A stage with neither an edge nor a
// conditional edge is terminal.
func (b *Builder) AddEdge(from, to string) *Builder {
	b.edges[from] = to
	return b
}

// AddConditionalEdge wires a router on from. Every name the router can
// return must be listed in targets so the wiring check stays static.
func (b *Builder) AddConditionalEdge(from string, r Router, targets ...string) *Builder {
	set := make(map[string]bool, len(targets))
	for _, t := range targets {
		set[t] = true
	}
	b.routers[from] = conditionalEdge{router: r, targets: set}
	return b
}

// SetEntryPoint declares the stage execution starts from.
func (b *Builder) SetEntryPoint(name string) *Builder {
	b.entry = name
	return b
}

// Build validates the wiring and returns an executable graph. Validation is
// a one-time static check: every edge endpoint, router target, and the
// entry point must reference a declared stage, and no stage may carry both
// a fixed and a conditional edge.
func (b *Builder) Build(opts ...Option) (*Graph, error) {
	if b.entry == "" {
		return nil, &WiringError{Reason: "no entry point set"}
	}
	if _, ok := b.stages[b.entry]; !ok {
		return nil, &WiringError{Stage: b.entry, Reason: "entry point is not a declared stage"}
	}

	for from, to := range b.edges {
		if _, ok := b.stages[from]; !ok {
			return nil, &WiringError{Stage: from, Reason: "edge from undeclared stage"}
		}
		if _, ok := b.stages[to]; !ok {
			return nil, &WiringError{Stage: from, Reason: fmt.Sprintf("edge to undeclared stage %q", to)}
		}
		if _, ok := b.routers[from]; ok {
			return nil, &WiringError{Stage: from, Reason: "stage has both a fixed and a conditional edge"}
		}
	}

	for from, ce := range b.routers {
		if _, ok := b.stages[from]; !ok {
			return nil, &WiringError{Stage: from, Reason: "conditional edge from undeclared stage"}
		}
		if len(ce.targets) == 0 {
			return nil, &WiringError{Stage: from, Reason: "conditional edge declares no targets"}
		}
		for t := range ce.targets {
			if _, ok := b.stages[t]; !ok {
				return nil, &WiringError{Stage: from, Reason: fmt.Sprintf("router target %q is not a declared stage", t)}
			}
		}
	}

	g := &Graph{
		stages:     b.stages,
		edges:      b.edges,
		routers:    b.routers,
		entry:      b.entry,
		cycleLimit: DefaultCycleLimit,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Option configures a built graph.
type Option func(*Graph)

// WithCycleLimit overrides the per-stage revisit bound.
func WithCycleLimit(n int) Option {
	return func(g *Graph) { g.cycleLimit = n }
}

// Graph is an executable stage graph. It holds no business state; all
// session state lives in the context threaded through Run.
type Graph struct {
	stages     map[string]StageFunc
	edges      map[string]string
	routers    map[string]conditionalEdge
	entry      string
	cycleLimit int
}

// Entry returns the entry stage name.
func (g *Graph) Entry() string { return g.entry }

// Has reports whether the graph declares the named stage.
func (g *Graph) Has(name string) bool {
	_, ok := g.stages[name]
	return ok
}

// Stages returns the declared stage names, sorted.
func (g *Graph) Stages() []string {
	names := make([]string, 0, len(g.stages))
	for name := range g.stages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes the graph from the entry stage to a terminal stage,
// threading sc through every stage. See RunFrom for the error contract.
func (g *Graph) Run(ctx context.Context, sc *session.Context) error {
	return g.RunFrom(ctx, g.entry, sc)
}

// RunFrom executes the graph starting at the named stage, typically to
// resume a suspended session. The context is mutated in place even when an
// error is returned. A *Suspension error means the session is paused, not
// failed; a *CycleError or any stage error halts it.
func (g *Graph) RunFrom(ctx context.Context, start string, sc *session.Context) error {
	if !g.Has(start) {
		return fmt.Errorf("unknown start stage %q", start)
	}

	visits := make(map[string]int)
	var trail []string

	current := start
	for current != "" {
		if err := ctx.Err(); err != nil {
			return err
		}

		visits[current]++
		trail = append(trail, current)
		if visits[current] > g.cycleLimit {
			return &CycleError{Stage: current, Limit: g.cycleLimit, Trail: trail}
		}

		res, err := g.stages[current](ctx, sc)
		if err != nil {
			var susp *Suspension
			if errors.As(err, &susp) {
				susp.Stage = current
				return susp
			}
			return fmt.Errorf("stage %s: %w", current, err)
		}

		next, err := g.resolveNext(current, res, sc)
		if err != nil {
			return err
		}
		current = next
	}

	return nil
}

// RunStage executes a single stage and returns its result without
// advancing. Transport adapters use it for the request-per-stage endpoints.
func (g *Graph) RunStage(ctx context.Context, name string, sc *session.Context) (Result, error) {
	fn, ok := g.stages[name]
	if !ok {
		return Result{}, fmt.Errorf("unknown stage %q", name)
	}
	res, err := fn(ctx, sc)
	if err != nil {
		var susp *Suspension
		if errors.As(err, &susp) {
			susp.Stage = name
		}
		return res, err
	}
	return res, nil
}

// NextAfter resolves the successor of the named stage for the given
// context and stage result. An empty name means the stage is terminal.
func (g *Graph) NextAfter(name string, res Result, sc *session.Context) (string, error) {
	return g.resolveNext(name, res, sc)
}

func (g *Graph) resolveNext(current string, res Result, sc *session.Context) (string, error) {
	// An explicit override from the stage wins over the static wiring.
	if res.Next != "" {
		if !g.Has(res.Next) {
			return "", fmt.Errorf("stage %s: override to unknown stage %q", current, res.Next)
		}
		return res.Next, nil
	}

	if to, ok := g.edges[current]; ok {
		return to, nil
	}

	if ce, ok := g.routers[current]; ok {
		to := ce.router(sc)
		if !ce.targets[to] {
			return "", fmt.Errorf("stage %s: router returned undeclared target %q", current, to)
		}
		return to, nil
	}

	// No outgoing edge: terminal.
	return "", nil
}

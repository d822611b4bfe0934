package router

import (
	"log"
	"time"

	"github.com/emberworks/taskgate/pkg/config"
)

// supportingFactor discounts fan-out agents relative to the primary.
const supportingFactor = 0.7

// Router scores tasks against the configured agents and workflows. All
// methods are safe for concurrent use; the only mutable state is the
// history store, which guards itself.
type Router struct {
	cfg     *config.OrchestrationConfig
	history HistoryStore
	debug   bool
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithHistory sets the decision history store.
func WithHistory(store HistoryStore) RouterOption {
	return func(r *Router) {
		r.history = store
	}
}

// WithDebug enables debug logging.
func WithDebug(debug bool) RouterOption {
	return func(r *Router) {
		r.debug = debug
	}
}

// NewRouter creates a router over a validated orchestration config.
func NewRouter(cfg *config.OrchestrationConfig, opts ...RouterOption) *Router {
	r := &Router{cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	if r.history == nil {
		r.history = NewMemoryHistory(0)
	}
	return r
}

type routeOptions struct {
	skipWorkflow bool
}

// RouteOption adjusts a single Route call.
type RouteOption func(*routeOptions)

// WithSkipWorkflow forces agent assignment even when a workflow matches.
func WithSkipWorkflow() RouteOption {
	return func(o *routeOptions) {
		o.skipWorkflow = true
	}
}

// Route analyzes a task and produces a concrete routing decision: a
// workflow execution plan when one is detected (and not skipped),
// otherwise a primary agent with bounded supporting fan-out. The decision
// is appended to history before it is returned. No agent is invoked.
func (r *Router) Route(task string, opts ...RouteOption) *Decision {
	var o routeOptions
	for _, opt := range opts {
		opt(&o)
	}

	analysis := r.Analyze(task)
	decision := &Decision{
		Task:      task,
		Analysis:  analysis,
		CreatedAt: time.Now().UTC(),
	}

	switch {
	case analysis.Workflow != "" && !o.skipWorkflow:
		decision.Plan = r.Expand(analysis.Workflow, task)
	case analysis.PrimaryAgent != "":
		primary := float64(analysis.Confidence)
		decision.Assignments = append(decision.Assignments, Assignment{
			Agent:      analysis.PrimaryAgent,
			Role:       RolePrimary,
			Confidence: primary,
		})

		if p := r.cfg.Routing.ParallelExecution; p.Enabled && p.MaxAgents > 1 {
			limit := p.MaxAgents - 1
			for i, name := range analysis.SupportingAgents {
				if i >= limit {
					break
				}
				decision.Assignments = append(decision.Assignments, Assignment{
					Agent:      name,
					Role:       RoleSupporting,
					Confidence: primary * supportingFactor,
				})
			}
		}
	}

	r.history.Append(decision)

	if r.debug {
		if decision.Plan != nil {
			log.Printf("[router] workflow=%s steps=%d", decision.Plan.Workflow, len(decision.Plan.Steps))
		} else {
			log.Printf("[router] primary=%s assignments=%d score=%d",
				analysis.PrimaryAgent, len(decision.Assignments), analysis.Confidence)
		}
	}

	return decision
}

// History returns all recorded decisions, oldest first.
func (r *Router) History() []*Decision {
	return r.history.All()
}

// ClearHistory discards every recorded decision.
func (r *Router) ClearHistory() {
	r.history.Clear()
}

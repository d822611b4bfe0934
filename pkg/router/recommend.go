package router

import (
	"fmt"
	"strings"
)

// noRecommendation is returned when neither a workflow nor any agent
// could be resolved for a task.
const noRecommendation = "No suitable agent or workflow found"

// Recommendation is a routed decision with a human-readable summary and a
// coarse bucketed confidence (not a calibrated probability).
type Recommendation struct {
	Analysis   Analysis  `json:"analysis"`
	Decision   *Decision `json:"decision"`
	Text       string    `json:"text"`
	Confidence float64   `json:"confidence"`
}

// Recommend routes a task with workflow detection enabled and formats the
// outcome for display.
func (r *Router) Recommend(task string) *Recommendation {
	decision := r.Route(task)
	rec := &Recommendation{
		Analysis: decision.Analysis,
		Decision: decision,
	}

	switch {
	case decision.Plan != nil:
		steps := make([]string, 0, len(decision.Plan.Steps))
		for _, step := range decision.Plan.Steps {
			steps = append(steps, fmt.Sprintf("%s: %s", step.Phase, step.Agent))
		}
		rec.Text = fmt.Sprintf("Workflow: %s (%s)", decision.Plan.Workflow, strings.Join(steps, " → "))
	case len(decision.Assignments) > 0:
		rec.Text = "Primary: " + decision.Assignments[0].Agent
		var supporting []string
		for _, a := range decision.Assignments[1:] {
			supporting = append(supporting, a.Agent)
		}
		if len(supporting) > 0 {
			rec.Text += " | Supporting: " + strings.Join(supporting, ", ")
		}
	default:
		rec.Text = noRecommendation
	}

	rec.Confidence = bucketConfidence(decision)
	return rec
}

// bucketConfidence collapses a raw score into display buckets. A workflow
// selection always reports 0.9.
func bucketConfidence(decision *Decision) float64 {
	if decision.Plan != nil {
		return 0.9
	}
	score := decision.Analysis.Confidence
	switch {
	case score > 15:
		return 0.8
	case score > 10:
		return 0.6
	case score > 5:
		return 0.4
	default:
		return 0.2
	}
}

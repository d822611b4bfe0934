package router

import "strings"

// Expand turns a named workflow into an execution plan for a concrete
// task. Returns nil if the workflow name is unknown; callers must check.
//
// Steps keep their declared order. A step with a condition is included
// only when the lower-cased context contains the condition text with its
// hyphens replaced by spaces, so a condition of "level-design" matches a
// task mentioning "level design". Excluded steps are omitted from the
// plan, not marked skipped.
func (r *Router) Expand(workflow, context string) *ExecutionPlan {
	wf := r.cfg.Workflows.Get(workflow)
	if wf == nil {
		return nil
	}

	lower := strings.ToLower(context)
	plan := &ExecutionPlan{Workflow: wf.Name, Task: context}

	for _, step := range wf.Steps {
		if step.Condition != "" {
			cond := strings.ReplaceAll(strings.ToLower(step.Condition), "-", " ")
			if !strings.Contains(lower, cond) {
				continue
			}
		}
		plan.Steps = append(plan.Steps, PlanStep{
			Phase:   step.Phase,
			Agent:   step.Agent,
			Actions: append([]string(nil), step.Actions...),
			Status:  StatusPending,
		})
	}

	return plan
}

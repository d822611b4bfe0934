package router

import "time"

// KeywordMatch is one taxonomy term found in the task text.
type KeywordMatch struct {
	Category string `json:"category"`
	Term     string `json:"term"`
}

// Analysis captures the scoring outcome for one task description.
type Analysis struct {
	PrimaryAgent     string         `json:"primary_agent,omitempty"`
	SupportingAgents []string       `json:"supporting_agents,omitempty"`
	Workflow         string         `json:"workflow,omitempty"`
	Confidence       int            `json:"confidence"`
	Keywords         []KeywordMatch `json:"keywords,omitempty"`
}

// Role distinguishes the lead agent from fan-out agents.
type Role string

const (
	RolePrimary    Role = "primary"
	RoleSupporting Role = "supporting"
)

// Assignment binds one agent to a task with a confidence weight.
type Assignment struct {
	Agent      string  `json:"agent"`
	Role       Role    `json:"role"`
	Confidence float64 `json:"confidence"`
}

// StepStatus is the lifecycle state of a plan step. The router only ever
// emits StatusPending; transitions belong to whatever executes the plan.
type StepStatus string

const StatusPending StepStatus = "pending"

// PlanStep is one expanded workflow step.
type PlanStep struct {
	Phase   string     `json:"phase"`
	Agent   string     `json:"agent"`
	Actions []string   `json:"actions,omitempty"`
	Status  StepStatus `json:"status"`
}

// ExecutionPlan is a workflow expanded against a concrete task.
type ExecutionPlan struct {
	Workflow string     `json:"workflow"`
	Task     string     `json:"task"`
	Steps    []PlanStep `json:"steps"`
}

// Decision is the full record of one routing call. A decision carries
// either assignments or a plan, never both.
type Decision struct {
	Task        string         `json:"task"`
	Analysis    Analysis       `json:"analysis"`
	CreatedAt   time.Time      `json:"created_at"`
	Assignments []Assignment   `json:"assignments,omitempty"`
	Plan        *ExecutionPlan `json:"plan,omitempty"`
}

package router

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/emberworks/taskgate/pkg/config"
)

const baseDoc = `
agents:
  coder:
    patterns: ["mechanic", "physics"]
    triggers: ["implement"]
  designer:
    patterns: ["design"]
    triggers: ["concept"]
  reviewer:
    patterns: []
    triggers: ["review", "audit"]
routing:
  fallback: coder
  keywords:
    feature: ["feature", "gameplay"]
    level: ["terrain"]
  parallel_execution:
    enabled: true
    max_agents: 3
workflows:
  feature-development:
    steps:
      - {phase: design, agent: designer, actions: [draft]}
      - {phase: implement, agent: coder, actions: [code]}
  content-drop:
    steps:
      - {phase: layout, agent: designer, actions: [blockout], condition: level-design}
quality_gates: {}
`

func parseConfig(t *testing.T, doc string) *config.OrchestrationConfig {
	t.Helper()

	var cfg config.OrchestrationConfig
	if err := yaml.Unmarshal([]byte(doc), &cfg); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate config: %v", err)
	}
	return &cfg
}

func testRouter(t *testing.T, doc string) *Router {
	t.Helper()
	return NewRouter(parseConfig(t, doc))
}

func TestRoute_ParallelFanOut(t *testing.T) {
	doc := `
agents:
  heavy:
    patterns: ["alpha", "beta"]
    triggers: []
  medium:
    patterns: ["gamma"]
    triggers: []
  light:
    patterns: []
    triggers: ["delta"]
routing:
  fallback: ""
  keywords: {}
  parallel_execution:
    enabled: true
    max_agents: 3
workflows: {}
quality_gates: {}
`
	r := testRouter(t, doc)

	decision := r.Route("alpha beta gamma delta")

	if len(decision.Assignments) != 3 {
		t.Fatalf("Route() assignments = %d, want 3", len(decision.Assignments))
	}

	primary := decision.Assignments[0]
	if primary.Agent != "heavy" || primary.Role != RolePrimary || primary.Confidence != 20 {
		t.Errorf("primary = %+v, want heavy/primary/20", primary)
	}

	wantSupporting := []string{"medium", "light"}
	for i, want := range wantSupporting {
		got := decision.Assignments[i+1]
		if got.Agent != want {
			t.Errorf("supporting[%d].Agent = %q, want %q", i, got.Agent, want)
		}
		if got.Role != RoleSupporting {
			t.Errorf("supporting[%d].Role = %q, want supporting", i, got.Role)
		}
		if got.Confidence != 20*supportingFactor {
			t.Errorf("supporting[%d].Confidence = %v, want %v", i, got.Confidence, 20*supportingFactor)
		}
	}
}

func TestRoute_ParallelDisabled(t *testing.T) {
	doc := `
agents:
  heavy:
    patterns: ["alpha"]
    triggers: []
  medium:
    patterns: ["gamma"]
    triggers: []
routing:
  fallback: ""
  keywords: {}
  parallel_execution:
    enabled: false
    max_agents: 3
workflows: {}
quality_gates: {}
`
	r := testRouter(t, doc)

	decision := r.Route("alpha gamma")
	if len(decision.Assignments) != 1 {
		t.Fatalf("Route() assignments = %d, want 1 when parallel execution is disabled", len(decision.Assignments))
	}
	if decision.Assignments[0].Agent != "heavy" {
		t.Errorf("primary = %q, want heavy", decision.Assignments[0].Agent)
	}
}

func TestRoute_MaxAgentsOne(t *testing.T) {
	doc := `
agents:
  heavy:
    patterns: ["alpha"]
    triggers: []
  medium:
    patterns: ["gamma"]
    triggers: []
routing:
  fallback: ""
  keywords: {}
  parallel_execution:
    enabled: true
    max_agents: 1
workflows: {}
quality_gates: {}
`
	r := testRouter(t, doc)

	decision := r.Route("alpha gamma")
	if len(decision.Assignments) != 1 {
		t.Fatalf("Route() assignments = %d, want 1 when max_agents is 1", len(decision.Assignments))
	}
}

func TestRoute_WorkflowSupersedesAgents(t *testing.T) {
	r := testRouter(t, baseDoc)

	decision := r.Route("prototype new gameplay")
	if decision.Plan == nil {
		t.Fatal("Route() plan = nil, want workflow plan")
	}
	if decision.Plan.Workflow != "feature-development" {
		t.Errorf("plan workflow = %q, want feature-development", decision.Plan.Workflow)
	}
	if len(decision.Assignments) != 0 {
		t.Errorf("assignments = %d, want 0 when a workflow is selected", len(decision.Assignments))
	}
}

func TestRoute_SkipWorkflow(t *testing.T) {
	r := testRouter(t, baseDoc)

	decision := r.Route("prototype new gameplay", WithSkipWorkflow())
	if decision.Plan != nil {
		t.Error("Route() plan set despite WithSkipWorkflow")
	}
	if len(decision.Assignments) == 0 {
		t.Error("Route() produced no assignments with workflow skipped")
	}
	if decision.Analysis.Workflow != "feature-development" {
		t.Errorf("analysis workflow = %q, want detection to still run", decision.Analysis.Workflow)
	}
}

func TestRoute_HistoryRoundTrip(t *testing.T) {
	r := testRouter(t, baseDoc)

	for i := 1; i <= 3; i++ {
		r.Route("implement the mechanic")
		if got := len(r.History()); got != i {
			t.Fatalf("history length after %d routes = %d", i, got)
		}
	}

	r.ClearHistory()
	if got := len(r.History()); got != 0 {
		t.Errorf("history length after clear = %d, want 0", got)
	}
}

func TestRoute_InjectedHistory(t *testing.T) {
	store := NewMemoryHistory(1)
	r := NewRouter(parseConfig(t, baseDoc), WithHistory(store))

	r.Route("implement the mechanic")
	r.Route("tune the physics")

	if store.Len() != 1 {
		t.Fatalf("capped store length = %d, want 1", store.Len())
	}
	if got := store.All()[0].Task; got != "tune the physics" {
		t.Errorf("retained decision task = %q, want the most recent", got)
	}
}

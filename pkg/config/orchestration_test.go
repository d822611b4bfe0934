package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sampleDoc = `
agents:
  zephyr:
    patterns: ["wind"]
    triggers: ["gust"]
  anvil:
    patterns: ["forge"]
    triggers: ["hammer"]
  mason:
    patterns: ["stone"]
    triggers: []
workflows:
  build:
    steps:
      - {phase: shape, agent: anvil, actions: [heat, strike]}
      - {phase: finish, agent: mason, actions: [polish], condition: fine-detail}
  survey:
    steps:
      - {phase: scout, agent: zephyr, actions: [scan]}
routing:
  fallback: anvil
  keywords:
    weather: ["storm", "breeze"]
    craft: ["temper"]
  parallel_execution:
    enabled: true
    max_agents: 2
quality_gates:
  implementation:
    checks: [naming_conventions, documentation]
`

func writeTempConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orchestration.yaml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOrchestration_PreservesDeclarationOrder(t *testing.T) {
	cfg, err := LoadOrchestration(writeTempConfig(t, sampleDoc))
	if err != nil {
		t.Fatalf("LoadOrchestration() error = %v", err)
	}

	wantAgents := []string{"zephyr", "anvil", "mason"}
	if !reflect.DeepEqual(cfg.Agents.Names(), wantAgents) {
		t.Errorf("agent order = %v, want %v", cfg.Agents.Names(), wantAgents)
	}

	wantWorkflows := []string{"build", "survey"}
	if !reflect.DeepEqual(cfg.Workflows.Names(), wantWorkflows) {
		t.Errorf("workflow order = %v, want %v", cfg.Workflows.Names(), wantWorkflows)
	}

	wantCategories := []string{"weather", "craft"}
	var categories []string
	for _, g := range cfg.Routing.Keywords.Groups {
		categories = append(categories, g.Category)
	}
	if !reflect.DeepEqual(categories, wantCategories) {
		t.Errorf("keyword category order = %v, want %v", categories, wantCategories)
	}
}

func TestLoadOrchestration_DecodesFields(t *testing.T) {
	cfg, err := LoadOrchestration(writeTempConfig(t, sampleDoc))
	if err != nil {
		t.Fatalf("LoadOrchestration() error = %v", err)
	}

	anvil := cfg.Agents.Get("anvil")
	if anvil == nil {
		t.Fatal("agent anvil missing")
	}
	if anvil.Name != "anvil" {
		t.Errorf("Name = %q", anvil.Name)
	}
	if len(anvil.Compiled) != 1 {
		t.Fatalf("Compiled = %d patterns, want 1", len(anvil.Compiled))
	}
	if !anvil.Compiled[0].MatchString("REFORGE") {
		t.Error("compiled pattern is not case insensitive")
	}

	build := cfg.Workflows.Get("build")
	if build == nil || len(build.Steps) != 2 {
		t.Fatalf("workflow build = %+v", build)
	}
	if build.Steps[1].Condition != "fine-detail" {
		t.Errorf("step condition = %q", build.Steps[1].Condition)
	}

	if cfg.Routing.Fallback != "anvil" {
		t.Errorf("fallback = %q", cfg.Routing.Fallback)
	}
	if !cfg.Routing.ParallelExecution.Enabled || cfg.Routing.ParallelExecution.MaxAgents != 2 {
		t.Errorf("parallel_execution = %+v", cfg.Routing.ParallelExecution)
	}
	if got := cfg.QualityGates["implementation"].Checks; len(got) != 2 {
		t.Errorf("implementation checks = %v", got)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "invalid pattern regex",
			doc: `
agents:
  broken:
    patterns: ["("]
    triggers: []
routing: {fallback: "", keywords: {}, parallel_execution: {enabled: false, max_agents: 0}}
workflows: {}
quality_gates: {}
`,
		},
		{
			name: "workflow step references undefined agent",
			doc: `
agents:
  real:
    patterns: []
    triggers: []
workflows:
  w:
    steps:
      - {phase: p, agent: ghost, actions: []}
routing: {fallback: "", keywords: {}, parallel_execution: {enabled: false, max_agents: 0}}
quality_gates: {}
`,
		},
		{
			name: "fallback references undefined agent",
			doc: `
agents:
  real:
    patterns: []
    triggers: []
workflows: {}
routing: {fallback: ghost, keywords: {}, parallel_execution: {enabled: false, max_agents: 0}}
quality_gates: {}
`,
		},
		{
			name: "negative max_agents",
			doc: `
agents:
  real:
    patterns: []
    triggers: []
workflows: {}
routing: {fallback: "", keywords: {}, parallel_execution: {enabled: true, max_agents: -1}}
quality_gates: {}
`,
		},
		{
			name: "dispatch references undefined agent",
			doc: `
agents:
  real:
    patterns: []
    triggers: []
workflows: {}
routing: {fallback: "", keywords: {}, parallel_execution: {enabled: false, max_agents: 0}}
quality_gates: {}
dispatch:
  ghost: {adapter: mock, model: mock-1}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadOrchestration(writeTempConfig(t, tt.doc))
			if err == nil {
				t.Fatal("LoadOrchestration() error = nil, want ConfigError")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("error = %v, want *ConfigError", err)
			}
		})
	}
}

func TestDefaultOrchestration(t *testing.T) {
	cfg := DefaultOrchestration()

	if cfg.Agents.Len() == 0 {
		t.Fatal("default config has no agents")
	}
	if cfg.Agents.Get(cfg.Routing.Fallback) == nil {
		t.Errorf("fallback %q is not a configured agent", cfg.Routing.Fallback)
	}
	if _, ok := cfg.QualityGates["implementation"]; !ok {
		t.Error("default config has no implementation gate")
	}
	for _, name := range cfg.Agents.Names() {
		agent := cfg.Agents.Get(name)
		if len(agent.Compiled) != len(agent.Patterns) {
			t.Errorf("agent %s: %d compiled patterns for %d declared", name, len(agent.Compiled), len(agent.Patterns))
		}
	}
	for agent := range cfg.Dispatch {
		if cfg.Agents.Get(agent) == nil {
			t.Errorf("dispatch target for undefined agent %q", agent)
		}
	}
}

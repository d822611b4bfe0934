package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// OrchestrationConfig holds the agent, workflow, routing, and quality-gate
// definitions. It is loaded once and treated as immutable afterwards.
type OrchestrationConfig struct {
	Agents       AgentSet                  `yaml:"agents"`
	Workflows    WorkflowSet               `yaml:"workflows"`
	Routing      RoutingPolicy             `yaml:"routing"`
	QualityGates map[string]GateSpec       `yaml:"quality_gates"`
	Dispatch     map[string]DispatchTarget `yaml:"dispatch,omitempty"`
}

// AgentProfile describes one routable agent: how task text is matched to it.
type AgentProfile struct {
	Name     string   `yaml:"-"`
	Patterns []string `yaml:"patterns"`
	Triggers []string `yaml:"triggers"`

	// Compiled holds the case-insensitive forms of Patterns,
	// populated by Validate.
	Compiled []*regexp.Regexp `yaml:"-"`
}

// WorkflowStep is one phase of a workflow. Steps run in declared order.
type WorkflowStep struct {
	Phase     string   `yaml:"phase"`
	Agent     string   `yaml:"agent"`
	Actions   []string `yaml:"actions"`
	Condition string   `yaml:"condition,omitempty"`
}

// Workflow is a named, ordered sequence of steps.
type Workflow struct {
	Name  string         `yaml:"-"`
	Steps []WorkflowStep `yaml:"steps"`
}

// RoutingPolicy configures fallback, keyword taxonomy, and fan-out.
type RoutingPolicy struct {
	Fallback          string          `yaml:"fallback"`
	Keywords          KeywordTaxonomy `yaml:"keywords"`
	ParallelExecution ParallelPolicy  `yaml:"parallel_execution"`
}

// ParallelPolicy bounds how many agents a single task may fan out to.
type ParallelPolicy struct {
	Enabled   bool `yaml:"enabled"`
	MaxAgents int  `yaml:"max_agents"`
}

// GateSpec names the checks that run for one development phase.
type GateSpec struct {
	Checks []string `yaml:"checks"`
}

// DispatchTarget maps an agent to an LLM provider backend. Only the CLI
// dispatch path uses these; the routing engine never calls a provider.
type DispatchTarget struct {
	Adapter string `yaml:"adapter"`
	Model   string `yaml:"model"`
}

// KeywordGroup is one category of the keyword taxonomy.
type KeywordGroup struct {
	Category string
	Terms    []string
}

// KeywordTaxonomy preserves the category order from the YAML document.
type KeywordTaxonomy struct {
	Groups []KeywordGroup
}

// AgentSet is an ordered agent map. YAML mappings lose declaration order
// under plain map decoding, and order is semantic here: score ties break
// toward the earlier-declared agent.
type AgentSet struct {
	byName map[string]*AgentProfile
	order  []string
}

// WorkflowSet is an ordered workflow map. The first declared workflow wins
// keyword detection, so order must survive decoding.
type WorkflowSet struct {
	byName map[string]*Workflow
	order  []string
}

// UnmarshalYAML decodes the agents mapping while recording key order.
func (s *AgentSet) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("agents: expected a mapping, got %s", value.Tag)
	}
	s.byName = make(map[string]*AgentProfile)
	s.order = nil
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		profile := &AgentProfile{Name: name}
		if err := value.Content[i+1].Decode(profile); err != nil {
			return fmt.Errorf("agent %q: %w", name, err)
		}
		if _, dup := s.byName[name]; dup {
			return fmt.Errorf("agent %q declared twice", name)
		}
		s.byName[name] = profile
		s.order = append(s.order, name)
	}
	return nil
}

// UnmarshalYAML decodes the workflows mapping while recording key order.
func (s *WorkflowSet) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("workflows: expected a mapping, got %s", value.Tag)
	}
	s.byName = make(map[string]*Workflow)
	s.order = nil
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		wf := &Workflow{Name: name}
		if err := value.Content[i+1].Decode(wf); err != nil {
			return fmt.Errorf("workflow %q: %w", name, err)
		}
		if _, dup := s.byName[name]; dup {
			return fmt.Errorf("workflow %q declared twice", name)
		}
		s.byName[name] = wf
		s.order = append(s.order, name)
	}
	return nil
}

// UnmarshalYAML decodes the keyword taxonomy while recording category order.
func (t *KeywordTaxonomy) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("keywords: expected a mapping, got %s", value.Tag)
	}
	t.Groups = nil
	for i := 0; i+1 < len(value.Content); i += 2 {
		group := KeywordGroup{Category: value.Content[i].Value}
		if err := value.Content[i+1].Decode(&group.Terms); err != nil {
			return fmt.Errorf("keyword category %q: %w", group.Category, err)
		}
		t.Groups = append(t.Groups, group)
	}
	return nil
}

// Get returns the named agent, or nil.
func (s *AgentSet) Get(name string) *AgentProfile {
	return s.byName[name]
}

// Names returns agent names in declaration order.
func (s *AgentSet) Names() []string {
	return s.order
}

// Len returns the number of agents.
func (s *AgentSet) Len() int {
	return len(s.order)
}

// Get returns the named workflow, or nil.
func (s *WorkflowSet) Get(name string) *Workflow {
	return s.byName[name]
}

// Names returns workflow names in declaration order.
func (s *WorkflowSet) Names() []string {
	return s.order
}

// add registers an agent; used when building configs in code.
func (s *AgentSet) add(profile *AgentProfile) {
	if s.byName == nil {
		s.byName = make(map[string]*AgentProfile)
	}
	s.byName[profile.Name] = profile
	s.order = append(s.order, profile.Name)
}

// add registers a workflow; used when building configs in code.
func (s *WorkflowSet) add(wf *Workflow) {
	if s.byName == nil {
		s.byName = make(map[string]*Workflow)
	}
	s.byName[wf.Name] = wf
	s.order = append(s.order, wf.Name)
}

// ConfigError reports an orchestration config problem found at load time.
type ConfigError struct {
	Section string
	Name    string
	Detail  string
}

func (e *ConfigError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("config: %s %q: %s", e.Section, e.Name, e.Detail)
	}
	return fmt.Sprintf("config: %s: %s", e.Section, e.Detail)
}

// Validate compiles agent patterns and rejects dangling references before
// the engine accepts any work. Invalid regexes and steps naming undefined
// agents fail here rather than surfacing mid-route.
func (c *OrchestrationConfig) Validate() error {
	for _, name := range c.Agents.Names() {
		agent := c.Agents.Get(name)
		agent.Compiled = agent.Compiled[:0]
		for _, p := range agent.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return &ConfigError{Section: "agent", Name: name, Detail: fmt.Sprintf("invalid pattern %q: %v", p, err)}
			}
			agent.Compiled = append(agent.Compiled, re)
		}
	}

	for _, name := range c.Workflows.Names() {
		wf := c.Workflows.Get(name)
		for i, step := range wf.Steps {
			if step.Agent == "" {
				return &ConfigError{Section: "workflow", Name: name, Detail: fmt.Sprintf("step %d has no agent", i)}
			}
			if c.Agents.Get(step.Agent) == nil {
				return &ConfigError{Section: "workflow", Name: name, Detail: fmt.Sprintf("step %d references undefined agent %q", i, step.Agent)}
			}
		}
	}

	if fb := c.Routing.Fallback; fb != "" && c.Agents.Get(fb) == nil {
		return &ConfigError{Section: "routing", Detail: fmt.Sprintf("fallback references undefined agent %q", fb)}
	}
	if c.Routing.ParallelExecution.MaxAgents < 0 {
		return &ConfigError{Section: "routing", Detail: "parallel_execution.max_agents must not be negative"}
	}

	for agent := range c.Dispatch {
		if c.Agents.Get(agent) == nil {
			return &ConfigError{Section: "dispatch", Name: agent, Detail: "references undefined agent"}
		}
	}

	return nil
}

// LoadOrchestration reads and validates an orchestration config file.
func LoadOrchestration(path string) (*OrchestrationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg OrchestrationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultOrchestration returns the built-in studio configuration.
func DefaultOrchestration() *OrchestrationConfig {
	cfg := &OrchestrationConfig{
		Routing: RoutingPolicy{
			Fallback: "coder",
			Keywords: KeywordTaxonomy{
				Groups: []KeywordGroup{
					{Category: "feature", Terms: []string{"feature", "mechanic", "gameplay", "ability"}},
					{Category: "level", Terms: []string{"level", "map", "layout", "terrain"}},
					{Category: "audio", Terms: []string{"sound", "music", "sfx", "audio"}},
					{Category: "polish", Terms: []string{"polish", "juice", "particle", "tween"}},
				},
			},
			ParallelExecution: ParallelPolicy{Enabled: true, MaxAgents: 3},
		},
		QualityGates: map[string]GateSpec{
			"implementation": {Checks: []string{
				"pattern_compliance",
				"naming_conventions",
				"import_structure",
				"documentation",
				"event_consistency",
			}},
			"testing": {Checks: []string{"test_coverage"}},
		},
		Dispatch: map[string]DispatchTarget{
			"game-designer":  {Adapter: "anthropic", Model: "claude-opus-4-20250514"},
			"coder":          {Adapter: "anthropic", Model: "claude-sonnet-4-20250514"},
			"level-designer": {Adapter: "openai", Model: "gpt-5.2-instant"},
			"audio-engineer": {Adapter: "google", Model: "gemini-2.0-pro"},
			"reviewer":       {Adapter: "anthropic", Model: "claude-opus-4-20250514"},
			"tester":         {Adapter: "deepseek", Model: "deepseek-coder"},
		},
	}

	cfg.Agents.add(&AgentProfile{
		Name:     "game-designer",
		Patterns: []string{`design`, `balanc(e|ing)`, `progression`, `difficulty`},
		Triggers: []string{"concept", "idea", "spec"},
	})
	cfg.Agents.add(&AgentProfile{
		Name:     "coder",
		Patterns: []string{`mechanic`, `physics`, `collision`, `gameplay`},
		Triggers: []string{"implement", "build", "code", "fix"},
	})
	cfg.Agents.add(&AgentProfile{
		Name:     "level-designer",
		Patterns: []string{`level`, `map`, `tile(map|set)`, `spawn`},
		Triggers: []string{"layout", "place", "terrain"},
	})
	cfg.Agents.add(&AgentProfile{
		Name:     "audio-engineer",
		Patterns: []string{`sound`, `music`, `audio`, `volume`},
		Triggers: []string{"sfx", "jingle", "mute"},
	})
	cfg.Agents.add(&AgentProfile{
		Name:     "reviewer",
		Patterns: []string{`review`, `refactor`, `clean ?up`},
		Triggers: []string{"audit", "check", "verify"},
	})
	cfg.Agents.add(&AgentProfile{
		Name:     "tester",
		Patterns: []string{`test`, `regression`, `playtest`},
		Triggers: []string{"qa", "coverage", "broken"},
	})

	cfg.Workflows.add(&Workflow{
		Name: "feature-development",
		Steps: []WorkflowStep{
			{Phase: "design", Agent: "game-designer", Actions: []string{"draft-spec", "balance-pass"}},
			{Phase: "implementation", Agent: "coder", Actions: []string{"write-code", "wire-events"}},
			{Phase: "level-integration", Agent: "level-designer", Actions: []string{"place-entities"}, Condition: "level-design"},
			{Phase: "review", Agent: "reviewer", Actions: []string{"code-review"}},
			{Phase: "testing", Agent: "tester", Actions: []string{"playtest", "regression-suite"}},
		},
	})
	cfg.Workflows.add(&Workflow{
		Name: "content-drop",
		Steps: []WorkflowStep{
			{Phase: "layout", Agent: "level-designer", Actions: []string{"block-out", "decorate"}},
			{Phase: "audio", Agent: "audio-engineer", Actions: []string{"score-scene"}, Condition: "sound-pass"},
			{Phase: "review", Agent: "reviewer", Actions: []string{"content-review"}},
		},
	})

	if err := cfg.Validate(); err != nil {
		// The built-in config is fixed at compile time; a validation
		// failure here is a programming error.
		panic(err)
	}
	return cfg
}

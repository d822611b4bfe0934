package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/emberworks/taskgate/pkg/adapter"
	"github.com/emberworks/taskgate/pkg/config"
	"github.com/emberworks/taskgate/pkg/gate"
	"github.com/emberworks/taskgate/pkg/router"
)

var (
	configFile  string
	adapterFlag string
	modelFlag   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskgate",
		Short: "Task routing and quality gates for the studio agent fleet",
		Long: `Taskgate routes free-text development tasks to the named agent or
	workflow best suited to handle them, and validates code snippets
	against per-phase quality gates. Routing is a recommendation only;
	use the dispatch command to actually send a task to a provider.`,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to orchestration config file")

	rootCmd.AddCommand(routeCmd())
	rootCmd.AddCommand(recommendCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(agentsCmd())
	rootCmd.AddCommand(workflowsCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(dispatchCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func routeCmd() *cobra.Command {
	var skipWorkflow bool
	var debugFlag bool

	cmd := &cobra.Command{
		Use:   "route [task]",
		Short: "Route a task description to agents or a workflow",
		Long: `Scores every configured agent against the task text and prints the
	resulting decision as JSON: either a workflow execution plan or a
	primary agent plus supporting agents.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRouter(debugFlag)
			if err != nil {
				return err
			}

			var opts []router.RouteOption
			if skipWorkflow {
				opts = append(opts, router.WithSkipWorkflow())
			}

			decision := r.Route(args[0], opts...)
			return printJSON(decision)
		},
	}

	cmd.Flags().BoolVar(&skipWorkflow, "skip-workflow", false, "assign agents even when a workflow matches")
	cmd.Flags().BoolVar(&debugFlag, "debug", false, "log routing internals")

	return cmd
}

func recommendCmd() *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "recommend [task]",
		Short: "Print a human-readable routing recommendation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRouter(false)
			if err != nil {
				return err
			}

			rec := r.Recommend(args[0])
			if jsonFlag {
				return printJSON(rec)
			}

			fmt.Println(rec.Text)
			fmt.Printf("Confidence: %.1f\n", rec.Confidence)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "print the full recommendation as JSON")

	return cmd
}

func checkCmd() *cobra.Command {
	var phase string

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Run the quality gate for a phase against code text",
		Long: `Evaluates the named phase's quality checks against the given file,
	or stdin when no file is given. Exits non-zero when any check fails.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if phase == "" {
				return fmt.Errorf("--phase is required")
			}

			var code []byte
			var err error
			if len(args) == 1 {
				code, err = os.ReadFile(args[0])
			} else {
				code, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return fmt.Errorf("failed to read code: %w", err)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			result := gate.NewEvaluator(cfg.Orchestration).Evaluate(phase, string(code))
			for _, check := range result.Checks {
				status := "PASS"
				if !check.Passed {
					status = "FAIL"
				}
				fmt.Printf("%s  %-20s %s\n", status, check.Check, check.Message)
			}

			if !result.Passed {
				return fmt.Errorf("quality gate %q failed", phase)
			}
			if len(result.Checks) == 0 {
				fmt.Printf("No gate configured for phase %q; passing by default.\n", phase)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&phase, "phase", "", "development phase whose gate to run (required)")

	return cmd
}

func agentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "Show configured agents and their matching rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			orch := cfg.Orchestration

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "AGENT\tPATTERNS\tTRIGGERS\tDISPATCH")

			for _, name := range orch.Agents.Names() {
				agent := orch.Agents.Get(name)
				dispatch := "-"
				if target, ok := orch.Dispatch[name]; ok {
					dispatch = target.Adapter + "/" + target.Model
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					name,
					strings.Join(agent.Patterns, ", "),
					strings.Join(agent.Triggers, ", "),
					dispatch)
			}

			fmt.Fprintln(w)
			fmt.Fprintf(w, "FALLBACK\t%s\t-\t-\n", orch.Routing.Fallback)

			return w.Flush()
		},
	}
}

func workflowsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workflows",
		Short: "Show configured workflows and their steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			orch := cfg.Orchestration

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "WORKFLOW\tPHASE\tAGENT\tCONDITION")

			for _, name := range orch.Workflows.Names() {
				wf := orch.Workflows.Get(name)
				for i, step := range wf.Steps {
					label := ""
					if i == 0 {
						label = name
					}
					condition := step.Condition
					if condition == "" {
						condition = "-"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", label, step.Phase, step.Agent, condition)
				}
			}

			return w.Flush()
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [orchestration.yaml]",
		Short: "Validate an orchestration config file",
		Long:  "Compiles agent patterns and checks workflow references without routing anything.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.LoadOrchestration(args[0]); err != nil {
				return err
			}
			fmt.Println("Orchestration config is valid.")
			return nil
		},
	}
}

func dispatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dispatch [task]",
		Short: "Route a task and send it to the primary agent's provider",
		Long: `Routes the task (skipping workflow selection), resolves the primary
	agent's dispatch target from the config, and sends the task text to
	that provider. Use --adapter and --model to override the target.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			r := router.NewRouter(cfg.Orchestration)
			decision := r.Route(task, router.WithSkipWorkflow())
			if len(decision.Assignments) == 0 {
				return fmt.Errorf("no agent resolved for task")
			}
			agent := decision.Assignments[0].Agent

			adapterName := adapterFlag
			model := modelFlag
			if adapterName == "" {
				target, ok := cfg.Orchestration.Dispatch[agent]
				if !ok {
					return fmt.Errorf("agent %q has no dispatch target; use --adapter and --model", agent)
				}
				adapterName = target.Adapter
				if model == "" {
					model = target.Model
				}
			}

			adapters, err := createAdapters(cfg)
			if err != nil {
				return err
			}
			backend, ok := adapters[adapterName]
			if !ok {
				return fmt.Errorf("adapter %q not available (missing API key?)", adapterName)
			}
			if model == "" {
				if models := backend.Models(); len(models) > 0 {
					model = models[0]
				}
			}

			fmt.Fprintf(os.Stderr, "Dispatching to %s via %s/%s\n", agent, adapterName, model)

			resp, err := backend.Generate(context.Background(), model, task)
			if err != nil && adapter.IsTransient(err) {
				resp, err = backend.Generate(context.Background(), model, task)
			}
			if err != nil {
				return err
			}

			fmt.Println(resp.Content)
			return nil
		},
	}

	cmd.Flags().StringVar(&adapterFlag, "adapter", "", "override adapter (anthropic, openai, google, deepseek, mock)")
	cmd.Flags().StringVar(&modelFlag, "model", "", "override model")

	return cmd
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadWithOrchestrationFile(configFile)
	}
	return config.Load()
}

func newRouter(debug bool) (*router.Router, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return router.NewRouter(cfg.Orchestration, router.WithDebug(debug)), nil
}

func createAdapters(cfg *config.Config) (map[string]adapter.Adapter, error) {
	adapters := make(map[string]adapter.Adapter)

	if cfg.AnthropicAPIKey != "" {
		a, err := adapter.NewAnthropicAdapter(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create anthropic adapter: %w", err)
		}
		adapters["anthropic"] = a
	}

	if cfg.OpenAIAPIKey != "" {
		a, err := adapter.NewOpenAIAdapter(cfg.OpenAIAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai adapter: %w", err)
		}
		adapters["openai"] = a
	}

	if cfg.GoogleAPIKey != "" {
		a, err := adapter.NewGoogleAdapter(cfg.GoogleAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create google adapter: %w", err)
		}
		adapters["google"] = a
	}

	if cfg.DeepSeekAPIKey != "" {
		a, err := adapter.NewDeepSeekAdapter(cfg.DeepSeekAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create deepseek adapter: %w", err)
		}
		adapters["deepseek"] = a
	}

	adapters["mock"] = adapter.NewMockAdapter()

	return adapters, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harshitk-cp/logoslab/internal/api"
	"github.com/Harshitk-cp/logoslab/internal/buildconfig"
	"github.com/Harshitk-cp/logoslab/internal/config"
	"github.com/Harshitk-cp/logoslab/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose         bool
	assumptionsPath string
	factsPath       string
	maxPasses       int

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "logoslab",
	Short: "logoslab - forward-chaining three-valued reasoning engine",
	Long: `logoslab loads propositions and rules into a knowledge base and
derives new truth values by forward chaining (modus ponens, modus
tollens, hypothetical syllogism, disjunctive syllogism, resolution).

Every derived value carries provenance, and conflicting derivations
are recorded rather than silently discarded.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// deduceCmd loads rulesets and runs inference to a fixed point
var deduceCmd = &cobra.Command{
	Use:   "deduce",
	Short: "Load rulesets and derive all truth values",
	Long: `Loads the assumptions and facts files into a fresh knowledge base,
runs forward chaining until no rule fires, and prints the resulting
truth value of every proposition.

Example:
  logoslab deduce --assumptions rules.txt --facts facts.txt`,
	RunE: runDeduce,
}

// traceCmd prints the derivation chain for one proposition
var traceCmd = &cobra.Command{
	Use:   "trace [name]",
	Short: "Show how a proposition's value was derived",
	Long: `Loads the rulesets, deduces, then walks the provenance chain of the
named proposition from conclusion back to axioms.

Example:
  logoslab trace socrates_mortal --assumptions rules.txt --facts facts.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runTrace,
}

// evalCmd evaluates a standalone expression against the loaded knowledge base
var evalCmd = &cobra.Command{
	Use:   "eval [expression]",
	Short: "Evaluate a logical expression",
	Long: `Evaluates an expression such as "a && (b || !c)" against the
knowledge base built from the ruleset files (if given) and prints
the three-valued result.

Example:
  logoslab eval "rain -> wet" --facts facts.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Starts the HTTP server, optionally pre-loading the knowledge base
from the ruleset files before accepting requests.

Example:
  logoslab serve --assumptions rules.txt --facts facts.txt`,
	RunE: runServe,
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := buildconfig.VersionInfo()
		fmt.Printf("logoslab %s (commit %s)\n", info["version"], info["commit"])
	},
}

func newLoadedService() (*service.ReasonService, error) {
	svc := service.NewReasonService(logger)
	if maxPasses > 0 {
		svc.SetMaxPasses(maxPasses)
	}

	if assumptionsPath != "" {
		data, err := os.ReadFile(assumptionsPath)
		if err != nil {
			return nil, fmt.Errorf("read assumptions: %w", err)
		}
		if err := svc.LoadAssumptions(string(data)); err != nil {
			return nil, fmt.Errorf("parse assumptions: %w", err)
		}
	}

	if factsPath != "" {
		data, err := os.ReadFile(factsPath)
		if err != nil {
			return nil, fmt.Errorf("read facts: %w", err)
		}
		if err := svc.LoadFacts(string(data)); err != nil {
			return nil, fmt.Errorf("parse facts: %w", err)
		}
	}

	return svc, nil
}

func runDeduce(cmd *cobra.Command, args []string) error {
	svc, err := newLoadedService()
	if err != nil {
		return err
	}

	result, err := svc.Deduce()
	if err != nil {
		return fmt.Errorf("deduce: %w", err)
	}

	for _, prop := range svc.List() {
		marker := " "
		if prop.HasConflicts() {
			marker = "!"
		}
		fmt.Printf("%s %-30s %s\n", marker, prop.Name, prop.Value)
	}

	fmt.Printf("\n%d changed, %d conflicts\n", result.Changed, result.Conflicts)
	return nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	name := args[0]

	svc, err := newLoadedService()
	if err != nil {
		return err
	}

	if _, err := svc.Deduce(); err != nil {
		return fmt.Errorf("deduce: %w", err)
	}

	steps := svc.Trace(name)
	if len(steps) == 0 {
		return fmt.Errorf("no proposition named %q", name)
	}

	for _, step := range steps {
		indent := ""
		for i := 0; i < step.Depth; i++ {
			indent += "  "
		}
		if len(step.Premises) == 0 {
			fmt.Printf("%s%s = %s [%s]\n", indent, step.Name, step.Value, step.Rule)
			continue
		}
		fmt.Printf("%s%s = %s [%s from %v]\n", indent, step.Name, step.Value, step.Rule, step.Premises)
	}
	return nil
}

func runEval(cmd *cobra.Command, args []string) error {
	svc, err := newLoadedService()
	if err != nil {
		return err
	}

	value, err := svc.Evaluate(args[0])
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	fmt.Println(value)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	svc, err := newLoadedService()
	if err != nil {
		return err
	}
	if maxPasses <= 0 {
		svc.SetMaxPasses(config.MaxPasses())
	}

	app := api.NewApp(svc, logger)

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:    addr,
		Handler: app.Router,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&assumptionsPath, "assumptions", "a", "", "path to assumptions ruleset file")
	rootCmd.PersistentFlags().StringVarP(&factsPath, "facts", "f", "", "path to facts file")
	rootCmd.PersistentFlags().IntVar(&maxPasses, "max-passes", 0, "cap on inference passes (0 = default)")

	rootCmd.AddCommand(deduceCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

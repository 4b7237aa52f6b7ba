// investmodel: investment valuation, scenario and Monte Carlo engine.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CliffordWilsonK/InvestmentModellingApp/internal/config"
	"github.com/CliffordWilsonK/InvestmentModellingApp/internal/engine"
	"github.com/CliffordWilsonK/InvestmentModellingApp/internal/logging"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global state, populated by PersistentPreRunE.
var (
	cfg     *config.Config
	cfgFile string
	logger  *zap.Logger
	eng     *engine.Engine
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "investmodel",
	Short: "Investment valuation engine",
	Long: `investmodel values a capital project from its parameters:
NPV, IRR, payback, ROI and EBITDA margin, best/base/worst scenarios,
Monte Carlo NPV distributions, and pro-forma financial statements.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfgFile, _ = cmd.Flags().GetString("config")
		if cfgFile != "" {
			cfg, err = config.LoadFromFile(cfgFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		if out, _ := cmd.Flags().GetString("output"); out != "" {
			cfg.Output.Format = out
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		eng = engine.New(engine.Config{Defaults: cfg.Engine, Logger: logger})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format override (text, json, yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(montecarloCmd)
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "investmodel %s\n", version)
		fmt.Fprintf(out, "  commit:  %s\n", commit)
		fmt.Fprintf(out, "  built:   %s\n", date)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and where each setting came from",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "═══════════════════════════════════════")
		fmt.Fprintln(out, "  investmodel — Status")
		fmt.Fprintln(out, "═══════════════════════════════════════")
		fmt.Fprintf(out, "  Version:       %s (%s)\n", version, commit)
		fmt.Fprintln(out)

		fmt.Fprintln(out, "  Engine:")
		fmt.Fprintf(out, "    Iterations:    %d (max %d)\n", cfg.Engine.DefaultIterations, cfg.Engine.MaxIterations)
		fmt.Fprintf(out, "    Workers:       %s\n", workersLabel(cfg.Engine.Workers))
		fmt.Fprintf(out, "    Seed:          %s\n", seedLabel(cfg.Engine.Seed))
		fmt.Fprintf(out, "    API Server:    %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Fprintln(out)

		statuses, err := config.Sources(cfgFile)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "  Settings:")
		for _, s := range statuses {
			src := string(s.Source)
			if s.Source == config.SourceEnv {
				src = "env " + s.EnvVar
			}
			fmt.Fprintf(out, "    %-28s %-24s %s\n", s.Key+":", s.Value, src)
		}
		fmt.Fprintln(out, "═══════════════════════════════════════")
		return nil
	},
}

func workersLabel(n int) string {
	if n <= 0 {
		return "GOMAXPROCS"
	}
	return fmt.Sprint(n)
}

func seedLabel(seed int64) string {
	if seed == 0 {
		return "random"
	}
	return fmt.Sprint(seed)
}

// --- Config Command ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		if path == "" {
			path = config.DefaultFilePath()
		}
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := config.SaveToFile(cfg, path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().String("path", "", "destination (default: ~/.investmodel/config.yaml)")
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
}

// cmd/root.go
package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hansungk/netsim-go/sim"
)

var (
	configPath string
	debugFlag  bool
	metricsOut string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "netsim",
	Short: "Cycle-accurate simulator for packet-switched interconnection networks",
}

var runCmd = &cobra.Command{
	Use:   "run [[debug] TERMINALS ROUTERS RADIX]",
	Short: "Run a simulation",
	Long: `Run a simulation either from a config file (--config) or from
the legacy positional form "[debug] TERMINALS ROUTERS RADIX", which
builds a ring of that many terminals (ROUTERS must equal TERMINALS and
RADIX must be 3 for a ring).`,
	Args: cobra.MaximumNArgs(4),
	Run:  runRun,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML config file (see sim.RunConfig)")
	runCmd.Flags().BoolVar(&debugFlag, "debug", false, "enter the interactive debugger instead of running to completion")
	runCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "write the final Stats report to this path as YAML")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(routeCmd)
}

func runRun(cmd *cobra.Command, args []string) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)

	cfg, err := resolveRunConfig(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logrus.Infof("starting simulation: topology=%s terminals=%d horizon=%d",
		cfg.Topology, cfg.Terminals, cfg.Horizon)

	s := sim.NewSimulator(cfg)

	var stats sim.Stats
	if cfg.Debug {
		s.RunInteractiveStdio()
		stats = s.Stats()
	} else {
		stats = s.Run(cfg.Horizon)
		stats.Print()
	}
	if metricsOut != "" {
		if err := stats.WriteYAML(metricsOut); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	logrus.Info("simulation complete")
}

// resolveRunConfig layers the legacy positional form and --config/--debug
// flags onto sim.DefaultConfig, the same precedence the teacher's
// cmd/root.go gives cobra flags over baked-in defaults.
func resolveRunConfig(args []string) (sim.RunConfig, error) {
	var cfg sim.RunConfig
	var err error
	if configPath != "" {
		cfg, err = sim.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
	} else {
		cfg = sim.DefaultConfig()
	}

	if len(args) > 0 {
		cfg, err = applyPositionalArgs(cfg, args)
		if err != nil {
			return cfg, err
		}
	}
	if debugFlag {
		cfg.Debug = true
	}
	return cfg, cfg.Validate()
}

// applyPositionalArgs maps the legacy "sim [debug] TERMINALS ROUTERS
// RADIX" form onto a ring topology of TERMINALS terminals: ROUTERS must
// equal TERMINALS (one router per terminal in a ring) and RADIX must be
// 3 (two ring neighbors plus the terminal port), matching the reference
// implementation's fixed 4-ring shape generalized to arbitrary size.
func applyPositionalArgs(cfg sim.RunConfig, args []string) (sim.RunConfig, error) {
	if len(args) > 0 && args[0] == "debug" {
		cfg.Debug = true
		args = args[1:]
	}
	if len(args) != 3 {
		return cfg, fmt.Errorf("netsim: positional form needs TERMINALS ROUTERS RADIX, got %d args", len(args))
	}

	terminals, err := strconv.Atoi(args[0])
	if err != nil {
		return cfg, fmt.Errorf("netsim: bad TERMINALS %q: %w", args[0], err)
	}
	routers, err := strconv.Atoi(args[1])
	if err != nil {
		return cfg, fmt.Errorf("netsim: bad ROUTERS %q: %w", args[1], err)
	}
	radix, err := strconv.Atoi(args[2])
	if err != nil {
		return cfg, fmt.Errorf("netsim: bad RADIX %q: %w", args[2], err)
	}
	if routers != terminals {
		return cfg, fmt.Errorf("netsim: ring topology needs ROUTERS == TERMINALS, got routers=%d terminals=%d", routers, terminals)
	}
	if radix != 3 {
		return cfg, fmt.Errorf("netsim: ring topology needs RADIX == 3, got %d", radix)
	}

	cfg.Topology = "ring"
	cfg.Terminals = terminals
	return cfg, nil
}
